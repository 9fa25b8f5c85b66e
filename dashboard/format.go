package dashboard

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// formatValue renders a display value with thousands separators and at most 6 decimals.
func formatValue(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	whole := math.Trunc(v)
	frac := strconv.FormatFloat(v-whole, 'f', 6, 64)
	if strings.HasPrefix(frac, "1") {
		whole++
		frac = "0"
	}
	frac = strings.TrimRight(strings.TrimPrefix(frac, "0"), "0")
	if frac == "." {
		frac = ""
	}

	return sign + printer.Sprintf("%d", int64(whole)) + frac
}

func formatCount(n int) string {
	return printer.Sprintf("%d", n)
}

func timeAgo(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	duration := time.Since(t)
	switch {
	case duration < time.Minute:
		return fmt.Sprintf("%d seconds ago", int(duration.Seconds()))
	case duration < time.Hour:
		return fmt.Sprintf("%d minutes ago", int(duration.Minutes()))
	case duration < time.Hour*24:
		return fmt.Sprintf("%d hours ago", int(duration.Hours()))
	default:
		return fmt.Sprintf("%d days ago", int(duration.Hours()/24))
	}
}

func formatTimestamp(t time.Time) string {
	return t.Format("02 Jan 2006 15:04:05 MST")
}

// shortKey abbreviates a validator master key for tables and tooltips.
func shortKey(key string) string {
	if len(key) <= 12 {
		return key
	}
	return key[:6] + "…" + key[len(key)-4:]
}
