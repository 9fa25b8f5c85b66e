package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ONE_XRP is the number of drops in one XRP.
// XRP amounts are fixed-precision - they have 6 decimal places.
// 1 XRP = 1 * 10^6 = 1 000 000 drops
const ONE_XRP = 1_000_000

const xrpDecimals = 6

// ErrValueParse is returned when a numeric amount cannot be read.
var ErrValueParse = errors.New("value parse error")

// XRPToDrops converts a decimal XRP amount (eg. "0.00001", "10") to drops.
// Amounts that are negative, exceed uint64, or carry sub-drop precision are rejected.
func XRPToDrops(xrp string) (uint64, error) {
	s := strings.TrimSpace(xrp)
	if s == "" {
		return 0, fmt.Errorf("%w: invalid XRP amount %q", ErrValueParse, xrp)
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid XRP amount %q", ErrValueParse, xrp)
	}
	if amount.IsNegative() {
		return 0, fmt.Errorf("%w: negative XRP amount %q", ErrValueParse, xrp)
	}

	drops := amount.Shift(xrpDecimals)
	if !drops.IsInteger() {
		return 0, fmt.Errorf("%w: XRP amount %q has more than %d decimal places", ErrValueParse, xrp, xrpDecimals)
	}
	n := drops.BigInt()
	if !n.IsUint64() {
		return 0, fmt.Errorf("%w: XRP amount %q out of range", ErrValueParse, xrp)
	}
	return n.Uint64(), nil
}

// DropsToXRP formats a drops amount as a decimal XRP string, without trailing zeros.
func DropsToXRP(drops uint64) string {
	return decimal.NewFromUint64(drops).Shift(-xrpDecimals).String()
}

// ParseDrops reads an integer drops amount.
func ParseDrops(s string) (uint64, error) {
	drops, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid drops amount %q", ErrValueParse, s)
	}
	return drops, nil
}
