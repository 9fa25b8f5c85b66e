package feevote

import (
	"strconv"

	"github.com/liamzebedee/feevote-go/core"
)

// Drops is an amount in the ledger's smallest currency unit.
type Drops uint64

// Normalize converts a raw drops value of parameter p into its display unit.
// The base fee is shown in drops, the reserves in XRP.
func Normalize(value Drops, p Parameter) float64 {
	switch p {
	case ReserveBase, ReserveIncrement:
		return float64(value) / core.ONE_XRP
	default:
		return float64(value)
	}
}

// Format renders a drops value of parameter p as an exact decimal in its display unit.
func Format(value Drops, p Parameter) string {
	switch p {
	case ReserveBase, ReserveIncrement:
		return core.DropsToXRP(uint64(value))
	default:
		return strconv.FormatUint(uint64(value), 10)
	}
}
