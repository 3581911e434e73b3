package dashboard

import (
	"fmt"
	"math"
)

// FormatMagnitude formats an OI/volume magnitude with Indian-market
// suffixes: Cr (1e7), L (1e5), K (1e3). Negative input formats its
// absolute magnitude with the sign preserved; upstream guarantees
// non-negative OI and volume, so that path exists only for totality.
func FormatMagnitude(n float64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	switch {
	case n >= 1e7:
		return fmt.Sprintf("%s%.1fCr", sign, n/1e7)
	case n >= 1e5:
		return fmt.Sprintf("%s%.1fL", sign, n/1e5)
	case n >= 1e3:
		return fmt.Sprintf("%s%.1fK", sign, n/1e3)
	default:
		return fmt.Sprintf("%s%.0f", sign, n)
	}
}

// FormatSignedMagnitude is FormatMagnitude with a "+" prefix for strictly
// positive values, used for change-in-OI cells.
func FormatSignedMagnitude(n float64) string {
	if n > 0 {
		return "+" + FormatMagnitude(n)
	}
	return FormatMagnitude(n)
}

// FormatPrice formats a price level, or "-" when unset.
func FormatPrice(p float64) string {
	if p == 0 || p == math.MaxFloat64 {
		return "-"
	}
	return fmt.Sprintf("%.2f", p)
}

// FormatStrike renders a strike label without trailing decimals when the
// strike is whole, which is also the label the chain filter matches on.
func FormatStrike(strike float64) string {
	if strike == math.Trunc(strike) {
		return fmt.Sprintf("%.0f", strike)
	}
	return fmt.Sprintf("%.2f", strike)
}

// FormatPercent renders a signed percentage with two decimals.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%+.2f%%", pct)
}

// FormatRatio renders a unitless ratio with two decimals.
func FormatRatio(r float64) string {
	return fmt.Sprintf("%.2f", r)
}
