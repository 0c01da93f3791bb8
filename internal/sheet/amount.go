package sheet

import (
	"math"
	"strconv"
	"strings"
)

// Workshop business constants: every print carries the same fixed cost and
// the workshop keeps half of what remains.
const (
	FixedCost  = 3.00
	MarginRate = 0.50
)

// ParseAmount normalizes a locale-formatted currency string ("9,40 €",
// "1.234,56", " 12.50") into a numeric amount. Everything that is not a
// digit, comma, period or minus sign is stripped; when a comma is present it
// is taken as the decimal separator and periods as thousands separators.
// Anything unparseable, non-finite or negative comes out as 0.
func ParseAmount(raw string) float64 {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9', r == ',', r == '.', r == '-':
			b.WriteRune(r)
		}
	}

	s := b.String()
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// Profit derives the per-order profit from a normalized amount:
// max(0, (amount - FixedCost) * MarginRate).
func Profit(amount float64) float64 {
	p := (amount - FixedCost) * MarginRate
	if p < 0 {
		return 0
	}
	return p
}
