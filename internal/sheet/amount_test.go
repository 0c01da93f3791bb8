package sheet

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"euro with comma decimal", "9,40 €", 9.40},
		{"plain period decimal", "12.50", 12.50},
		{"thousands separator", "1.234,56 €", 1234.56},
		{"leading currency symbol", "€ 25,00", 25.00},
		{"whitespace", "  8,00  ", 8.00},
		{"integer", "15", 15},
		{"empty", "", 0},
		{"garbage", "gratuit", 0},
		{"negative clamped", "-5,00 €", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseAmount(tt.raw), 1e-9)
		})
	}
}

// A normalized amount re-serialized with a period decimal separator must
// parse back to itself.
func TestParseAmount_Idempotent(t *testing.T) {
	for _, raw := range []string{"9,40 €", "1.234,56", "0", "15", "3.50"} {
		v := ParseAmount(raw)
		again := ParseAmount(strconv.FormatFloat(v, 'f', -1, 64))
		assert.Equal(t, v, again, "raw=%q", raw)
	}
}

func TestProfit(t *testing.T) {
	assert.Equal(t, 0.0, Profit(0))
	assert.Equal(t, 0.0, Profit(3.00))
	assert.Equal(t, 5.00, Profit(13.00))
	assert.InDelta(t, 3.50, Profit(10.00), 1e-9)
	assert.Equal(t, 0.0, Profit(1.50))
}
