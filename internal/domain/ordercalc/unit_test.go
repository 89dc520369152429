package ordercalc

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCanonicalUnit(t *testing.T) {
	tests := []struct {
		name           string
		classification StockClassification
		stored         Unit
		expected       Unit
	}{
		{"piece stock overrides stored meter", StockPiece, UnitMeter, UnitPiece},
		{"piece stock overrides stored kilogram", StockPiece, UnitKilogram, UnitPiece},
		{"piece stock with empty stored unit", StockPiece, "", UnitPiece},
		{"batch stock overrides stored unit", StockBatch, UnitMeter, UnitGeneric},
		{"batch stock with empty stored unit", StockBatch, "", UnitGeneric},
		{"roll stock keeps stored meter", StockRoll, UnitMeter, UnitMeter},
		{"roll stock keeps stored kilogram", StockRoll, UnitKilogram, UnitKilogram},
		{"roll stock with empty stored unit defaults to piece", StockRoll, "", UnitPiece},
		{"roll stock with unknown stored unit defaults to piece", StockRoll, Unit("YARD"), UnitPiece},
		{"unknown classification keeps stored unit", StockClassification("X"), UnitKilogram, UnitKilogram},
		{"unknown classification without stored unit", StockClassification("X"), "", UnitPiece},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanonicalUnit(tt.classification, tt.stored))
		})
	}
}

func TestUnit_Abbreviation(t *testing.T) {
	// Every canonical unit must have a non-empty abbreviation
	for _, u := range []Unit{UnitMeter, UnitKilogram, UnitPiece, UnitGeneric} {
		assert.NotEmpty(t, u.Abbreviation(), "unit %s", u)
	}

	assert.Equal(t, "m", UnitMeter.Abbreviation())
	assert.Equal(t, "kg", UnitKilogram.Abbreviation())
	assert.Equal(t, "pc", UnitPiece.Abbreviation())
	assert.Equal(t, "unit", UnitGeneric.Abbreviation())

	// Unknown units fall back to the piece abbreviation rather than failing
	assert.Equal(t, "pc", Unit("FURLONG").Abbreviation())
	assert.Equal(t, "pc", Unit("").Abbreviation())
}

func TestUnit_AbbreviationFor_Pluralization(t *testing.T) {
	one := decimal.NewFromInt(1)
	two := decimal.NewFromInt(2)

	// Only the two count-like units pluralize
	for _, u := range []Unit{UnitMeter, UnitKilogram, UnitPiece, UnitGeneric} {
		singular := u.AbbreviationFor(one)
		plural := u.AbbreviationFor(two)
		if u.IsCountable() {
			assert.NotEqual(t, singular, plural, "unit %s should pluralize", u)
		} else {
			assert.Equal(t, singular, plural, "unit %s should not pluralize", u)
		}
	}

	assert.Equal(t, "pcs", UnitPiece.AbbreviationFor(two))
	assert.Equal(t, "pc", UnitPiece.AbbreviationFor(one))
	assert.Equal(t, "units", UnitGeneric.AbbreviationFor(decimal.Zero))
	assert.Equal(t, "unit", UnitGeneric.AbbreviationFor(one))

	// Quantity of exactly 1 is never pluralized; fractional quantities are
	assert.Equal(t, "pcs", UnitPiece.AbbreviationFor(decimal.NewFromFloat(1.5)))
}

func TestUnit_FormatQuantity(t *testing.T) {
	assert.Equal(t, "42.5 m", UnitMeter.FormatQuantity(decimal.NewFromFloat(42.5)))
	assert.Equal(t, "3 pcs", UnitPiece.FormatQuantity(decimal.NewFromInt(3)))
	assert.Equal(t, "1 pc", UnitPiece.FormatQuantity(decimal.NewFromInt(1)))
}

func TestStockClassification_IsValid(t *testing.T) {
	assert.True(t, StockRoll.IsValid())
	assert.True(t, StockPiece.IsValid())
	assert.True(t, StockBatch.IsValid())
	assert.False(t, StockClassification("CARTON").IsValid())
	assert.False(t, StockClassification("").IsValid())
}
