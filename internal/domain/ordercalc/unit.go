package ordercalc

import "github.com/shopspring/decimal"

// Unit is a canonical measuring unit. Quantities may only be aggregated and
// compared within the same canonical unit.
type Unit string

const (
	UnitMeter    Unit = "METER"    // length (fabric rolls sold by the meter)
	UnitKilogram Unit = "KILOGRAM" // weight (fabric rolls sold by weight)
	UnitPiece    Unit = "PIECE"    // discrete count
	UnitGeneric  Unit = "UNIT"     // batch-tracked generic count
)

// IsValid checks if the unit is one of the canonical units
func (u Unit) IsValid() bool {
	switch u {
	case UnitMeter, UnitKilogram, UnitPiece, UnitGeneric:
		return true
	}
	return false
}

// String returns the string representation of the unit
func (u Unit) String() string {
	return string(u)
}

// IsCountable returns true for the count-like units, the only ones whose
// abbreviation pluralizes
func (u Unit) IsCountable() bool {
	return u == UnitPiece || u == UnitGeneric
}

// StockClassification describes how a product's stock is kept. Some
// classifications are inherently counted, so a stale stored unit must not
// leak into aggregation.
type StockClassification string

const (
	StockRoll  StockClassification = "ROLL"  // continuous fabric, measured in the product's stored unit
	StockPiece StockClassification = "PIECE" // cut pieces / garments, always counted
	StockBatch StockClassification = "BATCH" // batch-labelled lots, counted in generic units
)

// IsValid checks if the classification is known
func (c StockClassification) IsValid() bool {
	switch c {
	case StockRoll, StockPiece, StockBatch:
		return true
	}
	return false
}

// CanonicalUnit resolves the unit a product's quantities are kept in.
// Piece-like stock is always counted in pieces and batch-like stock in
// generic units, regardless of whatever unit happens to be stored on the
// product row. Continuous stock uses the stored unit, falling back to pieces
// when the stored unit is absent or unknown.
func CanonicalUnit(classification StockClassification, stored Unit) Unit {
	switch classification {
	case StockPiece:
		return UnitPiece
	case StockBatch:
		return UnitGeneric
	}
	if stored.IsValid() {
		return stored
	}
	return UnitPiece
}

var unitAbbreviations = map[Unit]string{
	UnitMeter:    "m",
	UnitKilogram: "kg",
	UnitPiece:    "pc",
	UnitGeneric:  "unit",
}

var unitPlurals = map[Unit]string{
	UnitPiece:   "pcs",
	UnitGeneric: "units",
}

// Abbreviation returns the display abbreviation for the unit. Unknown units
// fall back to the piece abbreviation rather than failing.
func (u Unit) Abbreviation() string {
	if abbr, ok := unitAbbreviations[u]; ok {
		return abbr
	}
	return unitAbbreviations[UnitPiece]
}

// FormatQuantity renders a quantity with the unit's abbreviation, switching
// to the plural form for count-like units when the quantity is not exactly 1.
// Physical units (meter, kilogram) never pluralize.
func (u Unit) FormatQuantity(quantity decimal.Decimal) string {
	return quantity.String() + " " + u.AbbreviationFor(quantity)
}

// AbbreviationFor returns the abbreviation appropriate for the quantity
func (u Unit) AbbreviationFor(quantity decimal.Decimal) string {
	if u.IsCountable() && !quantity.Equal(decimal.New(1, 0)) {
		return unitPlurals[u]
	}
	return u.Abbreviation()
}
