package ordercalc

import "github.com/shopspring/decimal"

// DiscountType determines how an order-level discount is interpreted
type DiscountType string

const (
	DiscountNone       DiscountType = "NONE"
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFixed      DiscountType = "FIXED"
)

// IsValid checks if the discount type is known
func (t DiscountType) IsValid() bool {
	switch t {
	case DiscountNone, DiscountPercentage, DiscountFixed:
		return true
	}
	return false
}

// DiscountPolicy is an order-level discount. Value is a percent for
// PERCENTAGE and an absolute amount for FIXED; it is ignored for NONE.
type DiscountPolicy struct {
	Type  DiscountType
	Value decimal.Decimal
}

// NoDiscount returns the empty discount policy
func NoDiscount() DiscountPolicy {
	return DiscountPolicy{Type: DiscountNone}
}

// TaxType determines which GST components apply
type TaxType string

const (
	TaxNone TaxType = "NO_TAX"
	TaxGST  TaxType = "GST"  // intra-state: rate split evenly between CGST and SGST
	TaxIGST TaxType = "IGST" // inter-state: full rate as IGST
)

// IsValid checks if the tax type is known
func (t TaxType) IsValid() bool {
	switch t {
	case TaxNone, TaxGST, TaxIGST:
		return true
	}
	return false
}

// TaxPolicy is an order-level tax configuration. Rate is a percent,
// e.g. 18 meaning 18%.
type TaxPolicy struct {
	Type TaxType
	Rate decimal.Decimal
}

// NoTax returns the empty tax policy
func NoTax() TaxPolicy {
	return TaxPolicy{Type: TaxNone}
}

// Breakdown is the tax- and discount-adjusted financial summary of an
// order-like document. All fields carry full decimal precision except
// TotalAmount, which lands on a whole currency unit via RoundOff. Rounding
// to two places happens only at the display boundary.
type Breakdown struct {
	ItemTotal      decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxableAmount  decimal.Decimal
	CGST           decimal.Decimal
	SGST           decimal.Decimal
	IGST           decimal.Decimal
	TotalTax       decimal.Decimal
	RoundOff       decimal.Decimal
	TotalAmount    decimal.Decimal
}

var twoHundred = decimal.NewFromInt(200)

// ComputeBreakdown derives the financial breakdown of an order from its item
// total, discount policy, and tax policy.
//
// Fixed discounts are clamped to the item total so the taxable amount can
// never go negative. RoundOff is the signed distance from the exact total
// (taxable + tax) to the nearest whole currency unit, half away from zero.
// Negative or missing rates and values are treated as zero; the function
// never fails.
func ComputeBreakdown(itemTotal decimal.Decimal, discount DiscountPolicy, tax TaxPolicy) Breakdown {
	itemTotal = nonNegative(itemTotal)

	discountAmount := discountAmountFor(itemTotal, discount)
	taxableAmount := itemTotal.Sub(discountAmount)

	var cgst, sgst, igst decimal.Decimal
	rate := nonNegative(tax.Rate)
	switch tax.Type {
	case TaxGST:
		half := taxableAmount.Mul(rate).Div(twoHundred)
		cgst, sgst = half, half
		igst = decimal.Zero
	case TaxIGST:
		igst = taxableAmount.Mul(rate).Div(oneHundred)
		cgst, sgst = decimal.Zero, decimal.Zero
	default:
		cgst, sgst, igst = decimal.Zero, decimal.Zero, decimal.Zero
	}
	totalTax := cgst.Add(sgst).Add(igst)

	exactTotal := taxableAmount.Add(totalTax)
	totalAmount := exactTotal.Round(0)
	roundOff := totalAmount.Sub(exactTotal)

	return Breakdown{
		ItemTotal:      itemTotal,
		DiscountAmount: discountAmount,
		TaxableAmount:  taxableAmount,
		CGST:           cgst,
		SGST:           sgst,
		IGST:           igst,
		TotalTax:       totalTax,
		RoundOff:       roundOff,
		TotalAmount:    totalAmount,
	}
}

func discountAmountFor(itemTotal decimal.Decimal, discount DiscountPolicy) decimal.Decimal {
	value := nonNegative(discount.Value)
	switch discount.Type {
	case DiscountPercentage:
		return itemTotal.Mul(value).Div(oneHundred)
	case DiscountFixed:
		if value.GreaterThan(itemTotal) {
			return itemTotal
		}
		return value
	}
	return decimal.Zero
}
