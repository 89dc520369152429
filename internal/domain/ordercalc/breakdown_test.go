package ordercalc

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func TestComputeBreakdown_GSTSplit(t *testing.T) {
	// 18% GST on 1000 taxable splits into 90 + 90
	b := ComputeBreakdown(dec(1000), NoDiscount(), TaxPolicy{Type: TaxGST, Rate: dec(18)})

	assert.True(t, b.TaxableAmount.Equal(dec(1000)), "taxable %s", b.TaxableAmount)
	assert.True(t, b.CGST.Equal(dec(90)), "cgst %s", b.CGST)
	assert.True(t, b.SGST.Equal(dec(90)), "sgst %s", b.SGST)
	assert.True(t, b.IGST.IsZero())
	assert.True(t, b.TotalTax.Equal(dec(180)))
	assert.True(t, b.TotalAmount.Equal(dec(1180)))
	assert.True(t, b.RoundOff.IsZero())
}

func TestComputeBreakdown_GSTInvoiceScenario(t *testing.T) {
	// itemTotal 5000, 10% discount, 12% GST
	b := ComputeBreakdown(dec(5000),
		DiscountPolicy{Type: DiscountPercentage, Value: dec(10)},
		TaxPolicy{Type: TaxGST, Rate: dec(12)})

	assert.True(t, b.DiscountAmount.Equal(dec(500)), "discount %s", b.DiscountAmount)
	assert.True(t, b.TaxableAmount.Equal(dec(4500)))
	assert.True(t, b.CGST.Equal(dec(270)))
	assert.True(t, b.SGST.Equal(dec(270)))
	assert.True(t, b.TotalTax.Equal(dec(540)))
	assert.True(t, b.TotalAmount.Equal(dec(5040)))
	assert.True(t, b.RoundOff.IsZero())
}

func TestComputeBreakdown_IGSTNoDiscount(t *testing.T) {
	// itemTotal 2000, no discount, 18% IGST
	b := ComputeBreakdown(dec(2000), NoDiscount(), TaxPolicy{Type: TaxIGST, Rate: dec(18)})

	assert.True(t, b.TaxableAmount.Equal(dec(2000)))
	assert.True(t, b.IGST.Equal(dec(360)), "igst %s", b.IGST)
	assert.True(t, b.CGST.IsZero())
	assert.True(t, b.SGST.IsZero())
	assert.True(t, b.TotalTax.Equal(dec(360)))
	assert.True(t, b.TotalAmount.Equal(dec(2360)))
}

func TestComputeBreakdown_NoTaxZeroesEverything(t *testing.T) {
	for _, total := range []float64{0, 1, 999.99, 123456.78} {
		b := ComputeBreakdown(dec(total), NoDiscount(), NoTax())
		assert.True(t, b.CGST.IsZero())
		assert.True(t, b.SGST.IsZero())
		assert.True(t, b.IGST.IsZero())
		assert.True(t, b.TotalTax.IsZero())
	}
}

func TestComputeBreakdown_FixedDiscountClamped(t *testing.T) {
	// A fixed discount larger than the item total clamps; taxable never goes negative
	b := ComputeBreakdown(dec(300), DiscountPolicy{Type: DiscountFixed, Value: dec(500)}, NoTax())
	assert.True(t, b.DiscountAmount.Equal(dec(300)))
	assert.True(t, b.TaxableAmount.IsZero())
	assert.True(t, b.TotalAmount.IsZero())

	// Within range it applies as-is
	b = ComputeBreakdown(dec(300), DiscountPolicy{Type: DiscountFixed, Value: dec(50)}, NoTax())
	assert.True(t, b.DiscountAmount.Equal(dec(50)))
	assert.True(t, b.TaxableAmount.Equal(dec(250)))
}

func TestComputeBreakdown_RoundOff(t *testing.T) {
	// 100.50 with 18% GST: taxable 100.50, tax 18.09, exact total 118.59 -> 119
	b := ComputeBreakdown(dec(100.50), NoDiscount(), TaxPolicy{Type: TaxGST, Rate: dec(18)})
	assert.True(t, b.TotalAmount.Equal(dec(119)), "total %s", b.TotalAmount)
	assert.True(t, b.RoundOff.Equal(dec(0.41)), "roundoff %s", b.RoundOff)

	// Rounding down: 100 with 5% IGST -> 105, no adjustment
	b = ComputeBreakdown(dec(100), NoDiscount(), TaxPolicy{Type: TaxIGST, Rate: dec(5)})
	assert.True(t, b.RoundOff.IsZero())

	// Negative adjustment: exact total 112.30 -> 112, roundoff -0.30
	b = ComputeBreakdown(dec(112.30), NoDiscount(), NoTax())
	assert.True(t, b.TotalAmount.Equal(dec(112)))
	assert.True(t, b.RoundOff.Equal(dec(-0.30)), "roundoff %s", b.RoundOff)
}

func TestComputeBreakdown_TotalInvariant(t *testing.T) {
	// totalAmount == taxableAmount + totalTax + roundOff across mixed inputs
	policies := []struct {
		discount DiscountPolicy
		tax      TaxPolicy
	}{
		{NoDiscount(), NoTax()},
		{DiscountPolicy{Type: DiscountPercentage, Value: dec(7.5)}, TaxPolicy{Type: TaxGST, Rate: dec(18)}},
		{DiscountPolicy{Type: DiscountFixed, Value: dec(99.99)}, TaxPolicy{Type: TaxIGST, Rate: dec(28)}},
		{DiscountPolicy{Type: DiscountPercentage, Value: dec(100)}, TaxPolicy{Type: TaxGST, Rate: dec(5)}},
	}
	totals := []float64{0, 0.01, 123.45, 9999.99, 250000}

	for _, p := range policies {
		for _, total := range totals {
			b := ComputeBreakdown(dec(total), p.discount, p.tax)
			sum := b.TaxableAmount.Add(b.TotalTax).Add(b.RoundOff)
			assert.True(t, b.TotalAmount.Equal(sum),
				"total %s != taxable %s + tax %s + roundoff %s",
				b.TotalAmount, b.TaxableAmount, b.TotalTax, b.RoundOff)
			assert.True(t, b.TotalAmount.Equal(b.TotalAmount.Round(0)), "total must be whole")
		}
	}
}

func TestComputeBreakdown_DegenerateInputs(t *testing.T) {
	// Negative item total coerced to zero
	b := ComputeBreakdown(dec(-100), NoDiscount(), TaxPolicy{Type: TaxGST, Rate: dec(18)})
	assert.True(t, b.ItemTotal.IsZero())
	assert.True(t, b.TotalAmount.IsZero())

	// Negative rate treated as zero
	b = ComputeBreakdown(dec(100), NoDiscount(), TaxPolicy{Type: TaxIGST, Rate: dec(-18)})
	assert.True(t, b.TotalTax.IsZero())

	// Negative discount value treated as zero
	b = ComputeBreakdown(dec(100), DiscountPolicy{Type: DiscountFixed, Value: dec(-50)}, NoTax())
	assert.True(t, b.DiscountAmount.IsZero())

	// Unknown discount type behaves like none
	b = ComputeBreakdown(dec(100), DiscountPolicy{Type: DiscountType("BOGUS"), Value: dec(50)}, NoTax())
	assert.True(t, b.DiscountAmount.IsZero())
}
