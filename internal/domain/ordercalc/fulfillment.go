package ordercalc

import "github.com/shopspring/decimal"

// LineItem is the abstract shape every order-like document maps its rows
// into: how much was asked for and how much has arrived or left so far.
// Fulfilled may legitimately exceed Required (over-delivery).
type LineItem struct {
	Required  decimal.Decimal
	Fulfilled decimal.Decimal
}

var oneHundred = decimal.NewFromInt(100)

// CompletionPercentage computes the aggregate fulfilment of a set of line
// items as an integer percentage, rounded half away from zero. An order with
// no required quantity is 0% complete. Negative quantities are coerced to
// zero before summation. The result is deliberately not capped at 100 so
// over-delivery stays visible; clamp at the presentation boundary if needed.
func CompletionPercentage(items []LineItem) int {
	totalRequired := decimal.Zero
	totalFulfilled := decimal.Zero
	for _, item := range items {
		totalRequired = totalRequired.Add(nonNegative(item.Required))
		totalFulfilled = totalFulfilled.Add(nonNegative(item.Fulfilled))
	}

	if totalRequired.IsZero() {
		return 0
	}

	percent := totalFulfilled.Div(totalRequired).Mul(oneHundred).Round(0)
	return int(percent.IntPart())
}

// ClampPercentage caps a completion percentage at 100 for display
func ClampPercentage(percent int) int {
	if percent > 100 {
		return 100
	}
	return percent
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
