package pricing

import "tableside/internal/cart"

// Totals is the priced breakdown of a cart in integer currency units.
type Totals struct {
	Subtotal int `json:"subtotal"`
	Fee      int `json:"fee"`
	Total    int `json:"total"`
}

// ComputeTotals derives subtotal, service fee and grand total from the cart.
// The fee is feePercent of the subtotal, rounded half away from zero.
// Pure function: no side effects, same cart and percent always yield the
// same totals.
func ComputeTotals(c *cart.Cart, feePercent int) Totals {
	subtotal := 0
	for _, line := range c.Lines() {
		subtotal += line.UnitPrice * line.Quantity
	}

	fee := roundHalfAwayFromZero(subtotal*feePercent, 100)

	return Totals{
		Subtotal: subtotal,
		Fee:      fee,
		Total:    subtotal + fee,
	}
}

// roundHalfAwayFromZero divides numerator by denominator rounding .5 up in
// magnitude, matching currency-display expectations.
func roundHalfAwayFromZero(numerator, denominator int) int {
	if denominator == 0 {
		return 0
	}
	if numerator >= 0 {
		return (numerator + denominator/2) / denominator
	}
	return -((-numerator + denominator/2) / denominator)
}
