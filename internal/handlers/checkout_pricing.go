package handlers

import "github.com/shopspring/decimal"

// Checkout math runs on fixed-point decimals, rounded half-up to cents at
// every derived step, so repeated float64 round trips through the database
// cannot drift the total.

var (
	freeShippingThreshold = decimal.NewFromInt(50)
	flatShippingRate      = decimal.RequireFromString("9.99")
	taxRate               = decimal.RequireFromString("0.08")
)

type checkoutLine struct {
	Price    float64
	Quantity int
}

type checkoutTotals struct {
	Subtotal              float64
	DiscountAmount        float64
	SubtotalAfterDiscount float64
	ShippingPrice         float64
	TaxPrice              float64
	TotalPrice            float64
}

// calculateCheckoutTotals computes the order breakdown:
//
//	subtotal  = sum(price * quantity)
//	shipping  = 0 when subtotal > 50 (or a free-shipping coupon applies), else 9.99
//	tax       = 8% of the discounted subtotal
//	total     = discounted subtotal + shipping + tax
//
// The shipping threshold is checked against the pre-discount subtotal. The
// discount never pushes the discounted subtotal below zero.
func calculateCheckoutTotals(lines []checkoutLine, discountAmount float64, freeShipping bool) checkoutTotals {
	subtotal := decimal.Zero
	for _, line := range lines {
		lineTotal := decimal.NewFromFloat(line.Price).Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)
	}
	subtotal = subtotal.Round(2)

	discount := decimal.NewFromFloat(discountAmount).Round(2)
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}

	afterDiscount := subtotal.Sub(discount)

	shipping := flatShippingRate
	if freeShipping || subtotal.GreaterThan(freeShippingThreshold) {
		shipping = decimal.Zero
	}

	tax := afterDiscount.Mul(taxRate).Round(2)
	total := afterDiscount.Add(shipping).Add(tax)

	return checkoutTotals{
		Subtotal:              subtotal.InexactFloat64(),
		DiscountAmount:        discount.InexactFloat64(),
		SubtotalAfterDiscount: afterDiscount.InexactFloat64(),
		ShippingPrice:         shipping.InexactFloat64(),
		TaxPrice:              tax.InexactFloat64(),
		TotalPrice:            total.InexactFloat64(),
	}
}
