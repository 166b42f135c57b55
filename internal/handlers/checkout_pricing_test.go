package handlers

import "testing"

func TestCheckoutSubtotalIsExactSum(t *testing.T) {
	lines := []checkoutLine{
		{Price: 19.99, Quantity: 3},
		{Price: 0.10, Quantity: 7},
	}

	totals := calculateCheckoutTotals(lines, 0, false)
	if totals.Subtotal != 60.67 {
		t.Fatalf("expected subtotal 60.67, got %v", totals.Subtotal)
	}
}

func TestCheckoutFreeShippingOverThreshold(t *testing.T) {
	tests := []struct {
		subtotalPrice float64
		wantShipping  float64
	}{
		{subtotalPrice: 50.01, wantShipping: 0},
		{subtotalPrice: 50.00, wantShipping: 9.99},
		{subtotalPrice: 10.00, wantShipping: 9.99},
	}

	for _, tt := range tests {
		totals := calculateCheckoutTotals([]checkoutLine{{Price: tt.subtotalPrice, Quantity: 1}}, 0, false)
		if totals.ShippingPrice != tt.wantShipping {
			t.Fatalf("subtotal %v: expected shipping %v, got %v", tt.subtotalPrice, tt.wantShipping, totals.ShippingPrice)
		}
	}
}

func TestCheckoutSixtyDollarsNoCoupon(t *testing.T) {
	totals := calculateCheckoutTotals([]checkoutLine{{Price: 60, Quantity: 1}}, 0, false)

	if totals.ShippingPrice != 0 {
		t.Fatalf("expected free shipping, got %v", totals.ShippingPrice)
	}
	if totals.TaxPrice != 4.80 {
		t.Fatalf("expected tax 4.80, got %v", totals.TaxPrice)
	}
	if totals.TotalPrice != 64.80 {
		t.Fatalf("expected total 64.80, got %v", totals.TotalPrice)
	}
}

func TestCheckoutThirtyDollarsWithTenPercentCoupon(t *testing.T) {
	totals := calculateCheckoutTotals([]checkoutLine{{Price: 30, Quantity: 1}}, 3.00, false)

	if totals.DiscountAmount != 3.00 {
		t.Fatalf("expected discount 3.00, got %v", totals.DiscountAmount)
	}
	if totals.SubtotalAfterDiscount != 27 {
		t.Fatalf("expected discounted subtotal 27, got %v", totals.SubtotalAfterDiscount)
	}
	if totals.ShippingPrice != 9.99 {
		t.Fatalf("expected shipping 9.99, got %v", totals.ShippingPrice)
	}
	if totals.TaxPrice != 2.16 {
		t.Fatalf("expected tax 2.16, got %v", totals.TaxPrice)
	}
	if totals.TotalPrice != 39.15 {
		t.Fatalf("expected total 39.15, got %v", totals.TotalPrice)
	}
}

func TestCheckoutDiscountNeverExceedsSubtotal(t *testing.T) {
	totals := calculateCheckoutTotals([]checkoutLine{{Price: 20, Quantity: 1}}, 35, false)

	if totals.DiscountAmount != 20 {
		t.Fatalf("expected discount capped at 20, got %v", totals.DiscountAmount)
	}
	if totals.SubtotalAfterDiscount != 0 {
		t.Fatalf("expected discounted subtotal 0, got %v", totals.SubtotalAfterDiscount)
	}
	if totals.TaxPrice != 0 {
		t.Fatalf("expected tax 0, got %v", totals.TaxPrice)
	}
	if totals.TotalPrice != 9.99 {
		t.Fatalf("expected total equal to shipping, got %v", totals.TotalPrice)
	}
}

func TestCheckoutFreeShippingCouponWaivesShippingOnly(t *testing.T) {
	totals := calculateCheckoutTotals([]checkoutLine{{Price: 30, Quantity: 1}}, 0, true)

	if totals.ShippingPrice != 0 {
		t.Fatalf("expected shipping waived, got %v", totals.ShippingPrice)
	}
	if totals.DiscountAmount != 0 {
		t.Fatalf("expected no subtotal discount, got %v", totals.DiscountAmount)
	}
	if totals.TaxPrice != 2.40 {
		t.Fatalf("expected tax on full subtotal 2.40, got %v", totals.TaxPrice)
	}
	if totals.TotalPrice != 32.40 {
		t.Fatalf("expected total 32.40, got %v", totals.TotalPrice)
	}
}

func TestCheckoutMixedCart(t *testing.T) {
	lines := []checkoutLine{
		{Price: 12.49, Quantity: 2},
		{Price: 5.25, Quantity: 3},
	}

	totals := calculateCheckoutTotals(lines, 4.50, false)

	if totals.Subtotal != 40.73 {
		t.Fatalf("expected subtotal 40.73, got %v", totals.Subtotal)
	}
	if totals.SubtotalAfterDiscount != 36.23 {
		t.Fatalf("expected discounted subtotal 36.23, got %v", totals.SubtotalAfterDiscount)
	}
	if totals.TaxPrice != 2.90 {
		t.Fatalf("expected tax 2.90, got %v", totals.TaxPrice)
	}
	if totals.TotalPrice != 49.12 {
		t.Fatalf("expected total 49.12, got %v", totals.TotalPrice)
	}
}

func TestCheckoutNegativeDiscountIgnored(t *testing.T) {
	totals := calculateCheckoutTotals([]checkoutLine{{Price: 10, Quantity: 1}}, -5, false)
	if totals.DiscountAmount != 0 {
		t.Fatalf("expected negative discount to be ignored, got %v", totals.DiscountAmount)
	}
}
