package handlers

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"boxmarket-backend/internal/models"
)

var (
	errCouponNotFound   = errors.New("coupon not found")
	errCouponInactive   = errors.New("coupon is not active")
	errCouponExpired    = errors.New("coupon has expired")
	errCouponUsageLimit = errors.New("coupon usage limit reached")
)

// validateCoupon checks eligibility in a fixed order: active, expiry, usage
// limit. MaxUses <= 0 means the code is not usage-limited.
func validateCoupon(d models.Discount, now time.Time) error {
	if !d.IsActive {
		return errCouponInactive
	}
	if d.ExpiryDate != nil && d.ExpiryDate.Before(now) {
		return errCouponExpired
	}
	if d.MaxUses > 0 && d.Uses >= d.MaxUses {
		return errCouponUsageLimit
	}
	return nil
}

// couponDiscountAmount computes the subtotal reduction for a valid coupon.
// Fixed discounts are capped at the subtotal so the order can never go
// negative. Free-shipping coupons reduce the shipping component instead, so
// their subtotal discount is zero.
func couponDiscountAmount(d models.Discount, cartSubtotal float64) float64 {
	subtotal := decimal.NewFromFloat(cartSubtotal)
	if subtotal.IsNegative() {
		return 0
	}

	switch d.Type {
	case models.DiscountTypePercentage:
		amount := subtotal.
			Mul(decimal.NewFromFloat(d.Value)).
			Div(decimal.NewFromInt(100)).
			Round(2)
		if amount.GreaterThan(subtotal) {
			amount = subtotal
		}
		return amount.InexactFloat64()
	case models.DiscountTypeFixed:
		amount := decimal.NewFromFloat(d.Value).Round(2)
		if amount.GreaterThan(subtotal) {
			amount = subtotal
		}
		if amount.IsNegative() {
			return 0
		}
		return amount.InexactFloat64()
	default:
		return 0
	}
}

func couponGrantsFreeShipping(d models.Discount) bool {
	return d.Type == models.DiscountTypeFreeShipping
}
