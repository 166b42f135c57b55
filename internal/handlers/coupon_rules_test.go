package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"boxmarket-backend/internal/models"
)

func TestValidateCoupon(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name     string
		discount models.Discount
		wantErr  error
	}{
		{
			name:     "active coupon passes",
			discount: models.Discount{IsActive: true, MaxUses: 10, Uses: 3, ExpiryDate: &future},
			wantErr:  nil,
		},
		{
			name:     "inactive coupon",
			discount: models.Discount{IsActive: false},
			wantErr:  errCouponInactive,
		},
		{
			name:     "expired coupon",
			discount: models.Discount{IsActive: true, ExpiryDate: &past},
			wantErr:  errCouponExpired,
		},
		{
			name:     "usage limit reached",
			discount: models.Discount{IsActive: true, MaxUses: 5, Uses: 5},
			wantErr:  errCouponUsageLimit,
		},
		{
			name:     "no expiry date never expires",
			discount: models.Discount{IsActive: true},
			wantErr:  nil,
		},
		{
			name:     "zero max uses means unlimited",
			discount: models.Discount{IsActive: true, MaxUses: 0, Uses: 9999},
			wantErr:  nil,
		},
		{
			name:     "inactive wins over expired",
			discount: models.Discount{IsActive: false, ExpiryDate: &past},
			wantErr:  errCouponInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCoupon(tt.discount, now)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCouponDiscountAmountPercentage(t *testing.T) {
	d := models.Discount{Type: models.DiscountTypePercentage, Value: 10}
	assert.Equal(t, 3.00, couponDiscountAmount(d, 30))

	d.Value = 15
	assert.Equal(t, 4.50, couponDiscountAmount(d, 29.99))
}

func TestCouponDiscountAmountFixedCappedAtSubtotal(t *testing.T) {
	d := models.Discount{Type: models.DiscountTypeFixed, Value: 20}
	assert.Equal(t, 20.00, couponDiscountAmount(d, 75))
	assert.Equal(t, 12.50, couponDiscountAmount(d, 12.50))
}

func TestCouponDiscountAmountFreeShippingIsZero(t *testing.T) {
	d := models.Discount{Type: models.DiscountTypeFreeShipping, Value: 0}
	assert.Equal(t, 0.00, couponDiscountAmount(d, 80))
	assert.True(t, couponGrantsFreeShipping(d))
	assert.False(t, couponGrantsFreeShipping(models.Discount{Type: models.DiscountTypePercentage}))
}

func TestCouponDiscountAmountNegativeSubtotal(t *testing.T) {
	d := models.Discount{Type: models.DiscountTypePercentage, Value: 10}
	assert.Equal(t, 0.00, couponDiscountAmount(d, -5))
}
