package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DiscountTypePercentage   = "percentage"
	DiscountTypeFixed        = "fixed"
	DiscountTypeFreeShipping = "free-shipping"
)

// Discount is a redeemable coupon code. Codes are stored lowercase so lookups
// are case-insensitive by construction. MaxUses <= 0 means unlimited.
type Discount struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code        string             `bson:"code" json:"code"`
	Type        string             `bson:"type" json:"type"`
	Value       float64            `bson:"value" json:"value"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	MaxUses     int                `bson:"maxUses" json:"maxUses"`
	Uses        int                `bson:"uses" json:"uses"`
	ExpiryDate  *time.Time         `bson:"expiryDate,omitempty" json:"expiryDate,omitempty"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func IsValidDiscountType(t string) bool {
	switch t {
	case DiscountTypePercentage, DiscountTypeFixed, DiscountTypeFreeShipping:
		return true
	}
	return false
}
