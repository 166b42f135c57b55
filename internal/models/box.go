package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ThemedBox is an admin-curated bundle of products sold as a single
// purchasable line item at a fixed price.
type ThemedBox struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name" json:"name"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64              `bson:"price" json:"price"`
	Image       string               `bson:"image,omitempty" json:"image,omitempty"`
	Products    []primitive.ObjectID `bson:"products" json:"products"`
	IsActive    bool                 `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}
