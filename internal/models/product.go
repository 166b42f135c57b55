package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	Price          float64            `bson:"price" json:"price"`
	CompareAtPrice float64            `bson:"compareAtPrice,omitempty" json:"compareAtPrice,omitempty"`
	Images         StringList         `bson:"images" json:"images"`
	Category       string             `bson:"category" json:"category"`
	Stock          int                `bson:"stock" json:"stock"`
	InStock        bool               `bson:"-" json:"inStock"`
	IsActive       bool               `bson:"isActive" json:"isActive"`
	IsDeleted      bool               `bson:"isDeleted" json:"isDeleted,omitempty"`
	DeletedAt      *time.Time         `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProductCategories is the set of storefront categories the admin panel offers.
var ProductCategories = []string{
	"skincare",
	"candles",
	"snacks",
	"stationery",
	"accessories",
	"home",
	"other",
}

func IsValidCategory(category string) bool {
	for _, c := range ProductCategories {
		if c == category {
			return true
		}
	}
	return false
}
