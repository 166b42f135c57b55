package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
	OrderStatusCompleted  = "completed"

	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"

	OrderItemTypeProduct = "product"
	OrderItemTypeBox     = "box"
)

// OrderItem is an immutable snapshot of a purchased line item. ItemType
// distinguishes single products from themed boxes.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	ItemType  string             `bson:"itemType" json:"itemType"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	ImageURL  string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
}

// OrderAddress is the shipping address captured at checkout.
type OrderAddress struct {
	Street    string `bson:"street" json:"street"`
	Apartment string `bson:"apartment,omitempty" json:"apartment,omitempty"`
	City      string `bson:"city" json:"city"`
	State     string `bson:"state,omitempty" json:"state,omitempty"`
	ZipCode   string `bson:"zipCode" json:"zipCode"`
	Country   string `bson:"country" json:"country"`
}

// Order is created at checkout and immutable afterwards except for
// orderStatus/paymentStatus, which the admin moves through the lifecycle.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	Items           []OrderItem        `bson:"items" json:"items"`
	ShippingAddress OrderAddress       `bson:"shippingAddress" json:"shippingAddress"`
	PaymentMethod   string             `bson:"paymentMethod" json:"paymentMethod"`
	OrderStatus     string             `bson:"orderStatus" json:"orderStatus"`
	PaymentStatus   string             `bson:"paymentStatus" json:"paymentStatus"`
	CouponCode      string             `bson:"couponCode,omitempty" json:"couponCode,omitempty"`
	ItemsPrice      float64            `bson:"itemsPrice" json:"itemsPrice"`
	DiscountAmount  float64            `bson:"discountAmount" json:"discountAmount"`
	ShippingPrice   float64            `bson:"shippingPrice" json:"shippingPrice"`
	TaxPrice        float64            `bson:"taxPrice" json:"taxPrice"`
	TotalPrice      float64            `bson:"totalPrice" json:"totalPrice"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
