package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"boxmarket-backend/internal/models"
)

type discountCreateRequest struct {
	Code        string     `json:"code" binding:"required"`
	Type        string     `json:"type" binding:"required"`
	Value       float64    `json:"value"`
	Description string     `json:"description"`
	MaxUses     int        `json:"maxUses"`
	ExpiryDate  *time.Time `json:"expiryDate"`
	IsActive    *bool      `json:"isActive"`
}

type discountUpdateRequest struct {
	Type        *string    `json:"type"`
	Value       *float64   `json:"value"`
	Description *string    `json:"description"`
	MaxUses     *int       `json:"maxUses"`
	ExpiryDate  *time.Time `json:"expiryDate"`
	IsActive    *bool      `json:"isActive"`
}

func validateDiscountValue(discountType string, value float64) (string, bool) {
	switch discountType {
	case models.DiscountTypePercentage:
		if value <= 0 || value > 100 {
			return "percentage value must be between 0 and 100", false
		}
	case models.DiscountTypeFixed:
		if value <= 0 {
			return "fixed value must be greater than 0", false
		}
	case models.DiscountTypeFreeShipping:
		// value is ignored for free-shipping codes
	default:
		return "invalid discount type", false
	}
	return "", true
}

func GetAllDiscounts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/discounts"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("discounts").Find(ctx, bson.M{}, opts)
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		discounts := make([]models.Discount, 0)
		if err := cursor.All(ctx, &discounts); err != nil {
			respondError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		respondOK(c, http.StatusOK, discounts)
	}
}

func CreateDiscount(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/admin/discounts"
		defer handlePanic(c, route)

		var req discountCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		code := strings.ToLower(strings.TrimSpace(req.Code))
		if code == "" {
			respondError(c, http.StatusBadRequest, route, "code required")
			return
		}

		discountType := strings.ToLower(strings.TrimSpace(req.Type))
		if msg, ok := validateDiscountValue(discountType, req.Value); !ok {
			respondError(c, http.StatusBadRequest, route, msg)
			return
		}

		if req.MaxUses < 0 {
			respondError(c, http.StatusBadRequest, route, "maxUses must be zero or greater")
			return
		}

		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}

		now := time.Now()
		discount := models.Discount{
			Code:        code,
			Type:        discountType,
			Value:       req.Value,
			Description: strings.TrimSpace(req.Description),
			MaxUses:     req.MaxUses,
			Uses:        0,
			ExpiryDate:  req.ExpiryDate,
			IsActive:    isActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("discounts").InsertOne(ctx, discount)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondError(c, http.StatusConflict, route, "code already exists")
				return
			}
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		discount.ID = res.InsertedID.(primitive.ObjectID)
		respondOK(c, http.StatusCreated, discount)
	}
}

// UpdateDiscount edits everything except the code itself and the usage
// counter; the counter only moves inside the checkout transaction.
func UpdateDiscount(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/admin/discounts/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req discountUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var existing models.Discount
		err = db.Collection("discounts").FindOne(ctx, bson.M{"_id": id}).Decode(&existing)
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, route, "discount not found")
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		set := bson.M{"updatedAt": time.Now()}

		discountType := existing.Type
		if req.Type != nil {
			discountType = strings.ToLower(strings.TrimSpace(*req.Type))
		}
		value := existing.Value
		if req.Value != nil {
			value = *req.Value
		}
		if req.Type != nil || req.Value != nil {
			if msg, ok := validateDiscountValue(discountType, value); !ok {
				respondError(c, http.StatusBadRequest, route, msg)
				return
			}
			set["type"] = discountType
			set["value"] = value
		}

		if req.Description != nil {
			set["description"] = strings.TrimSpace(*req.Description)
		}

		if req.MaxUses != nil {
			if *req.MaxUses < 0 {
				respondError(c, http.StatusBadRequest, route, "maxUses must be zero or greater")
				return
			}
			set["maxUses"] = *req.MaxUses
		}

		if req.ExpiryDate != nil {
			set["expiryDate"] = *req.ExpiryDate
		}

		if req.IsActive != nil {
			set["isActive"] = *req.IsActive
		}

		if _, err := db.Collection("discounts").UpdateByID(ctx, id, bson.M{"$set": set}); err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		var updated models.Discount
		if err := db.Collection("discounts").FindOne(ctx, bson.M{"_id": id}).Decode(&updated); err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondOK(c, http.StatusOK, updated)
	}
}

func DeleteDiscount(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/admin/discounts/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("discounts").DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.DeletedCount == 0 {
			respondError(c, http.StatusNotFound, route, "discount not found")
			return
		}

		respondOK(c, http.StatusOK, gin.H{"message": "discount deleted"})
	}
}
