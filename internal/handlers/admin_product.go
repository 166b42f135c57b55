package handlers

import (
	"context"
	"fmt"
	"log"
	"math"
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

type productCreateRequest struct {
	Name           string   `json:"name" binding:"required"`
	Description    string   `json:"description"`
	Price          float64  `json:"price" binding:"required"`
	CompareAtPrice float64  `json:"compareAtPrice"`
	Images         []string `json:"images"`
	Category       string   `json:"category" binding:"required"`
	Stock          *int     `json:"stock" binding:"required"`
	IsActive       *bool    `json:"isActive"`
}

type productUpdateRequest struct {
	Name           *string   `json:"name"`
	Description    *string   `json:"description"`
	Price          *float64  `json:"price"`
	CompareAtPrice *float64  `json:"compareAtPrice"`
	Images         *[]string `json:"images"`
	Category       *string   `json:"category"`
	Stock          *int      `json:"stock"`
	IsActive       *bool     `json:"isActive"`
}

func normalizeImageURLs(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func validateProductPricing(price, compareAtPrice float64) error {
	if price <= 0 {
		return fmt.Errorf("price must be greater than 0")
	}
	if compareAtPrice < 0 {
		return fmt.Errorf("compareAtPrice must be zero or greater")
	}
	if compareAtPrice > 0 && compareAtPrice <= price {
		return fmt.Errorf("compareAtPrice must be greater than price")
	}
	return nil
}

// GetAllProducts lists products for the admin panel, including inactive ones.
func GetAllProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/products"
		defer handlePanic(c, route)

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		filter := bson.M{
			"isDeleted": bson.M{"$ne": true},
		}

		if category := strings.TrimSpace(c.Query("category")); category != "" {
			filter["category"] = category
		}

		if search := strings.TrimSpace(c.Query("search")); search != "" {
			filter["$or"] = []bson.M{
				{"name": bson.M{"$regex": search, "$options": "i"}},
				{"description": bson.M{"$regex": search, "$options": "i"}},
			}
		}

		if isActive := strings.TrimSpace(c.Query("isActive")); isActive != "" {
			filter["isActive"] = strings.EqualFold(isActive, "true")
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		total, err := db.Collection("products").CountDocuments(ctx, filter)
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		totalPages := int64(0)
		if total > 0 {
			totalPages = int64(math.Ceil(float64(total) / float64(limit)))
		}

		opts := options.Find().
			SetSkip((page - 1) * limit).
			SetLimit(limit).
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		cursor, err := db.Collection("products").Find(ctx, filter, opts)
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		products, err := decodeProducts(ctx, cursor)
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		respondOK(c, http.StatusOK, gin.H{
			"products": products,
			"pagination": gin.H{
				"page":       page,
				"limit":      limit,
				"total":      total,
				"totalPages": totalPages,
			},
		})
	}
}

func CreateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/admin/products"
		defer handlePanic(c, route)

		var req productCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		name := strings.TrimSpace(req.Name)
		if name == "" {
			respondError(c, http.StatusBadRequest, route, "name required")
			return
		}

		if err := validateProductPricing(req.Price, req.CompareAtPrice); err != nil {
			respondError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		category := strings.ToLower(strings.TrimSpace(req.Category))
		if !models.IsValidCategory(category) {
			respondError(c, http.StatusBadRequest, route, "invalid category")
			return
		}

		if *req.Stock < 0 {
			respondError(c, http.StatusBadRequest, route, "stock must be zero or greater")
			return
		}

		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}

		now := time.Now()
		product := models.Product{
			Name:           name,
			Description:    strings.TrimSpace(req.Description),
			Price:          req.Price,
			CompareAtPrice: req.CompareAtPrice,
			Images:         models.StringList(normalizeImageURLs(req.Images)),
			Category:       category,
			Stock:          *req.Stock,
			InStock:        *req.Stock > 0,
			IsActive:       isActive,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("products").InsertOne(ctx, product)
		if err != nil {
			log.Println("CreateProduct insert error:", err)
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		product.ID = res.InsertedID.(primitive.ObjectID)
		respondOK(c, http.StatusCreated, product)
	}
}

func UpdateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/admin/products/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req productUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var existing models.Product
		err = db.Collection("products").FindOne(ctx, bson.M{
			"_id":       id,
			"isDeleted": bson.M{"$ne": true},
		}).Decode(&existing)
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, route, "product not found")
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		set := bson.M{"updatedAt": time.Now()}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				respondError(c, http.StatusBadRequest, route, "name required")
				return
			}
			set["name"] = name
		}

		price := existing.Price
		if req.Price != nil {
			price = *req.Price
		}
		compareAt := existing.CompareAtPrice
		if req.CompareAtPrice != nil {
			compareAt = *req.CompareAtPrice
		}
		if req.Price != nil || req.CompareAtPrice != nil {
			if err := validateProductPricing(price, compareAt); err != nil {
				respondError(c, http.StatusBadRequest, route, err.Error())
				return
			}
			set["price"] = price
			set["compareAtPrice"] = compareAt
		}

		if req.Description != nil {
			set["description"] = strings.TrimSpace(*req.Description)
		}

		if req.Images != nil {
			set["images"] = models.StringList(normalizeImageURLs(*req.Images))
		}

		if req.Category != nil {
			category := strings.ToLower(strings.TrimSpace(*req.Category))
			if !models.IsValidCategory(category) {
				respondError(c, http.StatusBadRequest, route, "invalid category")
				return
			}
			set["category"] = category
		}

		if req.Stock != nil {
			if *req.Stock < 0 {
				respondError(c, http.StatusBadRequest, route, "stock must be zero or greater")
				return
			}
			set["stock"] = *req.Stock
		}

		if req.IsActive != nil {
			set["isActive"] = *req.IsActive
		}

		if _, err := db.Collection("products").UpdateByID(ctx, id, bson.M{"$set": set}); err != nil {
			log.Println("UpdateProduct update error:", err)
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		var raw bson.M
		if err := db.Collection("products").FindOne(ctx, bson.M{"_id": id}).Decode(&raw); err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		product, err := normalizeProductDocument(raw)
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		respondOK(c, http.StatusOK, product)
	}
}

// DeleteProduct soft-deletes so historical order snapshots keep resolving.
func DeleteProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/admin/products/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		now := time.Now()
		res, err := db.Collection("products").UpdateOne(ctx, bson.M{
			"_id":       id,
			"isDeleted": bson.M{"$ne": true},
		}, bson.M{
			"$set": bson.M{
				"isDeleted": true,
				"isActive":  false,
				"deletedAt": now,
				"updatedAt": now,
			},
		})
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondError(c, http.StatusNotFound, route, "product not found")
			return
		}

		respondOK(c, http.StatusOK, gin.H{"message": "product deleted"})
	}
}
