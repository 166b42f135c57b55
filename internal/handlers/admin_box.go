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

type boxCreateRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"required"`
	Image       string   `json:"image"`
	Products    []string `json:"products" binding:"required"`
	IsActive    *bool    `json:"isActive"`
}

type boxUpdateRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Image       *string   `json:"image"`
	Products    *[]string `json:"products"`
	IsActive    *bool     `json:"isActive"`
}

// resolveBoxProductIDs validates that every referenced product exists and is
// not soft-deleted, preserving request order and dropping duplicates.
func resolveBoxProductIDs(ctx context.Context, db *mongo.Database, ids []string) ([]primitive.ObjectID, error) {
	seen := map[primitive.ObjectID]struct{}{}
	ordered := make([]primitive.ObjectID, 0, len(ids))

	for _, raw := range ids {
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		objectID, err := primitive.ObjectIDFromHex(value)
		if err != nil {
			return nil, errInvalidBoxProduct
		}
		if _, ok := seen[objectID]; ok {
			continue
		}
		seen[objectID] = struct{}{}
		ordered = append(ordered, objectID)
	}

	if len(ordered) == 0 {
		return nil, errEmptyBoxProducts
	}

	count, err := db.Collection("products").CountDocuments(ctx, bson.M{
		"_id":       bson.M{"$in": ordered},
		"isDeleted": bson.M{"$ne": true},
	})
	if err != nil {
		return nil, err
	}
	if count != int64(len(ordered)) {
		return nil, errUnknownBoxProduct
	}

	return ordered, nil
}

var (
	errInvalidBoxProduct = newBadRequestError("invalid product id in box")
	errEmptyBoxProducts  = newBadRequestError("box requires at least one product")
	errUnknownBoxProduct = newBadRequestError("box references unknown product")
)

type badRequestError struct{ msg string }

func (e badRequestError) Error() string { return e.msg }

func newBadRequestError(msg string) error { return badRequestError{msg: msg} }

// GetAllBoxes lists every box, active or not, for the admin panel.
func GetAllBoxes(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/boxes"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("boxes").Find(ctx, bson.M{}, opts)
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		boxes := make([]models.ThemedBox, 0)
		if err := cursor.All(ctx, &boxes); err != nil {
			respondError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		respondOK(c, http.StatusOK, boxes)
	}
}

func CreateBox(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/admin/boxes"
		defer handlePanic(c, route)

		var req boxCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		name := strings.TrimSpace(req.Name)
		if name == "" {
			respondError(c, http.StatusBadRequest, route, "name required")
			return
		}

		if req.Price <= 0 {
			respondError(c, http.StatusBadRequest, route, "price must be greater than 0")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		productIDs, err := resolveBoxProductIDs(ctx, db, req.Products)
		if err != nil {
			status := http.StatusInternalServerError
			if _, ok := err.(badRequestError); ok {
				status = http.StatusBadRequest
			}
			respondError(c, status, route, err.Error())
			return
		}

		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}

		now := time.Now()
		box := models.ThemedBox{
			Name:        name,
			Description: strings.TrimSpace(req.Description),
			Price:       req.Price,
			Image:       strings.TrimSpace(req.Image),
			Products:    productIDs,
			IsActive:    isActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		res, err := db.Collection("boxes").InsertOne(ctx, box)
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		box.ID = res.InsertedID.(primitive.ObjectID)
		respondOK(c, http.StatusCreated, box)
	}
}

func UpdateBox(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/admin/boxes/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req boxUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		set := bson.M{"updatedAt": time.Now()}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				respondError(c, http.StatusBadRequest, route, "name required")
				return
			}
			set["name"] = name
		}

		if req.Price != nil {
			if *req.Price <= 0 {
				respondError(c, http.StatusBadRequest, route, "price must be greater than 0")
				return
			}
			set["price"] = *req.Price
		}

		if req.Description != nil {
			set["description"] = strings.TrimSpace(*req.Description)
		}

		if req.Image != nil {
			set["image"] = strings.TrimSpace(*req.Image)
		}

		if req.Products != nil {
			productIDs, err := resolveBoxProductIDs(ctx, db, *req.Products)
			if err != nil {
				status := http.StatusInternalServerError
				if _, ok := err.(badRequestError); ok {
					status = http.StatusBadRequest
				}
				respondError(c, status, route, err.Error())
				return
			}
			set["products"] = productIDs
		}

		if req.IsActive != nil {
			set["isActive"] = *req.IsActive
		}

		res, err := db.Collection("boxes").UpdateByID(ctx, id, bson.M{"$set": set})
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondError(c, http.StatusNotFound, route, "box not found")
			return
		}

		var box models.ThemedBox
		if err := db.Collection("boxes").FindOne(ctx, bson.M{"_id": id}).Decode(&box); err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondOK(c, http.StatusOK, box)
	}
}

func DeleteBox(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/admin/boxes/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("boxes").DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.DeletedCount == 0 {
			respondError(c, http.StatusNotFound, route, "box not found")
			return
		}

		respondOK(c, http.StatusOK, gin.H{"message": "box deleted"})
	}
}
