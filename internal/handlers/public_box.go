package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"boxmarket-backend/internal/models"
)

// GetBoxes lists active themed boxes for the storefront.
func GetBoxes(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/boxes"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("boxes").Find(ctx, bson.M{"isActive": true}, opts)
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

// GetBox returns one active box along with its member products.
func GetBox(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/boxes/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var box models.ThemedBox
		err = db.Collection("boxes").FindOne(ctx, bson.M{
			"_id":      id,
			"isActive": true,
		}).Decode(&box)
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, route, "box not found")
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		products := make([]models.Product, 0, len(box.Products))
		if len(box.Products) > 0 {
			cursor, err := db.Collection("products").Find(ctx, bson.M{
				"_id":       bson.M{"$in": box.Products},
				"isDeleted": bson.M{"$ne": true},
			})
			if err != nil {
				respondError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			defer cursor.Close(ctx)

			products, err = decodeProducts(ctx, cursor)
			if err != nil {
				respondError(c, http.StatusInternalServerError, route, "decode error")
				return
			}
		}

		respondOK(c, http.StatusOK, gin.H{
			"box":      box,
			"products": products,
		})
	}
}
