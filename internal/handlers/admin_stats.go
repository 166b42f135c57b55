package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"boxmarket-backend/internal/models"
)

// GetAdminStats returns the dashboard summary: entity counts, revenue over
// non-cancelled/non-refunded orders, and order counts per status.
func GetAdminStats(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/stats"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		productCount, err := db.Collection("products").CountDocuments(ctx, bson.M{"isDeleted": bson.M{"$ne": true}})
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		userCount, err := db.Collection("users").CountDocuments(ctx, bson.M{"role": models.RoleUser})
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		orderCount, err := db.Collection("orders").CountDocuments(ctx, bson.M{})
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		revenuePipeline := []bson.M{
			{"$match": bson.M{
				"orderStatus": bson.M{"$nin": []string{
					models.OrderStatusCancelled,
					models.OrderStatusRefunded,
				}},
			}},
			{"$group": bson.M{
				"_id":   nil,
				"total": bson.M{"$sum": "$totalPrice"},
			}},
		}

		cursor, err := db.Collection("orders").Aggregate(ctx, revenuePipeline)
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		revenue := 0.0
		var revenueRow struct {
			Total float64 `bson:"total"`
		}
		if cursor.Next(ctx) {
			if err := cursor.Decode(&revenueRow); err != nil {
				respondError(c, http.StatusInternalServerError, route, "decode error")
				return
			}
			revenue = revenueRow.Total
		}

		statusPipeline := []bson.M{
			{"$group": bson.M{
				"_id":   "$orderStatus",
				"count": bson.M{"$sum": 1},
			}},
		}

		statusCursor, err := db.Collection("orders").Aggregate(ctx, statusPipeline)
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer statusCursor.Close(ctx)

		ordersByStatus := map[string]int64{}
		for statusCursor.Next(ctx) {
			var row struct {
				Status string `bson:"_id"`
				Count  int64  `bson:"count"`
			}
			if err := statusCursor.Decode(&row); err != nil {
				respondError(c, http.StatusInternalServerError, route, "decode error")
				return
			}
			ordersByStatus[row.Status] = row.Count
		}

		respondOK(c, http.StatusOK, gin.H{
			"products":       productCount,
			"users":          userCount,
			"orders":         orderCount,
			"revenue":        revenue,
			"ordersByStatus": ordersByStatus,
			"generatedAt":    time.Now(),
		})
	}
}
