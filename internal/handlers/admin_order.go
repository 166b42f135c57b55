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

	"boxmarket-backend/internal/events"
	"boxmarket-backend/internal/models"
)

type orderStatusUpdateRequest struct {
	OrderStatus string `json:"orderStatus" binding:"required"`
}

// GetAllOrders lists every order for the back-office, newest first, with an
// optional status filter.
func GetAllOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/orders"
		defer handlePanic(c, route)

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		filter := bson.M{}
		if status := strings.TrimSpace(c.Query("status")); status != "" {
			if !isValidOrderStatus(status) {
				respondError(c, http.StatusBadRequest, route, "invalid status filter")
				return
			}
			filter["orderStatus"] = status
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		total, err := db.Collection("orders").CountDocuments(ctx, filter)
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

		cursor, err := db.Collection("orders").Find(ctx, filter, opts)
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			respondError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		respondOK(c, http.StatusOK, gin.H{
			"orders": orders,
			"pagination": gin.H{
				"page":       page,
				"limit":      limit,
				"total":      total,
				"totalPages": totalPages,
			},
		})
	}
}

// UpdateOrderStatus moves an order through the lifecycle. Transitions outside
// the allowed graph are rejected; nothing but the status fields and updatedAt
// is touched.
func UpdateOrderStatus(db *mongo.Database, publisher *events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/orders/:id"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req orderStatusUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		newStatus := strings.ToLower(strings.TrimSpace(req.OrderStatus))
		if !isValidOrderStatus(newStatus) {
			respondError(c, http.StatusBadRequest, route, "invalid order status")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		err = db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, route, "order not found")
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if !canTransitionOrderStatus(order.OrderStatus, newStatus) {
			respondError(c, http.StatusBadRequest, route,
				fmt.Sprintf("cannot change order status from %s to %s", order.OrderStatus, newStatus))
			return
		}

		set := bson.M{
			"orderStatus": newStatus,
			"updatedAt":   time.Now(),
		}
		if newStatus == models.OrderStatusRefunded {
			set["paymentStatus"] = models.PaymentStatusPending
		}

		if _, err := db.Collection("orders").UpdateByID(ctx, orderID, bson.M{"$set": set}); err != nil {
			log.Println("[ORDER] [ERROR] status update failed:", err)
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if err := db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[ORDER] [INFO] order %s status set to %s", orderID.Hex(), newStatus)

		publisher.Publish(c.Request.Context(), events.TopicOrderStatusUpdated, events.OrderEvent{
			OrderID:     order.ID.Hex(),
			UserID:      order.UserID.Hex(),
			OrderStatus: order.OrderStatus,
			OccurredAt:  order.UpdatedAt,
		})

		respondOK(c, http.StatusOK, order)
	}
}

func DeleteOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/admin/orders/:id"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("orders").DeleteOne(ctx, bson.M{"_id": orderID})
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if result.DeletedCount == 0 {
			respondError(c, http.StatusNotFound, route, "order not found")
			return
		}

		respondOK(c, http.StatusOK, gin.H{"message": "order deleted"})
	}
}
