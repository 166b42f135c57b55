package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"boxmarket-backend/internal/models"
)

type validateDiscountRequest struct {
	Code         string  `json:"code" binding:"required"`
	CartSubtotal float64 `json:"cartSubtotal"`
}

// ValidateDiscount checks a coupon against a cart subtotal without redeeming
// it. Redemption (the uses increment) happens inside order creation.
func ValidateDiscount(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/discounts/validate"
		defer handlePanic(c, route)

		var req validateDiscountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if req.CartSubtotal < 0 {
			respondError(c, http.StatusBadRequest, route, "cartSubtotal must be zero or greater")
			return
		}

		code := strings.ToLower(strings.TrimSpace(req.Code))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var discount models.Discount
		err := db.Collection("discounts").FindOne(ctx, bson.M{"code": code}).Decode(&discount)
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, route, errCouponNotFound.Error())
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if err := validateCoupon(discount, time.Now()); err != nil {
			respondError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		respondOK(c, http.StatusOK, gin.H{
			"code":           discount.Code,
			"type":           discount.Type,
			"discountAmount": couponDiscountAmount(discount, req.CartSubtotal),
			"freeShipping":   couponGrantsFreeShipping(discount),
		})
	}
}
