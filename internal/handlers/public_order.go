package handlers

import (
	"context"
	"errors"
	"log"
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

/* =========================
   REQUEST DTOs
========================= */

type checkoutItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	ItemType  string `json:"itemType"`
	Quantity  int    `json:"quantity" binding:"required"`
}

type checkoutAddressRequest struct {
	Street    string `json:"street" binding:"required"`
	Apartment string `json:"apartment"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode" binding:"required"`
	Country   string `json:"country" binding:"required"`
}

type createOrderRequest struct {
	CartItems       []checkoutItemRequest  `json:"cartItems" binding:"required"`
	ShippingAddress checkoutAddressRequest `json:"shippingAddress" binding:"required"`
	PaymentMethod   string                 `json:"paymentMethod" binding:"required"`
	CouponCode      string                 `json:"couponCode"`
}

/* =========================
   CHECKOUT ERRORS
========================= */

type outOfStockError struct {
	ProductID primitive.ObjectID
	Available int
	Requested int
}

func (e outOfStockError) Error() string { return "product out of stock" }

type lineItemNotFoundError struct {
	ID       primitive.ObjectID
	ItemType string
}

func (e lineItemNotFoundError) Error() string { return e.ItemType + " not found" }

type couponRejectedError struct{ reason error }

func (e couponRejectedError) Error() string { return e.reason.Error() }

/* =========================
   CREATE ORDER (checkout)
========================= */

// CreateOrder recomputes every total server-side and runs the whole checkout
// in one Mongo transaction: stock decrements, the coupon uses increment and
// the order insert either all land or none do.
func CreateOrder(db *mongo.Database, publisher *events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/orders"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		userID := c.MustGet("userId").(primitive.ObjectID)

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if len(req.CartItems) == 0 {
			respondError(c, http.StatusBadRequest, route, "at least one item is required")
			return
		}

		paymentMethod := strings.ToLower(strings.TrimSpace(req.PaymentMethod))
		if paymentMethod != "card" && paymentMethod != "cash" {
			respondError(c, http.StatusBadRequest, route, "invalid payment method")
			return
		}

		type requestedLine struct {
			ID       primitive.ObjectID
			ItemType string
			Quantity int
		}

		lines := make([]requestedLine, 0, len(req.CartItems))
		for _, item := range req.CartItems {
			id, err := primitive.ObjectIDFromHex(item.ProductID)
			if err != nil {
				respondError(c, http.StatusBadRequest, route, "invalid productId")
				return
			}
			if item.Quantity <= 0 {
				respondError(c, http.StatusBadRequest, route, "quantity must be greater than zero")
				return
			}
			itemType := strings.TrimSpace(item.ItemType)
			if itemType == "" {
				itemType = models.OrderItemTypeProduct
			}
			if itemType != models.OrderItemTypeProduct && itemType != models.OrderItemTypeBox {
				respondError(c, http.StatusBadRequest, route, "invalid itemType")
				return
			}
			lines = append(lines, requestedLine{ID: id, ItemType: itemType, Quantity: item.Quantity})
		}

		couponCode := strings.ToLower(strings.TrimSpace(req.CouponCode))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		session, err := db.Client().StartSession()
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer session.EndSession(ctx)

		var order models.Order
		_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
			orderItems := make([]models.OrderItem, 0, len(lines))
			checkoutLines := make([]checkoutLine, 0, len(lines))

			for _, line := range lines {
				switch line.ItemType {
				case models.OrderItemTypeBox:
					var box models.ThemedBox
					err := db.Collection("boxes").FindOne(sessCtx, bson.M{
						"_id":      line.ID,
						"isActive": true,
					}).Decode(&box)
					if err == mongo.ErrNoDocuments {
						return nil, lineItemNotFoundError{ID: line.ID, ItemType: "box"}
					}
					if err != nil {
						return nil, err
					}

					orderItems = append(orderItems, models.OrderItem{
						ProductID: box.ID,
						ItemType:  models.OrderItemTypeBox,
						Name:      box.Name,
						Price:     box.Price,
						Quantity:  line.Quantity,
						ImageURL:  box.Image,
					})
					checkoutLines = append(checkoutLines, checkoutLine{Price: box.Price, Quantity: line.Quantity})

				default:
					var product models.Product
					err := db.Collection("products").FindOne(sessCtx, bson.M{
						"_id":       line.ID,
						"isDeleted": bson.M{"$ne": true},
					}).Decode(&product)
					if err == mongo.ErrNoDocuments {
						return nil, lineItemNotFoundError{ID: line.ID, ItemType: "product"}
					}
					if err != nil {
						return nil, err
					}

					if product.Stock < line.Quantity {
						return nil, outOfStockError{
							ProductID: line.ID,
							Available: product.Stock,
							Requested: line.Quantity,
						}
					}

					filter := bson.M{
						"_id":       line.ID,
						"isDeleted": bson.M{"$ne": true},
						"stock":     bson.M{"$gte": line.Quantity},
					}
					update := bson.M{"$inc": bson.M{"stock": -line.Quantity}}

					res, err := db.Collection("products").UpdateOne(sessCtx, filter, update)
					if err != nil {
						return nil, err
					}
					if res.MatchedCount == 0 {
						return nil, outOfStockError{
							ProductID: line.ID,
							Available: product.Stock,
							Requested: line.Quantity,
						}
					}

					image := ""
					if len(product.Images) > 0 {
						image = product.Images[0]
					}
					orderItems = append(orderItems, models.OrderItem{
						ProductID: product.ID,
						ItemType:  models.OrderItemTypeProduct,
						Name:      product.Name,
						Price:     product.Price,
						Quantity:  line.Quantity,
						ImageURL:  image,
					})
					checkoutLines = append(checkoutLines, checkoutLine{Price: product.Price, Quantity: line.Quantity})
				}
			}

			discountAmount := 0.0
			freeShipping := false
			if couponCode != "" {
				subtotal := calculateCheckoutTotals(checkoutLines, 0, false).Subtotal

				var discount models.Discount
				err := db.Collection("discounts").FindOne(sessCtx, bson.M{"code": couponCode}).Decode(&discount)
				if err == mongo.ErrNoDocuments {
					return nil, couponRejectedError{reason: errCouponNotFound}
				}
				if err != nil {
					return nil, err
				}

				if err := validateCoupon(discount, time.Now()); err != nil {
					return nil, couponRejectedError{reason: err}
				}

				// Redeem inside the transaction: the guarded $inc keeps
				// concurrent checkouts from pushing uses past maxUses.
				redeemFilter := bson.M{"_id": discount.ID}
				if discount.MaxUses > 0 {
					redeemFilter["uses"] = bson.M{"$lt": discount.MaxUses}
				}
				res, err := db.Collection("discounts").UpdateOne(sessCtx, redeemFilter, bson.M{"$inc": bson.M{"uses": 1}})
				if err != nil {
					return nil, err
				}
				if res.MatchedCount == 0 {
					return nil, couponRejectedError{reason: errCouponUsageLimit}
				}

				discountAmount = couponDiscountAmount(discount, subtotal)
				freeShipping = couponGrantsFreeShipping(discount)
			}

			totals := calculateCheckoutTotals(checkoutLines, discountAmount, freeShipping)

			paymentStatus := models.PaymentStatusPending
			if paymentMethod == "card" {
				// Payment is simulated: card orders are marked paid directly.
				paymentStatus = models.PaymentStatusPaid
			}

			now := time.Now()
			order = models.Order{
				UserID: userID,
				Items:  orderItems,
				ShippingAddress: models.OrderAddress{
					Street:    strings.TrimSpace(req.ShippingAddress.Street),
					Apartment: strings.TrimSpace(req.ShippingAddress.Apartment),
					City:      strings.TrimSpace(req.ShippingAddress.City),
					State:     strings.TrimSpace(req.ShippingAddress.State),
					ZipCode:   strings.TrimSpace(req.ShippingAddress.ZipCode),
					Country:   strings.TrimSpace(req.ShippingAddress.Country),
				},
				PaymentMethod:  paymentMethod,
				OrderStatus:    models.OrderStatusPending,
				PaymentStatus:  paymentStatus,
				CouponCode:     couponCode,
				ItemsPrice:     totals.Subtotal,
				DiscountAmount: totals.DiscountAmount,
				ShippingPrice:  totals.ShippingPrice,
				TaxPrice:       totals.TaxPrice,
				TotalPrice:     totals.TotalPrice,
				CreatedAt:      now,
				UpdatedAt:      now,
			}

			res, err := db.Collection("orders").InsertOne(sessCtx, order)
			if err != nil {
				return nil, err
			}
			if id, ok := res.InsertedID.(primitive.ObjectID); ok {
				order.ID = id
			}

			// Checkout consumes the cart.
			_, err = db.Collection("carts").UpdateOne(sessCtx, bson.M{"userId": userID}, bson.M{
				"$set": bson.M{
					"items":     []models.CartItem{},
					"updatedAt": now,
				},
			})
			if err != nil {
				return nil, err
			}

			return nil, nil
		})
		if err != nil {
			var stockErr outOfStockError
			if errors.As(err, &stockErr) {
				c.JSON(http.StatusBadRequest, gin.H{
					"success":   false,
					"message":   "product out of stock",
					"productId": stockErr.ProductID.Hex(),
					"available": stockErr.Available,
					"requested": stockErr.Requested,
				})
				return
			}
			var notFoundErr lineItemNotFoundError
			if errors.As(err, &notFoundErr) {
				c.JSON(http.StatusBadRequest, gin.H{
					"success":   false,
					"message":   notFoundErr.Error(),
					"productId": notFoundErr.ID.Hex(),
				})
				return
			}
			var couponErr couponRejectedError
			if errors.As(err, &couponErr) {
				respondError(c, http.StatusBadRequest, route, couponErr.Error())
				return
			}
			log.Println("[ORDER] [ERROR] checkout transaction failed:", err)
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Println("[ORDER] [INFO] order created for user:", userID.Hex())

		publisher.Publish(c.Request.Context(), events.TopicOrderCreated, events.OrderEvent{
			OrderID:     order.ID.Hex(),
			UserID:      userID.Hex(),
			OrderStatus: order.OrderStatus,
			TotalPrice:  order.TotalPrice,
			OccurredAt:  order.CreatedAt,
		})

		respondOK(c, http.StatusCreated, order)
	}
}

/* =========================
   GET ORDERS (own)
========================= */

func GetOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders"
		defer handlePanic(c, route)

		userID := c.MustGet("userId").(primitive.ObjectID)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("orders").Find(ctx, bson.M{"userId": userID}, opts)
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

		respondOK(c, http.StatusOK, orders)
	}
}

// GetOrder returns one order, scoped to the requesting user unless admin.
func GetOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/:id"
		defer handlePanic(c, route)

		userID := c.MustGet("userId").(primitive.ObjectID)
		role, _ := c.Get("role")

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		if err := db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			respondError(c, http.StatusNotFound, route, "order not found")
			return
		}

		if order.UserID != userID && role != models.RoleAdmin {
			respondError(c, http.StatusForbidden, route, "forbidden")
			return
		}

		respondOK(c, http.StatusOK, order)
	}
}
