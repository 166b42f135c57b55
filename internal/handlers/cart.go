package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"boxmarket-backend/internal/models"
)

type addToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func loadCart(ctx context.Context, db *mongo.Database, userID primitive.ObjectID) (models.Cart, error) {
	var cart models.Cart
	err := db.Collection("carts").FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
	}
	if err != nil {
		return models.Cart{}, err
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return cart, nil
}

func saveCartItems(ctx context.Context, db *mongo.Database, userID primitive.ObjectID, items []models.CartItem) error {
	opts := options.Update().SetUpsert(true)
	_, err := db.Collection("carts").UpdateOne(ctx, bson.M{"userId": userID}, bson.M{
		"$set": bson.M{
			"items":     items,
			"updatedAt": time.Now(),
		},
	}, opts)
	return err
}

func GetCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/cart"
		defer handlePanic(c, route)

		userID := c.MustGet("userId").(primitive.ObjectID)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cart, err := loadCart(ctx, db, userID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondOK(c, http.StatusOK, cart.Items)
	}
}

// AddToCart adds a product with a denormalized snapshot, or bumps the
// quantity when the product is already in the cart.
func AddToCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/cart"
		defer handlePanic(c, route)

		userID := c.MustGet("userId").(primitive.ObjectID)

		var req addToCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		quantity := req.Quantity
		if quantity == 0 {
			quantity = 1
		}
		if quantity < 1 {
			respondError(c, http.StatusBadRequest, route, "quantity must be at least 1")
			return
		}

		productID, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid productId")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var raw bson.M
		err = db.Collection("products").FindOne(ctx, bson.M{
			"_id":       productID,
			"isActive":  true,
			"isDeleted": bson.M{"$ne": true},
		}).Decode(&raw)
		if err == mongo.ErrNoDocuments {
			respondError(c, http.StatusNotFound, route, "product not found")
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		product, err := normalizeProductDocument(raw)
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		cart, err := loadCart(ctx, db, userID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		index := -1
		for i, item := range cart.Items {
			if item.ProductID == productID {
				index = i
				break
			}
		}

		newQuantity := quantity
		if index >= 0 {
			newQuantity = cart.Items[index].Quantity + quantity
		}
		if newQuantity > product.Stock {
			respondError(c, http.StatusBadRequest, route, "not enough stock")
			return
		}

		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}

		item := models.CartItem{
			ProductID: productID,
			Name:      product.Name,
			Price:     product.Price,
			Image:     image,
			Stock:     product.Stock,
			Quantity:  newQuantity,
		}

		if index >= 0 {
			cart.Items[index] = item
		} else {
			cart.Items = append(cart.Items, item)
		}

		if err := saveCartItems(ctx, db, userID, cart.Items); err != nil {
			log.Println("[CART] [ERROR] save failed:", err)
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondOK(c, http.StatusOK, cart.Items)
	}
}

// UpdateCartItem sets an item quantity; zero removes the item.
func UpdateCartItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/cart/:productId"
		defer handlePanic(c, route)

		userID := c.MustGet("userId").(primitive.ObjectID)

		productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid productId")
			return
		}

		var req updateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if *req.Quantity < 0 {
			respondError(c, http.StatusBadRequest, route, "quantity must be zero or greater")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cart, err := loadCart(ctx, db, userID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		index := -1
		for i, item := range cart.Items {
			if item.ProductID == productID {
				index = i
				break
			}
		}
		if index == -1 {
			respondError(c, http.StatusNotFound, route, "item not in cart")
			return
		}

		if *req.Quantity == 0 {
			cart.Items = append(cart.Items[:index], cart.Items[index+1:]...)
		} else {
			if *req.Quantity > cart.Items[index].Stock {
				respondError(c, http.StatusBadRequest, route, "not enough stock")
				return
			}
			cart.Items[index].Quantity = *req.Quantity
		}

		if err := saveCartItems(ctx, db, userID, cart.Items); err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondOK(c, http.StatusOK, cart.Items)
	}
}

func RemoveCartItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/cart/:productId"
		defer handlePanic(c, route)

		userID := c.MustGet("userId").(primitive.ObjectID)

		productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid productId")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cart, err := loadCart(ctx, db, userID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		updated := make([]models.CartItem, 0, len(cart.Items))
		found := false
		for _, item := range cart.Items {
			if item.ProductID == productID {
				found = true
				continue
			}
			updated = append(updated, item)
		}
		if !found {
			respondError(c, http.StatusNotFound, route, "item not in cart")
			return
		}

		if err := saveCartItems(ctx, db, userID, updated); err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondOK(c, http.StatusOK, updated)
	}
}

func ClearCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/cart"
		defer handlePanic(c, route)

		userID := c.MustGet("userId").(primitive.ObjectID)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := saveCartItems(ctx, db, userID, []models.CartItem{}); err != nil {
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondOK(c, http.StatusOK, []models.CartItem{})
	}
}
