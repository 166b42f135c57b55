package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"boxmarket-backend/internal/config"
	"boxmarket-backend/internal/database"
	"boxmarket-backend/internal/events"
	"boxmarket-backend/internal/handlers"
	"boxmarket-backend/internal/middleware"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureProductIndexes(db); err != nil {
		log.Printf("product index warning: %v", err)
	}
	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("order index warning: %v", err)
	}
	if err := database.EnsureDiscountIndexes(db); err != nil {
		log.Printf("discount index warning: %v", err)
	}
	if err := database.EnsureCartIndexes(db); err != nil {
		log.Printf("cart index warning: %v", err)
	}

	publisher := events.NewPublisher(config.AppEnv.KafkaBrokers)
	if publisher != nil {
		defer publisher.Close()
		log.Println("order events enabled, brokers:", config.AppEnv.KafkaBrokers)
	}

	r := gin.Default()

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(config.AppEnv.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = config.AppEnv.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	r.Use(cors.New(corsConfig))

	api := r.Group("/api")

	api.GET("/products", handlers.GetProducts(db))
	api.GET("/products/:id", handlers.GetProduct(db))
	api.GET("/boxes", handlers.GetBoxes(db))
	api.GET("/boxes/:id", handlers.GetBox(db))

	api.POST("/auth/register", handlers.Register(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL, config.AppEnv.RefreshTokenTTL))
	api.POST("/auth/login", handlers.Login(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL, config.AppEnv.RefreshTokenTTL))
	api.POST("/auth/refresh", handlers.Refresh(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL, config.AppEnv.RefreshTokenTTL))
	api.POST("/auth/logout", handlers.Logout(db))
	api.GET("/auth/me", middleware.UserAuth(config.AppEnv.JWTSecret), handlers.GetMe(db))

	api.POST("/admin/login", handlers.AdminLogin(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL))

	user := api.Group("")
	user.Use(middleware.UserAuth(config.AppEnv.JWTSecret))
	{
		user.GET("/cart", handlers.GetCart(db))
		user.POST("/cart", handlers.AddToCart(db))
		user.PUT("/cart/:productId", handlers.UpdateCartItem(db))
		user.DELETE("/cart/:productId", handlers.RemoveCartItem(db))
		user.DELETE("/cart", handlers.ClearCart(db))

		user.GET("/wishlist", handlers.GetWishlist(db))
		user.POST("/wishlist", handlers.AddToWishlist(db))
		user.DELETE("/wishlist/:productId", handlers.RemoveFromWishlist(db))

		user.GET("/user/addresses", handlers.GetUserAddresses(db))
		user.POST("/user/addresses", handlers.CreateUserAddress(db))
		user.PUT("/user/addresses/:id", handlers.UpdateUserAddress(db))
		user.DELETE("/user/addresses/:id", handlers.DeleteUserAddress(db))

		user.POST("/discounts/validate", handlers.ValidateDiscount(db))

		user.POST("/orders", handlers.CreateOrder(db, publisher))
		user.GET("/orders", handlers.GetOrders(db))
		user.GET("/orders/:id", handlers.GetOrder(db))
	}

	api.PUT("/orders/:id", middleware.AdminAuth(config.AppEnv.JWTSecret), handlers.UpdateOrderStatus(db, publisher))

	admin := api.Group("/admin")
	admin.Use(middleware.AdminAuth(config.AppEnv.JWTSecret))
	{
		admin.GET("/me", func(c *gin.Context) {
			c.JSON(200, gin.H{"success": true})
		})

		admin.GET("/products", handlers.GetAllProducts(db))
		admin.POST("/products", handlers.CreateProduct(db))
		admin.PUT("/products/:id", handlers.UpdateProduct(db))
		admin.DELETE("/products/:id", handlers.DeleteProduct(db))

		admin.GET("/boxes", handlers.GetAllBoxes(db))
		admin.POST("/boxes", handlers.CreateBox(db))
		admin.PUT("/boxes/:id", handlers.UpdateBox(db))
		admin.DELETE("/boxes/:id", handlers.DeleteBox(db))

		admin.GET("/discounts", handlers.GetAllDiscounts(db))
		admin.POST("/discounts", handlers.CreateDiscount(db))
		admin.PUT("/discounts/:id", handlers.UpdateDiscount(db))
		admin.DELETE("/discounts/:id", handlers.DeleteDiscount(db))

		admin.GET("/orders", handlers.GetAllOrders(db))
		admin.DELETE("/orders/:id", handlers.DeleteOrder(db))

		admin.GET("/stats", handlers.GetAdminStats(db))
	}

	r.Run(":" + config.AppEnv.Port)
}
