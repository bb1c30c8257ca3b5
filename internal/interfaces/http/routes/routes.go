// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/infrastructure/session"
	"github.com/your-org/storefront-backend/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes wires all API routes onto the given group
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, sessions session.Store, cfg *config.Config) {
	SetupAuthRoutes(rg, cfg)
	SetupProductRoutes(rg, db, sessions, cfg)
	SetupCartRoutes(rg, db, sessions, cfg)
	SetupCheckoutRoutes(rg, db, sessions, cfg)
	SetupOrderRoutes(rg, db, sessions, cfg)
	SetupAdminRoutes(rg, db, sessions, cfg)
}

// SetupAuthRoutes sets up staff authentication routes
func SetupAuthRoutes(rg *gin.RouterGroup, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(cfg)

	auth := rg.Group("/auth")
	{
		auth.POST("/staff/login", authHandler.StaffLogin)
	}
}

// SetupProductRoutes sets up the public catalog routes
func SetupProductRoutes(rg *gin.RouterGroup, db *gorm.DB, sessions session.Store, cfg *config.Config) {
	productHandler := handlers.NewProductHandler(db, cfg)
	cartHandler := handlers.NewCartHandler(db, sessions, cfg)

	products := rg.Group("/products")
	{
		products.GET("", productHandler.ListProducts)
		products.GET("/:id", productHandler.GetProduct)

		// Form-submit add-to-cart from the catalog page
		products.POST("/:id/add", cartHandler.AddToCartForm)
	}
}

// SetupCartRoutes sets up session cart routes
func SetupCartRoutes(rg *gin.RouterGroup, db *gorm.DB, sessions session.Store, cfg *config.Config) {
	cartHandler := handlers.NewCartHandler(db, sessions, cfg)
	checkoutHandler := handlers.NewCheckoutHandler(db, sessions, cfg)

	cart := rg.Group("/cart")
	{
		cart.GET("", cartHandler.GetCart)
		cart.GET("/summary", cartHandler.GetCartSummary)

		// JSON endpoints used by the dynamic cart page
		cart.POST("/items/:id", cartHandler.AddToCart)
		cart.PUT("/items/:id", cartHandler.UpdateCartItem)
		cart.DELETE("/items/:id", cartHandler.RemoveFromCart)

		// Form-submit fallback for the static cart page
		cart.POST("/update/:id", cartHandler.UpdateCartItemForm)

		// Stage the ticked cart lines for checkout
		cart.POST("/checkout", checkoutHandler.Stage)
	}
}

// SetupCheckoutRoutes sets up checkout resolution and commit routes
func SetupCheckoutRoutes(rg *gin.RouterGroup, db *gorm.DB, sessions session.Store, cfg *config.Config) {
	checkoutHandler := handlers.NewCheckoutHandler(db, sessions, cfg)

	checkout := rg.Group("/checkout")
	{
		checkout.GET("", checkoutHandler.GetCheckout)
		checkout.POST("", checkoutHandler.Commit)
	}
}

// SetupOrderRoutes sets up the order confirmation route
func SetupOrderRoutes(rg *gin.RouterGroup, db *gorm.DB, sessions session.Store, cfg *config.Config) {
	orderHandler := handlers.NewOrderHandler(db, sessions, cfg)
	invoiceHandler := handlers.NewInvoiceHandler(db, sessions, cfg)

	orders := rg.Group("/orders")
	{
		orders.GET("/:id", orderHandler.GetOrder)
		orders.GET("/:id/invoice", invoiceHandler.GenerateInvoice)
		orders.GET("/:id/invoice/data", invoiceHandler.GetInvoiceData)
	}
}

// SetupAdminRoutes sets up the management console routes
func SetupAdminRoutes(rg *gin.RouterGroup, db *gorm.DB, sessions session.Store, cfg *config.Config) {
	productHandler := handlers.NewProductHandler(db, cfg)
	orderHandler := handlers.NewOrderHandler(db, sessions, cfg)

	admin := rg.Group("/admin")
	admin.Use(middleware.StaffAuth(cfg))
	{
		// Product management
		products := admin.Group("/products")
		{
			products.GET("", productHandler.AdminListProducts)
			products.GET("/:id", productHandler.GetProduct)
			products.POST("", productHandler.CreateProduct)
			products.PUT("/:id", productHandler.UpdateProduct)
			products.DELETE("/:id", productHandler.DeleteProduct)
		}

		// Order management
		orders := admin.Group("/orders")
		{
			orders.GET("", orderHandler.ListOrders)
			orders.GET("/:id", orderHandler.GetOrder)
		}
	}
}
