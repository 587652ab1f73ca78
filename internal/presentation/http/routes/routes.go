package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/investify-desk/internal/application/service"
	"github.com/sangkips/investify-desk/internal/config"
	"github.com/sangkips/investify-desk/internal/domain/entity"
	"github.com/sangkips/investify-desk/internal/presentation/http/handler"
	"github.com/sangkips/investify-desk/internal/presentation/http/middleware"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Session   *handler.SessionHandler
	POS       *handler.CartHandler
	Purchases *handler.CartHandler
	Receipts  *handler.ReceiptHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Session *service.SessionService
	Cfg     *config.Config
	Logger  *zap.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
		BurstSize:         deps.Cfg.RateLimit.Requests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(rateLimiter.Middleware())
	{
		// Public routes (no session required)
		registerAuthRoutes(v1, h)

		// Protected routes (session required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.Session))

		protected.GET("/auth/me", h.Session.Me)

		pos := protected.Group("/pos")
		pos.Use(middleware.RequireRole(entity.RoleAdmin, entity.RoleSeller))
		registerCartRoutes(pos, h.POS)
		if h.Receipts != nil {
			pos.GET("/printer/status", h.Receipts.GetStatus)
			pos.POST("/receipt", h.Receipts.PrintLastSale)
		}

		purchases := protected.Group("/purchases")
		purchases.Use(middleware.RequireRole(entity.RoleAdmin))
		registerCartRoutes(purchases, h.Purchases)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Session.Login)
		auth.POST("/logout", h.Session.Logout)
	}
}

func registerCartRoutes(rg *gin.RouterGroup, h *handler.CartHandler) {
	rg.GET("/state", h.GetState)
	rg.POST("/load", h.Load)
	rg.PUT("/counterparty", h.SelectCounterparty)
	rg.GET("/products", h.ListProducts)
	rg.GET("/bill-accounts", h.ListBillAccounts)
	rg.POST("/reload", h.Reload)
	rg.POST("/reset", h.Reset)

	search := rg.Group("/search")
	{
		search.POST("/open", h.OpenSearch)
		search.POST("/close", h.CloseSearch)
	}

	quantity := rg.Group("/quantity")
	{
		quantity.POST("/add", h.OpenAddQuantity)
		quantity.POST("/edit", h.OpenEditQuantity)
		quantity.POST("/confirm", h.ConfirmQuantity)
		quantity.POST("/cancel", h.CancelQuantity)
	}

	rg.DELETE("/items/:item_id", h.RemoveItem)
	rg.POST("/confirmations/:id", h.ResolveConfirmation)

	checkout := rg.Group("/checkout")
	{
		checkout.POST("/open", h.OpenCheckout)
		checkout.PUT("/payment-method", h.ChangePaymentMethod)
		checkout.PUT("/account", h.SelectAccount)
		checkout.POST("/confirm", h.ConfirmCheckout)
		checkout.POST("/cancel", h.CancelCheckout)
	}
}
