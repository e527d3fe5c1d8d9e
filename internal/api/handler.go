package api

import (
	"net/http"
	"time"

	"farmconnect/internal/auth"
	"farmconnect/internal/models"
	"farmconnect/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	auth     *service.AuthService
	catalog  *service.CatalogService
	cart     *service.CartService
	checkout *service.CheckoutService
	orders   *service.OrderService
	payments *service.PaymentService
	feedback *service.FeedbackService
	admin    *service.AdminService
	tokens   *auth.TokenIssuer
}

// NewHandler creates a new HTTP handler
func NewHandler(
	authService *service.AuthService,
	catalog *service.CatalogService,
	cart *service.CartService,
	checkout *service.CheckoutService,
	orders *service.OrderService,
	payments *service.PaymentService,
	feedback *service.FeedbackService,
	admin *service.AdminService,
	tokens *auth.TokenIssuer,
) *Handler {
	return &Handler{
		auth:     authService,
		catalog:  catalog,
		cart:     cart,
		checkout: checkout,
		orders:   orders,
		payments: payments,
		feedback: feedback,
		admin:    admin,
		tokens:   tokens,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/user/signup", h.userSignup)
		authGroup.POST("/user/login", h.userLogin)
		authGroup.POST("/consumer/signup", h.consumerSignup)
		authGroup.POST("/consumer/login", h.consumerLogin)
		authGroup.POST("/admin/login", h.adminLogin)
	}

	userGroup := api.Group("/user")
	{
		// Public catalog browsing
		userGroup.GET("/products", h.listProducts)
		userGroup.GET("/products/consumer/:id", h.listProductsByConsumer)
		userGroup.GET("/products/:id", h.getProduct)

		authed := userGroup.Group("")
		authed.Use(authRequired(h.tokens), roleRequired(models.RoleUser))
		{
			authed.GET("/profile", h.userProfile)
			authed.PUT("/profile", h.updateUserProfile)

			authed.GET("/cart", h.getCart)
			authed.POST("/cart/add", h.addToCart)
			authed.DELETE("/cart/:productId", h.removeFromCart)
			authed.DELETE("/cart", h.clearCart)

			authed.POST("/checkout", h.runCheckout)
			authed.POST("/create-payment-intent", h.createPaymentIntent)

			authed.GET("/my-orders", h.myOrders)
			authed.PUT("/order/:id/hide", h.hideOrderUser)
			authed.DELETE("/orders/history", h.clearOrderHistoryUser)
		}
	}

	consumerGroup := api.Group("/consumer")
	consumerGroup.Use(authRequired(h.tokens), roleRequired(models.RoleConsumer))
	{
		consumerGroup.GET("/profile", h.consumerProfile)
		consumerGroup.PUT("/profile", h.updateConsumerProfile)

		consumerGroup.GET("/products", h.consumerProducts)
		consumerGroup.POST("/product", h.addProduct)
		consumerGroup.PUT("/product/:id", h.updateProduct)
		consumerGroup.DELETE("/product/:id", h.deleteProduct)

		consumerGroup.GET("/orders", h.consumerOrders)
		consumerGroup.PUT("/order/:id/status", h.updateOrderStatus)
		consumerGroup.PUT("/order/:id/hide", h.hideOrderConsumer)
		consumerGroup.DELETE("/orders/history", h.clearOrderHistoryConsumer)
	}

	adminGroup := api.Group("/admin")
	adminGroup.Use(authRequired(h.tokens), roleRequired(models.RoleAdmin))
	{
		adminGroup.GET("/dashboard", h.adminDashboard)
		adminGroup.GET("/users", h.adminListUsers)
		adminGroup.GET("/consumers", h.adminListConsumers)
		adminGroup.GET("/consumer/:id/products", h.adminConsumerProducts)
		adminGroup.GET("/consumer/:id/orders", h.adminConsumerOrders)
		adminGroup.DELETE("/consumer/:id", h.adminDeleteConsumer)
		adminGroup.DELETE("/product/:id", h.adminDeleteProduct)

		adminGroup.GET("/user/:id", h.adminUserDetails)
		adminGroup.DELETE("/user/:id", h.adminDeleteUser)
		adminGroup.GET("/user/:id/orders", h.adminUserOrders)

		adminGroup.GET("/orders", h.adminAllOrders)
		adminGroup.DELETE("/orders", h.adminDeleteOrders)
		adminGroup.GET("/order/:id", h.adminOrderDetails)
		adminGroup.PUT("/order/:id/status", h.updateOrderStatus)
	}

	feedbackGroup := api.Group("/feedback")
	{
		feedbackGroup.GET("/consumer/:consumerId", h.listFeedback)

		feedbackGroup.POST("/add", authRequired(h.tokens), h.addFeedback)
		feedbackGroup.DELETE("/:id", authRequired(h.tokens), h.deleteFeedback)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}
