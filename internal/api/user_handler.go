package api

import (
	"net/http"

	"farmconnect/internal/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// listProducts handles the public catalog listing
func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.catalog.ListPublic(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// listProductsByConsumer handles the public seller page listing
func (h *Handler) listProductsByConsumer(c *gin.Context) {
	consumerID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	products, err := h.catalog.ListByConsumerPublic(c.Request.Context(), consumerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// getProduct handles a single public product lookup
func (h *Handler) getProduct(c *gin.Context) {
	productID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	product, err := h.catalog.GetProduct(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// userProfile returns the authenticated buyer's profile
func (h *Handler) userProfile(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	user, err := h.auth.GetUserProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// updateUserProfile applies profile edits for the buyer
func (h *Handler) updateUserProfile(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var update models.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	user, err := h.auth.UpdateUserProfile(c.Request.Context(), userID, update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "user": user})
}

// getCart returns the buyer's cart
func (h *Handler) getCart(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	cart, err := h.cart.GetCart(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

type cartAddRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

// addToCart applies a quantity delta for a product. The same endpoint
// serves add, increment and decrement.
func (h *Handler) addToCart(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var req cartAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid productId"})
		return
	}

	cart, err := h.cart.AddItem(c.Request.Context(), userID, productID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// removeFromCart deletes a line from the buyer's cart
func (h *Handler) removeFromCart(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	productID, ok := objectIDParam(c, "productId")
	if !ok {
		return
	}

	cart, err := h.cart.RemoveItem(c.Request.Context(), userID, productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// clearCart empties the buyer's cart
func (h *Handler) clearCart(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	if err := h.cart.Clear(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

// runCheckout converts the buyer's cart into orders
func (h *Handler) runCheckout(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var shipping models.ShippingAddress
	if err := c.ShouldBindJSON(&shipping); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	result, err := h.checkout.Checkout(c.Request.Context(), userID, shipping)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Order placed", "result": result})
}

// createPaymentIntent obtains a payment intent for the cart total
func (h *Handler) createPaymentIntent(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	intent, err := h.payments.CreatePaymentIntent(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, intent)
}

// myOrders returns the buyer's visible orders
func (h *Handler) myOrders(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	orders, err := h.orders.MyOrders(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// hideOrderUser hides one order from the buyer's history
func (h *Handler) hideOrderUser(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	orderID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.orders.HideOrderForUser(c.Request.Context(), orderID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order hidden"})
}

// clearOrderHistoryUser hides the buyer's terminal orders in bulk. An
// optional ?status= narrows the sweep.
func (h *Handler) clearOrderHistoryUser(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	hidden, err := h.orders.ClearHistoryForUser(c.Request.Context(), userID, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order history cleared", "hidden": hidden})
}
