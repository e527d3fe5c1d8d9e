package api

import (
	"net/http"

	"farmconnect/internal/models"
	"farmconnect/internal/service"

	"github.com/gin-gonic/gin"
)

// consumerProfile returns the authenticated seller's profile
func (h *Handler) consumerProfile(c *gin.Context) {
	consumerID, ok := actorID(c)
	if !ok {
		return
	}
	consumer, err := h.auth.GetConsumerProfile(c.Request.Context(), consumerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, consumer)
}

// updateConsumerProfile applies profile edits for the seller
func (h *Handler) updateConsumerProfile(c *gin.Context) {
	consumerID, ok := actorID(c)
	if !ok {
		return
	}

	var update models.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	consumer, err := h.auth.UpdateConsumerProfile(c.Request.Context(), consumerID, update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "consumer": consumer})
}

// consumerProducts lists the seller's own products
func (h *Handler) consumerProducts(c *gin.Context) {
	consumerID, ok := actorID(c)
	if !ok {
		return
	}
	products, err := h.catalog.ListOwn(c.Request.Context(), consumerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// addProduct creates a product owned by the seller
func (h *Handler) addProduct(c *gin.Context) {
	consumerID, ok := actorID(c)
	if !ok {
		return
	}

	var input service.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	product, err := h.catalog.CreateProduct(c.Request.Context(), consumerID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Product added", "product": product})
}

// updateProduct edits a product owned by the seller
func (h *Handler) updateProduct(c *gin.Context) {
	consumerID, ok := actorID(c)
	if !ok {
		return
	}
	productID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var update models.ProductUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	product, err := h.catalog.UpdateProduct(c.Request.Context(), productID, consumerID, update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated", "product": product})
}

// deleteProduct removes a product owned by the seller
func (h *Handler) deleteProduct(c *gin.Context) {
	consumerID, ok := actorID(c)
	if !ok {
		return
	}
	productID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.catalog.DeleteProduct(c.Request.Context(), productID, consumerID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// consumerOrders returns the seller's visible orders
func (h *Handler) consumerOrders(c *gin.Context) {
	consumerID, ok := actorID(c)
	if !ok {
		return
	}
	orders, err := h.orders.ConsumerOrders(c.Request.Context(), consumerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

type statusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// updateOrderStatus overwrites an order's status. Shared by the seller
// and admin routes; the actor role rides along on the emitted event.
func (h *Handler) updateOrderStatus(c *gin.Context) {
	orderID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), orderID, req.Status, actorFrom(c).Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated", "order": order})
}

// hideOrderConsumer hides one order from the seller's history
func (h *Handler) hideOrderConsumer(c *gin.Context) {
	consumerID, ok := actorID(c)
	if !ok {
		return
	}
	orderID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.orders.HideOrderForConsumer(c.Request.Context(), orderID, consumerID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order hidden"})
}

// clearOrderHistoryConsumer hides the seller's terminal orders in bulk
func (h *Handler) clearOrderHistoryConsumer(c *gin.Context) {
	consumerID, ok := actorID(c)
	if !ok {
		return
	}

	hidden, err := h.orders.ClearHistoryForConsumer(c.Request.Context(), consumerID, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order history cleared", "hidden": hidden})
}
