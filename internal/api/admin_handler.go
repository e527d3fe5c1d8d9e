package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// adminDashboard returns the operator's headline counts
func (h *Handler) adminDashboard(c *gin.Context) {
	stats, err := h.admin.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// adminListUsers lists every buyer account
func (h *Handler) adminListUsers(c *gin.Context) {
	users, err := h.admin.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// adminListConsumers lists every seller account
func (h *Handler) adminListConsumers(c *gin.Context) {
	consumers, err := h.admin.ListConsumers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"consumers": consumers})
}

// adminConsumerProducts lists one seller's products
func (h *Handler) adminConsumerProducts(c *gin.Context) {
	consumerID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	products, err := h.admin.ConsumerProducts(c.Request.Context(), consumerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// adminConsumerOrders lists one seller's orders regardless of
// visibility flags
func (h *Handler) adminConsumerOrders(c *gin.Context) {
	consumerID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	orders, err := h.admin.ConsumerOrders(c.Request.Context(), consumerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// adminDeleteConsumer removes a seller and cascades to their products
func (h *Handler) adminDeleteConsumer(c *gin.Context) {
	consumerID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.admin.DeleteConsumer(c.Request.Context(), consumerID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Consumer deleted"})
}

// adminDeleteProduct removes any product (moderation path)
func (h *Handler) adminDeleteProduct(c *gin.Context) {
	productID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.AdminDeleteProduct(c.Request.Context(), productID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// adminUserDetails returns one buyer account
func (h *Handler) adminUserDetails(c *gin.Context) {
	userID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	user, err := h.admin.UserDetails(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// adminDeleteUser removes a buyer account
func (h *Handler) adminDeleteUser(c *gin.Context) {
	userID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.admin.DeleteUser(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// adminUserOrders lists one buyer's orders regardless of visibility
// flags
func (h *Handler) adminUserOrders(c *gin.Context) {
	userID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	orders, err := h.admin.UserOrders(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// adminAllOrders lists every order
func (h *Handler) adminAllOrders(c *gin.Context) {
	orders, err := h.admin.AllOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// adminDeleteOrders bulk-deletes orders, optionally filtered by
// ?status=
func (h *Handler) adminDeleteOrders(c *gin.Context) {
	deleted, err := h.admin.DeleteOrders(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Orders deleted", "deleted": deleted})
}

// adminOrderDetails returns one order with all references resolved
func (h *Handler) adminOrderDetails(c *gin.Context) {
	orderID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.admin.OrderDetails(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
