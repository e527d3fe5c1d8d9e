package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// listFeedback returns a seller's feedback, newest first
func (h *Handler) listFeedback(c *gin.Context) {
	consumerID, ok := objectIDParam(c, "consumerId")
	if !ok {
		return
	}
	feedback, err := h.feedback.ListByConsumer(c.Request.Context(), consumerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback": feedback})
}

type feedbackAddRequest struct {
	ConsumerID string `json:"consumerId" binding:"required"`
	Comment    string `json:"comment" binding:"required"`
}

// addFeedback creates feedback against a seller. The author reference
// follows the actor's role.
func (h *Handler) addFeedback(c *gin.Context) {
	var req feedbackAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	consumerID, err := primitive.ObjectIDFromHex(req.ConsumerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid consumerId"})
		return
	}

	feedback, err := h.feedback.Add(c.Request.Context(), consumerID, req.Comment, actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Feedback added", "feedback": feedback})
}

// deleteFeedback removes a feedback entry
func (h *Handler) deleteFeedback(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.feedback.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Feedback deleted"})
}
