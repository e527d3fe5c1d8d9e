package api

import (
	"net/http"

	"farmconnect/internal/apperr"
	"farmconnect/internal/util"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// respondError maps a service error to a JSON response. Internal
// errors are logged and masked.
func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		util.GetLogger().Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// objectIDParam parses a path parameter as an ObjectID, responding
// with a validation error on bad input.
func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return primitive.NilObjectID, false
	}
	return id, true
}

// actorID parses the authenticated actor's id, responding with
// Unauthorized when the token carries no usable id.
func actorID(c *gin.Context) (primitive.ObjectID, bool) {
	actor := actorFrom(c)
	id, err := primitive.ObjectIDFromHex(actor.ID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "actor id not found in token"})
		return primitive.NilObjectID, false
	}
	return id, true
}
