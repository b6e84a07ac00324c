package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"campuschat/internal/services"
)

// abortWithError maps the service error taxonomy onto HTTP statuses: absent
// entities are 404, conflicts and invalid state transitions are 409, and
// anything else is a transient 500 surfaced to the caller.
func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrRoomNotFound),
		errors.Is(err, services.ErrMessageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNameTaken),
		errors.Is(err, services.ErrMessageDeleted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
