package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/XdebronneX/backend-TeamPOOR/services"
)

// respondError translates a service failure into the error envelope.
// Typed service errors carry their own status; anything else is a 500
// with a generic message, details staying in the server logs.
func respondError(ctx *gin.Context, err error) {
	var svcErr *services.ServiceError
	if errors.As(err, &svcErr) {
		ctx.JSON(svcErr.StatusCode, gin.H{"success": false, "message": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
}

func respondBindError(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request", "details": err.Error()})
}
