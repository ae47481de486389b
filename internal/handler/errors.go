package handler

import (
	"errors"
	"log"
	"net/http"

	"backoffice/internal/apperrors"
	"backoffice/pkg/response"

	"github.com/gin-gonic/gin"
)

// respondError translates service errors to HTTP status codes.
// Validation failures map to 400, state conflicts to 409 and broken
// references to 422. Anything unrecognized is a 500 with a generic
// message so internals never leak to clients.
func respondError(c *gin.Context, err error) {
	var ve *apperrors.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, ve.Error()))
		return
	}
	var ce *apperrors.ConflictError
	if errors.As(err, &ce) {
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, ce.Error()))
		return
	}
	var ie *apperrors.IntegrityError
	if errors.As(err, &ie) {
		c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, ie.Error()))
		return
	}
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Resource not found"))
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid email or password"))
	default:
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Internal server error"))
	}
}
