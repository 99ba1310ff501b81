package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/morgancollado/mocingbird-task-manager/internal/pkg/apperr"
)

// respondError maps the error taxonomy onto HTTP statuses. Validation-shaped
// failures return every violated-field message; everything unrecognized is a
// 500 with no internals leaked.
func respondError(c *gin.Context, err error) {
	if vErr, ok := apperr.AsValidation(err); ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": vErr.Messages})
		return
	}
	switch {
	case errors.Is(err, apperr.ErrMissingCredential):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
	case errors.Is(err, apperr.ErrUnauthenticated), errors.Is(err, apperr.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, apperr.ErrUnknownStatus),
		errors.Is(err, apperr.ErrInvalidTransition),
		errors.Is(err, apperr.ErrForbidden):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": []string{err.Error()}})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
