package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/motion-studio/briefing-backend/internal/briefing/domain"
	"github.com/motion-studio/briefing-backend/internal/logging"
)

// writeError maps domain errors to a status and a user-facing message
func writeError(c *gin.Context, operation string, err error) {
	var authErr *domain.AuthError
	var saveErr *domain.SaveError

	switch {
	case errors.As(err, &authErr):
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": authErr.Message})
	case errors.As(err, &saveErr):
		logging.NewLogger(c.Request.Context()).LogError(operation, err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": saveErr.Message})
	case errors.Is(err, domain.ErrUnsavedChanges):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": domain.MsgUnsavedChanges})
	case errors.Is(err, domain.ErrSaveInProgress), errors.Is(err, domain.ErrStaleLoad):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrReadOnly):
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrRowNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrUnknownField), errors.Is(err, domain.ErrUnknownSection),
		errors.Is(err, domain.ErrInvalidValue):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrTooManySessions):
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrNoSession), errors.Is(err, domain.ErrSessionNotFound):
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "session expired, please sign in again"})
	default:
		logging.NewLogger(c.Request.Context()).LogError(operation, err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
	}
}
