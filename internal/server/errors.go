package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/jielong/internal/backup"
	catalogdomain "github.com/smallbiznis/jielong/internal/catalog/domain"
	directorydomain "github.com/smallbiznis/jielong/internal/directory/domain"
	ledgerdomain "github.com/smallbiznis/jielong/internal/ledger/domain"
	"github.com/smallbiznis/jielong/internal/reconcile"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

// ErrConfirmationRequired gates destructive operations behind an explicit
// caller confirmation.
var ErrConfirmationRequired = errors.New("confirmation_required")

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case errors.Is(err, catalogdomain.ErrNotFound),
		errors.Is(err, directorydomain.ErrNotFound),
		errors.Is(err, ledgerdomain.ErrNotFound):
		return http.StatusNotFound, errorPayload{Type: "not_found", Message: err.Error()}

	case errors.Is(err, catalogdomain.ErrInvalidName),
		errors.Is(err, catalogdomain.ErrInvalidPrice),
		errors.Is(err, directorydomain.ErrInvalidNickname),
		errors.Is(err, ledgerdomain.ErrInvalidStatus),
		errors.Is(err, ledgerdomain.ErrInvalidQuantity),
		errors.Is(err, reconcile.ErrMissingNickname),
		errors.Is(err, backup.ErrInvalidDocument):
		return http.StatusBadRequest, errorPayload{Type: "validation_error", Message: err.Error()}

	case errors.Is(err, reconcile.ErrNoValidItems):
		return http.StatusUnprocessableEntity, errorPayload{Type: "validation_error", Message: err.Error()}

	case errors.Is(err, ErrConfirmationRequired):
		return http.StatusPreconditionRequired, errorPayload{Type: "confirmation_required", Message: err.Error()}

	default:
		return http.StatusInternalServerError, errorPayload{Type: "internal_error", Message: "internal server error"}
	}
}
