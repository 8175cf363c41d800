package response

import (
	"net/http"

	"anoa.com/kulupportal/pkg/apperror"
	"anoa.com/kulupportal/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrorKindKey holds the kind of the error rendered for the request so
// middleware can observe it after the handler returns.
const ErrorKindKey = "error_kind"

// GetUserID retrieves the authenticated user ID from the context
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	str, ok := userIDStr.(string)
	if !ok {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	userID, err := uuid.Parse(str)
	if err != nil {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	return userID, nil
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)
	c.Set(ErrorKindKey, apperror.Kind(err))

	if code == http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "internal error",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(code, gin.H{
			"error": apperror.KindInternal,
			"kind":  apperror.KindInternal,
		})
		return
	}

	c.JSON(code, gin.H{
		"error":   apperror.Reason(err),
		"kind":    apperror.Kind(err),
		"message": err.Error(),
	})
}
