package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"todo-auth/backend/internal/repositories"
	"todo-auth/backend/internal/services"
)

// respondError はサービス層のエラーをHTTPステータスに変換して返します。
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid arguments"})
	case errors.Is(err, services.ErrUnknownOwner):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
	case errors.Is(err, services.ErrAuthenticationFailed):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, repositories.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
	case errors.Is(err, repositories.ErrTodoNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found"})
	case errors.Is(err, repositories.ErrTodoForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
	default:
		// 詳細はログにだけ残す
		slog.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
}
