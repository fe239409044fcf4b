package routes

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"todo-auth/backend/internal/auth"
)

const (
	bearerPrefix    = "Bearer "
	requestIDHeader = "X-Request-ID"
)

// TokenValidator はトークンを検証して subject を返します。
type TokenValidator interface {
	ValidateToken(token string) (string, error)
}

// AuthMiddleware はBearerトークンを検証し、成功したらユーザーIDをリクエストのコンテキストに設定します。
// 検証に失敗しても中断せず、未認証のまま次へ進みます。拒否は RequireAuth が行います。
func AuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			c.Next()
			return
		}

		subject, err := tokens.ValidateToken(header[len(bearerPrefix):])
		if err != nil {
			slog.WarnContext(c.Request.Context(), "could not set user authentication", "path", c.Request.URL.Path, "error", err)
			c.Next()
			return
		}

		userID, err := strconv.ParseInt(subject, 10, 64)
		if err != nil || userID <= 0 {
			slog.WarnContext(c.Request.Context(), "token subject is not a user id", "subject", subject)
			c.Next()
			return
		}

		c.Request = c.Request.WithContext(auth.WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

// RequireAuth は未認証のリクエストを401で拒否します。
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := auth.UserIDFromContext(c.Request.Context()); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.Next()
	}
}

// RequestLogger はリクエストIDを付与し、完了時にslogでアクセスログを出力します。
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		c.Next()

		attrs := []any{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		}
		if userID, ok := auth.UserIDFromContext(c.Request.Context()); ok {
			attrs = append(attrs, "user_id", userID)
		}

		status := c.Writer.Status()
		switch {
		case status >= http.StatusInternalServerError:
			slog.Error("http request", attrs...)
		case status >= http.StatusBadRequest:
			slog.Warn("http request", attrs...)
		default:
			slog.Info("http request", attrs...)
		}
	}
}
