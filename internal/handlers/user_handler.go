// Package handlers はHTTPリクエストを処理するGinハンドラーを提供します。
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"todo-auth/backend/internal/models"
	"todo-auth/backend/internal/services"
)

// UserHandler はサインアップとサインインを扱います。
type UserHandler struct {
	userService *services.UserService
	jwtService  *services.JWTService
}

// NewUserHandler は新しいUserHandlerを作成します。
func NewUserHandler(userService *services.UserService, jwtService *services.JWTService) *UserHandler {
	return &UserHandler{userService: userService, jwtService: jwtService}
}

// SignupHandler はユーザーを登録します。
func (h *UserHandler) SignupHandler(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SignupResponse{Email: user.Email, Username: user.Username})
}

// SigninHandler は認証に成功したユーザーにトークンを発行します。
func (h *UserHandler) SigninHandler(c *gin.Context) {
	var req models.SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.jwtService.GenerateToken(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SigninResponse{ID: user.ID, Email: user.Email, Token: token})
}
