package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-toudou/internal/models"
	"go-toudou/internal/services"
)

// UserHandler は認証関連のハンドラーを管理します。
type UserHandler struct {
	authService *services.AuthService
	jwtService  *services.JWTService
}

// NewUserHandler は新しいUserHandlerを作成します。
func NewUserHandler(authService *services.AuthService, jwtService *services.JWTService) *UserHandler {
	return &UserHandler{authService: authService, jwtService: jwtService}
}

// LoginHandler は認証情報を検証し、Bearerトークンを発行します。
// 以降のリクエストはBasic認証の代わりにこのトークンでも認証できます。
func (h *UserHandler) LoginHandler(c *gin.Context) {
	var req models.UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if !h.authService.VerifyCredentials(req.Username, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	role := h.authService.RoleOf(req.Username)
	token, err := h.jwtService.GenerateToken(req.Username, role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "username": req.Username, "role": role})
}

// MeHandler は認証済みユーザーの情報を返します。
func (h *UserHandler) MeHandler(c *gin.Context) {
	username, exists := c.Get("username")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Username not found in context"})
		return
	}
	role, exists := c.Get("user_role")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User role not found in context"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": username, "role": role})
}
