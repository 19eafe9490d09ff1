package routes

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-toudou/internal/services"
)

// AuthMiddleware はAuthorizationヘッダーを検証し、認証済みユーザーの情報を
// コンテキストに設定するミドルウェアです。HTTP Basic認証と、/api/login が
// 発行するBearerトークンの両方を受け付けます。ロールはここで解決され、
// 以降のハンドラーへコンテキスト経由で明示的に引き渡されます。
func AuthMiddleware(authService *services.AuthService, jwtService *services.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			unauthorized(c, "Authorization required")
			return
		}

		switch {
		case strings.HasPrefix(header, "Basic "):
			username, password, ok := c.Request.BasicAuth()
			if !ok || !authService.VerifyCredentials(username, password) {
				unauthorized(c, "Invalid credentials")
				return
			}
			c.Set("username", username)
			c.Set("user_role", authService.RoleOf(username))

		case strings.HasPrefix(header, "Bearer "):
			claims, err := jwtService.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				unauthorized(c, "Invalid or expired token")
				return
			}
			c.Set("username", claims.Username)
			c.Set("user_role", claims.Role)

		default:
			unauthorized(c, "Invalid authorization format")
			return
		}

		c.Next()
	}
}

func unauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", `Basic realm="toudou"`)
	c.JSON(http.StatusUnauthorized, gin.H{"error": message})
	c.Abort()
}
