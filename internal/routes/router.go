// Package routesはroutingを行います。
package routes

import (
	"database/sql"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"go-toudou/internal/handlers"
	"go-toudou/internal/repositories"
	"go-toudou/internal/services"
)

// SetupRouter はGinルーターをセットアップし、すべてのエンドポイントを登録します。
func SetupRouter(db *sql.DB, authService *services.AuthService) *gin.Engine {
	r := gin.Default()

	// CORS対策
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"http://localhost:3000"}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	config.AllowCredentials = true
	r.Use(cors.New(config))

	// リポジトリ
	todoRepo := repositories.NewTodoRepository(db)

	// サービス
	todoService := services.NewTodoService(todoRepo)
	csvService := services.NewCSVService(todoRepo)
	jwtService := services.NewJWTService()

	// ハンドラー
	userHandler := handlers.NewUserHandler(authService, jwtService)
	todoHandler := handlers.NewTodoHandler(todoService)
	csvHandler := handlers.NewCSVHandler(csvService)

	// ルーティング
	r.GET("/api/dbcheck", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database connection failed", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Database connection is healthy"})
	})
	r.POST("/api/login", userHandler.LoginHandler)

	authorized := r.Group("/")
	authorized.Use(AuthMiddleware(authService, jwtService))
	{
		authorized.GET("/api/me", userHandler.MeHandler)
		authorized.GET("/api/todos", todoHandler.GetTodosHandler)
		authorized.GET("/api/todos/:id", todoHandler.GetTodoByIDHandler)
		authorized.POST("/api/todos", todoHandler.CreateTodoHandler)
		authorized.PUT("/api/todos/:id", todoHandler.UpdateTodoHandler)
		authorized.DELETE("/api/todos/:id", todoHandler.DeleteTodoHandler)
		authorized.GET("/api/export-csv", csvHandler.ExportHandler)
		authorized.POST("/api/import-csv", csvHandler.ImportHandler)
	}

	return r
}
