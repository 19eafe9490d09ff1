// Package testutil はテスト用のデータベースとルーターの共通セットアップを提供します。
package testutil

import (
	"bytes"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"go-toudou/internal/database"
	"go-toudou/internal/models"
	"go-toudou/internal/repositories"
	"go-toudou/internal/routes"
	"go-toudou/internal/services"
)

// テスト用の固定アカウント。パスワードは元実装の既定値と同じです。
const (
	AdminUser = "admin"
	AdminPass = "admin"
	PlainUser = "user"
	PlainPass = "user"
)

// SetupTestDB はテスト専用のsqliteデータベースを一時ディレクトリに作成し、
// スキーマを適用してルーターと共に返します。外部のDBサーバーは不要です。
func SetupTestDB(t *testing.T) (*sql.DB, *gin.Engine, *repositories.TodoRepository) {
	t.Helper()
	_ = godotenv.Load()

	dbPath := filepath.Join(t.TempDir(), "todos_test.db")
	db, err := sql.Open("sqlite3", "file:"+dbPath+"?_loc=UTC")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		t.Fatalf("Failed to ping test database: %v", err)
	}
	if err := database.Migrate(db, "sqlite3"); err != nil {
		db.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	router := SetupTestRouter(t, db)
	todoRepo := repositories.NewTodoRepository(db)

	return db, router, todoRepo
}

// NewTestAuthService はadmin/userの2アカウントを持つAuthServiceを作成します。
func NewTestAuthService(t *testing.T) *services.AuthService {
	t.Helper()
	adminHash, err := services.HashPassword(AdminPass)
	require.NoError(t, err)
	userHash, err := services.HashPassword(PlainPass)
	require.NoError(t, err)

	return services.NewAuthService(map[string]string{
		AdminUser: adminHash,
		PlainUser: userHash,
	})
}

// SetupTestRouter はテスト用のGinルーターをセットアップします。
func SetupTestRouter(t *testing.T, db *sql.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return routes.SetupRouter(db, NewTestAuthService(t))
}

// BasicAuth はAuthorizationヘッダー用のBasic認証値を組み立てます。
func BasicAuth(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

// CreateTestTodo はAPI経由でテスト用のTodoを作成します。
func CreateTestTodo(t *testing.T, router *gin.Engine, task, due string, complete bool) *models.Todo {
	t.Helper()
	payload := map[string]interface{}{
		"task":     task,
		"due":      due,
		"complete": complete,
	}
	body, _ := json.Marshal(payload)

	req, _ := http.NewRequest(http.MethodPost, "/api/todos", bytes.NewBuffer(body))
	req.Header.Set("Authorization", BasicAuth(AdminUser, AdminPass))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code, "failed to create test todo: %s", resp.Body.String())

	var createdTodo models.Todo
	err := json.Unmarshal(resp.Body.Bytes(), &createdTodo)
	require.NoError(t, err)
	return &createdTodo
}

// LoginAndGetToken は/api/loginでBearerトークンを取得します。
func LoginAndGetToken(t *testing.T, router *gin.Engine, username, password string) (string, error) {
	t.Helper()
	payload := map[string]string{
		"username": username,
		"password": password,
	}
	body, _ := json.Marshal(payload)

	req, _ := http.NewRequest(http.MethodPost, "/api/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		return "", fmt.Errorf("login failed with status %d: %s", resp.Code, resp.Body.String())
	}

	var loginRes map[string]interface{}
	if err := json.Unmarshal(resp.Body.Bytes(), &loginRes); err != nil {
		return "", fmt.Errorf("failed to unmarshal login response: %w", err)
	}

	token, ok := loginRes["token"].(string)
	if !ok {
		return "", errors.New("token not found or not a string in login response")
	}
	return token, nil
}
