// Package handlers はHTTPリクエストをサービス層の呼び出しに変換します。
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-toudou/internal/models"
	"go-toudou/internal/repositories"
	"go-toudou/internal/services"
)

// dueDisplayLayout は一覧表示用の長い日付表記です。例: "Monday 01 January 2024"
const dueDisplayLayout = "Monday 02 January 2006"

// dueInputLayouts はリクエストのdueフィールドで受け付ける形式です。
var dueInputLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"}

// TodoHandler はTodo関連のハンドラーを管理します。
type TodoHandler struct {
	todoService *services.TodoService
}

// NewTodoHandler は新しいTodoHandlerを作成します。
func NewTodoHandler(todoService *services.TodoService) *TodoHandler {
	return &TodoHandler{todoService: todoService}
}

// roleFromContext はAuthMiddlewareが設定したロールを取り出します。
func roleFromContext(c *gin.Context) (string, bool) {
	roleVal, exists := c.Get("user_role")
	if !exists {
		return "", false
	}
	role, ok := roleVal.(string)
	return role, ok
}

func parseDueInput(value string) (*time.Time, error) {
	for _, layout := range dueInputLayouts {
		if d, err := time.Parse(layout, value); err == nil {
			return &d, nil
		}
	}
	return nil, errors.New("invalid due date format, expected YYYY-MM-DD")
}

func forbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{
		"error": "This operation requires the admin role. Please identify as administrator.",
	})
}

// CreateTodoHandler は新しいTodoを作成します。adminのみ。
func (h *TodoHandler) CreateTodoHandler(c *gin.Context) {
	var req models.TodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}
	due, err := parseDueInput(req.Due)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, ok := roleFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User role not found in context"})
		return
	}

	createdTodo, err := h.todoService.CreateTodo(req.Task, req.Complete, due, role)
	if err != nil {
		if errors.Is(err, services.ErrForbidden) {
			forbidden(c)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save todo to database"})
		return
	}
	c.JSON(http.StatusCreated, createdTodo)
}

// GetTodosHandler はTodoの一覧を取得します。
// クエリパラメータqが空または無い場合は全件、そうでなければtaskの部分一致検索です。
// 各行には1始まりの表示番号と人間向けの期日表記が付きます。
func (h *TodoHandler) GetTodosHandler(c *gin.Context) {
	todos, err := h.todoService.GetTodos(c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch todos"})
		return
	}

	views := make([]models.TodoView, 0, len(todos))
	for i, t := range todos {
		view := models.TodoView{
			Index:    i + 1,
			ID:       t.ID,
			Task:     t.Task,
			Complete: t.Complete,
			Due:      t.Due,
		}
		if t.Due != nil {
			view.DueDisplay = t.Due.Format(dueDisplayLayout)
		}
		views = append(views, view)
	}
	c.JSON(http.StatusOK, views)
}

// GetTodoByIDHandler は指定IDのTodoを取得します。
// 存在しない場合はエラーではなく404の "not found" 応答になります。
func (h *TodoHandler) GetTodoByIDHandler(c *gin.Context) {
	todo, err := h.todoService.GetTodoByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrTodoNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch todo"})
		return
	}
	c.JSON(http.StatusOK, todo)
}

// UpdateTodoHandler はTodoを更新します。adminのみ。
// 3つの可変フィールドすべてをリクエストの値で置き換えます (マージしません)。
func (h *TodoHandler) UpdateTodoHandler(c *gin.Context) {
	var req models.TodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}
	due, err := parseDueInput(req.Due)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, ok := roleFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User role not found in context"})
		return
	}

	updatedTodo, err := h.todoService.UpdateTodo(c.Param("id"), req.Task, req.Complete, due, role)
	if err != nil {
		if errors.Is(err, services.ErrForbidden) {
			forbidden(c)
			return
		}
		if errors.Is(err, repositories.ErrTodoNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update todo"})
		return
	}
	c.JSON(http.StatusOK, updatedTodo)
}

// DeleteTodoHandler はTodoを削除します。adminのみ。
// すでに存在しないIDでも成功扱いにします (呼び出し側から見て冪等)。
func (h *TodoHandler) DeleteTodoHandler(c *gin.Context) {
	role, ok := roleFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User role not found in context"})
		return
	}

	if _, err := h.todoService.DeleteTodo(c.Param("id"), role); err != nil {
		if errors.Is(err, services.ErrForbidden) {
			forbidden(c)
			return
		}
		if !errors.Is(err, repositories.ErrTodoNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete todo"})
			return
		}
	}
	c.Status(http.StatusNoContent)
}
