package services

import (
	"errors"
	"time"

	"go-toudou/internal/models"
	"go-toudou/internal/repositories"
)

// ErrForbidden は書き込み操作に必要なadminロールを持たない場合のエラーです。
var ErrForbidden = errors.New("admin role required")

// TodoService はTodo関連のビジネスロジックを扱います。
// 参照系は認証済みであれば誰でも、書き込み系はadminのみ許可します。
type TodoService struct {
	todoRepo *repositories.TodoRepository
}

// NewTodoService は新しいTodoServiceを作成します。
func NewTodoService(todoRepo *repositories.TodoRepository) *TodoService {
	return &TodoService{todoRepo: todoRepo}
}

// CreateTodo は新しいTodoを作成します。adminロールが必要です。
func (s *TodoService) CreateTodo(task string, complete bool, due *time.Time, role string) (*models.Todo, error) {
	if role != RoleAdmin {
		return nil, ErrForbidden
	}
	return s.todoRepo.Create(task, complete, due)
}

// GetTodos はTodoの一覧を取得します。
// queryが空の場合は全件、そうでなければtaskの部分一致検索です。
func (s *TodoService) GetTodos(query string) ([]*models.Todo, error) {
	if query == "" {
		return s.todoRepo.FindAll()
	}
	return s.todoRepo.SearchByTask(query)
}

// GetTodoByID は指定IDのTodoを取得します。
func (s *TodoService) GetTodoByID(id string) (*models.Todo, error) {
	return s.todoRepo.FindByID(id)
}

// UpdateTodo はTodoの可変フィールドを丸ごと置き換えます。adminロールが必要です。
func (s *TodoService) UpdateTodo(id, task string, complete bool, due *time.Time, role string) (*models.Todo, error) {
	if role != RoleAdmin {
		return nil, ErrForbidden
	}
	return s.todoRepo.Update(id, task, complete, due)
}

// DeleteTodo はTodoを削除し、削除したレコードを返します。adminロールが必要です。
func (s *TodoService) DeleteTodo(id, role string) (*models.Todo, error) {
	if role != RoleAdmin {
		return nil, ErrForbidden
	}
	return s.todoRepo.Delete(id)
}
