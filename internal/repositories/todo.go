// Package repositories はデータベース操作を行うリポジトリを提供します。
package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"go-toudou/internal/models"
)

// ErrTodoNotFound は指定IDのTodoが存在しない場合のエラーです。
var ErrTodoNotFound = errors.New("todo not found")

// TodoRepository はデータベース操作を行うための構造体です。
type TodoRepository struct {
	DB *sql.DB
}

// NewTodoRepository は新しいTodoRepositoryインスタンスを作成します。
func NewTodoRepository(db *sql.DB) *TodoRepository {
	return &TodoRepository{DB: db}
}

// Create は新しいUUIDを採番してTodoを挿入し、永続化されたレコードを返します。
func (r *TodoRepository) Create(task string, complete bool, due *time.Time) (*models.Todo, error) {
	t := &models.Todo{
		ID:       uuid.NewString(),
		Task:     task,
		Complete: complete,
		Due:      due,
	}

	query := "INSERT INTO todos (id, task, complete, due) VALUES (?, ?, ?, ?)"
	if _, err := r.DB.Exec(query, t.ID, t.Task, t.Complete, t.Due); err != nil {
		log.Printf("Failed to insert todo: %v", err)
		return nil, fmt.Errorf("could not insert todo: %w", err)
	}

	return t, nil
}

// CreateBatch は複数のTodoを1トランザクションで挿入します。
// 各Todoには新しいUUIDが採番されます。途中で失敗した場合はロールバックされ、
// 1件も挿入されません (CSV取り込みの全件一括コミット用)。
func (r *TodoRepository) CreateBatch(todos []*models.Todo) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}

	query := "INSERT INTO todos (id, task, complete, due) VALUES (?, ?, ?, ?)"
	for _, t := range todos {
		t.ID = uuid.NewString()
		if _, err := tx.Exec(query, t.ID, t.Task, t.Complete, t.Due); err != nil {
			tx.Rollback()
			log.Printf("Failed to insert todo batch: %v", err)
			return fmt.Errorf("could not insert todos: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit todos: %w", err)
	}
	return nil
}

// FindAll はすべてのTodoを挿入順 (seq昇順) で取得します。
func (r *TodoRepository) FindAll() ([]*models.Todo, error) {
	return r.queryTodos("SELECT id, task, complete, due FROM todos ORDER BY seq")
}

// SearchByTask はtaskに部分文字列が含まれるTodoを挿入順で取得します。
// LIKEによる比較のため大文字小文字は区別しません (MySQLの既定照合順序と
// sqliteのASCII LIKEで同じ挙動)。空のパターンは全件に一致します。
// 一致0件はエラーではなく空のスライスを返します。
func (r *TodoRepository) SearchByTask(pattern string) ([]*models.Todo, error) {
	return r.queryTodos(
		"SELECT id, task, complete, due FROM todos WHERE task LIKE ? ORDER BY seq",
		"%"+pattern+"%",
	)
}

func (r *TodoRepository) queryTodos(query string, args ...any) ([]*models.Todo, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		log.Printf("Failed to query todos: %v", err)
		return nil, fmt.Errorf("could not query todos: %w", err)
	}
	defer rows.Close()

	todos := []*models.Todo{}
	for rows.Next() {
		var t models.Todo
		var due sql.NullTime
		if err := rows.Scan(&t.ID, &t.Task, &t.Complete, &due); err != nil {
			log.Printf("Failed to scan todo: %v", err)
			return nil, fmt.Errorf("could not scan todo: %w", err)
		}
		if due.Valid {
			d := due.Time
			t.Due = &d
		}
		todos = append(todos, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todos: %w", err)
	}

	return todos, nil
}

// FindByID は指定されたIDのTodoを取得します。
// 存在しない場合はErrTodoNotFoundを返します。
func (r *TodoRepository) FindByID(id string) (*models.Todo, error) {
	query := "SELECT id, task, complete, due FROM todos WHERE id = ?"

	var t models.Todo
	var due sql.NullTime
	err := r.DB.QueryRow(query, id).Scan(&t.ID, &t.Task, &t.Complete, &due)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		log.Printf("Failed to query todo by ID: %v", err)
		return nil, fmt.Errorf("could not query todo: %w", err)
	}
	if due.Valid {
		d := due.Time
		t.Due = &d
	}

	return &t, nil
}

// Update は指定されたIDのTodoの可変フィールド (task, complete, due) を
// 無条件に丸ごと置き換えます。dueにnilを渡すとNULLに更新されます。
// IDが存在しない場合はErrTodoNotFoundを返します。
func (r *TodoRepository) Update(id, task string, complete bool, due *time.Time) (*models.Todo, error) {
	// 値が変わらない更新でもMySQLのRowsAffectedは0になるため、
	// 存在確認は事前のSELECTで行う
	if _, err := r.FindByID(id); err != nil {
		return nil, err
	}

	query := "UPDATE todos SET task = ?, complete = ?, due = ? WHERE id = ?"
	if _, err := r.DB.Exec(query, task, complete, due, id); err != nil {
		log.Printf("Failed to update todo: %v", err)
		return nil, fmt.Errorf("could not update todo: %w", err)
	}

	// 更新後のレコードを取得して返す
	return r.FindByID(id)
}

// Delete は指定されたIDのTodoを削除し、削除したレコードを返します。
// IDが存在しない場合はErrTodoNotFoundを返します。
func (r *TodoRepository) Delete(id string) (*models.Todo, error) {
	t, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}

	query := "DELETE FROM todos WHERE id = ?"
	if _, err := r.DB.Exec(query, id); err != nil {
		log.Printf("Failed to delete todo: %v", err)
		return nil, fmt.Errorf("could not delete todo: %w", err)
	}

	return t, nil
}
