package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-toudou/internal/services"
	"go-toudou/testutil"
)

func TestTodoService_WriteOperationsRequireAdmin(t *testing.T) {
	db, _, todoRepo := testutil.SetupTestDB(t)
	defer db.Close()

	todoService := services.NewTodoService(todoRepo)

	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("non-admin create is forbidden", func(t *testing.T) {
		_, err := todoService.CreateTodo("Buy milk", false, &due, services.RoleUser)
		require.ErrorIs(t, err, services.ErrForbidden)
	})

	created, err := todoService.CreateTodo("Buy milk", false, &due, services.RoleAdmin)
	require.NoError(t, err)

	t.Run("non-admin update is forbidden", func(t *testing.T) {
		_, err := todoService.UpdateTodo(created.ID, "Changed", true, &due, services.RoleUser)
		require.ErrorIs(t, err, services.ErrForbidden)
	})

	t.Run("non-admin delete is forbidden", func(t *testing.T) {
		_, err := todoService.DeleteTodo(created.ID, services.RoleUser)
		require.ErrorIs(t, err, services.ErrForbidden)
	})

	t.Run("reads need no role", func(t *testing.T) {
		got, err := todoService.GetTodoByID(created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)

		todos, err := todoService.GetTodos("")
		require.NoError(t, err)
		assert.Len(t, todos, 1)
	})

	t.Run("admin delete succeeds", func(t *testing.T) {
		removed, err := todoService.DeleteTodo(created.ID, services.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, created.ID, removed.ID)
	})
}

func TestTodoService_GetTodosQuery(t *testing.T) {
	db, _, todoRepo := testutil.SetupTestDB(t)
	defer db.Close()

	todoService := services.NewTodoService(todoRepo)

	_, err := todoService.CreateTodo("Buy milk", false, nil, services.RoleAdmin)
	require.NoError(t, err)
	_, err = todoService.CreateTodo("Walk the dog", false, nil, services.RoleAdmin)
	require.NoError(t, err)

	// 空クエリは全件
	todos, err := todoService.GetTodos("")
	require.NoError(t, err)
	assert.Len(t, todos, 2)

	// 非空クエリは部分一致検索
	todos, err = todoService.GetTodos("dog")
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "Walk the dog", todos[0].Task)
}
