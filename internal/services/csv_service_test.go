package services_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-toudou/internal/services"
	"go-toudou/testutil"
)

func TestExport_EmptyStoreHasFixedHeader(t *testing.T) {
	db, _, todoRepo := testutil.SetupTestDB(t)
	defer db.Close()

	csvService := services.NewCSVService(todoRepo)

	// ストアが空でもヘッダーはレコードから導出せず固定スキーマで出力される
	var buf bytes.Buffer
	require.NoError(t, csvService.Export(&buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"id", "task", "complete", "due"}, records[0])
}

func TestExport_Format(t *testing.T) {
	db, _, todoRepo := testutil.SetupTestDB(t)
	defer db.Close()

	csvService := services.NewCSVService(todoRepo)

	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	created, err := todoRepo.Create("Buy milk", true, &due)
	require.NoError(t, err)
	_, err = todoRepo.Create("No due", false, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, csvService.Export(&buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, created.ID, records[1][0])
	assert.Equal(t, "Buy milk", records[1][1])
	// completeはPython互換の "True"/"False" 表記
	assert.Equal(t, "True", records[1][2])
	assert.Equal(t, "2024-01-01 00:00:00", records[1][3])

	assert.Equal(t, "False", records[2][2])
	assert.Equal(t, "", records[2][3])
}

func TestImport_CompleteExactMatchQuirk(t *testing.T) {
	db, _, todoRepo := testutil.SetupTestDB(t)
	defer db.Close()

	csvService := services.NewCSVService(todoRepo)

	// completeがtrueになるのは文字列 "True" と完全一致した行だけ
	input := strings.Join([]string{
		"task,due,complete",
		"exact,2024-01-01,True",
		"lowercase,2024-01-01,true",
		"uppercase,2024-01-01,TRUE",
		"empty,2024-01-01,",
	}, "\n")

	imported, err := csvService.Import(strings.NewReader(input), services.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, 4, imported)

	todos, err := todoRepo.FindAll()
	require.NoError(t, err)
	require.Len(t, todos, 4)
	assert.True(t, todos[0].Complete)
	assert.False(t, todos[1].Complete)
	assert.False(t, todos[2].Complete)
	assert.False(t, todos[3].Complete)
}

func TestImport_IgnoresIDColumn(t *testing.T) {
	db, _, todoRepo := testutil.SetupTestDB(t)
	defer db.Close()

	csvService := services.NewCSVService(todoRepo)

	input := "id,task,complete,due\nnot-a-real-id,Imported task,False,\n"
	imported, err := csvService.Import(strings.NewReader(input), services.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, 1, imported)

	todos, err := todoRepo.FindAll()
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.NotEqual(t, "not-a-real-id", todos[0].ID)
	assert.NotEmpty(t, todos[0].ID)
}

func TestImport_EmptyDueIsNull(t *testing.T) {
	db, _, todoRepo := testutil.SetupTestDB(t)
	defer db.Close()

	csvService := services.NewCSVService(todoRepo)

	input := "task,due,complete\nNo due date,,False\n"
	_, err := csvService.Import(strings.NewReader(input), services.RoleAdmin)
	require.NoError(t, err)

	todos, err := todoRepo.FindAll()
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Nil(t, todos[0].Due)
}

func TestImport_BadDueAbortsWholeImport(t *testing.T) {
	db, _, todoRepo := testutil.SetupTestDB(t)
	defer db.Close()

	csvService := services.NewCSVService(todoRepo)

	input := strings.Join([]string{
		"task,due,complete",
		"good row,2024-01-01,False",
		"bad row,not-a-date,False",
		"another good row,2024-01-03,False",
	}, "\n")

	_, err := csvService.Import(strings.NewReader(input), services.RoleAdmin)
	require.Error(t, err)

	var importErr *services.ImportError
	require.ErrorAs(t, err, &importErr)
	assert.Equal(t, 2, importErr.Row)
	assert.Contains(t, importErr.Error(), "row 2")

	// 全件一括コミットなので、失敗した取り込みは1件も登録しない
	todos, err := todoRepo.FindAll()
	require.NoError(t, err)
	assert.Empty(t, todos)
}

func TestImport_RequiresAdmin(t *testing.T) {
	db, _, todoRepo := testutil.SetupTestDB(t)
	defer db.Close()

	csvService := services.NewCSVService(todoRepo)

	input := "task,due,complete\nBuy milk,2024-01-01,False\n"
	_, err := csvService.Import(strings.NewReader(input), services.RoleUser)
	require.ErrorIs(t, err, services.ErrForbidden)

	todos, err := todoRepo.FindAll()
	require.NoError(t, err)
	assert.Empty(t, todos)
}

func TestCSV_RoundTrip(t *testing.T) {
	db, _, todoRepo := testutil.SetupTestDB(t)
	defer db.Close()

	csvService := services.NewCSVService(todoRepo)

	due := time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC)
	_, err := todoRepo.Create("Buy milk", true, &due)
	require.NoError(t, err)
	_, err = todoRepo.Create("Walk the dog", false, nil)
	require.NoError(t, err)

	var first bytes.Buffer
	require.NoError(t, csvService.Export(&first))

	// 一度全部消してから取り込み直す
	todos, err := todoRepo.FindAll()
	require.NoError(t, err)
	for _, todo := range todos {
		_, err := todoRepo.Delete(todo.ID)
		require.NoError(t, err)
	}

	imported, err := csvService.Import(bytes.NewReader(first.Bytes()), services.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, 2, imported)

	var second bytes.Buffer
	require.NoError(t, csvService.Export(&second))

	// idは再採番されるため、id列を除いた内容が一致すればよい
	firstRecords, err := csv.NewReader(bytes.NewReader(first.Bytes())).ReadAll()
	require.NoError(t, err)
	secondRecords, err := csv.NewReader(bytes.NewReader(second.Bytes())).ReadAll()
	require.NoError(t, err)
	require.Equal(t, len(firstRecords), len(secondRecords))
	for i := range firstRecords {
		assert.Equal(t, firstRecords[i][1:], secondRecords[i][1:])
	}
}
