package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go-toudou/internal/models"
	"go-toudou/internal/repositories"
)

// csvHeader は入出力で使う固定スキーマです。
// 先頭レコードの内容からは導出しません (ストアが空でも安全に出力できます)。
var csvHeader = []string{"id", "task", "complete", "due"}

const csvTimeLayout = "2006-01-02 15:04:05"

// dueLayouts は取り込みで受け付けるISO-8601系のレイアウトです。
var dueLayouts = []string{
	csvTimeLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ImportError はCSV取り込みの失敗を表します。
// Rowは失敗した1始まりのデータ行番号です (0はヘッダーの問題)。
type ImportError struct {
	Row int
	Err error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import failed at row %d: %v", e.Row, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// CSVService はTodoのCSV入出力を扱います。
type CSVService struct {
	todoRepo *repositories.TodoRepository
}

// NewCSVService は新しいCSVServiceを作成します。
func NewCSVService(todoRepo *repositories.TodoRepository) *CSVService {
	return &CSVService{todoRepo: todoRepo}
}

// Export は全Todoを固定ヘッダー付きのCSVとして挿入順に書き出します。
// completeは "True" / "False" で出力します。取り込み側が文字列 "True" との
// 完全一致で判定するため、この表記でないとexport→importが往復しません。
func (s *CSVService) Export(w io.Writer) error {
	todos, err := s.todoRepo.FindAll()
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("could not write csv header: %w", err)
	}
	for _, t := range todos {
		complete := "False"
		if t.Complete {
			complete = "True"
		}
		due := ""
		if t.Due != nil {
			due = t.Due.Format(csvTimeLayout)
		}
		if err := cw.Write([]string{t.ID, t.Task, complete, due}); err != nil {
			return fmt.Errorf("could not write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Import はCSVを読み取り、1行につき1件のTodoを新規作成します。adminロールが必要です。
// 戻り値は取り込んだ件数です。
//
//   - idカラムは存在しても無視され、常に新しいIDが採番されます。
//   - dueが空文字列ならNULL、そうでなければISO-8601として解釈します。
//     解釈できない行があると *ImportError (行番号付き) で取り込み全体を中止します。
//   - completeは文字列 "True" と完全一致した場合のみtrueです。
//     "true" や "TRUE"、空文字列はfalseになります。元実装のこの非対称な比較に
//     依存する利用者がいるため、仕様として維持しています。
//
// 全行を解析してから1トランザクションで挿入するため、途中の行で失敗しても
// 部分的に登録されることはありません。
func (s *CSVService) Import(r io.Reader, role string) (int, error) {
	if role != RoleAdmin {
		return 0, ErrForbidden
	}

	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return 0, &ImportError{Row: 0, Err: errors.New("csv file is empty")}
	}
	if err != nil {
		return 0, &ImportError{Row: 0, Err: err}
	}

	col := map[string]int{}
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := col["task"]; !ok {
		return 0, &ImportError{Row: 0, Err: errors.New(`missing "task" column`)}
	}

	var todos []*models.Todo
	row := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return 0, &ImportError{Row: row, Err: err}
		}

		due, err := parseDueField(field(record, col, "due"))
		if err != nil {
			return 0, &ImportError{Row: row, Err: err}
		}

		todos = append(todos, &models.Todo{
			Task:     field(record, col, "task"),
			Complete: field(record, col, "complete") == "True",
			Due:      due,
		})
	}

	if len(todos) == 0 {
		return 0, nil
	}
	if err := s.todoRepo.CreateBatch(todos); err != nil {
		return 0, err
	}
	return len(todos), nil
}

func field(record []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}

func parseDueField(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range dueLayouts {
		if d, err := time.Parse(layout, value); err == nil {
			return &d, nil
		}
	}
	return nil, fmt.Errorf("invalid due date %q", value)
}
