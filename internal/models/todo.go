// Package modelsはTodoと固定アカウントを定義します。
package models

import (
	"time"
)

// Todo は1件のタスクレコードを表します。
// IDは作成時に採番されるUUID文字列で、以後変更されません。
type Todo struct {
	ID       string     `json:"id"`       // 主キー (UUID)
	Task     string     `json:"task"`     // タスク本文
	Complete bool       `json:"complete"` // 完了状態
	Due      *time.Time `json:"due"`      // 期日 (NULL許容)
}

// TodoRequest は作成・更新リクエストのボディです。
// bindingタグ: Ginでのリクエストバリデーション用 (taskは2〜50文字、dueは必須)
type TodoRequest struct {
	Task     string `json:"task" binding:"required,min=2,max=50"`
	Due      string `json:"due" binding:"required"` // "2006-01-02" またはISO-8601形式
	Complete bool   `json:"complete"`
}

// TodoView は一覧表示用の1行です。
// Indexは1始まりの表示番号、DueDisplayは人間向けの長い日付表記です。
type TodoView struct {
	Index      int        `json:"index"`
	ID         string     `json:"id"`
	Task       string     `json:"task"`
	Complete   bool       `json:"complete"`
	Due        *time.Time `json:"due"`
	DueDisplay string     `json:"due_display"` // 例: "Monday 01 January 2024"
}
