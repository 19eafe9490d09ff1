// Package database はデータベース接続の初期化を行います。
package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

// GetDriver は使用するデータベースドライバ名を返します。
// 既定はsqlite3 (元のシングルユーザー構成に合わせた組み込みDB) で、
// DB_DRIVER=mysql を設定するとMySQLに切り替わります。
func GetDriver() string {
	driver := os.Getenv("DB_DRIVER")
	if driver == "" {
		driver = "sqlite3"
	}
	return driver
}

// GetDSN は環境変数から接続文字列 (DSN) を構築します。
func GetDSN(driver string) string {
	if driver == "mysql" {
		user := os.Getenv("DB_USER")
		pass := os.Getenv("DB_PASS")
		host := os.Getenv("DB_HOST")
		port := os.Getenv("DB_PORT")
		name := os.Getenv("DB_NAME")

		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", user, pass, host, port, name)
	}

	path := os.Getenv("DB_PATH")
	if path == "" {
		path = "todos.db"
	}
	return fmt.Sprintf("file:%s?_loc=UTC", path)
}

// InitDB はデータベース接続を初期化し、スキーマを適用します。
func InitDB() *sql.DB {
	driver := GetDriver()
	db, err := sql.Open(driver, GetDSN(driver))
	if err != nil {
		log.Fatalf("Fatal: Failed to open database connection: %v", err)
	}
	if driver == "mysql" {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	} else {
		// sqliteのファイルロック競合を避けるため書き込みを直列化する
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("Fatal: Failed to ping database: %v", err)
	}
	if err := Migrate(db, driver); err != nil {
		log.Fatalf("Fatal: Failed to migrate database: %v", err)
	}
	log.Printf("Successfully connected to %s database!", driver)
	return db
}

// Migrate はtodosテーブルを作成します。
// seqは挿入順を保持するための採番カラムで、一覧取得のORDER BYに使います。
func Migrate(db *sql.DB, driver string) error {
	var createTodoTableSQL string
	if driver == "mysql" {
		createTodoTableSQL = `
		CREATE TABLE IF NOT EXISTS todos (
			seq INT AUTO_INCREMENT PRIMARY KEY,
			id CHAR(36) NOT NULL UNIQUE,
			task VARCHAR(255) NOT NULL,
			complete BOOLEAN NOT NULL DEFAULT FALSE,
			due DATETIME NULL
		);`
	} else {
		createTodoTableSQL = `
		CREATE TABLE IF NOT EXISTS todos (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			task TEXT NOT NULL,
			complete BOOLEAN NOT NULL DEFAULT FALSE,
			due DATETIME NULL
		);`
	}
	if _, err := db.Exec(createTodoTableSQL); err != nil {
		return fmt.Errorf("could not create todos table: %w", err)
	}
	return nil
}
