// Package services はビジネスロジック層を提供します。
package services

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// AuthService は固定アカウントテーブルに対する認証とロールの導出を行います。
// アカウントはadminとuserの2件のみです。ロックアウトやレート制限は行いません。
type AuthService struct {
	credentials map[string]string // username -> bcryptハッシュ
}

// NewAuthService は明示的に渡された認証テーブルからAuthServiceを作成します。
// グローバル変数ではなく構築時に渡すことで、テストで任意のテーブルを使えます。
func NewAuthService(credentials map[string]string) *AuthService {
	return &AuthService{credentials: credentials}
}

// HashPassword は与えられたパスワードをbcryptでハッシュ化します。
func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedPassword), nil
}

// DefaultCredentials は環境変数からadmin/userの2アカウントのテーブルを構築します。
// TOUDOU_ADMIN_PASSWORD / TOUDOU_USER_PASSWORD が未設定の場合は
// 元実装と同じ admin / user を使います。
func DefaultCredentials() (map[string]string, error) {
	adminPass := os.Getenv("TOUDOU_ADMIN_PASSWORD")
	if adminPass == "" {
		adminPass = "admin"
	}
	userPass := os.Getenv("TOUDOU_USER_PASSWORD")
	if userPass == "" {
		userPass = "user"
	}

	adminHash, err := HashPassword(adminPass)
	if err != nil {
		return nil, err
	}
	userHash, err := HashPassword(userPass)
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"admin": adminHash,
		"user":  userHash,
	}, nil
}

// VerifyCredentials はユーザー名とパスワードをテーブルと照合します。
func (s *AuthService) VerifyCredentials(username, password string) bool {
	hash, ok := s.credentials[username]
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// RoleOf はユーザー名からロールを導出します。
// ユーザー名が文字列 "admin" と完全一致する場合のみadminで、
// それ以外の認証済みユーザーは名前によらずuserです (ロールカラムは持ちません)。
func (s *AuthService) RoleOf(username string) string {
	if username == "admin" {
		return RoleAdmin
	}
	return RoleUser
}
