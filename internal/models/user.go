package models

// Account は固定アカウントテーブルの1エントリを表します。
// アカウントはadminとuserの2件のみで、データベースには保存されません。
type Account struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // bcryptハッシュ。JSONに出さない
}

type UserLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthClaims は認証済みユーザーのトークンクレームです。
type AuthClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}
