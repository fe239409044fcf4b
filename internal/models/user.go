package models

// User はユーザーのデータベース構造体を表します。
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // JSONに出さない
}

// SignupRequest はサインアップで受け付けるフィールドです。
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username"`
	Password string `json:"password" binding:"required"` // 生パスワード
}

// SigninRequest はサインインで受け付けるフィールドです。
type SigninRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignupResponse はサインアップ成功時のレスポンスです。
type SignupResponse struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// SigninResponse はサインイン成功時のレスポンスです。
type SigninResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Token string `json:"token"`
}
