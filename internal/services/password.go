package services

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher はbcryptでパスワードのハッシュ化と照合を行います。
type PasswordHasher struct {
	cost  int
	dummy []byte
}

// NewPasswordHasher は指定コストのPasswordHasherを作成します。
// 存在しないユーザーの照合に使うダミーハッシュもここで生成します。
func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}
	return &PasswordHasher{cost: cost, dummy: dummy}, nil
}

// Hash は与えられたパスワードをbcryptでハッシュ化します。
func (h *PasswordHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify はハッシュ化されたパスワードと平文のパスワードが一致するかを返します。
func (h *PasswordHasher) Verify(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}

// VerifyDummy はユーザーが見つからないときに呼び、照合と同じだけ時間を使います。
func (h *PasswordHasher) VerifyDummy(password string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
}
