// Package auth はリクエストスコープの認証済みユーザーIDを context.Context で受け渡します。
package auth

import "context"

type contextKey string

const userIDKey contextKey = "user_id"

// WithUserID は認証済みユーザーIDを持つ新しいコンテキストを返します。
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext は認証済みユーザーIDを取り出します。未認証なら ok は false です。
func UserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	if !ok || userID <= 0 {
		return 0, false
	}
	return userID, true
}
