// Package models はユーザーとTodoのデータ構造を定義します。
package models

// MaxTitleLength はタイトルの最大文字数です。
const MaxTitleLength = 255

// Todo はユーザーが所有するタスクです。
type Todo struct {
	ID     int64  `json:"id"`    // 主キー
	UserID int64  `json:"-"`     // 所有者。クライアントには返さない
	Title  string `json:"title"` // タスクのタイトル
	Done   bool   `json:"done"`  // 完了状態
}

// TodoRequest はTodoの作成・更新で受け付けるフィールドです。
// 所有者はリクエストから受け取らず、認証済みユーザーから決めます。
type TodoRequest struct {
	Title string `json:"title" binding:"required,max=255"`
	Done  bool   `json:"done"`
}
