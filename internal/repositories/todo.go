package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"todo-auth/backend/internal/models"
)

var (
	ErrTodoNotFound  = errors.New("todo not found")
	ErrTodoForbidden = errors.New("todo belongs to another user")
)

// TodoRepository はtodosテーブルへのアクセスを行います。
// 更新と削除は id と user_id の両方で絞り込み、所有者チェックを一つの文で行います。
type TodoRepository struct {
	DB *sql.DB
}

// NewTodoRepository は新しいTodoRepositoryインスタンスを作成します。
func NewTodoRepository(db *sql.DB) *TodoRepository {
	return &TodoRepository{DB: db}
}

// Create はTodoを挿入し、採番されたIDを設定して返します。
func (r *TodoRepository) Create(ctx context.Context, todo *models.Todo) (*models.Todo, error) {
	result, err := r.DB.ExecContext(ctx,
		"INSERT INTO todos (user_id, title, done) VALUES (?, ?, ?)",
		todo.UserID, todo.Title, todo.Done)
	if err != nil {
		return nil, fmt.Errorf("could not insert todo: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("could not get last insert ID: %w", err)
	}
	todo.ID = id
	return todo, nil
}

// FindByUserID は所有者のTodoをID順にすべて返します。該当なしでも空のスライスを返します。
func (r *TodoRepository) FindByUserID(ctx context.Context, userID int64) ([]models.Todo, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, user_id, title, done FROM todos WHERE user_id = ? ORDER BY id", userID)
	if err != nil {
		return nil, fmt.Errorf("could not query todos: %w", err)
	}
	defer rows.Close()

	todos := make([]models.Todo, 0)
	for rows.Next() {
		var t models.Todo
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Done); err != nil {
			return nil, fmt.Errorf("could not scan todo: %w", err)
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not iterate todos: %w", err)
	}
	return todos, nil
}

// FindByID はIDでTodoを取得します。
func (r *TodoRepository) FindByID(ctx context.Context, id int64) (*models.Todo, error) {
	var t models.Todo
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, title, done FROM todos WHERE id = ?", id).
		Scan(&t.ID, &t.UserID, &t.Title, &t.Done)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("could not query todo: %w", err)
	}
	return &t, nil
}

// Update は所有者が一致する場合だけTodoを更新します。
func (r *TodoRepository) Update(ctx context.Context, todo *models.Todo) (*models.Todo, error) {
	result, err := r.DB.ExecContext(ctx,
		"UPDATE todos SET title = ?, done = ? WHERE id = ? AND user_id = ?",
		todo.Title, todo.Done, todo.ID, todo.UserID)
	if err != nil {
		return nil, fmt.Errorf("could not update todo: %w", err)
	}
	if err := r.checkAffected(ctx, result, todo.ID); err != nil {
		return nil, err
	}
	return todo, nil
}

// Delete は所有者が一致する場合だけTodoを削除します。
func (r *TodoRepository) Delete(ctx context.Context, id, userID int64) error {
	result, err := r.DB.ExecContext(ctx,
		"DELETE FROM todos WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("could not delete todo: %w", err)
	}
	return r.checkAffected(ctx, result, id)
}

// checkAffected は一致行が0件のとき、存在しないのか他人のものなのかを判別します。
func (r *TodoRepository) checkAffected(ctx context.Context, result sql.Result, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	return ErrTodoForbidden
}
