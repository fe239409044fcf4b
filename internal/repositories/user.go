// Package repositories はデータベース操作を行うリポジトリを提供します。
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"todo-auth/backend/internal/models"
)

var (
	ErrDuplicateEmail = errors.New("email already exists")
	ErrUserNotFound   = errors.New("user not found")
)

// mysqlDuplicateEntry はMySQLの重複エントリーエラーコードです。
const mysqlDuplicateEntry = 1062

// UserRepository はusersテーブルへのアクセスを行います。
type UserRepository struct {
	DB *sql.DB
}

// NewUserRepository は新しいUserRepositoryインスタンスを作成します。
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// NormalizeEmail は前後の空白を除き小文字にします。
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create は新しいユーザーをデータベースに挿入します。
func (r *UserRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	u.Email = NormalizeEmail(u.Email)

	query := "INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)"
	result, err := r.DB.ExecContext(ctx, query, u.Username, u.Email, u.PasswordHash)
	if err != nil {
		if isDuplicateEntry(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("could not insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("could not get last insert ID: %w", err)
	}
	u.ID = id

	return u, nil
}

// FindByEmail はメールアドレスでユーザーを検索します。
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := "SELECT id, username, email, password_hash FROM users WHERE email = ?"
	var u models.User
	err := r.DB.QueryRowContext(ctx, query, NormalizeEmail(email)).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("could not query user: %w", err)
	}
	return &u, nil
}

// ExistsByEmail はメールアドレスが登録済みかを返します。
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE email = ?", NormalizeEmail(email)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("could not count users: %w", err)
	}
	return n > 0, nil
}

// ExistsByID はユーザーIDが存在するかを返します。
func (r *UserRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE id = ?", id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("could not count users: %w", err)
	}
	return n > 0, nil
}

func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}
	// SQLite
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
