package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"todo-auth/backend/internal/models"
	"todo-auth/backend/internal/repositories"
)

// maxPasswordBytes はbcryptが扱えるパスワードの最大バイト数です。
const maxPasswordBytes = 72

// UserService はユーザー関連のビジネスロジックを扱います。
type UserService struct {
	userRepo *repositories.UserRepository
	hasher   *PasswordHasher
}

// NewUserService は新しいUserServiceを作成します。
func NewUserService(userRepo *repositories.UserRepository, hasher *PasswordHasher) *UserService {
	return &UserService{userRepo: userRepo, hasher: hasher}
}

// Create はユーザーを登録します。
func (s *UserService) Create(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	email := repositories.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" || len(req.Password) > maxPasswordBytes {
		return nil, ErrInvalidArgument
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		slog.WarnContext(ctx, "email already exists", "email", email)
		return nil, repositories.ErrDuplicateEmail
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.Create(ctx, &models.User{
		Username:     req.Username,
		Email:        email,
		PasswordHash: hashed,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			slog.WarnContext(ctx, "email already exists", "email", email)
		}
		return nil, err
	}
	slog.InfoContext(ctx, "user created", "user_id", user.ID)
	return user, nil
}

// Authenticate はメールアドレスとパスワードでユーザーを認証します。
// メールアドレスが存在しない場合とパスワード違いは同じエラーを返します。
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			s.hasher.VerifyDummy(password)
			return nil, ErrAuthenticationFailed
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, ErrAuthenticationFailed
	}
	return user, nil
}
