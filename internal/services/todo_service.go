package services

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"todo-auth/backend/internal/models"
	"todo-auth/backend/internal/repositories"
)

// TodoCache は所有者ごとのTodo一覧のキャッシュです。
// Set は Version で読んだ値から変わっていない場合だけ保存し、Invalidate はバージョンを進めます。
type TodoCache interface {
	Get(ctx context.Context, ownerID int64) ([]models.Todo, bool, error)
	Version(ctx context.Context, ownerID int64) (int64, error)
	Set(ctx context.Context, ownerID, version int64, todos []models.Todo) error
	Invalidate(ctx context.Context, ownerID int64) error
}

// TodoService はTodo関連のビジネスロジックを扱います。
type TodoService struct {
	todoRepo *repositories.TodoRepository
	userRepo *repositories.UserRepository
	cache    TodoCache
}

// NewTodoService は新しいTodoServiceを作成します。cache は nil でも構いません。
func NewTodoService(todoRepo *repositories.TodoRepository, userRepo *repositories.UserRepository, cache TodoCache) *TodoService {
	return &TodoService{todoRepo: todoRepo, userRepo: userRepo, cache: cache}
}

// Create はTodoを作成し、所有者のTodo一覧を返します。
func (s *TodoService) Create(ctx context.Context, ownerID int64, req models.TodoRequest) ([]models.Todo, error) {
	if ownerID <= 0 {
		return nil, ErrUnknownOwner
	}
	if !validTitle(req.Title) {
		return nil, ErrInvalidArgument
	}
	exists, err := s.userRepo.ExistsByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUnknownOwner
	}

	todo, err := s.todoRepo.Create(ctx, &models.Todo{
		UserID: ownerID,
		Title:  req.Title,
		Done:   req.Done,
	})
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "todo created", "todo_id", todo.ID, "user_id", ownerID)

	s.invalidate(ctx, ownerID)
	return s.todoRepo.FindByUserID(ctx, ownerID)
}

// List は所有者のTodoをすべて返します。
func (s *TodoService) List(ctx context.Context, ownerID int64) ([]models.Todo, error) {
	if ownerID <= 0 {
		return nil, ErrUnknownOwner
	}

	cacheable := false
	var version int64
	if s.cache != nil {
		todos, ok, err := s.cache.Get(ctx, ownerID)
		switch {
		case err != nil:
			slog.WarnContext(ctx, "todo cache read failed", "user_id", ownerID, "error", err)
		case ok:
			return todos, nil
		}

		// DBを読む前のバージョンを控え、読み込み中に更新があれば保存しない
		if version, err = s.cache.Version(ctx, ownerID); err != nil {
			slog.WarnContext(ctx, "todo cache version read failed", "user_id", ownerID, "error", err)
		} else {
			cacheable = true
		}
	}

	todos, err := s.todoRepo.FindByUserID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := s.cache.Set(ctx, ownerID, version, todos); err != nil {
			slog.WarnContext(ctx, "todo cache write failed", "user_id", ownerID, "error", err)
		}
	}
	return todos, nil
}

// Update は所有者のTodoを更新します。
func (s *TodoService) Update(ctx context.Context, id, ownerID int64, req models.TodoRequest) (*models.Todo, error) {
	if ownerID <= 0 {
		return nil, ErrUnknownOwner
	}
	if !validTitle(req.Title) {
		return nil, ErrInvalidArgument
	}

	todo, err := s.todoRepo.Update(ctx, &models.Todo{
		ID:     id,
		UserID: ownerID,
		Title:  req.Title,
		Done:   req.Done,
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, ownerID)
	return todo, nil
}

// Delete は所有者のTodoを削除します。
func (s *TodoService) Delete(ctx context.Context, id, ownerID int64) error {
	if ownerID <= 0 {
		return ErrUnknownOwner
	}
	if err := s.todoRepo.Delete(ctx, id, ownerID); err != nil {
		return err
	}
	slog.InfoContext(ctx, "todo deleted", "todo_id", id, "user_id", ownerID)
	s.invalidate(ctx, ownerID)
	return nil
}

func (s *TodoService) invalidate(ctx context.Context, ownerID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, ownerID); err != nil {
		slog.WarnContext(ctx, "todo cache invalidation failed", "user_id", ownerID, "error", err)
	}
}

// validTitle はタイトルが空でなく、カラム長 (VARCHAR(255)) に収まるかを返します。
func validTitle(title string) bool {
	return title != "" && utf8.RuneCountInString(title) <= models.MaxTitleLength
}
