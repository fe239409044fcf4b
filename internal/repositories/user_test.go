package repositories_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-auth/backend/internal/models"
	"todo-auth/backend/internal/repositories"
	"todo-auth/backend/testutil"
)

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := repositories.NewUserRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.User{Username: "alice", Email: " Alice@Example.com ", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "alice@example.com", created.Email)

	found, err := repo.FindByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "alice", found.Username)
	assert.Equal(t, "hash", found.PasswordHash)

	exists, err := repo.ExistsByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUserRepository_NotFound(t *testing.T) {
	repo := repositories.NewUserRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	_, err := repo.FindByEmail(ctx, "nobody@example.com")
	assert.True(t, errors.Is(err, repositories.ErrUserNotFound))

	exists, err := repo.ExistsByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.ExistsByID(ctx, 99)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepository_DuplicateEmailFromConstraint(t *testing.T) {
	repo := repositories.NewUserRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.User{Email: "a@x.com", PasswordHash: "h1"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &models.User{Username: "other", Email: "A@x.com", PasswordHash: "h2"})
	assert.ErrorIs(t, err, repositories.ErrDuplicateEmail)
}
