package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devconnector/internal/domain"
	"devconnector/internal/repository"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user := &domain.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "hash", Avatar: "//a"}
	require.NoError(t, repo.Create(ctx, user))
	assert.False(t, user.ID.IsZero())
	assert.False(t, user.CreatedAt.IsZero())

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Equal(t, "Alice", byEmail.Name)
	assert.Equal(t, "hash", byEmail.PasswordHash)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)
	assert.Equal(t, "//a", byID.Avatar)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	require.NoError(t, repo.Create(ctx, &domain.User{Name: "A", Email: "a@x.com", PasswordHash: "h"}))
	err := repo.Create(ctx, &domain.User{Name: "B", Email: "a@x.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	// matching is exact, so a different case is a different user
	assert.NoError(t, repo.Create(ctx, &domain.User{Name: "C", Email: "A@x.com", PasswordHash: "h"}))
}

func TestUserRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupTestDB(t))

	_, err := repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.GetByID(ctx, domain.NewID())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_DeleteCascade(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	users := NewUserRepository(db)
	profiles := NewProfileRepository(db)
	posts := NewPostRepository(db)

	owner := createTestUser(t, ctx, db, "owner@example.com")
	other := createTestUser(t, ctx, db, "other@example.com")

	_, err := profiles.Upsert(ctx, owner.ID, domain.ProfileFields{Status: "dev", Skills: []string{"go"}})
	require.NoError(t, err)
	require.NoError(t, profiles.AddExperience(ctx, owner.ID, domain.Experience{Title: "Eng", Company: "Acme"}))

	own := &domain.Post{UserID: owner.ID, Name: owner.Name, Text: "mine"}
	require.NoError(t, posts.Create(ctx, own))
	require.NoError(t, posts.AddLike(ctx, own.ID, other.ID))
	theirs := &domain.Post{UserID: other.ID, Name: other.Name, Text: "theirs"}
	require.NoError(t, posts.Create(ctx, theirs))

	require.NoError(t, users.DeleteCascade(ctx, owner.ID))

	_, err = users.GetByID(ctx, owner.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = profiles.GetByUser(ctx, owner.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = posts.Get(ctx, own.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	remaining, err := posts.List(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, theirs.ID, remaining[0].ID)

	var orphans int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM experiences`).Scan(&orphans))
	assert.Zero(t, orphans)
}
