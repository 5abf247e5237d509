package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devconnector/internal/domain"
	"devconnector/internal/repository"
)

func TestPostRepository_CreateListDelete(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	user := createTestUser(t, ctx, db, "poster@example.com")

	base := time.Now().UTC()
	older := &domain.Post{UserID: user.ID, Name: user.Name, Text: "older", CreatedAt: base.Add(-time.Minute)}
	newer := &domain.Post{UserID: user.ID, Name: user.Name, Text: "newer", CreatedAt: base}
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	posts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, newer.ID, posts[0].ID)
	assert.Equal(t, older.ID, posts[1].ID)
	assert.NotNil(t, posts[0].Likes)
	assert.NotNil(t, posts[0].Comments)

	byUser, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, byUser, 2)

	require.NoError(t, repo.Delete(ctx, older.ID))
	assert.ErrorIs(t, repo.Delete(ctx, older.ID), repository.ErrNotFound)
	_, err = repo.Get(ctx, older.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPostRepository_Likes(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	author := createTestUser(t, ctx, db, "author@example.com")
	fan1 := createTestUser(t, ctx, db, "fan1@example.com")
	fan2 := createTestUser(t, ctx, db, "fan2@example.com")
	fan3 := createTestUser(t, ctx, db, "fan3@example.com")

	post := &domain.Post{UserID: author.ID, Name: author.Name, Text: "like me"}
	require.NoError(t, repo.Create(ctx, post))

	for _, u := range []*domain.User{fan1, fan2, fan3} {
		require.NoError(t, repo.AddLike(ctx, post.ID, u.ID))
	}
	assert.ErrorIs(t, repo.AddLike(ctx, post.ID, fan2.ID), repository.ErrAlreadyLiked)

	got, err := repo.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.Like{{UserID: fan3.ID}, {UserID: fan2.ID}, {UserID: fan1.ID}}, got.Likes)

	require.NoError(t, repo.RemoveLike(ctx, post.ID, fan2.ID))
	assert.ErrorIs(t, repo.RemoveLike(ctx, post.ID, fan2.ID), repository.ErrNotLiked)

	got, err = repo.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.Like{{UserID: fan3.ID}, {UserID: fan1.ID}}, got.Likes, "remaining order is preserved")

	missing := domain.NewID()
	assert.ErrorIs(t, repo.AddLike(ctx, missing, fan1.ID), repository.ErrNotFound)
	assert.ErrorIs(t, repo.RemoveLike(ctx, missing, fan1.ID), repository.ErrNotFound)
}

func TestPostRepository_Comments(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	author := createTestUser(t, ctx, db, "author@example.com")

	post := &domain.Post{UserID: author.ID, Name: author.Name, Text: "discuss"}
	require.NoError(t, repo.Create(ctx, post))

	first := domain.Comment{ID: domain.NewID(), UserID: author.ID, Name: author.Name, Text: "first"}
	second := domain.Comment{ID: domain.NewID(), UserID: author.ID, Name: author.Name, Text: "second"}
	require.NoError(t, repo.AddComment(ctx, post.ID, first))
	require.NoError(t, repo.AddComment(ctx, post.ID, second))

	got, err := repo.Get(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 2)
	assert.Equal(t, "second", got.Comments[0].Text)
	assert.Equal(t, "first", got.Comments[1].Text)

	require.NoError(t, repo.RemoveComment(ctx, post.ID, first.ID))
	assert.ErrorIs(t, repo.RemoveComment(ctx, post.ID, first.ID), repository.ErrNotFound)
	assert.ErrorIs(t, repo.AddComment(ctx, domain.NewID(), first), repository.ErrNotFound)
}
