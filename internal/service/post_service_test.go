package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService_Create(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.register(t, "A", "a@x.com")

	_, err := env.postService.Create(ctx, user.ID, "   ")
	requireValidation(t, err, "Text is required")

	post, err := env.postService.Create(ctx, user.ID, "hello")
	require.NoError(t, err)
	assert.Equal(t, user.ID, post.UserID)
	assert.Equal(t, "A", post.Name)
	assert.Equal(t, user.Avatar, post.Avatar)

	got, err := env.postService.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Text)
	assert.Empty(t, got.Likes)
	assert.Empty(t, got.Comments)

	_, err = env.postService.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPostService_ListNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.register(t, "A", "a@x.com")

	for _, text := range []string{"one", "two", "three"} {
		_, err := env.postService.Create(ctx, user.ID, text)
		require.NoError(t, err)
	}

	posts, err := env.postService.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "three", posts[0].Text)
	assert.Equal(t, "one", posts[2].Text)
}

func TestPostService_DeleteRequiresOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "A", "a@x.com")
	other := env.register(t, "B", "b@x.com")

	post, err := env.postService.Create(ctx, owner.ID, "mine")
	require.NoError(t, err)

	assert.ErrorIs(t, env.postService.Delete(ctx, other.ID, post.ID), ErrForbidden)
	_, err = env.postService.Get(ctx, post.ID)
	require.NoError(t, err)

	require.NoError(t, env.postService.Delete(ctx, owner.ID, post.ID))
	_, err = env.postService.Get(ctx, post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)

	assert.ErrorIs(t, env.postService.Delete(ctx, owner.ID, post.ID), ErrPostNotFound)
}

func TestPostService_Likes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.register(t, "A", "a@x.com")
	b := env.register(t, "B", "b@x.com")
	post, err := env.postService.Create(ctx, a.ID, "like me")
	require.NoError(t, err)

	likes, err := env.postService.Like(ctx, a.ID, post.ID)
	require.NoError(t, err)
	require.Len(t, likes, 1)

	_, err = env.postService.Like(ctx, a.ID, post.ID)
	assert.ErrorIs(t, err, ErrAlreadyLiked)

	likes, err = env.postService.Like(ctx, b.ID, post.ID)
	require.NoError(t, err)
	require.Len(t, likes, 2)
	assert.Equal(t, b.ID, likes[0].UserID)

	stored, err := env.postService.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, stored.LikedBy(a.ID))
	assert.True(t, stored.LikedBy(b.ID))

	likes, err = env.postService.Unlike(ctx, a.ID, post.ID)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, b.ID, likes[0].UserID)

	stored, err = env.postService.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.False(t, stored.LikedBy(a.ID))
	assert.True(t, stored.LikedBy(b.ID))

	_, err = env.postService.Unlike(ctx, a.ID, post.ID)
	assert.ErrorIs(t, err, ErrNotLiked)

	_, err = env.postService.Like(ctx, a.ID, "missing")
	assert.ErrorIs(t, err, ErrPostNotFound)
	_, err = env.postService.Unlike(ctx, a.ID, "missing")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPostService_Comments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.register(t, "A", "a@x.com")
	b := env.register(t, "B", "b@x.com")
	post, err := env.postService.Create(ctx, a.ID, "discuss")
	require.NoError(t, err)

	_, err = env.postService.AddComment(ctx, b.ID, post.ID, "")
	requireValidation(t, err, "Text is required")

	_, err = env.postService.AddComment(ctx, b.ID, "missing", "hi")
	assert.ErrorIs(t, err, ErrPostNotFound)

	comments, err := env.postService.AddComment(ctx, b.ID, post.ID, "first")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	comments, err = env.postService.AddComment(ctx, a.ID, post.ID, "second")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[0].Text)
	assert.Equal(t, "A", comments[0].Name)

	byB := comments[1]
	_, err = env.postService.RemoveComment(ctx, a.ID, post.ID, byB.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.postService.RemoveComment(ctx, b.ID, post.ID, "missing")
	assert.ErrorIs(t, err, ErrCommentNotFound)

	comments, err = env.postService.RemoveComment(ctx, b.ID, post.ID, byB.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "second", comments[0].Text)
}
