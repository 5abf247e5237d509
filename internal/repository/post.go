package repository

import (
	"context"

	"devconnector/internal/domain"
)

// PostRepository manages posts with their likes and comments.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	Get(ctx context.Context, id domain.ID) (*domain.Post, error)
	// List returns every post, newest first.
	List(ctx context.Context) ([]domain.Post, error)
	ListByUser(ctx context.Context, userID domain.ID) ([]domain.Post, error)
	Delete(ctx context.Context, id domain.ID) error

	// AddLike prepends the like. Returns ErrNotFound for a missing post and
	// ErrAlreadyLiked when the user already likes it.
	AddLike(ctx context.Context, postID, userID domain.ID) error
	// RemoveLike returns ErrNotFound for a missing post and ErrNotLiked when
	// the user does not like it.
	RemoveLike(ctx context.Context, postID, userID domain.ID) error

	AddComment(ctx context.Context, postID domain.ID, comment domain.Comment) error
	// RemoveComment deletes the comment only if it still exists. Returns
	// ErrNotFound otherwise.
	RemoveComment(ctx context.Context, postID, commentID domain.ID) error
}
