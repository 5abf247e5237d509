package repository

import (
	"context"

	"devconnector/internal/domain"
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	// Create stores a new user. Returns ErrDuplicate when the email is taken.
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id domain.ID) (*domain.User, error)
	// DeleteCascade removes the user's posts, profile and the user itself
	// as a single unit.
	DeleteCascade(ctx context.Context, id domain.ID) error
}
