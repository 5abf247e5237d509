package repository

import (
	"context"

	"devconnector/internal/domain"
)

// ProfileRepository manages profiles and their embedded experience and
// education lists. List mutations are single atomic store operations.
type ProfileRepository interface {
	// Upsert creates the user's profile or overwrites its scalar fields.
	Upsert(ctx context.Context, userID domain.ID, fields domain.ProfileFields) (*domain.Profile, error)
	GetByUser(ctx context.Context, userID domain.ID) (*domain.Profile, error)
	List(ctx context.Context) ([]domain.Profile, error)

	// AddExperience prepends the entry. Returns ErrNotFound without a profile.
	AddExperience(ctx context.Context, userID domain.ID, entry domain.Experience) error
	// RemoveExperience returns ErrNotFound when the entry is absent.
	RemoveExperience(ctx context.Context, userID, entryID domain.ID) error
	AddEducation(ctx context.Context, userID domain.ID, entry domain.Education) error
	RemoveEducation(ctx context.Context, userID, entryID domain.ID) error
}
