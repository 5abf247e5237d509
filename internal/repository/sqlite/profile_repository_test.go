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

func TestProfileRepository_UpsertCreatesThenMerges(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewProfileRepository(db)
	user := createTestUser(t, ctx, db, "p@example.com")

	created, err := repo.Upsert(ctx, user.ID, domain.ProfileFields{
		Company: "Acme",
		Status:  "dev",
		Skills:  []string{"go", "rust"},
		Social:  map[string]string{domain.SocialTwitter: "https://twitter.com/p"},
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, created.User.ID)
	assert.Equal(t, user.Name, created.User.Name)
	assert.Equal(t, "Acme", created.Company)
	assert.Equal(t, []string{"go", "rust"}, created.Skills)
	assert.Empty(t, created.Experience)
	assert.Empty(t, created.Education)

	updated, err := repo.Upsert(ctx, user.ID, domain.ProfileFields{
		Status: "lead",
		Skills: []string{"go"},
		Bio:    "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Acme", updated.Company, "empty fields keep the stored value")
	assert.Equal(t, "lead", updated.Status)
	assert.Equal(t, "hello", updated.Bio)
	assert.Equal(t, []string{"go"}, updated.Skills)
	assert.Empty(t, updated.Social, "social links are replaced as a whole")

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestProfileRepository_UpsertKeepsLists(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewProfileRepository(db)
	user := createTestUser(t, ctx, db, "lists@example.com")

	fields := domain.ProfileFields{Status: "dev", Skills: []string{"go"}}
	_, err := repo.Upsert(ctx, user.ID, fields)
	require.NoError(t, err)
	require.NoError(t, repo.AddEducation(ctx, user.ID, domain.Education{School: "MIT", Degree: "BSc", FieldOfStudy: "CS"}))

	again, err := repo.Upsert(ctx, user.ID, fields)
	require.NoError(t, err)
	assert.Len(t, again.Education, 1)
}

func TestProfileRepository_ExperienceOrderingAndRemoval(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewProfileRepository(db)
	user := createTestUser(t, ctx, db, "exp@example.com")

	_, err := repo.Upsert(ctx, user.ID, domain.ProfileFields{Status: "dev", Skills: []string{"go"}})
	require.NoError(t, err)

	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	first := domain.Experience{ID: domain.NewID(), Title: "Junior", Company: "A", From: from, To: &to}
	second := domain.Experience{ID: domain.NewID(), Title: "Senior", Company: "B", From: to, Current: true}
	require.NoError(t, repo.AddExperience(ctx, user.ID, first))
	require.NoError(t, repo.AddExperience(ctx, user.ID, second))

	profile, err := repo.GetByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, profile.Experience, 2)
	assert.Equal(t, second.ID, profile.Experience[0].ID, "newest entry first")
	assert.True(t, profile.Experience[0].Current)
	assert.Nil(t, profile.Experience[0].To)
	assert.Equal(t, first.ID, profile.Experience[1].ID)
	require.NotNil(t, profile.Experience[1].To)
	assert.True(t, to.Equal(*profile.Experience[1].To))
	assert.True(t, from.Equal(profile.Experience[1].From))

	require.NoError(t, repo.RemoveExperience(ctx, user.ID, first.ID))
	err = repo.RemoveExperience(ctx, user.ID, first.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	profile, err = repo.GetByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, profile.Experience, 1)
	assert.Equal(t, second.ID, profile.Experience[0].ID)
}

func TestProfileRepository_EntriesAreScopedToOwner(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewProfileRepository(db)
	owner := createTestUser(t, ctx, db, "owner@example.com")
	intruder := createTestUser(t, ctx, db, "intruder@example.com")

	for _, u := range []*domain.User{owner, intruder} {
		_, err := repo.Upsert(ctx, u.ID, domain.ProfileFields{Status: "dev", Skills: []string{"go"}})
		require.NoError(t, err)
	}

	entry := domain.Education{ID: domain.NewID(), School: "MIT", Degree: "BSc", FieldOfStudy: "CS"}
	require.NoError(t, repo.AddEducation(ctx, owner.ID, entry))

	err := repo.RemoveEducation(ctx, intruder.ID, entry.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	profile, err := repo.GetByUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, profile.Education, 1)
}

func TestProfileRepository_AddWithoutProfile(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewProfileRepository(db)
	user := createTestUser(t, ctx, db, "noprofile@example.com")

	err := repo.AddExperience(ctx, user.ID, domain.Experience{Title: "x", Company: "y"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	err = repo.AddEducation(ctx, user.ID, domain.Education{School: "x", Degree: "y", FieldOfStudy: "z"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.GetByUser(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
