package sqlite

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"devconnector/internal/domain"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	require.NoError(t, Migrate(db, logger))
	return db
}

func createTestUser(t *testing.T, ctx context.Context, db *sql.DB, email string) *domain.User {
	t.Helper()

	user := &domain.User{
		Name:         "user " + email,
		Email:        email,
		PasswordHash: "hash",
		Avatar:       "//avatar/" + email,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, NewUserRepository(db).Create(ctx, user))
	return user
}
