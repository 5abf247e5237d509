package service

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"devconnector/internal/domain"
	"devconnector/internal/repository"
	"devconnector/internal/repository/sqlite"
	"devconnector/internal/validation"
)

type testEnv struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	posts    repository.PostRepository

	userService    UserService
	profileService ProfileService
	postService    PostService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	require.NoError(t, sqlite.Migrate(db, logger))

	v := validation.New()
	env := &testEnv{
		users:    sqlite.NewUserRepository(db),
		profiles: sqlite.NewProfileRepository(db),
		posts:    sqlite.NewPostRepository(db),
	}
	env.userService = NewUserService(env.users, v)
	env.profileService = NewProfileService(env.profiles, env.users, v)
	env.postService = NewPostService(env.posts, env.users, v)
	return env
}

func (e *testEnv) register(t *testing.T, name, email string) *domain.User {
	t.Helper()
	user, err := e.userService.Register(context.Background(), name, email, "secret1")
	require.NoError(t, err)
	return user
}

func requireValidation(t *testing.T, err error, messages ...string) {
	t.Helper()
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	require.Equal(t, messages, verr.Messages)
}
