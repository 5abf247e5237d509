package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"devconnector/internal/auth"
	"devconnector/internal/github"
	"devconnector/internal/repository/sqlite"
	"devconnector/internal/service"
	"devconnector/internal/storage"
	"devconnector/internal/validation"
)

type fakeRepos struct {
	repos map[string]string
	err   error
}

func (f *fakeRepos) ListRepos(_ context.Context, username string) (json.RawMessage, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.repos[username]
	if !ok {
		return nil, github.ErrNoProfile
	}
	return json.RawMessage(body), nil
}

type memoryStore struct {
	objects map[string][]byte
}

func (m *memoryStore) PutObject(_ context.Context, body io.Reader, opts storage.PutOptions) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.objects[opts.Key] = data
	return "s3://" + opts.Bucket + "/" + opts.Key, nil
}

func (m *memoryStore) ListObjects(_ context.Context, _, prefix string) ([]storage.ObjectInfo, error) {
	var out []storage.ObjectInfo
	for key, data := range m.objects {
		if strings.HasPrefix(key, prefix) {
			out = append(out, storage.ObjectInfo{Key: key, Size: int64(len(data))})
		}
	}
	return out, nil
}

func (m *memoryStore) DeletePrefix(_ context.Context, _, prefix string) error {
	for key := range m.objects {
		if strings.HasPrefix(key, prefix) {
			delete(m.objects, key)
		}
	}
	return nil
}

func (m *memoryStore) GetObjectURL(_ context.Context, bucket, key string, _ time.Duration) (string, error) {
	return "https://signed.example/" + bucket + "/" + key, nil
}

type testServer struct {
	router *gin.Engine
	tokens *auth.TokenService
	store  *memoryStore
}

type serverOption func(*Options, *memoryStore)

func withoutStorage() serverOption {
	return func(o *Options, _ *memoryStore) { o.Exports = nil }
}

func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.ErrorLevel)
	require.NoError(t, sqlite.Migrate(db, logger))

	users := sqlite.NewUserRepository(db)
	profiles := sqlite.NewProfileRepository(db)
	posts := sqlite.NewPostRepository(db)
	v := validation.New()

	store := &memoryStore{objects: map[string][]byte{}}
	tokens := auth.NewTokenService("test-secret", time.Hour)
	options := Options{
		Users:    service.NewUserService(users, v),
		Profiles: service.NewProfileService(profiles, users, v),
		Posts:    service.NewPostService(posts, users, v),
		Exports:  service.NewExportService(users, profiles, posts, store, "exports", "accounts"),
		Tokens:   tokens,
		GitHub:   &fakeRepos{repos: map[string]string{"octocat": `[{"name":"hello-world"}]`}},
		Logger:   logger,
	}
	for _, opt := range opts {
		opt(&options, store)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	NewHandler(options).RegisterRoutes(router)

	return &testServer{router: router, tokens: tokens, store: store}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(DefaultAuthHeader, token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// registerUser returns the token issued at registration.
func (s *testServer) registerUser(t *testing.T, name, email string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/users", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
