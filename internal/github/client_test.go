package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapCache struct {
	data   map[string][]byte
	getErr error
	ttl    time.Duration
}

func (m *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.data[key] = value
	m.ttl = ttl
	return nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestClient_ListRepos(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/octocat/repos", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("per_page"))
		assert.Equal(t, "created:asc", r.URL.Query().Get("sort"))
		assert.Equal(t, "id", r.URL.Query().Get("client_id"))
		assert.Equal(t, "devconnector", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`[{"name":"hello-world"}]`))
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL + "/", ClientID: "id", ClientSecret: "secret"}, nil, quietLogger())
	repos, err := client.ListRepos(context.Background(), "octocat")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"hello-world"}]`, string(repos))
}

func TestClient_ListReposNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL}, nil, quietLogger())
	_, err := client.ListRepos(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNoProfile)

	_, err = client.ListRepos(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrNoProfile)
}

func TestClient_ListReposUsesCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	cache := &mapCache{data: map[string][]byte{}}
	client := NewClient(Options{BaseURL: srv.URL, CacheTTL: time.Minute}, cache, quietLogger())

	for i := 0; i < 3; i++ {
		repos, err := client.ListRepos(context.Background(), "octocat")
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(repos))
	}
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, time.Minute, cache.ttl)
}

func TestClient_ListReposIgnoresCacheErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"name":"a"}]`))
	}))
	defer srv.Close()

	cache := &mapCache{data: map[string][]byte{}, getErr: errors.New("redis down")}
	client := NewClient(Options{BaseURL: srv.URL, CacheTTL: time.Minute}, cache, quietLogger())

	repos, err := client.ListRepos(context.Background(), "octocat")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"a"}]`, string(repos))
}
