package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devconnector/internal/auth"
	"devconnector/internal/domain"
)

func TestRequireAuth(t *testing.T) {
	srv := newTestServer(t)
	token := srv.registerUser(t, "A", "a@x.com")
	foreign, err := auth.NewTokenService("other-secret", time.Hour).Issue(domain.NewID())
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		value  string
		status int
		msg    string
	}{
		{"missing", "", "", http.StatusUnauthorized, "No token, authorization denied"},
		{"garbage", DefaultAuthHeader, "not-a-token", http.StatusUnauthorized, "Token is not valid"},
		{"wrong secret", DefaultAuthHeader, foreign, http.StatusUnauthorized, "Token is not valid"},
		{"header", DefaultAuthHeader, token, http.StatusOK, ""},
		{"bearer", "Authorization", "Bearer " + token, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			srv.router.ServeHTTP(rec, req)

			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.msg != "" {
				assert.Equal(t, tt.msg, decode[errorMessage](t, rec).Msg)
			}
		})
	}
}

func TestRequireAuth_DeletedUser(t *testing.T) {
	srv := newTestServer(t)
	token := srv.registerUser(t, "A", "a@x.com")

	rec := srv.do(t, http.MethodDelete, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/auth", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodOptions, "/api/posts", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), DefaultAuthHeader)
}

func TestRootAndHealth(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "API Running", rec.Body.String())

	rec = srv.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
