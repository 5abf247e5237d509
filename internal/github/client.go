// Package github lists a user's public repositories through the GitHub REST
// API, optionally caching the responses.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const DefaultBaseURL = "https://api.github.com"

// ErrNoProfile is returned when GitHub does not answer 200 for the username.
var ErrNoProfile = errors.New("no github profile found")

type Options struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	CacheTTL     time.Duration
	Timeout      time.Duration
}

// Client fetches the five most recently created repositories of a user.
type Client struct {
	http   *http.Client
	opts   Options
	cache  Cache
	logger *logrus.Logger
}

// NewClient builds a client. cache may be nil.
func NewClient(opts Options, cache Cache, logger *logrus.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Client{
		http:   &http.Client{Timeout: opts.Timeout},
		opts:   opts,
		cache:  cache,
		logger: logger,
	}
}

// ListRepos returns GitHub's JSON response verbatim.
func (c *Client) ListRepos(ctx context.Context, username string) (json.RawMessage, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrNoProfile
	}

	if c.cache != nil {
		cached, ok, err := c.cache.Get(ctx, username)
		if err != nil {
			c.logger.WithError(err).WithField("username", username).Warn("github cache read failed")
		} else if ok {
			return json.RawMessage(cached), nil
		}
	}

	body, err := c.fetch(ctx, username)
	if err != nil {
		return nil, err
	}

	if c.cache != nil && c.opts.CacheTTL > 0 {
		if err := c.cache.Set(ctx, username, body, c.opts.CacheTTL); err != nil {
			c.logger.WithError(err).WithField("username", username).Warn("github cache write failed")
		}
	}
	return json.RawMessage(body), nil
}

func (c *Client) fetch(ctx context.Context, username string) ([]byte, error) {
	query := url.Values{}
	query.Set("per_page", "5")
	query.Set("sort", "created:asc")
	if c.opts.ClientID != "" && c.opts.ClientSecret != "" {
		query.Set("client_id", c.opts.ClientID)
		query.Set("client_secret", c.opts.ClientSecret)
	}
	endpoint := fmt.Sprintf("%s/users/%s/repos?%s", c.opts.BaseURL, url.PathEscape(username), query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build github request: %w", err)
	}
	req.Header.Set("User-Agent", "devconnector")
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, ErrNoProfile
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read github response: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("github returned invalid json")
	}
	return body, nil
}
