// Package hosting is a minimal client for a GitHub-style source-control
// hosting API. It covers exactly the read surface the tool needs:
// the authenticated user, repository listing and lookup, and open pull
// request listing.
package hosting

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public GitHub REST endpoint.
	DefaultBaseURL = "https://api.github.com"

	apiVersion = "2022-11-28"
	acceptType = "application/vnd.github+json"
	pageSize   = 100
)

// Client is a hosting API client.
type Client struct {
	token      string
	baseURL    string
	userAgent  string
	httpClient *http.Client
	retry      *RetryPolicy
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a non-default API endpoint, e.g. a
// self-hosted instance.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithRetryPolicy replaces the transient-failure retry policy.
func WithRetryPolicy(p *RetryPolicy) Option {
	return func(c *Client) {
		c.retry = p
	}
}

// NewClient creates a new hosting API client using the given credential.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		token:     token,
		baseURL:   DefaultBaseURL,
		userAgent: "prflight",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		retry: DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Error is a hosting API failure, carrying the service's own message so
// it can be surfaced to the operator verbatim.
type Error struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *Error) Error() string {
	return fmt.Sprintf("hosting service: HTTP %d: %s", e.StatusCode, e.Message)
}

// apiError mirrors the error body shape of the hosting API.
type apiError struct {
	Message string `json:"message"`
}

// get executes one GET request against the API, retrying transient
// failures, and unmarshals the response into result.
func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	full := c.baseURL + path
	if len(query) > 0 {
		full += "?" + query.Encode()
	}

	return retryWithBackoff(ctx, c.retry, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		req.Header.Set("Accept", acceptType)
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("X-GitHub-Api-Version", apiVersion)
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("execute request: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			apiErr := apiError{Message: strings.TrimSpace(string(respBody))}
			_ = json.Unmarshal(respBody, &apiErr)
			return &Error{
				StatusCode: resp.StatusCode,
				Message:    apiErr.Message,
				URL:        full,
			}
		}

		if result != nil {
			if err := json.Unmarshal(respBody, result); err != nil {
				return fmt.Errorf("unmarshal response: %w", err)
			}
		}
		return nil
	}, isTransient)
}

// AuthenticatedUser returns the account the credential belongs to.
func (c *Client) AuthenticatedUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.get(ctx, "/user", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListRepositories returns every repository visible to the authenticated
// user, most recently updated first.
func (c *Client) ListRepositories(ctx context.Context) ([]Repository, error) {
	all := make([]Repository, 0)

	for page := 1; ; page++ {
		query := url.Values{
			"sort":     {"updated"},
			"per_page": {strconv.Itoa(pageSize)},
			"page":     {strconv.Itoa(page)},
		}

		var batch []Repository
		if err := c.get(ctx, "/user/repos", query, &batch); err != nil {
			return nil, err
		}
		all = append(all, batch...)

		if len(batch) < pageSize {
			break
		}
	}

	return all, nil
}

// GetRepository fetches a single repository by owner and name.
func (c *Client) GetRepository(ctx context.Context, owner, name string) (*Repository, error) {
	path := fmt.Sprintf("/repos/%s/%s", url.PathEscape(owner), url.PathEscape(name))

	var repo Repository
	if err := c.get(ctx, path, nil, &repo); err != nil {
		return nil, err
	}
	return &repo, nil
}

// ListOpenPullRequests returns all open pull requests for a repository.
func (c *Client) ListOpenPullRequests(ctx context.Context, owner, name string) ([]PullRequest, error) {
	path := fmt.Sprintf("/repos/%s/%s/pulls", url.PathEscape(owner), url.PathEscape(name))
	all := make([]PullRequest, 0)

	for page := 1; ; page++ {
		query := url.Values{
			"state":    {"open"},
			"per_page": {strconv.Itoa(pageSize)},
			"page":     {strconv.Itoa(page)},
		}

		var batch []PullRequest
		if err := c.get(ctx, path, query, &batch); err != nil {
			return nil, err
		}
		all = append(all, batch...)

		if len(batch) < pageSize {
			break
		}
	}

	return all, nil
}
