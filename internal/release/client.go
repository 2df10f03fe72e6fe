// Package release queries the upstream agent project's GitHub release feed.
package release

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

const (
	// APIBaseURL is the base URL for the GitHub API.
	APIBaseURL = "https://api.github.com"

	// DownloadBaseURL is the base URL for source archive downloads.
	DownloadBaseURL = "https://github.com"

	// DefaultOwner is the upstream repository owner.
	DefaultOwner = "DataDog"

	// DefaultRepo is the upstream repository name.
	DefaultRepo = "datadog-agent"
)

// Release is a single release entry from the feed.
type Release struct {
	TagName     string    `json:"tag_name"`
	Name        string    `json:"name"`
	Draft       bool      `json:"draft"`
	Prerelease  bool      `json:"prerelease"`
	PublishedAt time.Time `json:"published_at"`
}

// Client is a GitHub API client for resolving agent releases.
type Client struct {
	httpClient  *http.Client
	token       string
	owner       string
	repo        string
	apiBase     string
	downloadURL string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithToken sets the GitHub token for authentication.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// WithOwnerRepo sets the repository owner and name.
func WithOwnerRepo(owner, repo string) ClientOption {
	return func(c *Client) {
		c.owner = owner
		c.repo = repo
	}
}

// WithBaseURL overrides the API base URL. Used in tests.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.apiBase = url
	}
}

// WithDownloadBaseURL overrides the archive download base URL. Used in tests.
func WithDownloadBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.downloadURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// NewClient creates a new release feed client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		owner:       DefaultOwner,
		repo:        DefaultRepo,
		apiBase:     APIBaseURL,
		downloadURL: DownloadBaseURL,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// RepoURL returns the clone URL for the upstream repository.
func (c *Client) RepoURL() string {
	return fmt.Sprintf("%s/%s/%s.git", c.downloadURL, c.owner, c.repo)
}

// TarballURL returns the source archive URL for a tagged version.
func (c *Client) TarballURL(tag string) string {
	return fmt.Sprintf("%s/%s/%s/archive/refs/tags/%s.tar.gz", c.downloadURL, c.owner, c.repo, tag)
}

// LatestVersion queries the release feed for the latest tagged version. It
// fails with a descriptive error if the feed is unreachable or the response
// has no tag field; there is no retry and no caching.
func (c *Client) LatestVersion(ctx context.Context) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", c.apiBase, c.owner, c.repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to query release feed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusForbidden, http.StatusTooManyRequests:
		return "", rateLimitError(resp)
	case http.StatusUnauthorized:
		return "", &AuthenticationError{Message: "GitHub authentication failed. Check your token."}
	case http.StatusNotFound:
		return "", &NotFoundError{Message: fmt.Sprintf("no releases found for %s/%s", c.owner, c.repo)}
	default:
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("GitHub API error: %d - %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var rel Release
	if err := json.Unmarshal(body, &rel); err != nil {
		return "", fmt.Errorf("failed to parse release: %w", err)
	}
	if rel.TagName == "" {
		return "", fmt.Errorf("release feed returned no tag_name field")
	}

	return rel.TagName, nil
}

func rateLimitError(resp *http.Response) error {
	e := &RateLimitError{}
	if limit := resp.Header.Get("X-RateLimit-Limit"); limit != "" {
		e.Limit, _ = strconv.Atoi(limit)
	}
	if remaining := resp.Header.Get("X-RateLimit-Remaining"); remaining != "" {
		e.Remaining, _ = strconv.Atoi(remaining)
	}
	if reset := resp.Header.Get("X-RateLimit-Reset"); reset != "" {
		resetUnix, _ := strconv.ParseInt(reset, 10, 64)
		e.Reset = time.Unix(resetUnix, 0)
	}
	return e
}

// RateLimitError indicates the API rate limit was exceeded.
type RateLimitError struct {
	Limit     int
	Remaining int
	Reset     time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("GitHub API rate limit exceeded. Reset at %s", e.Reset.Format(time.RFC1123))
}

// AuthenticationError indicates authentication failed.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// NotFoundError indicates the release feed or repository was not found.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}
