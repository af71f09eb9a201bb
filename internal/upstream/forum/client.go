package forum

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	"NutriForum/internal/core/feed"
	"NutriForum/internal/core/likes"
)

// Client is the upstream forum API: paged post listings, free-text search,
// and like toggles. The server's responses are authoritative for everything
// except the viewer-relative liked flag, which the like coordinator
// reconciles locally.
type Client interface {
	feed.FetchClient
	likes.LikeClient
}

type userContextKey struct{}

// WithUser tags the context with the acting forum username. The HTTP client
// forwards it upstream so toggles land on the right account.
func WithUser(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, userContextKey{}, username)
}

// UserFromContext returns the acting username, if any
func UserFromContext(ctx context.Context) string {
	username, _ := ctx.Value(userContextKey{}).(string)
	return username
}

// HTTPClient talks to the upstream forum over its JSON API, retrying
// transient failures before they ever reach the cache layer.
type HTTPClient struct {
	base  *url.URL
	token string
	http  *retryablehttp.Client
}

// NewHTTPClient creates a forum API client for the given base URL.
// token is the gateway's upstream credential; empty disables the header.
func NewHTTPClient(baseURL, token string) (*HTTPClient, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid forum base URL: %w", err)
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.HTTPClient.Timeout = 10 * time.Second
	rc.Logger = nil // request logging happens in our handlers, not here
	// Hand the final response back instead of a generic "giving up" error so
	// callers see the upstream status code
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &HTTPClient{
		base:  base,
		token: token,
		http:  rc,
	}, nil
}

// ListPosts fetches one page of posts in the given ordering
func (c *HTTPClient) ListPosts(ctx context.Context, ordering string, page, size int) (*feed.PostPage, error) {
	q := url.Values{}
	q.Set("order", ordering)
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(size))

	var out struct {
		Items []postDTO `json:"items"`
		Total int       `json:"totalCount"`
		Next  string    `json:"next"`
	}
	if err := c.get(ctx, "/api/v1/posts", q, &out); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	return &feed.PostPage{
		Items: toPosts(out.Items),
		Total: out.Total,
		Next:  out.Next,
	}, nil
}

// Search runs a free-text query upstream; ranking is the server's concern
func (c *HTTPClient) Search(ctx context.Context, query string) (*feed.SearchResults, error) {
	q := url.Values{}
	q.Set("q", query)

	var out struct {
		Items []postDTO `json:"items"`
		Total int       `json:"totalCount"`
	}
	if err := c.get(ctx, "/api/v1/posts/search", q, &out); err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}

	return &feed.SearchResults{
		Posts: toPosts(out.Items),
		Total: out.Total,
	}, nil
}

// ToggleLike flips the acting user's like on a post and returns the
// server's verdict
func (c *HTTPClient) ToggleLike(ctx context.Context, postID int64) (*likes.LikeResult, error) {
	path := fmt.Sprintf("/api/v1/posts/%d/like", postID)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.resolve(path, nil), nil)
	if err != nil {
		return nil, fmt.Errorf("toggle like: %w", err)
	}
	c.decorate(ctx, req)

	var out likes.LikeResult
	if err := c.do(req, &out); err != nil {
		return nil, fmt.Errorf("toggle like: %w", err)
	}
	return &out, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, q url.Values, out interface{}) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.resolve(path, q), nil)
	if err != nil {
		return err
	}
	c.decorate(ctx, req)
	return c.do(req, out)
}

func (c *HTTPClient) do(req *retryablehttp.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("forum API returned %d: %s", resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding forum API response: %w", err)
	}
	return nil
}

func (c *HTTPClient) resolve(path string, q url.Values) string {
	u := *c.base
	u.Path = path
	if q != nil {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (c *HTTPClient) decorate(ctx context.Context, req *retryablehttp.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if username := UserFromContext(ctx); username != "" {
		req.Header.Set("X-Forum-User", username)
	}
}
