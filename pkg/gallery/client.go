package gallery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/textproto"
	"strings"
	"time"

	"lensfolio/pkg/domain"
)

// Client is the API client for the portfolio server. It carries the session
// cookie across calls and serves photo lists from a short-lived cache that
// every mutating call invalidates.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *photoCache
}

// ContactResult carries the per-channel outcomes of a contact submission.
type ContactResult struct {
	Email bool `json:"email"`
	SMS   bool `json:"sms"`
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client. A cookie jar is attached
// if it does not carry one.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithCacheTTL overrides the photo cache staleness window.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) { c.cache = newPhotoCache(ttl) }
}

// WithClock overrides the cache clock. Test hook.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.cache.now = now }
}

// NewClient builds a client against baseURL (no trailing slash needed).
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		cache:   newPhotoCache(time.Minute),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 30 * time.Second}
	}
	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("cookie jar: %w", err)
		}
		c.http.Jar = jar
	}
	return c, nil
}

// auth

// Login authenticates and stores the session cookie for later calls.
func (c *Client) Login(ctx context.Context, username, password string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, nil)
}

// Logout destroys the server-side session.
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// Status reports whether the client currently holds a live session.
func (c *Client) Status(ctx context.Context) (bool, error) {
	var resp struct {
		IsAuthenticated bool `json:"isAuthenticated"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/status", nil, &resp); err != nil {
		return false, err
	}
	return resp.IsAuthenticated, nil
}

// gallery reads

// Photos returns the photos matching the filter, served from the cache
// while it is fresh. Filtering is applied over the cached snapshot, never
// by refetching.
func (c *Client) Photos(ctx context.Context, filter Filter) ([]domain.Photo, error) {
	photos, ok := c.cache.get()
	if !ok {
		var fetched []domain.Photo
		if err := c.doJSON(ctx, http.MethodGet, "/api/photos", nil, &fetched); err != nil {
			return nil, err
		}
		c.cache.replace(fetched)
		photos = fetched
	}
	return filter.Apply(photos), nil
}

// Photo fetches a single record by id, bypassing the cache.
func (c *Client) Photo(ctx context.Context, id int) (domain.Photo, error) {
	var photo domain.Photo
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/photos/%d", id), nil, &photo)
	return photo, err
}

// mutations; each invalidates the photo cache so the next read refetches.

// Upload posts a media file and returns its serving URL.
func (c *Client) Upload(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="media"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("build multipart: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("copy payload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finish multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	var resp struct {
		URL string `json:"url"`
	}
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	c.cache.invalidate()
	return resp.URL, nil
}

// CreatePhoto persists a new photo record.
func (c *Client) CreatePhoto(ctx context.Context, photo domain.Photo) (domain.Photo, error) {
	var created domain.Photo
	if err := c.doJSON(ctx, http.MethodPost, "/api/photos", photo, &created); err != nil {
		return domain.Photo{}, err
	}
	c.cache.invalidate()
	return created, nil
}

// DeletePhoto removes a record by id.
func (c *Client) DeletePhoto(ctx context.Context, id int) error {
	if err := c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/photos/%d", id), nil, nil); err != nil {
		return err
	}
	c.cache.invalidate()
	return nil
}

// SetHomePage toggles the home-page flag on a record.
func (c *Client) SetHomePage(ctx context.Context, id int, homePage bool) (domain.Photo, error) {
	var updated domain.Photo
	path := fmt.Sprintf("/api/photos/%d/homepage", id)
	if err := c.doJSON(ctx, http.MethodPatch, path, map[string]bool{"homePage": homePage}, &updated); err != nil {
		return domain.Photo{}, err
	}
	c.cache.invalidate()
	return updated, nil
}

// Invalidate drops the cached photo list so the next Photos call refetches.
func (c *Client) Invalidate() {
	c.cache.invalidate()
}

// Contact submits the contact form and reports per-channel outcomes.
func (c *Client) Contact(ctx context.Context, msg domain.ContactMessage) (ContactResult, error) {
	var result ContactResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/contact", msg, &result); err != nil {
		return ContactResult{}, err
	}
	return result, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, dst any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, dst)
}

func (c *Client) do(req *http.Request, dst any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var body struct {
			Message string `json:"message"`
		}
		if json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body) == nil {
			apiErr.Message = body.Message
		}
		return apiErr
	}
	if dst == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
