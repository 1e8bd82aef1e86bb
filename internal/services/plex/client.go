package plex

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"blackspot/internal/services"
)

// HTTPDoer abstracts http.Client.Do for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Item is one catalog entry from a library section listing. Timestamps stay
// raw strings; the Plex API omits or mangles them often enough that parsing is
// the classifier's concern, not the transport's.
type Item struct {
	RatingKey string
	Title     string
	AddedAt   string
	UpdatedAt string
	Thumb     string
}

// Client talks to a single Plex Media Server.
type Client struct {
	baseURL string
	token   string
	timeout time.Duration
	client  HTTPDoer
}

// NewClient constructs a Plex API client. A zero timeout disables the
// per-request deadline; callers normally pass the configured request timeout.
func NewClient(baseURL, token string, timeout time.Duration, client HTTPDoer) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(token),
		timeout: timeout,
		client:  client,
	}
}

// BaseURL returns the normalized server base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type mediaContainer struct {
	Videos []videoEntry `xml:"Video"`
}

type videoEntry struct {
	RatingKey string `xml:"ratingKey,attr"`
	Title     string `xml:"title,attr"`
	AddedAt   string `xml:"addedAt,attr"`
	UpdatedAt string `xml:"updatedAt,attr"`
	Thumb     string `xml:"thumb,attr"`
}

// LibraryItems lists every video entry in the given library section.
func (c *Client) LibraryItems(ctx context.Context, libraryID string) ([]Item, error) {
	path := fmt.Sprintf("/library/sections/%s/all", url.PathEscape(libraryID))
	resp, err := c.get(ctx, c.baseURL+path)
	if err != nil {
		return nil, services.Wrap(services.ErrSourceUnavailable, "plex", "list library", libraryID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, services.Wrap(services.ErrSourceUnavailable, "plex", "list library",
			fmt.Sprintf("section %s returned %d: %s", libraryID, resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}

	var container mediaContainer
	if err := xml.NewDecoder(resp.Body).Decode(&container); err != nil {
		return nil, services.Wrap(services.ErrSourceUnavailable, "plex", "decode library listing", libraryID, err)
	}

	items := make([]Item, 0, len(container.Videos))
	for _, video := range container.Videos {
		items = append(items, Item{
			RatingKey: video.RatingKey,
			Title:     video.Title,
			AddedAt:   video.AddedAt,
			UpdatedAt: video.UpdatedAt,
			Thumb:     video.Thumb,
		})
	}
	return items, nil
}

// FetchThumbnail retrieves raw image bytes for a thumbnail reference. Relative
// references are resolved against the server base URL first.
func (c *Client) FetchThumbnail(ctx context.Context, ref string) ([]byte, error) {
	resolved := ResolveThumbURL(c.baseURL, ref)
	resp, err := c.get(ctx, resolved)
	if err != nil {
		return nil, services.Wrap(services.ErrFetch, "plex", "fetch thumbnail", ref, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, services.Wrap(services.ErrFetch, "plex", "fetch thumbnail",
			fmt.Sprintf("%s returned %d", ref, resp.StatusCode), nil)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrFetch, "plex", "read thumbnail", ref, err)
	}
	return data, nil
}

// Analyze forces the server to regenerate derived metadata (including the
// thumbnail) for one item.
func (c *Client) Analyze(ctx context.Context, ratingKey string) error {
	path := fmt.Sprintf("/library/metadata/%s/analyze", url.PathEscape(ratingKey))
	return c.put(ctx, c.baseURL+path, nil, "analyze", ratingKey)
}

// Refresh re-fetches an item's metadata without a full analysis. The force
// flag matches what the Plex web UI sends.
func (c *Client) Refresh(ctx context.Context, ratingKey string) error {
	path := fmt.Sprintf("/library/metadata/%s/refresh", url.PathEscape(ratingKey))
	return c.put(ctx, c.baseURL+path, url.Values{"force": {"1"}}, "refresh", ratingKey)
}

func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	ctx, cancel := c.requestContext(ctx)
	resp, err := c.do(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		cancel()
		return nil, err
	}
	resp.Body = cancelOnClose{resp.Body, cancel}
	return resp, nil
}

func (c *Client) put(ctx context.Context, rawURL string, params url.Values, operation, ratingKey string) error {
	ctx, cancel := c.requestContext(ctx)
	defer cancel()

	resp, err := c.do(ctx, http.MethodPut, rawURL, params)
	if err != nil {
		return services.Wrap(services.ErrAction, "plex", operation, ratingKey, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return services.Wrap(services.ErrAction, "plex", operation,
			fmt.Sprintf("ratingKey %s returned %d", ratingKey, resp.StatusCode), nil)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, rawURL string, params url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	query := req.URL.Query()
	for key, values := range params {
		for _, value := range values {
			query.Set(key, value)
		}
	}
	req.URL.RawQuery = query.Encode()

	req.Header.Set("Accept", "application/xml")
	if c.token != "" {
		req.Header.Set("X-Plex-Token", c.token)
	}

	return c.client.Do(req)
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// ResolveThumbURL resolves a thumbnail reference against the server base URL.
// Absolute references pass through untouched.
func ResolveThumbURL(baseURL, ref string) string {
	trimmed := strings.TrimSpace(ref)
	if strings.HasPrefix(trimmed, "/") {
		return strings.TrimRight(baseURL, "/") + trimmed
	}
	return trimmed
}

// cancelOnClose releases the request context when the response body is closed,
// so streamed reads stay under the per-request deadline.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
