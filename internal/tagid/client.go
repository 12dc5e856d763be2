package tagid

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Query carries whatever metadata is known about a track. Empty fields are
// omitted from the request.
type Query struct {
	Artist     string
	Title      string
	Album      string
	Location   string
	DurationMS int64
}

// Match is the service's canonical identification of a track.
type Match struct {
	ID     string  `json:"id"`
	Artist string  `json:"artist"`
	Title  string  `json:"title"`
	Album  string  `json:"album"`
	Score  float64 `json:"score"`
}

// Resolver identifies tracks. Implementations must treat a miss as an error,
// never as an empty Match.
type Resolver interface {
	Resolve(ctx context.Context, query Query) (*Match, error)
}

// ErrNoMatch reports that the service answered but found no identification.
var ErrNoMatch = errors.New("tag service: no match")

// Client talks to the tag-identification HTTP API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ Resolver = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a tag-identification client.
func New(baseURL, apiKey string, timeout time.Duration, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("tag service base url required")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Resolve asks the service to identify the described track.
func (c *Client) Resolve(ctx context.Context, query Query) (*Match, error) {
	values := url.Values{}
	if query.Artist != "" {
		values.Set("artist", query.Artist)
	}
	if query.Title != "" {
		values.Set("title", query.Title)
	}
	if query.Album != "" {
		values.Set("album", query.Album)
	}
	if query.Location != "" {
		values.Set("location", query.Location)
	}
	if query.DurationMS > 0 {
		values.Set("duration_ms", strconv.FormatInt(query.DurationMS, 10))
	}

	endpoint := c.baseURL + "/v1/identify?" + values.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build identify request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identify request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNoMatch
	default:
		return nil, fmt.Errorf("identify request: unexpected status %s", resp.Status)
	}

	var match Match
	if err := json.NewDecoder(resp.Body).Decode(&match); err != nil {
		return nil, fmt.Errorf("decode identify response: %w", err)
	}
	if strings.TrimSpace(match.ID) == "" {
		return nil, ErrNoMatch
	}
	return &match, nil
}
