package episodes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Source defines the interface for fetching raw episode records.
// This interface is implemented by *Client and can be used for testing.
type Source interface {
	FetchEpisodes(ctx context.Context, query Query) ([]RawEpisode, error)
}

// Ensure Client implements Source at compile time.
var _ Source = (*Client)(nil)

// Client talks to the podcast episodes API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultAPIURL    = "http://localhost:3333"
	defaultUserAgent = "podcastr/0.1"
	requestTimeout   = 10 * time.Second

	// DefaultLimit is the number of episodes the home screen asks for.
	DefaultLimit = 12
)

// NewClient builds a Client for the API rooted at apiURL.
func NewClient(apiURL string) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// Query configures /episodes requests.
type Query struct {
	Limit int
	Sort  string
	Order string
}

// HomeQuery returns the query the home screen uses: newest episodes first.
func HomeQuery(limit int) Query {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return Query{Limit: limit, Sort: "published_at", Order: "desc"}
}

// FetchEpisodes retrieves raw episode records in API order.
func (c *Client) FetchEpisodes(ctx context.Context, query Query) ([]RawEpisode, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	// json-server only understands the underscored forms.
	values := url.Values{}
	if query.Limit > 0 {
		values.Set("_limit", strconv.Itoa(query.Limit))
	}
	if sort := strings.TrimSpace(query.Sort); sort != "" {
		values.Set("_sort", sort)
	}
	if order := strings.TrimSpace(query.Order); order != "" {
		values.Set("_order", order)
	}
	rel := &url.URL{Path: "episodes", RawQuery: values.Encode()}
	var payload []RawEpisode
	if err := c.doURL(ctx, http.MethodGet, rel, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", reqURL.Path, resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// parseBaseURL normalizes apiURL so relative paths resolve beneath it.
func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", apiURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
