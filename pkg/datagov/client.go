// Package datagov fetches CSV pages from the data.gov.in resource API.
package datagov

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the public resource API root.
const DefaultBaseURL = "https://api.data.gov.in"

// PageFetcher returns one CSV page of a resource.
type PageFetcher interface {
	FetchPage(ctx context.Context, resourceID string, offset, limit int) (string, error)
}

// StatusError reports a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("data.gov.in returned status %d: %s", e.StatusCode, e.Body)
}

// IsTransient reports whether retrying may help.
func (e *StatusError) IsTransient() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Client is a PageFetcher over HTTP.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a client with a fixed per-request timeout.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// FetchPage requests rows [offset, offset+limit) of resourceID as CSV and
// returns the raw body.
func (c *Client) FetchPage(ctx context.Context, resourceID string, offset, limit int) (string, error) {
	params := url.Values{}
	params.Set("api-key", c.apiKey)
	params.Set("format", "csv")
	params.Set("offset", strconv.Itoa(offset))
	params.Set("limit", strconv.Itoa(limit))

	endpoint := fmt.Sprintf("%s/resource/%s?%s", c.baseURL, url.PathEscape(resourceID), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := strings.TrimSpace(string(body))
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return "", &StatusError{StatusCode: resp.StatusCode, Body: snippet}
	}

	return string(body), nil
}
