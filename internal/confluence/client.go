package confluence

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// client is a minimal Confluence REST client: list pages in a space and
// fetch one page's body. It deliberately does not wrap a full API SDK —
// the pipeline only ever needs these two calls.
type client struct {
	httpClient *http.Client
	baseURL    string
	username   string
	apiKey     string
}

func newClient(cfg Config) *client {
	return &client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:    cfg.BaseURL,
		username:   cfg.Username,
		apiKey:     cfg.APIKey,
	}
}

func (c *client) authenticate(req *http.Request) {
	if c.username != "" {
		req.SetBasicAuth(c.username, c.apiKey)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

// listPages fetches one page window of a space's content.
func (c *client) listPages(ctx context.Context, space string, start, limit int, expand string) ([]Page, error) {
	u := fmt.Sprintf("%s/rest/api/content", c.baseURL)
	q := url.Values{}
	q.Set("spaceKey", space)
	q.Set("start", fmt.Sprintf("%d", start))
	q.Set("limit", fmt.Sprintf("%d", limit))
	if expand != "" {
		q.Set("expand", expand)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	c.authenticate(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("confluence: list pages: unexpected status %d", resp.StatusCode)
	}

	var out pageListResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("confluence: decode page list: %w", err)
	}
	return out.Results, nil
}

// getPage fetches a single page's full representation, including body
// content, and returns the raw response whatever its HTTP status, so the
// downloader can record a non-2xx response as a TaskResult without
// decoding it.
func (c *client) getPage(ctx context.Context, id string, expand string) (*http.Response, error) {
	u := fmt.Sprintf("%s/rest/api/content/%s", c.baseURL, id)
	q := url.Values{}
	if expand != "" {
		q.Set("expand", expand)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	c.authenticate(req)

	return c.httpClient.Do(req)
}
