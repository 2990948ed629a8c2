// Package serpapi looks up organization websites through a web-search API.
// Lookups are best-effort: the caller treats every failure as "no website".
package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const (
	searchEngine  = "google"
	maxResults    = 3
	searchTimeout = 15 * time.Second
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

func New(baseURL, apiKey string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: searchTimeout},
		logger:     logger,
	}
}

// Enabled reports whether a search credential is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type searchResponse struct {
	OrganicResults []organicResult `json:"organic_results"`
}

type organicResult struct {
	Link string `json:"link"`
}

// FirstOrganicLink runs one search and returns the link of the first organic
// result that has one.
func (c *Client) FirstOrganicLink(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("engine", searchEngine)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(maxResults))
	params.Set("api_key", c.apiKey)

	fullURL := c.baseURL + "/search.json?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search API returned %d: %s", resp.StatusCode, string(body))
	}

	var response searchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("unmarshal search response: %w", err)
	}

	for _, result := range response.OrganicResults {
		if result.Link != "" {
			c.logger.Debug("organic result found",
				zap.String("query", query),
				zap.String("link", result.Link),
			)
			return result.Link, nil
		}
	}

	return "", fmt.Errorf("no organic result with a link for %q", query)
}
