// Package activejobs is the client for the jobs aggregation API the sync
// pipeline ingests from. Every call is a single attempt: a sync run either
// gets a clean batch or fails fast with the upstream status and body.
package activejobs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// SourceName tags every job row written from this source; together with the
// external id it forms the upsert conflict key.
const SourceName = "activejobs"

// ErrMissingAPIKey is returned before any network call when the ingestion
// credential is not configured.
var ErrMissingAPIKey = errors.New("jobs API key is not configured")

// APIError carries the upstream status and body of a non-2xx response so the
// trigger surfaces can pass them through.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("jobs API returned %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	baseURL    string
	host       string
	apiKey     string
	params     SearchParams
	httpClient *http.Client
	logger     *zap.Logger
}

// SearchParams are the fixed query parameters a sync run fetches with.
type SearchParams struct {
	TitleFilter string
	Limit       int
	Offset      int
	RemoteOnly  bool
	IncludeAI   bool
}

func New(baseURL, host, apiKey string, params SearchParams, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		host:    host,
		apiKey:  apiKey,
		params:  params,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: logger,
	}
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	fullURL := c.baseURL + path
	if params != nil {
		fullURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.host)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jobs API request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("jobs API error",
			zap.String("url", c.baseURL+path),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
		)
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	c.logger.Debug("jobs API request ok",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)

	return body, nil
}
