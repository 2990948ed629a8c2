// Package companydata fetches organization metadata from a company-data API
// by domain. The whole response is optional nested data; the enricher keeps
// whatever parts are present.
package companydata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const requestTimeout = 15 * time.Second

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

func New(baseURL, token string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
}

// Enabled reports whether an enrichment credential is configured.
func (c *Client) Enabled() bool {
	return c.token != ""
}

// Company mirrors the relevant parts of the company-data API response.
type Company struct {
	Name            *string           `json:"name"`
	Description     *string           `json:"description"`
	LongDescription *string           `json:"long_description"`
	FoundedYear     *int              `json:"founded_year"`
	TotalEmployees  *string           `json:"total_employees"`
	Industries      []string          `json:"industries"`
	Socials         map[string]string `json:"socials"`
	Logo            *string           `json:"logo"`
	Website         *string           `json:"website"`
	Location        *Location         `json:"location"`
}

type Location struct {
	Address *string `json:"address"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	Country *string `json:"country"`
}

// CompanyByDomain fetches company metadata for one domain.
func (c *Client) CompanyByDomain(ctx context.Context, domain string) (*Company, error) {
	params := url.Values{}
	params.Set("domain", domain)

	fullURL := c.baseURL + "/v1/companies?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("company request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("company API returned %d: %s", resp.StatusCode, string(body))
	}

	var company Company
	if err := json.Unmarshal(body, &company); err != nil {
		return nil, fmt.Errorf("unmarshal company response: %w", err)
	}

	c.logger.Debug("company data fetched", zap.String("domain", domain))

	return &company, nil
}
