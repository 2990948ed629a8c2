package activejobs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"infosec-jobs/internal/models"

	"go.uber.org/zap"
)

// FetchListings pulls one batch of raw listings with the client's configured
// search parameters. The response is an array of loosely-shaped listing
// objects; absence of any field is tolerated.
func (c *Client) FetchListings(ctx context.Context) ([]models.RawListing, error) {
	queryParams := url.Values{}

	if c.params.TitleFilter != "" {
		queryParams.Set("title_filter", c.params.TitleFilter)
	}

	if c.params.Limit > 0 {
		queryParams.Set("limit", strconv.Itoa(c.params.Limit))
	}

	if c.params.Offset > 0 {
		queryParams.Set("offset", strconv.Itoa(c.params.Offset))
	}

	if c.params.RemoteOnly {
		queryParams.Set("remote", "true")
	}

	if c.params.IncludeAI {
		queryParams.Set("include_ai", "true")
	}

	data, err := c.get(ctx, "/active-ats-7d", queryParams)
	if err != nil {
		return nil, err
	}

	var listings []models.RawListing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, fmt.Errorf("unmarshal listings: %w", err)
	}

	c.logger.Debug("listings fetched",
		zap.Int("count", len(listings)),
		zap.String("title_filter", c.params.TitleFilter),
	)

	return listings, nil
}
