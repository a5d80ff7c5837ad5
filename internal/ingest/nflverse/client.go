// Package nflverse downloads historical NFL player statistics from the
// nflverse data releases and turns them into pipeline game records.
package nflverse

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is the nflverse-data release root.
const DefaultBaseURL = "https://github.com/nflverse/nflverse-data/releases/download"

// Client fetches per-season player stats files over HTTP. The releases are
// plain flat files behind GitHub's CDN, so a stock http.Client is enough.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// FetchSeasonStats downloads the raw player-stats CSV for one season. The
// caller owns the returned reader and must close it.
func (c *Client) FetchSeasonStats(ctx context.Context, season int) (io.ReadCloser, error) {
	url := fmt.Sprintf("%s/player_stats/player_stats_%d.csv", c.baseURL, season)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for season %d: %w", season, err)
	}
	req.Header.Set("User-Agent", "gridiron/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching player stats for season %d: %w", season, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetching player stats for season %d: unexpected status %s", season, resp.Status)
	}
	return resp.Body, nil
}
