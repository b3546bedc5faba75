// Package client provides an HTTP client for the leaderboard service.
package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/stridebound/stridebound/internal/platform/httpapi"
	"github.com/stridebound/stridebound/internal/progress"
)

// Entry mirrors one leaderboard row in API responses.
type Entry struct {
	UserID      string  `json:"user_id"`
	DisplayName string  `json:"display_name"`
	PhotoURL    string  `json:"photo_url"`
	TotalXP     float64 `json:"total_xp"`
	StepsToday  int     `json:"steps_today"`
	StepsWeek   int     `json:"steps_week"`
	StepsMonth  int     `json:"steps_month"`
	Country     string  `json:"country"`
	LastSyncAt  string  `json:"last_sync_at"`
	Rank        int     `json:"rank"`
}

// Board is a leaderboard page.
type Board struct {
	Filter  string  `json:"filter"`
	Entries []Entry `json:"entries"`
}

// Rank is one user's position on a filtered board.
type Rank struct {
	UserID  string `json:"user_id"`
	Filter  string `json:"filter"`
	Country string `json:"country"`
	Rank    int    `json:"rank"`
}

// Client calls the leaderboard HTTP API. It satisfies the score publisher
// contract of the progression session layer.
type Client struct {
	api *httpapi.Client
}

// New creates a board client for the API rooted at baseURL.
func New(baseURL string) *Client {
	return &Client{api: httpapi.NewClient(baseURL)}
}

// PublishScore upserts the user's board entry from a progress snapshot.
func (c *Client) PublishScore(ctx context.Context, userID string, snap progress.Snapshot, syncedAt time.Time) error {
	body := map[string]any{
		"total_xp":    snap.TotalXP,
		"steps_today": snap.StepsToday,
	}
	if !syncedAt.IsZero() {
		body["synced_at"] = syncedAt.UTC().Format(time.RFC3339)
	}
	path := fmt.Sprintf("/v1/board/entries/%s", url.PathEscape(userID))
	return c.api.Do(ctx, http.MethodPut, path, body, nil)
}

// Top fetches the highest entries for the filter, optionally scoped to a
// country code.
func (c *Client) Top(ctx context.Context, filter, country string, limit int) (Board, error) {
	values := url.Values{}
	if filter != "" {
		values.Set("filter", filter)
	}
	if country != "" {
		values.Set("country", country)
	}
	if limit > 0 {
		values.Set("limit", fmt.Sprintf("%d", limit))
	}
	path := "/v1/board"
	if encoded := values.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var out Board
	err := c.api.Do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// RankFor fetches the user's rank on a filtered board.
func (c *Client) RankFor(ctx context.Context, userID, filter, country string) (Rank, error) {
	values := url.Values{}
	if filter != "" {
		values.Set("filter", filter)
	}
	if country != "" {
		values.Set("country", country)
	}
	path := fmt.Sprintf("/v1/board/rank/%s", url.PathEscape(userID))
	if encoded := values.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var out Rank
	err := c.api.Do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}
