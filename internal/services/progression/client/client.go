// Package client provides an HTTP client for the progression service.
package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/stridebound/stridebound/internal/platform/httpapi"
)

// RankProgress mirrors the rank-band progress block of a progress response.
type RankProgress struct {
	Progress  float64 `json:"progress"`
	Rank      string  `json:"rank"`
	Ranked    bool    `json:"ranked"`
	FromLabel string  `json:"from_label"`
	ToLabel   string  `json:"to_label"`
	Pct       int     `json:"pct"`
}

// Progress mirrors the progression service's progress response.
type Progress struct {
	UserID            string       `json:"user_id"`
	TotalXP           float64      `json:"total_xp"`
	StepsToday        int          `json:"steps_today"`
	DailyBonusGranted bool         `json:"daily_bonus_granted"`
	Premium           bool         `json:"premium"`
	Level             int          `json:"level"`
	Rank              string       `json:"rank"`
	Ranked            bool         `json:"ranked"`
	Progress          float64      `json:"progress"`
	XPToNextLevel     float64      `json:"xp_to_next_level"`
	RankProgress      RankProgress `json:"rank_progress"`
}

// Client calls the progression HTTP API.
type Client struct {
	api *httpapi.Client
}

// New creates a progression client for the API rooted at baseURL.
func New(baseURL string) *Client {
	return &Client{api: httpapi.NewClient(baseURL)}
}

func userPath(userID, suffix string) string {
	return fmt.Sprintf("/v1/users/%s%s", url.PathEscape(userID), suffix)
}

// SyncSteps applies an absolute daily step reading for userID.
func (c *Client) SyncSteps(ctx context.Context, userID string, steps int) (Progress, error) {
	var out Progress
	err := c.api.Do(ctx, http.MethodPost, userPath(userID, "/steps/sync"), map[string]int{"steps": steps}, &out)
	return out, err
}

// AddSteps adds a manual step count for userID.
func (c *Client) AddSteps(ctx context.Context, userID string, steps int) (Progress, error) {
	var out Progress
	err := c.api.Do(ctx, http.MethodPost, userPath(userID, "/steps/add"), map[string]int{"steps": steps}, &out)
	return out, err
}

// ResetDailyStats clears userID's daily counters at a day boundary.
func (c *Client) ResetDailyStats(ctx context.Context, userID string) (Progress, error) {
	var out Progress
	err := c.api.Do(ctx, http.MethodPost, userPath(userID, "/daily/reset"), nil, &out)
	return out, err
}

// SetPremium toggles the premium XP multiplier for userID.
func (c *Client) SetPremium(ctx context.Context, userID string, premium bool) (Progress, error) {
	var out Progress
	err := c.api.Do(ctx, http.MethodPut, userPath(userID, "/premium"), map[string]bool{"premium": premium}, &out)
	return out, err
}

// GetProgress fetches the current snapshot for userID.
func (c *Client) GetProgress(ctx context.Context, userID string) (Progress, error) {
	var out Progress
	err := c.api.Do(ctx, http.MethodGet, userPath(userID, "/progress"), nil, &out)
	return out, err
}
