// Package api exposes the leaderboard service over HTTP.
package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/stridebound/stridebound/internal/platform/errors"
	"github.com/stridebound/stridebound/internal/platform/httpapi"
	"github.com/stridebound/stridebound/internal/services/board/ranking"
	"github.com/stridebound/stridebound/internal/services/board/storage"
)

// Service registers the leaderboard routes on a gin engine.
type Service struct {
	store storage.EntryStore
}

// NewService creates the HTTP service backed by an entry store.
func NewService(store storage.EntryStore) *Service {
	return &Service{store: store}
}

// Register mounts all leaderboard routes under /v1.
func (s *Service) Register(engine *gin.Engine) {
	group := engine.Group("/v1/board")
	group.GET("", s.listBoard)
	group.GET("/rank/:id", s.getRank)
	group.PUT("/entries/:id", s.putEntry)
}

type entryPayload struct {
	UserID      string  `json:"user_id"`
	DisplayName string  `json:"display_name"`
	PhotoURL    string  `json:"photo_url,omitempty"`
	TotalXP     float64 `json:"total_xp"`
	StepsToday  int     `json:"steps_today"`
	StepsWeek   int     `json:"steps_week"`
	StepsMonth  int     `json:"steps_month"`
	Country     string  `json:"country,omitempty"`
	LastSyncAt  string  `json:"last_sync_at,omitempty"`
	Rank        int     `json:"rank,omitempty"`
}

func toPayload(entry storage.Entry, rank int) entryPayload {
	payload := entryPayload{
		UserID:      entry.UserID,
		DisplayName: entry.DisplayName,
		PhotoURL:    entry.PhotoURL,
		TotalXP:     entry.TotalXP,
		StepsToday:  entry.StepsToday,
		StepsWeek:   entry.StepsWeek,
		StepsMonth:  entry.StepsMonth,
		Country:     entry.Country,
		Rank:        rank,
	}
	if !entry.LastSyncAt.IsZero() {
		payload.LastSyncAt = entry.LastSyncAt.UTC().Format(time.RFC3339)
	}
	return payload
}

func (s *Service) listBoard(c *gin.Context) {
	filter, err := ranking.ParseTimeFilter(c.Query("filter"))
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	limit := ranking.DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			httpapi.BadRequest(c, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	limit = httpapi.ClampPageSize(limit, httpapi.PageSizeConfig{
		Default: ranking.DefaultLimit,
		Max:     ranking.DefaultLimit,
	})

	entries, err := s.store.TopEntries(c.Request.Context(), filter, c.Query("country"), limit)
	if err != nil {
		httpapi.Error(c, err)
		return
	}

	payloads := make([]entryPayload, 0, len(entries))
	for i, entry := range entries {
		payloads = append(payloads, toPayload(entry, i+1))
	}
	c.JSON(http.StatusOK, gin.H{
		"filter":  string(filter),
		"entries": payloads,
	})
}

func (s *Service) getRank(c *gin.Context) {
	filter, err := ranking.ParseTimeFilter(c.Query("filter"))
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	userID := c.Param("id")
	country := c.Query("country")

	entry, err := s.store.GetEntry(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httpapi.Error(c, apperrors.New(apperrors.CodeBoardEntryMissing, "user has no board entry"))
			return
		}
		httpapi.Error(c, err)
		return
	}

	above, err := s.store.CountAbove(c.Request.Context(), filter, country, entry.SortValue(filter))
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id": userID,
		"filter":  string(filter),
		"country": country,
		"rank":    above + 1,
	})
}

type putEntryRequest struct {
	TotalXP     float64 `json:"total_xp"`
	StepsToday  int     `json:"steps_today"`
	DisplayName *string `json:"display_name"`
	PhotoURL    *string `json:"photo_url"`
	Country     *string `json:"country"`
	SyncedAt    string  `json:"synced_at"`
}

func (s *Service) putEntry(c *gin.Context) {
	var req putEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BadRequest(c, "request body must carry a score update")
		return
	}
	if req.TotalXP < 0 || req.StepsToday < 0 {
		httpapi.BadRequest(c, "score values must not be negative")
		return
	}

	var syncedAt time.Time
	if req.SyncedAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.SyncedAt)
		if err != nil {
			httpapi.BadRequest(c, "synced_at must be RFC 3339")
			return
		}
		syncedAt = parsed
	}

	entry, err := s.store.ApplyScore(c.Request.Context(), c.Param("id"), storage.ScoreUpdate{
		TotalXP:     req.TotalXP,
		StepsToday:  req.StepsToday,
		DisplayName: req.DisplayName,
		PhotoURL:    req.PhotoURL,
		Country:     req.Country,
		SyncedAt:    syncedAt,
	})
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toPayload(entry, 0))
}
