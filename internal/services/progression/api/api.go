// Package api exposes the progression service over HTTP.
package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/stridebound/stridebound/internal/platform/errors"
	"github.com/stridebound/stridebound/internal/platform/httpapi"
	"github.com/stridebound/stridebound/internal/progress"
	"github.com/stridebound/stridebound/internal/services/progression/session"
)

// Service registers the progression routes on a gin engine.
type Service struct {
	sessions *session.Registry
	verifier httpapi.TokenVerifier
}

// NewService creates the HTTP service. verifier may be nil to run the API
// without session enforcement, which the local worker agent relies on.
func NewService(sessions *session.Registry, verifier httpapi.TokenVerifier) *Service {
	return &Service{sessions: sessions, verifier: verifier}
}

// Register mounts all progression routes under /v1.
func (s *Service) Register(engine *gin.Engine) {
	group := engine.Group("/v1/users/:id")
	if s.verifier != nil {
		group.Use(httpapi.RequireSession(s.verifier))
		group.Use(requireUserMatch())
	}
	group.POST("/steps/sync", s.syncSteps)
	group.POST("/steps/add", s.addSteps)
	group.POST("/daily/reset", s.resetDaily)
	group.PUT("/premium", s.setPremium)
	group.GET("/progress", s.getProgress)
}

// requireUserMatch rejects requests whose session user does not own the
// targeted resource.
func requireUserMatch() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionUser := httpapi.SessionUserID(c)
		if sessionUser != strings.TrimSpace(c.Param("id")) {
			httpapi.Error(c, apperrors.New(apperrors.CodeAccountUserMismatch, "session does not match requested user"))
			c.Abort()
			return
		}
		c.Next()
	}
}

type stepsRequest struct {
	Steps int `json:"steps"`
}

type premiumRequest struct {
	Premium bool `json:"premium"`
}

type rankProgressPayload struct {
	Progress  float64 `json:"progress"`
	Rank      string  `json:"rank"`
	Ranked    bool    `json:"ranked"`
	FromLabel string  `json:"from_label"`
	ToLabel   string  `json:"to_label"`
	Pct       int     `json:"pct"`
}

type progressPayload struct {
	UserID            string              `json:"user_id"`
	TotalXP           float64             `json:"total_xp"`
	StepsToday        int                 `json:"steps_today"`
	DailyBonusGranted bool                `json:"daily_bonus_granted"`
	Premium           bool                `json:"premium"`
	Level             int                 `json:"level"`
	Rank              string              `json:"rank,omitempty"`
	Ranked            bool                `json:"ranked"`
	Progress          float64             `json:"progress"`
	XPToNextLevel     float64             `json:"xp_to_next_level"`
	RankProgress      rankProgressPayload `json:"rank_progress"`
}

func toPayload(userID string, snap progress.Snapshot) progressPayload {
	rp := snap.RankProgress()
	return progressPayload{
		UserID:            userID,
		TotalXP:           snap.TotalXP,
		StepsToday:        snap.StepsToday,
		DailyBonusGranted: snap.DailyBonusGranted,
		Premium:           snap.Premium,
		Level:             snap.Level,
		Rank:              string(snap.Rank),
		Ranked:            snap.Ranked,
		Progress:          snap.Progress,
		XPToNextLevel:     snap.XPToNextLevel,
		RankProgress: rankProgressPayload{
			Progress:  rp.Progress,
			Rank:      string(rp.Rank),
			Ranked:    rp.Ranked,
			FromLabel: rp.FromLabel,
			ToLabel:   rp.ToLabel,
			Pct:       rp.Pct,
		},
	}
}

func (s *Service) syncSteps(c *gin.Context) {
	var req stepsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BadRequest(c, "request body must carry a steps count")
		return
	}
	userID := c.Param("id")
	snap, err := s.sessions.SyncFromHealth(c.Request.Context(), userID, req.Steps, 0)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toPayload(userID, snap))
}

func (s *Service) addSteps(c *gin.Context) {
	var req stepsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BadRequest(c, "request body must carry a steps count")
		return
	}
	userID := c.Param("id")
	snap, err := s.sessions.AddSteps(c.Request.Context(), userID, req.Steps)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toPayload(userID, snap))
}

func (s *Service) resetDaily(c *gin.Context) {
	userID := c.Param("id")
	snap, err := s.sessions.ResetDailyStats(c.Request.Context(), userID)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toPayload(userID, snap))
}

func (s *Service) setPremium(c *gin.Context) {
	var req premiumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BadRequest(c, "request body must carry a premium flag")
		return
	}
	userID := c.Param("id")
	snap, err := s.sessions.SetPremium(c.Request.Context(), userID, req.Premium)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toPayload(userID, snap))
}

func (s *Service) getProgress(c *gin.Context) {
	userID := c.Param("id")
	snap, err := s.sessions.Snapshot(c.Request.Context(), userID)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toPayload(userID, snap))
}
