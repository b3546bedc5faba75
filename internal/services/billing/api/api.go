// Package api exposes the billing service over HTTP.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/stridebound/stridebound/internal/platform/errors"
	"github.com/stridebound/stridebound/internal/platform/httpapi"
	"github.com/stridebound/stridebound/internal/services/billing/entitlement"
	"github.com/stridebound/stridebound/internal/services/billing/storage"
)

// PremiumSetter mirrors the premium toggle of the progression service.
type PremiumSetter interface {
	SetPremium(ctx context.Context, userID string, premium bool) error
}

// Service registers the billing routes on a gin engine.
type Service struct {
	store   storage.EntitlementStore
	premium PremiumSetter
	logger  *slog.Logger
	clock   func() time.Time
}

// NewService creates the HTTP service. premium may be nil when no
// progression endpoint is configured.
func NewService(store storage.EntitlementStore, premium PremiumSetter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:   store,
		premium: premium,
		logger:  logger,
		clock:   time.Now,
	}
}

// Register mounts all billing routes under /v1/billing.
func (s *Service) Register(engine *gin.Engine) {
	group := engine.Group("/v1/billing")
	group.GET("/offerings", s.getOfferings)
	group.GET("/users/:id/status", s.getStatus)
	group.POST("/users/:id/purchase", s.purchase)
	group.POST("/users/:id/restore", s.restore)
	group.DELETE("/users/:id/entitlement", s.revoke)
}

func (s *Service) getOfferings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"offering": entitlement.CurrentOffering()})
}

type statusPayload struct {
	UserID      string `json:"user_id"`
	Premium     bool   `json:"premium"`
	Entitlement string `json:"entitlement,omitempty"`
	PackageID   string `json:"package_id,omitempty"`
	GrantedAt   string `json:"granted_at,omitempty"`
}

func toStatus(record storage.Entitlement) statusPayload {
	payload := statusPayload{
		UserID:  record.UserID,
		Premium: record.Active,
	}
	if record.Active {
		payload.Entitlement = record.Entitlement
		payload.PackageID = record.PackageID
		if !record.GrantedAt.IsZero() {
			payload.GrantedAt = record.GrantedAt.UTC().Format(time.RFC3339)
		}
	}
	return payload
}

func (s *Service) getStatus(c *gin.Context) {
	userID := c.Param("id")
	record, err := s.store.GetEntitlement(c.Request.Context(), userID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusOK, statusPayload{UserID: userID, Premium: false})
		return
	case err != nil:
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toStatus(record))
}

type purchaseRequest struct {
	PackageID string `json:"package_id"`
}

// purchase always succeeds once the package resolves, matching sandbox
// store behavior.
func (s *Service) purchase(c *gin.Context) {
	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BadRequest(c, "request body must carry a package id")
		return
	}
	pkg, err := entitlement.PackageByID(req.PackageID)
	if err != nil {
		httpapi.Error(c, err)
		return
	}

	userID := c.Param("id")
	now := s.clock().UTC()
	record := storage.Entitlement{
		UserID:      userID,
		Entitlement: entitlement.EntitlementPro,
		PackageID:   pkg.Identifier,
		Active:      true,
		GrantedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.PutEntitlement(c.Request.Context(), record); err != nil {
		httpapi.Error(c, err)
		return
	}
	s.pushPremium(c.Request.Context(), userID, true)
	c.JSON(http.StatusOK, toStatus(record))
}

// restore reports the stored entitlement state and re-pushes it to
// progression. Without a prior grant there is nothing to restore.
func (s *Service) restore(c *gin.Context) {
	userID := c.Param("id")
	record, err := s.store.GetEntitlement(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httpapi.Error(c, apperrors.New(apperrors.CodeBillingNothingToRestore, "no purchases to restore"))
			return
		}
		httpapi.Error(c, err)
		return
	}
	s.pushPremium(c.Request.Context(), userID, record.Active)
	c.JSON(http.StatusOK, toStatus(record))
}

func (s *Service) revoke(c *gin.Context) {
	userID := c.Param("id")
	record, err := s.store.GetEntitlement(c.Request.Context(), userID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		record = storage.Entitlement{UserID: userID, Entitlement: entitlement.EntitlementPro}
	case err != nil:
		httpapi.Error(c, err)
		return
	}

	record.Active = false
	record.UpdatedAt = s.clock().UTC()
	if err := s.store.PutEntitlement(c.Request.Context(), record); err != nil {
		httpapi.Error(c, err)
		return
	}
	s.pushPremium(c.Request.Context(), userID, false)
	c.JSON(http.StatusOK, toStatus(record))
}

// pushPremium forwards the premium flag to progression, fire-and-forget.
func (s *Service) pushPremium(ctx context.Context, userID string, premium bool) {
	if s.premium == nil {
		return
	}
	if err := s.premium.SetPremium(ctx, userID, premium); err != nil {
		s.logger.Warn("push premium flag failed", "user_id", userID, "premium", premium, "error", err)
	}
}
