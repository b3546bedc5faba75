// Package api exposes the account service over HTTP.
package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/stridebound/stridebound/internal/platform/errors"
	"github.com/stridebound/stridebound/internal/platform/httpapi"
	"github.com/stridebound/stridebound/internal/services/account/storage"
	"github.com/stridebound/stridebound/internal/services/account/token"
	"github.com/stridebound/stridebound/internal/services/account/user"
)

const maxDisplayNameLength = 60

// Service registers the account routes on a gin engine.
type Service struct {
	store    storage.UserStore
	minter   *token.Minter
	verifier *token.Verifier
	clock    func() time.Time
}

// NewService creates the HTTP service backed by a user store and a session
// secret.
func NewService(store storage.UserStore, minter *token.Minter, verifier *token.Verifier) *Service {
	return &Service{
		store:    store,
		minter:   minter,
		verifier: verifier,
		clock:    time.Now,
	}
}

// Register mounts all account routes under /v1/auth.
func (s *Service) Register(engine *gin.Engine) {
	group := engine.Group("/v1/auth")
	group.POST("/anonymous", s.signInAnonymous)
	group.POST("/email", s.signInEmail)
	group.POST("/password-reset", s.passwordReset)

	authed := group.Group("")
	authed.Use(httpapi.RequireSession(s.verifier))
	authed.GET("/me", s.me)
	authed.PATCH("/me", s.updateProfile)
	authed.DELETE("/me", s.deleteAccount)
	authed.POST("/signout", s.signOut)
}

type userPayload struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url,omitempty"`
	Anonymous   bool   `json:"anonymous"`
}

func toPayload(record storage.User) userPayload {
	return userPayload{
		UserID:      record.ID,
		Email:       record.Email,
		DisplayName: record.DisplayName,
		PhotoURL:    record.PhotoURL,
		Anonymous:   record.Anonymous,
	}
}

func (s *Service) signInResponse(c *gin.Context, record storage.User) {
	signed, err := s.minter.Mint(record.ID)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":  toPayload(record),
		"token": signed,
	})
}

func (s *Service) signInAnonymous(c *gin.Context) {
	now := s.clock().UTC()
	record := storage.User{
		ID:          user.AnonymousID(),
		DisplayName: user.GuestDisplayName,
		Anonymous:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.PutUser(c.Request.Context(), record); err != nil {
		httpapi.Error(c, err)
		return
	}
	s.signInResponse(c, record)
}

type emailSignInRequest struct {
	Email string `json:"email"`
}

func (s *Service) signInEmail(c *gin.Context) {
	var req emailSignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BadRequest(c, "request body must carry an email")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !user.ValidEmail(email) {
		httpapi.Error(c, apperrors.New(apperrors.CodeAccountEmailInvalid, "email address is invalid"))
		return
	}

	now := s.clock().UTC()
	userID := user.EmailID(email)
	record, err := s.store.GetUser(c.Request.Context(), userID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		record = storage.User{
			ID:          userID,
			Email:       email,
			DisplayName: user.DisplayNameFromEmail(email),
			CreatedAt:   now,
		}
	case err != nil:
		httpapi.Error(c, err)
		return
	}

	record.Email = email
	record.Anonymous = false
	record.UpdatedAt = now
	if err := s.store.PutUser(c.Request.Context(), record); err != nil {
		httpapi.Error(c, err)
		return
	}
	s.signInResponse(c, record)
}

// passwordReset acknowledges without sending mail. Clients only need the
// confirmation.
func (s *Service) passwordReset(c *gin.Context) {
	var req emailSignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BadRequest(c, "request body must carry an email")
		return
	}
	if !user.ValidEmail(req.Email) {
		httpapi.Error(c, apperrors.New(apperrors.CodeAccountEmailInvalid, "email address is invalid"))
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "reset email queued"})
}

func (s *Service) me(c *gin.Context) {
	record, err := s.store.GetUser(c.Request.Context(), httpapi.SessionUserID(c))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httpapi.Error(c, apperrors.New(apperrors.CodeAccountUserNotFound, "account no longer exists"))
			return
		}
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": toPayload(record)})
}

type updateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	PhotoURL    *string `json:"photo_url"`
}

func (s *Service) updateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BadRequest(c, "request body must carry profile fields")
		return
	}

	record, err := s.store.GetUser(c.Request.Context(), httpapi.SessionUserID(c))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httpapi.Error(c, apperrors.New(apperrors.CodeAccountUserNotFound, "account no longer exists"))
			return
		}
		httpapi.Error(c, err)
		return
	}

	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if len(name) > maxDisplayNameLength {
			httpapi.Error(c, apperrors.New(apperrors.CodeAccountNameTooLong, "display name is too long"))
			return
		}
		if name != "" {
			record.DisplayName = name
		}
	}
	if req.PhotoURL != nil {
		record.PhotoURL = strings.TrimSpace(*req.PhotoURL)
	}
	record.UpdatedAt = s.clock().UTC()

	if err := s.store.PutUser(c.Request.Context(), record); err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": toPayload(record)})
}

func (s *Service) deleteAccount(c *gin.Context) {
	if err := s.store.DeleteUser(c.Request.Context(), httpapi.SessionUserID(c)); err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "account deleted"})
}

// signOut acknowledges the sign-out. Sessions are stateless tokens, so the
// client discards its copy.
func (s *Service) signOut(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "signed out"})
}
