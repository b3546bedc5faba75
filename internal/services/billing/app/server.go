// Package server wires the billing runtime and HTTP lifecycle.
package server

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/stridebound/stridebound/internal/platform/config"
	"github.com/stridebound/stridebound/internal/platform/httpapi"
	"github.com/stridebound/stridebound/internal/platform/logging"
	"github.com/stridebound/stridebound/internal/services/billing/api"
	billingsqlite "github.com/stridebound/stridebound/internal/services/billing/storage/sqlite"
	progressionclient "github.com/stridebound/stridebound/internal/services/progression/client"
)

type serverEnv struct {
	DBPath             string `env:"STRIDEBOUND_BILLING_DB_PATH"`
	ProgressionBaseURL string `env:"STRIDEBOUND_PROGRESSION_BASE_URL"`
}

func loadServerEnv() serverEnv {
	var cfg serverEnv
	_ = config.ParseEnv(&cfg)
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = filepath.Join("data", "billing.db")
	}
	return cfg
}

// premiumForwarder adapts the progression client to the billing premium
// contract.
type premiumForwarder struct {
	client *progressionclient.Client
}

func (f premiumForwarder) SetPremium(ctx context.Context, userID string, premium bool) error {
	_, err := f.client.SetPremium(ctx, userID, premium)
	return err
}

// Server hosts the billing HTTP API and storage lifecycle.
type Server struct {
	httpServer *httpapi.Server
	store      *billingsqlite.Store
}

// New creates a configured billing server listening on the provided port.
func New(port int) (*Server, error) {
	return NewWithAddr(fmt.Sprintf(":%d", port))
}

// NewWithAddr creates a configured billing server for the provided address.
// The progression premium push is enabled only when its base URL is set.
func NewWithAddr(addr string) (*Server, error) {
	env := loadServerEnv()
	logger := logging.New("billing")

	store, err := billingsqlite.Open(env.DBPath)
	if err != nil {
		return nil, err
	}

	var premium api.PremiumSetter
	if strings.TrimSpace(env.ProgressionBaseURL) != "" {
		premium = premiumForwarder{client: progressionclient.New(env.ProgressionBaseURL)}
	}

	engine := httpapi.NewEngine()
	httpapi.RegisterHealth(engine)
	api.NewService(store, premium, logger).Register(engine)

	httpServer, err := httpapi.NewServer(addr, engine)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &Server{
		httpServer: httpServer,
		store:      store,
	}, nil
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.httpServer == nil {
		return ""
	}
	return s.httpServer.Addr()
}

// Run creates and serves a billing server until context cancellation.
func Run(ctx context.Context, port int) error {
	server, err := New(port)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// RunWithAddr creates and serves a billing server on an explicit address.
func RunWithAddr(ctx context.Context, addr string) error {
	server, err := NewWithAddr(addr)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the HTTP server until context cancellation.
func (s *Server) Serve(ctx context.Context) error {
	defer s.Close()
	return s.httpServer.Serve(ctx)
}

// Close releases the server resources.
func (s *Server) Close() error {
	var firstErr error
	if s.httpServer != nil {
		if err := s.httpServer.Close(); err != nil {
			firstErr = err
		}
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
