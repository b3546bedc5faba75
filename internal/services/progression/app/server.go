// Package server wires the progression runtime and HTTP lifecycle.
package server

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/stridebound/stridebound/internal/platform/config"
	"github.com/stridebound/stridebound/internal/platform/httpapi"
	"github.com/stridebound/stridebound/internal/platform/logging"
	"github.com/stridebound/stridebound/internal/services/account/token"
	boardclient "github.com/stridebound/stridebound/internal/services/board/client"
	"github.com/stridebound/stridebound/internal/services/progression/api"
	"github.com/stridebound/stridebound/internal/services/progression/session"
	progressionsqlite "github.com/stridebound/stridebound/internal/services/progression/storage/sqlite"
)

type serverEnv struct {
	DBPath        string `env:"STRIDEBOUND_PROGRESSION_DB_PATH"`
	BoardBaseURL  string `env:"STRIDEBOUND_BOARD_BASE_URL"`
	SessionSecret string `env:"STRIDEBOUND_SESSION_SECRET"`
}

func loadServerEnv() serverEnv {
	var cfg serverEnv
	_ = config.ParseEnv(&cfg)
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = filepath.Join("data", "progression.db")
	}
	return cfg
}

// Server hosts the progression HTTP API and storage lifecycle.
type Server struct {
	httpServer *httpapi.Server
	store      *progressionsqlite.Store
}

// New creates a configured progression server listening on the provided port.
func New(port int) (*Server, error) {
	return NewWithAddr(fmt.Sprintf(":%d", port))
}

// NewWithAddr creates a configured progression server for the provided
// address. The leaderboard publisher and session enforcement are enabled
// only when their environment settings are present.
func NewWithAddr(addr string) (*Server, error) {
	env := loadServerEnv()
	logger := logging.New("progression")

	store, err := progressionsqlite.Open(env.DBPath)
	if err != nil {
		return nil, err
	}

	var publisher session.ScorePublisher
	if strings.TrimSpace(env.BoardBaseURL) != "" {
		publisher = boardclient.New(env.BoardBaseURL)
	}
	registry := session.NewRegistry(store, publisher, logger)

	var verifier httpapi.TokenVerifier
	if strings.TrimSpace(env.SessionSecret) != "" {
		verifier = token.NewVerifier(env.SessionSecret)
	}

	engine := httpapi.NewEngine()
	httpapi.RegisterHealth(engine)
	api.NewService(registry, verifier).Register(engine)

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

// Run creates and serves a progression server until context cancellation.
func Run(ctx context.Context, port int) error {
	server, err := New(port)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// RunWithAddr creates and serves a progression server on an explicit address.
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
