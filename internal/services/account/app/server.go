// Package server wires the account runtime and HTTP lifecycle.
package server

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/stridebound/stridebound/internal/platform/config"
	"github.com/stridebound/stridebound/internal/platform/httpapi"
	"github.com/stridebound/stridebound/internal/services/account/api"
	accountsqlite "github.com/stridebound/stridebound/internal/services/account/storage/sqlite"
	"github.com/stridebound/stridebound/internal/services/account/token"
)

type serverEnv struct {
	DBPath        string        `env:"STRIDEBOUND_ACCOUNT_DB_PATH"`
	SessionSecret string        `env:"STRIDEBOUND_SESSION_SECRET"`
	SessionTTL    time.Duration `env:"STRIDEBOUND_SESSION_TTL"`
}

func loadServerEnv() (serverEnv, error) {
	var cfg serverEnv
	if err := config.ParseEnv(&cfg); err != nil {
		return serverEnv{}, err
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = filepath.Join("data", "account.db")
	}
	if strings.TrimSpace(cfg.SessionSecret) == "" {
		return serverEnv{}, fmt.Errorf("STRIDEBOUND_SESSION_SECRET is required")
	}
	return cfg, nil
}

// Server hosts the account HTTP API and storage lifecycle.
type Server struct {
	httpServer *httpapi.Server
	store      *accountsqlite.Store
}

// New creates a configured account server listening on the provided port.
func New(port int) (*Server, error) {
	return NewWithAddr(fmt.Sprintf(":%d", port))
}

// NewWithAddr creates a configured account server for the provided address.
func NewWithAddr(addr string) (*Server, error) {
	env, err := loadServerEnv()
	if err != nil {
		return nil, err
	}

	store, err := accountsqlite.Open(env.DBPath)
	if err != nil {
		return nil, err
	}

	engine := httpapi.NewEngine()
	httpapi.RegisterHealth(engine)
	minter := token.NewMinter(env.SessionSecret, env.SessionTTL)
	verifier := token.NewVerifier(env.SessionSecret)
	api.NewService(store, minter, verifier).Register(engine)

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

// Run creates and serves an account server until context cancellation.
func Run(ctx context.Context, port int) error {
	server, err := New(port)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// RunWithAddr creates and serves an account server on an explicit address.
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
