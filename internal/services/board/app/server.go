// Package server wires the leaderboard runtime and HTTP lifecycle.
package server

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/stridebound/stridebound/internal/platform/config"
	"github.com/stridebound/stridebound/internal/platform/httpapi"
	"github.com/stridebound/stridebound/internal/services/board/api"
	boardsqlite "github.com/stridebound/stridebound/internal/services/board/storage/sqlite"
)

type serverEnv struct {
	DBPath string `env:"STRIDEBOUND_BOARD_DB_PATH"`
}

func loadServerEnv() serverEnv {
	var cfg serverEnv
	_ = config.ParseEnv(&cfg)
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = filepath.Join("data", "board.db")
	}
	return cfg
}

// Server hosts the leaderboard HTTP API and storage lifecycle.
type Server struct {
	httpServer *httpapi.Server
	store      *boardsqlite.Store
}

// New creates a configured board server listening on the provided port.
func New(port int) (*Server, error) {
	return NewWithAddr(fmt.Sprintf(":%d", port))
}

// NewWithAddr creates a configured board server for the provided address.
func NewWithAddr(addr string) (*Server, error) {
	env := loadServerEnv()
	store, err := boardsqlite.Open(env.DBPath)
	if err != nil {
		return nil, err
	}

	engine := httpapi.NewEngine()
	httpapi.RegisterHealth(engine)
	api.NewService(store).Register(engine)

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

// Run creates and serves a board server until context cancellation.
func Run(ctx context.Context, port int) error {
	server, err := New(port)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// RunWithAddr creates and serves a board server on an explicit address.
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
