package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const defaultShutdownTimeout = 10 * time.Second

// Server hosts a gin engine with an explicit listener lifecycle.
type Server struct {
	listener   net.Listener
	httpServer *http.Server
}

// NewServer binds a listener on addr for the provided engine.
func NewServer(addr string, engine *gin.Engine) (*Server, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine is required")
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	return &Server{
		listener: listener,
		httpServer: &http.Server{
			Handler:           engine,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Serve blocks serving requests until ctx is cancelled or the listener fails.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil || s.httpServer == nil {
		return fmt.Errorf("server is not configured")
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(s.listener)
	}()
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Close releases the listener without draining in-flight requests.
func (s *Server) Close() error {
	if s == nil || s.httpServer == nil {
		return nil
	}
	return s.httpServer.Close()
}

// NewEngine creates a release-mode gin engine with recovery installed.
func NewEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	return engine
}

// RegisterHealth installs the conventional liveness route.
func RegisterHealth(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
