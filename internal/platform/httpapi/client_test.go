package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "github.com/stridebound/stridebound/internal/platform/errors"
)

func TestClientRoundTripsJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.POST("/echo", func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			BadRequest(c, "bad body")
			return
		}
		c.JSON(http.StatusOK, body)
	})
	srv := httptest.NewServer(engine)
	defer srv.Close()

	client := NewClient(srv.URL)
	var out map[string]any
	err := client.Do(context.Background(), http.MethodPost, "/echo", map[string]any{"steps": 100}, &out)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if out["steps"] != float64(100) {
		t.Fatalf("echo = %v", out)
	}
}

func TestClientDecodesDomainErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/fail", func(c *gin.Context) {
		Error(c, apperrors.New(apperrors.CodeNotFound, "no such thing"))
	})
	srv := httptest.NewServer(engine)
	defer srv.Close()

	client := NewClient(srv.URL)
	err := client.Do(context.Background(), http.MethodGet, "/fail", nil, nil)
	if !errors.Is(err, apperrors.New(apperrors.CodeNotFound, "")) {
		t.Fatalf("err = %v, want not-found code", err)
	}
}

func TestClientSurfacesOpaqueErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	err := client.Do(context.Background(), http.MethodGet, "/anything", nil, nil)
	if err == nil {
		t.Fatal("expected error for 502 response")
	}
}
