package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"testing"
	"time"
)

func TestNewWithAddrRequiresSecret(t *testing.T) {
	t.Setenv("STRIDEBOUND_ACCOUNT_DB_PATH", filepath.Join(t.TempDir(), "account.db"))
	t.Setenv("STRIDEBOUND_SESSION_SECRET", "")

	if _, err := NewWithAddr("127.0.0.1:0"); err == nil {
		t.Fatal("expected error without session secret")
	}
}

func TestNewWithAddrServesAuth(t *testing.T) {
	t.Setenv("STRIDEBOUND_ACCOUNT_DB_PATH", filepath.Join(t.TempDir(), "account.db"))
	t.Setenv("STRIDEBOUND_SESSION_SECRET", "test-secret")

	server, err := NewWithAddr("127.0.0.1:0")
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx) }()

	base := fmt.Sprintf("http://%s", server.Addr())
	waitForHealth(t, base)

	resp, err := http.Post(base+"/v1/auth/anonymous", "application/json", nil)
	if err != nil {
		t.Fatalf("anonymous sign in: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("sign in status = %d", resp.StatusCode)
	}
	var signedIn struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&signedIn); err != nil {
		t.Fatalf("decode sign in: %v", err)
	}
	if signedIn.Token == "" {
		t.Fatal("sign in returned empty token")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func waitForHealth(t *testing.T, base string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(base + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("health endpoint never became ready")
}
