package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewWithAddrServesBoard(t *testing.T) {
	t.Setenv("STRIDEBOUND_BOARD_DB_PATH", filepath.Join(t.TempDir(), "board.db"))

	server, err := NewWithAddr("127.0.0.1:0")
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	if server.Addr() == "" {
		t.Fatal("server address is empty")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx) }()

	base := fmt.Sprintf("http://%s", server.Addr())
	waitForHealth(t, base)

	req, err := http.NewRequest(http.MethodPut, base+"/v1/board/entries/user-1",
		strings.NewReader(`{"total_xp": 100, "steps_today": 1000}`))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("put entry: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("put status = %d", resp.StatusCode)
	}

	listResp, err := http.Get(base + "/v1/board")
	if err != nil {
		t.Fatalf("list board: %v", err)
	}
	defer listResp.Body.Close()
	var board struct {
		Entries []struct {
			UserID string `json:"user_id"`
		} `json:"entries"`
	}
	if err := json.NewDecoder(listResp.Body).Decode(&board); err != nil {
		t.Fatalf("decode board: %v", err)
	}
	if len(board.Entries) != 1 || board.Entries[0].UserID != "user-1" {
		t.Fatalf("board = %+v", board)
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
