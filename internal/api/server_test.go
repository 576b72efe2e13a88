package api

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestServer_StartAndShutdown(t *testing.T) {
	srv := NewServer(testConfig(newFakeStore()))
	if err := srv.Listen(); err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	if !strings.HasPrefix(srv.Addr(), "127.0.0.1:") || strings.HasSuffix(srv.Addr(), ":0") {
		t.Fatalf("Addr() = %q, want bound loopback port", srv.Addr())
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	resp, err := http.Get("http://" + srv.Addr() + "/health")
	if err != nil {
		t.Fatalf("GET /health error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("Start() error = %v", err)
	}
}

func TestServer_AddrBeforeListen(t *testing.T) {
	cfg := testConfig(newFakeStore())
	cfg.Port = 9999
	if got := NewServer(cfg).Addr(); got != "127.0.0.1:9999" {
		t.Fatalf("Addr() = %q", got)
	}
}
