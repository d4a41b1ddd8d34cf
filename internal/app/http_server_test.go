package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"

	healthcheck "github.com/vladislavdragonenkov/partshop/internal/health"
	"github.com/vladislavdragonenkov/partshop/internal/version"
)

func TestStartMetricsServer_Endpoints(t *testing.T) {
	port := findFreePort(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	healthHandler := healthcheck.NewHandler(version.Info().Version)
	srv := startMetricsServer(ctx, fmt.Sprintf(":%d", port), log.WithField("test", "http"), healthHandler)
	if srv == nil {
		t.Fatal("startMetricsServer should not return nil")
	}
	waitForHTTP(t, port)

	tests := []struct {
		path     string
		wantBody string
	}{
		{path: "/metrics"},
		{path: "/healthz"},
		{path: "/livez", wantBody: "ok"},
		{path: "/readyz", wantBody: "ready"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			status, body := get(t, port, tt.path)
			if status != http.StatusOK {
				t.Fatalf("expected 200 for %s, got %d", tt.path, status)
			}
			if body == "" {
				t.Fatalf("%s returned empty body", tt.path)
			}
			if tt.wantBody != "" && body != tt.wantBody {
				t.Fatalf("expected %q from %s, got %q", tt.wantBody, tt.path, body)
			}
		})
	}
}

func TestStartMetricsServer_NotReadyWhenStorageDown(t *testing.T) {
	port := findFreePort(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	healthHandler := healthcheck.NewHandler(version.Info().Version)
	healthHandler.RegisterChecker("storage", healthcheck.NewSimpleChecker("storage", func() error {
		return errors.New("connection refused")
	}))
	startMetricsServer(ctx, fmt.Sprintf(":%d", port), log.WithField("test", "http-not-ready"), healthHandler)
	waitForHTTP(t, port)

	if status, body := get(t, port, "/readyz"); status != http.StatusServiceUnavailable || body != "not ready" {
		t.Fatalf("expected 503 not ready, got %d %q", status, body)
	}
	if status, _ := get(t, port, "/healthz"); status != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 from /healthz, got %d", status)
	}
	if status, _ := get(t, port, "/livez"); status != http.StatusOK {
		t.Fatalf("liveness must not depend on storage, got %d", status)
	}
}

func TestStartMetricsServer_Shutdown(t *testing.T) {
	port := findFreePort(t)
	ctx, cancel := context.WithCancel(context.Background())

	startMetricsServer(ctx, fmt.Sprintf(":%d", port), log.WithField("test", "http-shutdown"), healthcheck.NewHandler("test"))
	waitForHTTP(t, port)

	cancel()
	time.Sleep(200 * time.Millisecond)

	if _, err := http.Get(fmt.Sprintf("http://localhost:%d/livez", port)); err == nil {
		t.Fatal("server should be stopped after context cancellation")
	}
}

func TestShutdownHTTP_NilServer(_ *testing.T) {
	// Не должно паниковать
	shutdownHTTP(nil, log.WithField("test", "http-nil"))
}

func get(t *testing.T, port int, path string) (int, string) {
	t.Helper()

	resp, err := http.Get(fmt.Sprintf("http://localhost:%d%s", port, path))
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return resp.StatusCode, string(body)
}

// waitForHTTP ждёт, пока сервер начнёт принимать соединения.
func waitForHTTP(t *testing.T, port int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", fmt.Sprintf("localhost:%d", port), 50*time.Millisecond)
		if err == nil {
			conn.Close()
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("http server on port %d did not start", port)
}

// findFreePort находит свободный порт для тестов
func findFreePort(t *testing.T) int {
	t.Helper()

	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	defer listener.Close()

	return listener.Addr().(*net.TCPAddr).Port
}
