// Command healthcheck probes the local spexpiry server for container health
// checks. It exits 0 when /api/v1/health answers 200 and 1 otherwise.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"
)

const (
	fallbackAddr = "127.0.0.1:8080"
	probeTimeout = 2 * time.Second
)

func main() {
	os.Exit(check())
}

func check() int {
	target := healthURL(probeAddr(listenAddr()))

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	if err := probe(ctx, target); err != nil {
		slog.Error("health probe failed", "url", target, "error", err)
		return 1
	}
	return 0
}

// listenAddr resolves the server's bind address the same way the server
// does: SPEXPIRY_LISTEN_ADDR first, then FUNCTIONS_CUSTOMHANDLER_PORT.
func listenAddr() string {
	if v := os.Getenv("SPEXPIRY_LISTEN_ADDR"); v != "" {
		return v
	}
	if port := os.Getenv("FUNCTIONS_CUSTOMHANDLER_PORT"); port != "" {
		return ":" + port
	}
	return ""
}

// probeAddr turns a bind address into one the probe can dial. Wildcard and
// empty hosts become loopback.
func probeAddr(bind string) string {
	host, port, err := net.SplitHostPort(bind)
	if err != nil {
		return fallbackAddr
	}

	switch host {
	case "", "0.0.0.0", "::":
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, port)
}

func healthURL(addr string) string {
	return "http://" + addr + "/api/v1/health"
}

func probe(ctx context.Context, target string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := (&http.Client{Timeout: probeTimeout}).Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
