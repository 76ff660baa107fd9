package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProbeAddr(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", "127.0.0.1:8080"},
		{"garbage", "127.0.0.1:8080"},
		{"0.0.0.0:9090", "127.0.0.1:9090"},
		{":7071", "127.0.0.1:7071"},
		{"10.0.0.4:8080", "10.0.0.4:8080"},
		{"[::]:8080", "127.0.0.1:8080"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, probeAddr(tt.raw))
		})
	}
}

func TestListenAddr(t *testing.T) {
	t.Setenv("SPEXPIRY_LISTEN_ADDR", "")
	t.Setenv("FUNCTIONS_CUSTOMHANDLER_PORT", "")
	assert.Equal(t, "", listenAddr())

	t.Setenv("FUNCTIONS_CUSTOMHANDLER_PORT", "7071")
	assert.Equal(t, ":7071", listenAddr())

	t.Setenv("SPEXPIRY_LISTEN_ADDR", "0.0.0.0:9000")
	assert.Equal(t, "0.0.0.0:9000", listenAddr())
}

func TestCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	t.Setenv("FUNCTIONS_CUSTOMHANDLER_PORT", "")
	t.Setenv("SPEXPIRY_LISTEN_ADDR", strings.TrimPrefix(srv.URL, "http://"))

	assert.Equal(t, 0, check())
}

func TestProbe_Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := probe(t.Context(), srv.URL+"/api/v1/health")

	assert.ErrorContains(t, err, "unexpected status 500")
}

func TestHealthURL(t *testing.T) {
	assert.Equal(t, "http://127.0.0.1:7071/api/v1/health", healthURL("127.0.0.1:7071"))
}

func TestCheck_Unhealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	t.Setenv("FUNCTIONS_CUSTOMHANDLER_PORT", "")
	t.Setenv("SPEXPIRY_LISTEN_ADDR", strings.TrimPrefix(srv.URL, "http://"))

	assert.Equal(t, 1, check())
}
