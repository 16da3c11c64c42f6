package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pdf-translator/config"
	"pdf-translator/handlers"
	"pdf-translator/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, mutate func(*config.Config)) (*Server, *config.Config) {
	t.Helper()
	root := t.TempDir()
	cfg := &config.Config{
		Host:           "127.0.0.1",
		Port:           0,
		OutputDir:      filepath.Join(root, "uploads"),
		UploadTempDir:  filepath.Join(root, "tmp"),
		DownloadPrefix: "/downloads",
		MaxUploadMB:    1,
	}
	if mutate != nil {
		mutate(cfg)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := storage.New(cfg.UploadTempDir, cfg.OutputDir, logger)
	require.NoError(t, err)
	h := handlers.New(nil, nil, store, cfg.DownloadPrefix, logger)
	return New(cfg, logger, h), cfg
}

func get(s *Server, url string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	return w
}

func TestDownloadRoute(t *testing.T) {
	s, cfg := newTestServer(t, nil)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.OutputDir, "translated_doc.pdf"), []byte("%PDF-1.3 test"), 0644))

	w := get(s, "/downloads/translated_doc.pdf")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "%PDF-1.3 test", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	assert.Equal(t, http.StatusNotFound, get(s, "/downloads/missing.pdf").Code)
}

func TestDownloadRouteDoesNotListDirectory(t *testing.T) {
	s, cfg := newTestServer(t, nil)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.OutputDir, "translated_doc.pdf"), []byte("x"), 0644))

	w := get(s, "/downloads/")
	assert.NotContains(t, w.Body.String(), "translated_doc.pdf")
}

func TestHealthAndMetrics(t *testing.T) {
	s, _ := newTestServer(t, nil)

	assert.Equal(t, http.StatusOK, get(s, "/healthz").Code)

	w := get(s, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pdftr_http_requests_total")
}

func TestPublicDir(t *testing.T) {
	public := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(public, "index.html"), []byte("<h1>hi</h1>"), 0644))
	s, _ := newTestServer(t, func(c *config.Config) { c.PublicDir = public })

	w := get(s, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<h1>hi</h1>")
}

func TestRateLimitWired(t *testing.T) {
	s, _ := newTestServer(t, func(c *config.Config) {
		c.RateLimitRPS = 0.001
		c.RateLimitBurst = 1
	})

	assert.Equal(t, http.StatusOK, get(s, "/healthz").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(s, "/healthz").Code)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	s, _ := newTestServer(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("server did not stop")
	}
}

func TestCORSPreflight(t *testing.T) {
	s, _ := newTestServer(t, func(c *config.Config) { c.CORSAllowedOrigins = []string{"*"} })

	req := httptest.NewRequest(http.MethodOptions, "/api/translate-document", nil)
	req.Header.Set("Origin", "https://app.example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestCORSHeadersOnPost(t *testing.T) {
	s, _ := newTestServer(t, func(c *config.Config) { c.CORSAllowedOrigins = []string{"*"} })

	req := httptest.NewRequest(http.MethodPost, "/api/translate-text", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://app.example.org")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSOriginList(t *testing.T) {
	s, _ := newTestServer(t, func(c *config.Config) { c.CORSAllowedOrigins = []string{"https://app.example.org"} })

	allowed := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	allowed.Header.Set("Origin", "https://app.example.org")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, allowed)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://app.example.org", w.Header().Get("Access-Control-Allow-Origin"))

	other := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	other.Header.Set("Origin", "https://evil.example.net")
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, other)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSDisabled(t *testing.T) {
	s, _ := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://app.example.org")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
