package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webhook-event-log/internal/eventlog/repository/file"
	"webhook-event-log/internal/eventlog/usecase"
	"webhook-event-log/internal/metrics"
	"webhook-event-log/internal/webhook"
	"webhook-event-log/pkg/log"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	rec := metrics.NewPrometheusRecorder(prometheus.NewRegistry())
	store := usecase.New(log.NewNop(), file.New(t.TempDir(), ""), usecase.WithMetrics(rec))
	h := webhook.NewHandler(store, webhook.Config{Metrics: rec}, log.NewNop())

	srv, err := New(log.NewNop(), Config{
		Port:           3001,
		Mode:           gin.TestMode,
		Environment:    "test",
		WebhookHandler: h,
		MetricsHandler: rec.Handler(),
	})
	require.NoError(t, err)
	return srv.Handler()
}

func TestNew_Validation(t *testing.T) {
	h := webhook.NewHandler(nil, webhook.Config{}, log.NewNop())

	tests := []struct {
		name   string
		logger log.Logger
		cfg    Config
	}{
		{"missing logger", nil, Config{Port: 1, Mode: gin.TestMode, WebhookHandler: h}},
		{"missing mode", log.NewNop(), Config{Port: 1, WebhookHandler: h}},
		{"missing port", log.NewNop(), Config{Mode: gin.TestMode, WebhookHandler: h}},
		{"missing webhook handler", log.NewNop(), Config{Port: 1, Mode: gin.TestMode}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.logger, tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestSystemRoutes(t *testing.T) {
	handler := newTestServer(t)

	for _, path := range []string{"/health", "/ready", "/live"} {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Body.String(), ServiceName, path)
	}
}

func TestWebhookThroughServer(t *testing.T) {
	handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, webhook.PathWebhook, strings.NewReader(`{"ref":"refs/heads/main","repository":{"full_name":"acme/api"}}`))
	req.Header.Set(webhook.HeaderEvent, "push")
	req.Header.Set(webhook.HeaderContentType, "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, webhook.AckOK, w.Body.String())

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, webhook.PathAPIEvents, nil))
	assert.Contains(t, w.Body.String(), `"repository":"acme/api"`)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `webhook_deliveries_total{event="push",outcome="appended"} 1`)
	assert.Contains(t, w.Body.String(), "webhook_log_size 1")
}

func TestFallbacks(t *testing.T) {
	handler := newTestServer(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nonexistent", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPut, webhook.PathWebhook, nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHandler_Repeatable(t *testing.T) {
	store := usecase.New(log.NewNop(), file.New(t.TempDir(), ""))
	srv, err := New(log.NewNop(), Config{
		Port:           3001,
		Mode:           gin.TestMode,
		WebhookHandler: webhook.NewHandler(store, webhook.Config{}, log.NewNop()),
	})
	require.NoError(t, err)

	var first, second http.Handler
	require.NotPanics(t, func() {
		first = srv.Handler()
		second = srv.Handler()
	})
	assert.Same(t, first, second)

	w := httptest.NewRecorder()
	second.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNew_InvalidTrustedProxy(t *testing.T) {
	h := webhook.NewHandler(nil, webhook.Config{
		Security: webhook.SecurityConfig{TrustedProxies: []string{"not-an-ip"}},
	}, log.NewNop())

	_, err := New(log.NewNop(), Config{Port: 3001, Mode: gin.TestMode, WebhookHandler: h})
	assert.Error(t, err)
}

func TestForwardedForIgnoredByDefault(t *testing.T) {
	store := usecase.New(log.NewNop(), file.New(t.TempDir(), ""))
	h := webhook.NewHandler(store, webhook.Config{
		Security: webhook.SecurityConfig{AllowedIPs: []string{"10.0.0.1"}},
	}, log.NewNop())
	srv, err := New(log.NewNop(), Config{Port: 3001, Mode: gin.TestMode, WebhookHandler: h})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, webhook.PathWebhook, strings.NewReader(`{"ref":"refs/heads/main"}`))
	req.RemoteAddr = "192.0.2.99:5555"
	req.Header.Set(webhook.HeaderEvent, "push")
	req.Header.Set(webhook.HeaderContentType, "application/json")
	req.Header.Set("X-Forwarded-For", "10.0.0.1")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, store.Snapshot())
}

func TestRun_StopsOnCancel(t *testing.T) {
	store := usecase.New(log.NewNop(), file.New(t.TempDir(), ""))
	srv, err := New(log.NewNop(), Config{
		Port:           39117,
		Mode:           gin.TestMode,
		WebhookHandler: webhook.NewHandler(store, webhook.Config{}, log.NewNop()),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
