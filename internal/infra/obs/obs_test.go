package obs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestJSONLoggerOutsideDev(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "prod", "warn")
	logger.Info("hidden")
	logger.Warn("shown", "property", "villa-1")
	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if line["msg"] != "shown" || line["property"] != "villa-1" {
		t.Fatalf("unexpected log line %v", line)
	}
}

func TestRequestIDPropagates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware{}.RequestID())
	var seen string
	r.GET("/x", func(c *gin.Context) {
		seen = RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if seen != "req-42" || w.Header().Get(RequestIDHeader) != "req-42" {
		t.Fatalf("expected request id to propagate, got ctx=%q header=%q", seen, w.Header().Get(RequestIDHeader))
	}
	if got := EventHeaders(WithRequestID(context.Background(), "req-42")); got["x-request-id"] != "req-42" {
		t.Fatalf("unexpected event headers %v", got)
	}
}

func TestReadyzReportsFailedChecks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := HealthHandlers{Checks: []Check{
		{Name: "store", Ping: func(context.Context) error { return errors.New("down") }},
		{Name: "cache", Ping: func(context.Context) error { return nil }},
	}}
	r := gin.New()
	r.GET("/readyz", h.Readyz)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	var body struct {
		Checks map[string]string `json:"checks"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Checks["store"] != "down" || len(body.Checks) != 1 {
		t.Fatalf("unexpected checks %v", body.Checks)
	}
}
