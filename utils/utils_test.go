package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestInitLogger(t *testing.T) {
	t.Cleanup(func() { Logger = zap.NewNop().Sugar() })

	if err := InitLogger("chatty", t.TempDir()); err == nil {
		t.Error("expected error for unknown level")
	}

	dir := t.TempDir()
	if err := InitLogger("info", dir); err != nil {
		t.Fatalf("InitLogger failed: %v", err)
	}
	Logger.Infow("tick applied", "version", 1)
	Error(errors.New("boom"), "tick failed")
	SyncLogger()

	for _, name := range []string{"app.log", "error.log"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to be written: %v", name, err)
		}
	}
}

func TestRequestLogger(t *testing.T) {
	var seen string
	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = r.Context().Value(RequestIDKey).(string)
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/coins", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("expected status to pass through, got %d", rec.Code)
	}
	id := rec.Header().Get("X-Request-ID")
	if id == "" || id != seen {
		t.Errorf("request id header %q does not match context %q", id, seen)
	}
}

func TestNewExponentialBackoff(t *testing.T) {
	b := NewExponentialBackoff(0)
	first := b.NextBackOff()
	if first < 450*time.Millisecond || first > 550*time.Millisecond {
		t.Errorf("first interval out of range: %s", first)
	}
	for i := 0; i < 20; i++ {
		b.NextBackOff()
	}
	if next := b.NextBackOff(); next > 33*time.Second {
		t.Errorf("interval exceeded the cap: %s", next)
	}
}
