package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"testing/synctest"
	"time"

	"github.com/myrjola/trainplan/internal/contexthelpers"
	"github.com/myrjola/trainplan/internal/flightrecorder"
)

type timeoutResponseWriter struct {
	httptest.ResponseRecorder
}

func newTimeoutResponseWriter() *timeoutResponseWriter {
	return &timeoutResponseWriter{
		ResponseRecorder: *httptest.NewRecorder(),
	}
}

// SetWriteDeadline is needed to not get "feature not implemented" error.
func (w *timeoutResponseWriter) SetWriteDeadline(_ time.Time) error {
	return nil
}

func Test_application_timeout(t *testing.T) {
	tests := []struct {
		name     string
		sleepMS  int
		slow     bool
		timesOut bool
	}{
		{name: "completes within timeout", sleepMS: 500, slow: false, timesOut: false},
		{name: "times out", sleepMS: 3000, slow: false, timesOut: true},
		{name: "slow handler gets longer timeout", sleepMS: 28000, slow: true, timesOut: false},
		{name: "slow handler times out", sleepMS: 31000, slow: true, timesOut: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			synctest.Test(t, func(t *testing.T) {
				app := &application{ //nolint:exhaustruct // this is a test
					logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
				}
				var handler http.Handler
				if tt.slow {
					handler = app.slowTimeout(http.HandlerFunc(app.testTimeout))
				} else {
					mux, err := app.routes()
					if err != nil {
						t.Fatalf("Failed to set up routes: %v", err)
					}
					handler = mux
				}

				url := fmt.Sprintf("/api/test/timeout?sleep_ms=%d", tt.sleepMS)
				req := httptest.NewRequest(http.MethodGet, url, nil)
				w := newTimeoutResponseWriter()

				handler.ServeHTTP(w, req)

				time.Sleep(time.Duration(tt.sleepMS) * time.Millisecond)

				if tt.timesOut {
					if w.Code != http.StatusServiceUnavailable {
						t.Errorf("Expected status 503 on timeout, got %d", w.Code)
					}
					if !strings.Contains(w.Body.String(), "timed out") {
						t.Errorf("Expected timeout message in response body, got: %s", w.Body.String())
					}
				} else if w.Code != http.StatusOK {
					t.Errorf("Expected status 200, got %d", w.Code)
				}
			})
		})
	}
}

func Test_secureHeaders(t *testing.T) {
	var nonce string
	handler := secureHeaders(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		nonce = contexthelpers.CSPNonce(r.Context())
	}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if nonce == "" {
		t.Fatal("Expected a CSP nonce in the request context")
	}
	csp := w.Header().Get("Content-Security-Policy")
	if !strings.Contains(csp, "'nonce-"+nonce+"'") {
		t.Errorf("Expected CSP to contain the nonce, got %q", csp)
	}
	if got := w.Header().Get("X-Frame-Options"); got != "deny" {
		t.Errorf("Expected X-Frame-Options deny, got %q", got)
	}
}

func Test_application_recoverPanic(t *testing.T) {
	app := &application{ //nolint:exhaustruct // this is a test
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		// An empty template FS makes the error page fall back to plain text.
		templateFS: emptyFS{},
	}
	handler := app.recoverPanic(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
}

func Test_application_captureOnDeadline(t *testing.T) {
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	traces, err := flightrecorder.New(logger, flightrecorder.Config{Dir: dir, MinAge: 0, MaxBytes: 0, Cooldown: -1})
	if err != nil {
		t.Fatalf("New flight recorder: %v", err)
	}
	if err = traces.Start(t.Context()); err != nil {
		t.Fatalf("Start flight recorder: %v", err)
	}
	defer traces.Stop(t.Context())

	app := &application{logger: logger, traces: traces} //nolint:exhaustruct // this is a test
	handler := app.captureOnDeadline(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("block") == "" {
			w.WriteHeader(http.StatusOK)
			return
		}
		<-r.Context().Done()
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequestWithContext(ctx, http.MethodGet, "/?block=1", nil))

	// The capture runs in its own goroutine after the deadline.
	deadline := time.Now().Add(5 * time.Second)
	for {
		entries, readErr := os.ReadDir(dir)
		if readErr != nil {
			t.Fatalf("read traces dir: %v", readErr)
		}
		if len(entries) == 1 {
			break
		}
		if len(entries) > 1 {
			t.Fatalf("got %d traces, want 1", len(entries))
		}
		if time.Now().After(deadline) {
			t.Fatal("no trace captured")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
