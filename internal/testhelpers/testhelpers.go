// Package testhelpers routes application logs into the test output.
package testhelpers

import (
	"bytes"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/myrjola/trainplan/internal/logging"
)

// NewLogger creates a debug level text logger that honours [logging.WithAttrs] and writes to logSink.
func NewLogger(logSink io.Writer) *slog.Logger {
	return slog.New(logging.NewContextHandler(slog.NewTextHandler(logSink, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	})))
}

// Logger is NewLogger(NewWriter(t)).
func Logger(t *testing.T) *slog.Logger {
	t.Helper()
	return NewLogger(NewWriter(t))
}

// Writer forwards writes to t.Log so that logs only show up for failed or verbose tests.
type Writer struct {
	t    *testing.T
	done atomic.Bool
}

// NewWriter creates a Writer that stops accepting writes once t has finished.
func NewWriter(t *testing.T) io.Writer {
	w := &Writer{t: t, done: atomic.Bool{}}
	t.Cleanup(func() { w.done.Store(true) })
	return w
}

// Write logs p without its trailing newline.
//
// Writing after the test finished panics because it means a goroutine such as the server outlived the test.
func (w *Writer) Write(p []byte) (int, error) {
	if w.done.Load() {
		panic("testhelpers: log written after test completion, is server.Shutdown registered with t.Cleanup?")
	}
	if line := bytes.TrimSuffix(p, []byte("\n")); len(line) > 0 {
		w.t.Log(string(line))
	}
	return len(p), nil
}
