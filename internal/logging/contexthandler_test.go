package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/myrjola/trainplan/internal/logging"
)

func TestContextHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(&buf, nil)))

	parent := logging.WithAttrs(context.Background(), slog.String("trace_id", "abc"))
	first := logging.WithAttrs(parent, slog.String("plan_id", "first"))
	second := logging.WithAttrs(parent, slog.String("plan_id", "second"))

	logger.InfoContext(first, "generated")
	line := buf.String()
	for _, want := range []string{"trace_id=abc", "plan_id=first"} {
		if !strings.Contains(line, want) {
			t.Errorf("log line %q does not contain %q", line, want)
		}
	}

	buf.Reset()
	logger.InfoContext(second, "generated")
	line = buf.String()
	if strings.Contains(line, "plan_id=first") {
		t.Errorf("sibling context leaked attrs: %q", line)
	}
	if got := len(logging.Attrs(parent)); got != 1 {
		t.Errorf("parent attrs: got %d, want 1", got)
	}
}
