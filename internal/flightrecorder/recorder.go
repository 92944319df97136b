// Package flightrecorder keeps a rolling execution trace in memory and dumps it to disk when a request
// misses its deadline.
package flightrecorder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/trace"
	"sync/atomic"
	"time"

	"github.com/myrjola/trainplan/internal/errors"
)

const (
	defaultMinAge   = 5 * time.Minute
	defaultMaxBytes = 64 * 1024 * 1024
	defaultCooldown = 30 * time.Minute
)

// Recorder captures execution traces for timed out requests.
type Recorder struct {
	logger    *slog.Logger
	fr        *trace.FlightRecorder
	dir       string
	cooldown  time.Duration
	lastDump  atomic.Int64
	dumpCount atomic.Int64
}

// Config configures a [Recorder]. Zero values fall back to the defaults.
type Config struct {
	// Dir receives the trace files. It is created when missing.
	Dir      string
	MinAge   time.Duration
	MaxBytes uint64
	// Cooldown is the minimum time between two captures. Negative disables it.
	Cooldown time.Duration
}

// New creates a recorder. Call [Recorder.Start] to begin recording.
func New(logger *slog.Logger, cfg Config) (*Recorder, error) {
	if cfg.Dir == "" {
		return nil, errors.New("traces directory is required")
	}
	stat, err := os.Stat(cfg.Dir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err = os.MkdirAll(cfg.Dir, 0o750); err != nil { //nolint:mnd // owner and group.
			return nil, errors.Wrap(err, "create traces directory", slog.String("dir", cfg.Dir))
		}
	case err != nil:
		return nil, errors.Wrap(err, "stat traces directory", slog.String("dir", cfg.Dir))
	case !stat.IsDir():
		return nil, errors.Wrap(errors.New("not a directory"), "check traces directory", slog.String("dir", cfg.Dir))
	}

	minAge := cfg.MinAge
	if minAge == 0 {
		minAge = defaultMinAge
	}
	maxBytes := cfg.MaxBytes
	if maxBytes == 0 {
		maxBytes = defaultMaxBytes
	}
	cooldown := cfg.Cooldown
	if cooldown == 0 {
		cooldown = defaultCooldown
	}

	return &Recorder{
		logger:    logger,
		fr:        trace.NewFlightRecorder(trace.FlightRecorderConfig{MinAge: minAge, MaxBytes: maxBytes}),
		dir:       cfg.Dir,
		cooldown:  cooldown,
		lastDump:  atomic.Int64{},
		dumpCount: atomic.Int64{},
	}, nil
}

// Start begins recording.
func (r *Recorder) Start(ctx context.Context) error {
	if err := r.fr.Start(); err != nil {
		return errors.Wrap(err, "start flight recorder")
	}
	r.logger.LogAttrs(ctx, slog.LevelInfo, "flight recorder started",
		slog.String("dir", r.dir), slog.Duration("cooldown", r.cooldown))
	return nil
}

// Stop ends recording.
func (r *Recorder) Stop(ctx context.Context) {
	r.fr.Stop()
	r.logger.LogAttrs(ctx, slog.LevelInfo, "flight recorder stopped")
}

// Capture writes the buffered trace to a file named after route unless a capture happened within the cooldown.
// It returns the path of the written file or an empty string when the capture was skipped.
func (r *Recorder) Capture(ctx context.Context, route string) string {
	now := time.Now()
	last := r.lastDump.Load()
	if r.cooldown > 0 && last != 0 && now.Sub(time.Unix(0, last)) < r.cooldown {
		r.logger.LogAttrs(ctx, slog.LevelDebug, "skipping trace capture due to cooldown",
			slog.String("route", route), slog.Time("last_capture", time.Unix(0, last)))
		return ""
	}
	if !r.lastDump.CompareAndSwap(last, now.UnixNano()) {
		return ""
	}

	name := fmt.Sprintf("timeout-%s-%d.trace", now.UTC().Format("20060102-150405"), r.dumpCount.Add(1))
	path := filepath.Join(r.dir, name)
	if err := r.writeTo(path); err != nil {
		r.logger.LogAttrs(ctx, slog.LevelError, "failed to capture trace",
			slog.String("route", route), errors.SlogError(err))
		return ""
	}
	r.logger.LogAttrs(ctx, slog.LevelWarn, "captured timeout trace",
		slog.String("route", route), slog.String("file", path))
	return path
}

func (r *Recorder) writeTo(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create trace file", slog.String("file", path))
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			err = errors.Join(err, errors.Wrap(closeErr, "close trace file"))
		}
	}()
	if _, err = r.fr.WriteTo(f); err != nil {
		return errors.Wrap(err, "write trace", slog.String("file", path))
	}
	return nil
}
