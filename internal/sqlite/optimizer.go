package sqlite

import (
	"context"
	"log/slog"
	"time"

	"github.com/myrjola/trainplan/internal/errors"
)

// startDatabaseOptimizer runs optimize once per hour. See https://www.sqlite.org/pragma.html#pragma_optimize.
func (db *Database) startDatabaseOptimizer(ctx context.Context) {
	if _, err := db.ReadWrite.ExecContext(ctx, "PRAGMA optimize = 0x10002;"); err != nil && ctx.Err() == nil {
		db.logger.LogAttrs(ctx, slog.LevelError, "failed to optimize database",
			errors.SlogError(errors.Wrap(err, "init optimize database")))
	}
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		start := time.Now()
		if _, err := db.ReadWrite.ExecContext(ctx, "PRAGMA optimize;"); err != nil {
			if ctx.Err() != nil {
				return
			}
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to optimize database",
				errors.SlogError(errors.Wrap(err, "optimize database")))
			continue
		}
		db.logger.LogAttrs(ctx, slog.LevelInfo, "optimized database", slog.Duration("duration", time.Since(start)))
	}
}
