package workout

import (
	"context"
	"log/slog"

	"github.com/myrjola/trainplan/internal/errors"
)

// sqliteInstructionRepository caches generated exercise instructions.
type sqliteInstructionRepository struct {
	baseRepository
}

// Get returns the cached markdown instructions of an exercise.
func (r *sqliteInstructionRepository) Get(ctx context.Context, exerciseID string) (string, error) {
	var markdown string
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT markdown FROM exercise_instructions WHERE exercise_id = ?`, exerciseID).Scan(&markdown)
	if err != nil {
		return "", errors.Wrap(notFoundIfNoRows(err), "query instructions", slog.String("exercise_id", exerciseID))
	}
	return markdown, nil
}

// Set stores or replaces the instructions of an exercise.
func (r *sqliteInstructionRepository) Set(ctx context.Context, exerciseID string, markdown string) error {
	_, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO exercise_instructions (exercise_id, markdown) VALUES (?, ?)
		ON CONFLICT (exercise_id) DO UPDATE SET markdown = excluded.markdown`, exerciseID, markdown)
	if err != nil {
		return errors.Wrap(err, "upsert instructions", slog.String("exercise_id", exerciseID))
	}
	return nil
}
