package workout

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/myrjola/trainplan/internal/errors"
	"github.com/myrjola/trainplan/internal/sqlite"
)

const timestampFormat = "2006-01-02T15:04:05.000Z"
const dateFormat = time.DateOnly

// ErrNotFound is returned when a plan, day, exercise or instruction does not exist.
var ErrNotFound = errors.NewSentinel("not found")

// repository bundles the sqlite-backed repositories of the workout service.
type repository struct {
	plans        *sqlitePlanRepository
	instructions *sqliteInstructionRepository
}

func newRepository(db *sqlite.Database, logger *slog.Logger) *repository {
	base := baseRepository{db: db, logger: logger}
	return &repository{
		plans:        &sqlitePlanRepository{baseRepository: base},
		instructions: &sqliteInstructionRepository{baseRepository: base},
	}
}

type baseRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampFormat)
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(timestampFormat, s)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "parse timestamp", slog.String("timestamp", s))
	}
	return t, nil
}

func marshalColumn(name string, v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", errors.Wrap(err, "marshal column", slog.String("column", name))
	}
	return string(b), nil
}

func unmarshalColumn(name string, data string, v any) error {
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return errors.Wrap(err, "unmarshal column", slog.String("column", name))
	}
	return nil
}

func notFoundIfNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
