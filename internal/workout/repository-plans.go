package workout

import (
	"context"
	"database/sql"
	"log/slog"
	"strconv"
	"time"

	"github.com/myrjola/trainplan/internal/errors"
)

// StoredPlan is a generated weekly plan together with everything needed to explain and reproduce it.
type StoredPlan struct {
	Plan        WeeklyTrainingPlan `json:"plan"`
	Alignment   GoalAlignment      `json:"alignment"`
	Preferences Preferences        `json:"preferences"`
	Seed        uint64             `json:"seed"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// PlanSummary is the list view of a stored plan.
type PlanSummary struct {
	ID         string    `json:"id"`
	ProgramID  string    `json:"program_id"`
	WeekNumber int       `json:"week_number"`
	StartDate  string    `json:"start_date"`
	CreatedAt  time.Time `json:"created_at"`
}

// sqlitePlanRepository stores plans verbatim as JSON documents.
type sqlitePlanRepository struct {
	baseRepository
}

// Create stores a new plan.
func (r *sqlitePlanRepository) Create(ctx context.Context, p StoredPlan) error {
	planJSON, err := marshalColumn("plan", p.Plan)
	if err != nil {
		return err
	}
	alignmentJSON, err := marshalColumn("alignment", p.Alignment)
	if err != nil {
		return err
	}
	prefsJSON, err := marshalColumn("preferences", p.Preferences)
	if err != nil {
		return err
	}
	created := formatTimestamp(p.CreatedAt)
	updated := formatTimestamp(p.UpdatedAt)

	_, err = r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO training_plans (
			id, program_id, week_number, start_date, seed, preferences, plan, alignment, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Plan.ID, p.Plan.ProgramID, p.Plan.WeekNumber, p.Plan.StartDate.Format(dateFormat),
		strconv.FormatUint(p.Seed, 10), prefsJSON, planJSON, alignmentJSON, created, updated)
	if err != nil {
		return errors.Wrap(err, "insert plan", slog.String("plan_id", p.Plan.ID))
	}
	return nil
}

// Get retrieves a plan by id.
func (r *sqlitePlanRepository) Get(ctx context.Context, id string) (StoredPlan, error) {
	return r.get(ctx, r.db.ReadOnly, id)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *sqlitePlanRepository) get(ctx context.Context, q queryRower, id string) (StoredPlan, error) {
	var (
		p                                    StoredPlan
		seed, prefsJSON, planJSON, alignJSON string
		createdStr, updatedStr               string
	)
	err := q.QueryRowContext(ctx, `
		SELECT seed, preferences, plan, alignment, created_at, updated_at
		FROM training_plans
		WHERE id = ?`, id).Scan(&seed, &prefsJSON, &planJSON, &alignJSON, &createdStr, &updatedStr)
	if err != nil {
		return StoredPlan{}, errors.Wrap(notFoundIfNoRows(err), "query plan", slog.String("plan_id", id))
	}

	if p.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
		return StoredPlan{}, errors.Wrap(err, "parse seed", slog.String("plan_id", id))
	}
	if err = unmarshalColumn("preferences", prefsJSON, &p.Preferences); err != nil {
		return StoredPlan{}, err
	}
	if err = unmarshalColumn("plan", planJSON, &p.Plan); err != nil {
		return StoredPlan{}, err
	}
	if err = unmarshalColumn("alignment", alignJSON, &p.Alignment); err != nil {
		return StoredPlan{}, err
	}
	if p.CreatedAt, err = parseTimestamp(createdStr); err != nil {
		return StoredPlan{}, err
	}
	if p.UpdatedAt, err = parseTimestamp(updatedStr); err != nil {
		return StoredPlan{}, err
	}
	return p, nil
}

// List returns summaries of the most recently created plans.
func (r *sqlitePlanRepository) List(ctx context.Context, limit int) (_ []PlanSummary, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, program_id, week_number, start_date, created_at
		FROM training_plans
		ORDER BY created_at DESC, week_number
		LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query plans")
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, errors.Wrap(closeErr, "close rows"))
		}
	}()

	summaries := []PlanSummary{}
	for rows.Next() {
		var (
			s          PlanSummary
			createdStr string
		)
		if err = rows.Scan(&s.ID, &s.ProgramID, &s.WeekNumber, &s.StartDate, &createdStr); err != nil {
			return nil, errors.Wrap(err, "scan plan summary")
		}
		if s.CreatedAt, err = parseTimestamp(createdStr); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate plans")
	}
	return summaries, nil
}

// Update loads the plan, lets updateFn modify it, and stores the result when updateFn reports a change.
//
// The whole read-modify-write runs in one immediate transaction on the read-write pool.
func (r *sqlitePlanRepository) Update(
	ctx context.Context,
	id string,
	updateFn func(p *StoredPlan) (bool, error),
) (err error) {
	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				err = errors.Join(err, errors.Wrap(rollbackErr, "rollback"))
			}
		}
	}()

	p, err := r.get(ctx, tx, id)
	if err != nil {
		return err
	}
	updated, err := updateFn(&p)
	if err != nil {
		return err
	}
	if !updated {
		if err = tx.Commit(); err != nil {
			return errors.Wrap(err, "commit")
		}
		return nil
	}

	planJSON, err := marshalColumn("plan", p.Plan)
	if err != nil {
		return err
	}
	alignmentJSON, err := marshalColumn("alignment", p.Alignment)
	if err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `
		UPDATE training_plans SET plan = ?, alignment = ? WHERE id = ?`,
		planJSON, alignmentJSON, id); err != nil {
		return errors.Wrap(err, "update plan", slog.String("plan_id", id))
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit")
	}
	return nil
}
