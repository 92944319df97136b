package workout

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"runtime"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/myrjola/trainplan/internal/errors"
	"github.com/myrjola/trainplan/internal/logging"
	"github.com/myrjola/trainplan/internal/sqlite"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrRestDay is returned when completing or editing a day without a workout.
	ErrRestDay = errors.NewSentinel("rest day")
	// ErrNoAlternative is returned when no exercise can replace the one being swapped.
	ErrNoAlternative = errors.NewSentinel("no alternative exercise")
	// ErrNoInstructions is returned when instructions are neither cached nor can be generated.
	ErrNoInstructions = errors.NewSentinel("no instructions")
	// ErrEnrichmentFailed is joined with the error of a failed [Enricher].
	ErrEnrichmentFailed = errors.NewSentinel("enrichment failed")
)

// DefaultMaxProgramWeeks caps multi-week programs unless configured otherwise.
const DefaultMaxProgramWeeks = 12

// ServiceOptions configures a [Service].
type ServiceOptions struct {
	// Catalog defaults to [DefaultCatalog].
	Catalog *Catalog
	// Enricher generates missing exercise instructions. Nil disables generation.
	Enricher Enricher
	// MaxProgramWeeks defaults to [DefaultMaxProgramWeeks].
	MaxProgramWeeks int
}

// Service generates, stores and updates training plans.
type Service struct {
	repo            *repository
	catalog         *Catalog
	enricher        Enricher
	logger          *slog.Logger
	maxProgramWeeks int
	now             func() time.Time
	newSeed         func() uint64
}

// NewService creates a new workout service.
func NewService(db *sqlite.Database, logger *slog.Logger, opts ServiceOptions) *Service {
	catalog := opts.Catalog
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	maxWeeks := opts.MaxProgramWeeks
	if maxWeeks <= 0 {
		maxWeeks = DefaultMaxProgramWeeks
	}
	return &Service{
		repo:            newRepository(db, logger),
		catalog:         catalog,
		enricher:        opts.Enricher,
		logger:          logger,
		maxProgramWeeks: maxWeeks,
		now:             time.Now,
		newSeed:         rand.Uint64,
	}
}

// Catalog returns the catalog plans are generated from.
func (s *Service) Catalog() *Catalog {
	return s.catalog
}

// PlanRequest asks for one week of training.
type PlanRequest struct {
	Preferences Preferences `json:"preferences"`
	// WeekNumber defaults to 1.
	WeekNumber int `json:"week_number,omitempty"`
	// StartDate is any day of the first program week. Defaults to today.
	StartDate *time.Time `json:"start_date,omitempty"`
	// Seed makes the generation reproducible. A fresh seed is drawn when nil.
	Seed *uint64 `json:"seed,omitempty"`
}

// ProgramRequest asks for every week of a program.
type ProgramRequest struct {
	Preferences Preferences `json:"preferences"`
	StartDate   *time.Time  `json:"start_date,omitempty"`
	Seed        *uint64     `json:"seed,omitempty"`
}

func (s *Service) resolveSeed(seed *uint64) uint64 {
	if seed != nil {
		return *seed
	}
	return s.newSeed()
}

func (s *Service) resolveAnchor(start *time.Time) time.Time {
	if start != nil && !start.IsZero() {
		return *start
	}
	return s.now()
}

// generate assembles a plan under a fresh id so that stored plans never collide when a seed is reused.
func (s *Service) generate(prefs Preferences, weekNumber int, anchor time.Time, seed uint64) StoredPlan {
	plan := NewGenerator(s.catalog, seed).AssembleWeek(prefs, weekNumber, anchor)
	plan.ID = uuid.NewString()
	now := s.now().UTC().Truncate(time.Millisecond)
	return StoredPlan{
		Plan:        plan,
		Alignment:   ScoreAlignment(prefs.WithDefaults(), plan),
		Preferences: prefs,
		Seed:        seed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// GeneratePlan generates, scores and stores one week of training.
func (s *Service) GeneratePlan(ctx context.Context, req PlanRequest) (StoredPlan, error) {
	seed := s.resolveSeed(req.Seed)
	stored := s.generate(req.Preferences, req.WeekNumber, s.resolveAnchor(req.StartDate), seed)
	ctx = logging.WithAttrs(ctx,
		slog.String("plan_id", stored.Plan.ID),
		slog.String("program_id", stored.Plan.ProgramID),
		slog.String("seed", strconv.FormatUint(seed, 10)))

	if err := s.repo.plans.Create(ctx, stored); err != nil {
		return StoredPlan{}, errors.Wrap(err, "store plan")
	}
	observePlan(stored)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "generated training plan",
		slog.Int("week_number", stored.Plan.WeekNumber),
		slog.Int("total_workouts", stored.Plan.TotalWorkouts),
		slog.Int("overall_alignment", stored.Alignment.OverallAlignment))

	s.attachInstructions(ctx, &stored.Plan)
	return stored, nil
}

// GenerateProgram generates every week of the program selected for req.Preferences.
//
// The program runs for Preferences.ProgramDurationWeeks, or the program's own duration, capped at the configured
// maximum. Week n is generated from seed+n so that each week is reproducible on its own.
func (s *Service) GenerateProgram(ctx context.Context, req ProgramRequest) ([]StoredPlan, error) {
	prefs := req.Preferences
	program, ok := s.catalog.Program(prefs.ProgramID)
	if !ok {
		program = s.catalog.SelectProgram(prefs)
	}
	prefs.ProgramID = program.ID

	weeks := program.DurationWeeks
	if prefs.ProgramDurationWeeks != nil && *prefs.ProgramDurationWeeks > 0 {
		weeks = *prefs.ProgramDurationWeeks
	}
	weeks = min(max(weeks, 1), s.maxProgramWeeks)

	seed := s.resolveSeed(req.Seed)
	anchor := s.resolveAnchor(req.StartDate)
	ctx = logging.WithAttrs(ctx,
		slog.String("program_id", program.ID),
		slog.String("seed", strconv.FormatUint(seed, 10)))

	plans := make([]StoredPlan, weeks)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range weeks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return errors.Wrap(err, "generate week", slog.Int("week_number", i+1))
			}
			plans[i] = s.generate(prefs, i+1, anchor, seed+uint64(i+1)) //nolint:gosec // i is never negative.
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, p := range plans {
		if err := s.repo.plans.Create(ctx, p); err != nil {
			return nil, errors.Wrap(err, "store plan", slog.Int("week_number", p.Plan.WeekNumber))
		}
		observePlan(p)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "generated training program", slog.Int("weeks", weeks))

	for i := range plans {
		s.attachInstructions(ctx, &plans[i].Plan)
	}
	return plans, nil
}

// GetPlan retrieves a stored plan.
func (s *Service) GetPlan(ctx context.Context, id string) (StoredPlan, error) {
	p, err := s.repo.plans.Get(ctx, id)
	if err != nil {
		return StoredPlan{}, errors.Wrap(err, "get plan")
	}
	s.attachInstructions(ctx, &p.Plan)
	return p, nil
}

// ListPlans returns the most recent plans.
func (s *Service) ListPlans(ctx context.Context, limit int) ([]PlanSummary, error) {
	summaries, err := s.repo.plans.List(ctx, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list plans")
	}
	return summaries, nil
}

func dayOf(p *StoredPlan, dayNumber int) (*TrainingDay, error) {
	if dayNumber < 1 || dayNumber > len(p.Plan.Days) {
		return nil, errors.Wrap(ErrNotFound, "day out of range", slog.Int("day_number", dayNumber))
	}
	day := &p.Plan.Days[dayNumber-1]
	if day.Workout == nil {
		return nil, errors.Wrap(ErrRestDay, "day has no workout", slog.Int("day_number", dayNumber))
	}
	return day, nil
}

// CompleteWorkout marks the workout of a day and all of its exercises as completed.
func (s *Service) CompleteWorkout(ctx context.Context, planID string, dayNumber int) (StoredPlan, error) {
	var result StoredPlan
	err := s.repo.plans.Update(ctx, planID, func(p *StoredPlan) (bool, error) {
		day, err := dayOf(p, dayNumber)
		if err != nil {
			return false, err
		}
		result = *p
		if day.Workout.Completed {
			return false, nil
		}
		day.Workout.Completed = true
		for i := range day.Workout.Exercises {
			day.Workout.Exercises[i].Completed = true
		}
		RecalculateTotals(&p.Plan)
		result = *p
		return true, nil
	})
	if err != nil {
		return StoredPlan{}, errors.Wrap(err, "complete workout", slog.Int("day_number", dayNumber))
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "completed workout",
		slog.String("plan_id", planID), slog.Int("day_number", dayNumber))
	return result, nil
}

// SwapExercise replaces one exercise of a day's workout with a random alternative and rescores the plan.
func (s *Service) SwapExercise(ctx context.Context, planID string, dayNumber, index int) (WorkoutExercise, error) {
	var replacement WorkoutExercise
	err := s.repo.plans.Update(ctx, planID, func(p *StoredPlan) (bool, error) {
		day, err := dayOf(p, dayNumber)
		if err != nil {
			return false, err
		}
		w := day.Workout
		if index < 0 || index >= len(w.Exercises) {
			return false, errors.Wrap(ErrNotFound, "exercise out of range", slog.Int("index", index))
		}
		prefs := p.Preferences.WithDefaults()
		alt, ok := NewGenerator(s.catalog, s.newSeed()).SwapExercise(*w, index, &prefs)
		if !ok {
			return false, ErrNoAlternative
		}
		w.Exercises[index] = alt
		w.EstimatedCaloriesBurned = estimateCalories(w.Exercises, w.Duration)
		RecalculateTotals(&p.Plan)
		p.Alignment = ScoreAlignment(prefs, p.Plan)
		replacement = alt
		return true, nil
	})
	if err != nil {
		return WorkoutExercise{}, errors.Wrap(err, "swap exercise",
			slog.Int("day_number", dayNumber), slog.Int("index", index))
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "swapped exercise",
		slog.String("plan_id", planID), slog.Int("day_number", dayNumber), slog.String("exercise_id", replacement.ExerciseID))
	return replacement, nil
}

// ExerciseInstructions returns markdown instructions for an exercise, generating and caching them when an
// [Enricher] is configured.
func (s *Service) ExerciseInstructions(ctx context.Context, exerciseID string) (string, error) {
	ex, ok := s.catalog.Exercise(exerciseID)
	if !ok {
		return "", errors.Wrap(ErrNotFound, "unknown exercise", slog.String("exercise_id", exerciseID))
	}
	markdown, err := s.repo.instructions.Get(ctx, exerciseID)
	if err == nil {
		enrichmentRequests.WithLabelValues("cached").Inc()
		return markdown, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return "", errors.Wrap(err, "get cached instructions")
	}
	if s.enricher == nil {
		enrichmentRequests.WithLabelValues("disabled").Inc()
		return "", errors.Wrap(ErrNoInstructions, "enrichment disabled", slog.String("exercise_id", exerciseID))
	}

	start := time.Now()
	if markdown, err = s.enricher.Instructions(ctx, ex); err != nil {
		enrichmentRequests.WithLabelValues("error").Inc()
		return "", errors.Wrap(errors.Join(ErrEnrichmentFailed, err), "generate instructions",
			slog.String("exercise_id", exerciseID))
	}
	enrichmentRequests.WithLabelValues("generated").Inc()
	if err = s.repo.instructions.Set(ctx, exerciseID, markdown); err != nil {
		return "", errors.Wrap(err, "cache instructions")
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "generated exercise instructions",
		slog.String("exercise_id", exerciseID), slog.Duration("duration", time.Since(start)))
	return markdown, nil
}

// attachInstructions copies cached instructions onto the exercises of plan. Failures are logged and skipped.
func (s *Service) attachInstructions(ctx context.Context, plan *WeeklyTrainingPlan) {
	cache := make(map[string]string)
	for d := range plan.Days {
		w := plan.Days[d].Workout
		if w == nil {
			continue
		}
		for i := range w.Exercises {
			id := w.Exercises[i].ExerciseID
			markdown, seen := cache[id]
			if !seen {
				var err error
				markdown, err = s.repo.instructions.Get(ctx, id)
				if err != nil && !errors.Is(err, ErrNotFound) {
					s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to load instructions", errors.SlogError(err))
				}
				cache[id] = markdown
			}
			w.Exercises[i].Exercise.Instructions = markdown
		}
	}
}
