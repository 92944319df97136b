package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/myrjola/trainplan/internal/e2etest"
	"github.com/myrjola/trainplan/internal/logging"
	"github.com/myrjola/trainplan/internal/ptr"
	"github.com/myrjola/trainplan/internal/testhelpers"
	"github.com/myrjola/trainplan/internal/workout"
	"golang.org/x/sync/errgroup"
)

const (
	scenarioTimeout         = 30 * time.Second
	maxConcurrentOperations = 20
	numScenarios            = 200
	programWeeks            = 4
	successRateThreshold    = 95.0
	expectedArgsCount       = 2
	percentageMultiplier    = 100
	p95                     = 0.95
)

// latencies collects request durations per route.
type latencies struct {
	mu     sync.Mutex
	byName map[string][]time.Duration
}

func (l *latencies) observe(name string, d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.byName[name] = append(l.byName[name], d)
}

func (l *latencies) log(ctx context.Context, logger *slog.Logger) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for name, ds := range l.byName {
		slices.Sort(ds)
		logger.LogAttrs(ctx, slog.LevelInfo, "Latency",
			slog.String("route", name),
			slog.Int("requests", len(ds)),
			slog.Duration("p50", ds[len(ds)/2]),
			slog.Duration("p95", ds[int(float64(len(ds)-1)*p95)]),
			slog.Duration("max", ds[len(ds)-1]))
	}
}

// randomPreferences draws a valid preference set so that the scenarios cover different programs.
func randomPreferences(rng *rand.Rand) workout.Preferences {
	goals := []workout.Goal{
		workout.GoalLoseWeight, workout.GoalBuildMuscle, workout.GoalMaintain, workout.GoalImproveHealth,
	}
	levels := []workout.Difficulty{
		workout.DifficultyBeginner, workout.DifficultyIntermediate, workout.DifficultyAdvanced,
	}
	equipment := []workout.Equipment{
		workout.EquipmentBodyweight, workout.EquipmentDumbbells, workout.EquipmentBarbell,
		workout.EquipmentKettlebell, workout.EquipmentBench,
	}
	rng.Shuffle(len(equipment), func(i, j int) { equipment[i], equipment[j] = equipment[j], equipment[i] })

	return workout.Preferences{ //nolint:exhaustruct // optional baseline omitted.
		PrimaryGoal:          goals[rng.IntN(len(goals))],
		WorkoutsPerWeek:      2 + rng.IntN(5),       //nolint:mnd // 2 to 6 sessions
		WorkoutDuration:      30 + 15*rng.IntN(4),   //nolint:mnd // 30 to 75 minutes
		FitnessLevel:         levels[rng.IntN(len(levels))],
		AvailableEquipment:   equipment[:1+rng.IntN(len(equipment))],
		ProgramDurationWeeks: ptr.Ref(programWeeks),
	}
}

// PlanScenario generates a program, completes the first workout of every week and swaps one exercise.
func PlanScenario(ctx context.Context, client *e2etest.Client, seed uint64, lat *latencies) error {
	rng := rand.New(rand.NewPCG(seed, seed)) //nolint:gosec // load shape only.

	start := time.Now()
	resp, err := client.PostJSON(ctx, "/api/programs/generate", workout.ProgramRequest{
		Preferences: randomPreferences(rng),
		StartDate:   nil,
		Seed:        ptr.Ref(seed),
	})
	if err != nil {
		return fmt.Errorf("generate program: %w", err)
	}
	if resp.StatusCode != http.StatusCreated {
		_ = resp.Body.Close()
		return fmt.Errorf("generate program: unexpected status %d", resp.StatusCode)
	}
	var plans []workout.StoredPlan
	if err = e2etest.DecodeJSON(resp, &plans); err != nil {
		return fmt.Errorf("decode program: %w", err)
	}
	lat.observe("generate program", time.Since(start))

	for _, p := range plans {
		for _, day := range p.Plan.Days {
			if day.IsRestDay || day.Workout == nil {
				continue
			}
			start = time.Now()
			path := fmt.Sprintf("/api/plans/%s/days/%d/complete", p.Plan.ID, day.DayNumber)
			if err = postExpectOK(ctx, client, path); err != nil {
				return err
			}
			lat.observe("complete workout", time.Since(start))

			start = time.Now()
			path = fmt.Sprintf("/api/plans/%s/days/%d/exercises/0/swap", p.Plan.ID, day.DayNumber)
			if err = postExpectOK(ctx, client, path); err != nil && !strings.Contains(err.Error(), "409") {
				return err
			}
			lat.observe("swap exercise", time.Since(start))
			break
		}
	}
	return nil
}

func postExpectOK(ctx context.Context, client *e2etest.Client, path string) error {
	resp, err := client.PostJSON(ctx, path, nil)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("post %s: unexpected status %d", path, resp.StatusCode)
	}
	return nil
}

// RunLoadTest runs the plan scenario concurrently and fails when too many scenarios fail.
func RunLoadTest(ctx context.Context, client *e2etest.Client, logger *slog.Logger) error {
	var (
		succeeded atomic.Int64
		failed    atomic.Int64
		lat       = &latencies{mu: sync.Mutex{}, byName: map[string][]time.Duration{}}
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentOperations)
	for i := range numScenarios {
		g.Go(func() error {
			scenarioCtx, cancel := context.WithTimeout(ctx, scenarioTimeout)
			defer cancel()
			if err := PlanScenario(scenarioCtx, client, uint64(i), lat); err != nil { //nolint:gosec // i is non-negative.
				failed.Add(1)
				logger.LogAttrs(ctx, slog.LevelWarn, "Scenario failed",
					slog.Int("scenario", i), slog.Any("error", err))
				return nil
			}
			succeeded.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("wait for scenarios: %w", err)
	}

	lat.log(ctx, logger)
	total := succeeded.Load() + failed.Load()
	successRate := float64(succeeded.Load()) / float64(total) * percentageMultiplier
	logger.LogAttrs(ctx, slog.LevelInfo, "Load test results",
		slog.Int64("succeeded", succeeded.Load()),
		slog.Int64("failed", failed.Load()),
		slog.Float64("success_rate", successRate))
	if successRate < successRateThreshold {
		return fmt.Errorf("success rate %.1f%% is below %.1f%%", successRate, successRateThreshold)
	}
	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != expectedArgsCount {
		logger.LogAttrs(ctx, slog.LevelError, "usage: stresstest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		start    = time.Now()
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))

	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}
	client := e2etest.NewClient(url)
	if err := client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", slog.Any("error", err))
		os.Exit(1)
	}

	if err := RunLoadTest(ctx, client, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "load test failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Load test completed successfully 🙌",
		slog.Duration("total_duration", time.Since(start)),
		slog.Int("scenarios", numScenarios))
}
