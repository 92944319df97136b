package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/myrjola/trainplan/internal/e2etest"
	"github.com/myrjola/trainplan/internal/logging"
	"github.com/myrjola/trainplan/internal/ptr"
	"github.com/myrjola/trainplan/internal/testhelpers"
	"github.com/myrjola/trainplan/internal/workout"
)

// TestPlanLifecycle generates a plan, reads it back and completes its first workout.
func TestPlanLifecycle(client *e2etest.Client) error {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()

	resp, err := client.PostJSON(ctx, "/api/plans", workout.PlanRequest{
		Preferences: workout.Preferences{ //nolint:exhaustruct // optional baseline omitted.
			PrimaryGoal:        workout.GoalImproveHealth,
			WorkoutsPerWeek:    3, //nolint:mnd // three sessions
			WorkoutDuration:    30, //nolint:mnd // half an hour
			FitnessLevel:       workout.DifficultyBeginner,
			AvailableEquipment: []workout.Equipment{workout.EquipmentBodyweight},
		},
		WeekNumber: 1,
		StartDate:  nil,
		Seed:       ptr.Ref(uint64(1)),
	})
	if err != nil {
		return fmt.Errorf("generate plan: %w", err)
	}
	if resp.StatusCode != http.StatusCreated {
		_ = resp.Body.Close()
		return fmt.Errorf("generate plan: unexpected status %d", resp.StatusCode)
	}
	var created workout.StoredPlan
	if err = e2etest.DecodeJSON(resp, &created); err != nil {
		return fmt.Errorf("decode plan: %w", err)
	}

	var stored workout.StoredPlan
	if err = client.GetJSON(ctx, "/api/plans/"+created.Plan.ID, &stored); err != nil {
		return fmt.Errorf("get plan: %w", err)
	}

	for _, day := range stored.Plan.Days {
		if day.IsRestDay {
			continue
		}
		path := fmt.Sprintf("/api/plans/%s/days/%d/complete", stored.Plan.ID, day.DayNumber)
		if resp, err = client.PostJSON(ctx, path, nil); err != nil {
			return fmt.Errorf("complete workout: %w", err)
		}
		var completed workout.StoredPlan
		if err = e2etest.DecodeJSON(resp, &completed); err != nil {
			return fmt.Errorf("decode completed plan: %w", err)
		}
		if completed.Plan.CompletedWorkouts != 1 {
			return fmt.Errorf("completed workouts: got %d, want 1", completed.Plan.CompletedWorkouts)
		}
		break
	}

	doc, err := client.GetDoc(ctx, "/plans/"+stored.Plan.ID)
	if err != nil {
		return fmt.Errorf("get plan page: %w", err)
	}
	if got := strings.TrimSpace(doc.Find("[data-testid=completed-workouts]").Text()); !strings.HasPrefix(got, "1 of") {
		return fmt.Errorf("plan page shows %q", got)
	}
	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		err      error
		start    = time.Now()
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))
	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}

	client := e2etest.NewClient(url)
	if err = client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", slog.Any("error", err))
		os.Exit(1)
	}
	if err = TestPlanLifecycle(client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing plan lifecycle", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌", slog.Duration("duration", time.Since(start)))
	os.Exit(0)
}
