package main

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/myrjola/trainplan/internal/e2etest"
	"github.com/myrjola/trainplan/internal/ptr"
	"github.com/myrjola/trainplan/internal/testhelpers"
	"github.com/myrjola/trainplan/internal/workout"
)

func postJSON(t *testing.T, client *e2etest.Client, urlPath string, body any, wantStatus int, out any) {
	t.Helper()
	resp, err := client.PostJSON(t.Context(), urlPath, body)
	if err != nil {
		t.Fatalf("POST %s: %v", urlPath, err)
	}
	if resp.StatusCode != wantStatus {
		b, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		t.Fatalf("POST %s: expected status %d, got %d: %s", urlPath, wantStatus, resp.StatusCode, b)
	}
	if out == nil {
		_ = resp.Body.Close()
		return
	}
	if err = e2etest.DecodeJSON(resp, out); err != nil {
		t.Fatalf("POST %s: %v", urlPath, err)
	}
}

func getStatus(t *testing.T, client *e2etest.Client, urlPath string) int {
	t.Helper()
	resp, err := client.Get(t.Context(), urlPath)
	if err != nil {
		t.Fatalf("GET %s: %v", urlPath, err)
	}
	_ = resp.Body.Close()
	return resp.StatusCode
}

func buildMusclePreferences() workout.Preferences {
	return workout.Preferences{
		PrimaryGoal:          workout.GoalBuildMuscle,
		WorkoutsPerWeek:      4,
		WorkoutDuration:      60,
		FitnessLevel:         workout.DifficultyIntermediate,
		AvailableEquipment:   []workout.Equipment{workout.EquipmentBarbell, workout.EquipmentDumbbells},
		Sex:                  workout.SexMale,
		HasLiftingExperience: true,
		StrengthLevel:        workout.StrengthIntermediate,
	}
}

//nolint:gocognit // this is a test function
func Test_application_plansAPI(t *testing.T) {
	ctx := t.Context()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	client := server.Client()

	var created workout.StoredPlan
	postJSON(t, client, "/api/plans", workout.PlanRequest{
		Preferences: buildMusclePreferences(),
		Seed:        ptr.Ref(uint64(7)),
	}, http.StatusCreated, &created)

	t.Run("Generate", func(t *testing.T) {
		if got := len(created.Plan.Days); got != 7 {
			t.Errorf("Expected 7 days, got %d", got)
		}
		if created.Plan.ProgramID != "upper_lower_split" {
			t.Errorf("Expected upper_lower_split, got %s", created.Plan.ProgramID)
		}
		if created.Seed != 7 {
			t.Errorf("Expected seed 7, got %d", created.Seed)
		}
	})

	t.Run("Get", func(t *testing.T) {
		var stored workout.StoredPlan
		if err = client.GetJSON(ctx, "/api/plans/"+created.Plan.ID, &stored); err != nil {
			t.Fatalf("Failed to get plan: %v", err)
		}
		if diff := cmp.Diff(created, stored, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("Stored plan differs (-created +stored):\n%s", diff)
		}
	})

	t.Run("List", func(t *testing.T) {
		var summaries []workout.PlanSummary
		if err = client.GetJSON(ctx, "/api/plans", &summaries); err != nil {
			t.Fatalf("Failed to list plans: %v", err)
		}
		if len(summaries) != 1 || summaries[0].ID != created.Plan.ID {
			t.Errorf("Unexpected summaries: %+v", summaries)
		}
		var seed string
		if err = server.DB().QueryRowContext(ctx, "SELECT seed FROM training_plans WHERE id = ?",
			created.Plan.ID).Scan(&seed); err != nil {
			t.Fatalf("Failed to query stored plan: %v", err)
		}
		if seed != "7" {
			t.Errorf("Stored seed = %q, want 7", seed)
		}
	})

	var trainingDay, restDay workout.TrainingDay
	for _, day := range created.Plan.Days {
		switch {
		case day.IsRestDay && restDay.DayNumber == 0:
			restDay = day
		case !day.IsRestDay && trainingDay.DayNumber == 0:
			trainingDay = day
		}
	}
	dayPath := func(day workout.TrainingDay) string {
		return "/api/plans/" + created.Plan.ID + "/days/" + strconv.Itoa(day.DayNumber)
	}

	t.Run("Swap exercise", func(t *testing.T) {
		var replacement workout.WorkoutExercise
		postJSON(t, client, dayPath(trainingDay)+"/exercises/0/swap", nil, http.StatusOK, &replacement)
		if replacement.ExerciseID == trainingDay.Workout.Exercises[0].ExerciseID {
			t.Errorf("Expected a different exercise than %s", replacement.ExerciseID)
		}
		postJSON(t, client, dayPath(trainingDay)+"/exercises/99/swap", nil, http.StatusNotFound, nil)
	})

	t.Run("Complete workout", func(t *testing.T) {
		var completed workout.StoredPlan
		postJSON(t, client, dayPath(trainingDay)+"/complete", nil, http.StatusOK, &completed)
		if completed.Plan.CompletedWorkouts != 1 {
			t.Errorf("Expected 1 completed workout, got %d", completed.Plan.CompletedWorkouts)
		}
		postJSON(t, client, dayPath(restDay)+"/complete", nil, http.StatusConflict, nil)
		postJSON(t, client, "/api/plans/"+created.Plan.ID+"/days/monday/complete", nil, http.StatusBadRequest, nil)
	})

	t.Run("Errors", func(t *testing.T) {
		resp, err := client.Get(ctx, "/api/plans/missing")
		if err != nil {
			t.Fatalf("Failed to get missing plan: %v", err)
		}
		var body errorResponse
		if err = e2etest.DecodeJSON(resp, &body); err != nil {
			t.Fatalf("Failed to decode error: %v", err)
		}
		if resp.StatusCode != http.StatusNotFound || body.Error == "" {
			t.Errorf("Expected 404 with message, got %d %+v", resp.StatusCode, body)
		}
		if got := getStatus(t, client, "/api/plans?limit=0"); got != http.StatusBadRequest {
			t.Errorf("Expected 400 for limit=0, got %d", got)
		}
		postJSON(t, client, "/api/plans", map[string]any{"preferences": map[string]any{"favourite_colour": "red"}},
			http.StatusBadRequest, nil)
		postJSON(t, client, "/api/plans", map[string]any{
			"preferences": map[string]any{"available_equipment": []string{"spaceship"}},
		}, http.StatusBadRequest, nil)
	})
}

func Test_application_catalogAPI(t *testing.T) {
	ctx := t.Context()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	client := server.Client()

	t.Run("Programs", func(t *testing.T) {
		var programs []workout.ProgramTemplate
		if err = client.GetJSON(ctx, "/api/programs", &programs); err != nil {
			t.Fatalf("Failed to get programs: %v", err)
		}
		if len(programs) != 13 {
			t.Errorf("Expected 13 programs, got %d", len(programs))
		}
	})

	t.Run("Exercises by equipment alias", func(t *testing.T) {
		var exercises []workout.Exercise
		if err = client.GetJSON(ctx, "/api/exercises?equipment=dumbbell", &exercises); err != nil {
			t.Fatalf("Failed to get exercises: %v", err)
		}
		if len(exercises) == 0 {
			t.Fatal("Expected dumbbell exercises")
		}
		for _, ex := range exercises {
			if ex.Equipment != workout.EquipmentDumbbells {
				t.Errorf("Exercise %s uses %s", ex.ID, ex.Equipment)
			}
		}
		if got := getStatus(t, client, "/api/exercises?equipment=spaceship"); got != http.StatusBadRequest {
			t.Errorf("Expected 400 for unknown equipment, got %d", got)
		}
	})

	t.Run("Instructions", func(t *testing.T) {
		if got := getStatus(t, client, "/api/exercises/push_up/instructions"); got != http.StatusServiceUnavailable {
			t.Errorf("Expected 503 without enrichment, got %d", got)
		}
		if got := getStatus(t, client, "/api/exercises/moonwalk/instructions"); got != http.StatusNotFound {
			t.Errorf("Expected 404 for unknown exercise, got %d", got)
		}
	})

	t.Run("Program and alignment", func(t *testing.T) {
		prefs := buildMusclePreferences()
		prefs.ProgramDurationWeeks = ptr.Ref(2)
		var plans []workout.StoredPlan
		postJSON(t, client, "/api/programs/generate", workout.ProgramRequest{
			Preferences: prefs,
			Seed:        ptr.Ref(uint64(11)),
		}, http.StatusCreated, &plans)
		if len(plans) != 2 {
			t.Fatalf("Expected 2 weeks, got %d", len(plans))
		}

		var alignment workout.GoalAlignment
		postJSON(t, client, "/api/alignment", alignmentRequest{
			Preferences: prefs,
			Plan:        plans[1].Plan,
		}, http.StatusOK, &alignment)
		if diff := cmp.Diff(plans[1].Alignment, alignment, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("Alignment differs from the stored one (-stored +scored):\n%s", diff)
		}
	})
}

func Test_application_healthyAndMetrics(t *testing.T) {
	ctx := t.Context()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	client := server.Client()

	var health healthResponse
	if err = client.GetJSON(ctx, "/api/healthy", &health); err != nil {
		t.Fatalf("Failed to get health: %v", err)
	}
	if diff := cmp.Diff(healthResponse{Status: "ok", Exercises: 66, Programs: 13}, health); diff != "" {
		t.Errorf("Unexpected health (-want +got):\n%s", diff)
	}

	postJSON(t, client, "/api/plans", workout.PlanRequest{Preferences: buildMusclePreferences()},
		http.StatusCreated, nil)

	resp, err := client.Get(ctx, "/metrics")
	if err != nil {
		t.Fatalf("Failed to get metrics: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		t.Fatalf("Failed to read metrics: %v", err)
	}
	for _, want := range []string{
		`trainplan_http_requests_total{code="200",method="GET",route="GET /api/healthy"}`,
		`trainplan_generator_plans_generated_total{goal="build_muscle",program_id="upper_lower_split"}`,
		"trainplan_alignment_overall_score_bucket",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("Expected metrics to contain %s", want)
		}
	}
}
