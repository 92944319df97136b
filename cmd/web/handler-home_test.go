package main

import (
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/myrjola/trainplan/internal/e2etest"
	"github.com/myrjola/trainplan/internal/testhelpers"
)

func testLookupEnv(key string) (string, bool) {
	switch key {
	case "TRAINPLAN_SQLITE_URL":
		return ":memory:", true
	case "TRAINPLAN_ADDR":
		return "localhost:0", true
	default:
		return "", false
	}
}

func Test_application_home(t *testing.T) {
	var (
		ctx = t.Context()
		doc *goquery.Document
	)
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}

	client := server.Client()

	t.Run("Initial state", func(t *testing.T) {
		if doc, err = client.GetDoc(ctx, "/"); err != nil {
			t.Fatalf("Failed to get document: %v", err)
		}
		if _, err = e2etest.FindForm(doc, "/plans"); err != nil {
			t.Errorf("Expected plan form: %v", err)
		}
		if got := doc.Find(".plans .empty").Length(); got != 1 {
			t.Errorf("Expected empty plan list, found %d markers", got)
		}
	})

	t.Run("Generate plan", func(t *testing.T) {
		doc, err = client.SubmitForm(ctx, doc, "/plans", map[string]string{
			"Primary goal":        "lose_weight",
			"Workouts per week":   "3",
			"Fitness level":       "beginner",
			"Available equipment": "bodyweight, dumbbells",
			"Cardio preference":   "walking",
			"Seed":                "42",
		})
		if err != nil {
			t.Fatalf("Failed to submit plan form: %v", err)
		}
		if !strings.HasPrefix(doc.Url.Path, "/plans/") {
			t.Errorf("Expected redirect to plan page, got %s", doc.Url.Path)
		}
		if got := doc.Find("li.day").Length(); got != 7 {
			t.Errorf("Expected 7 days, got %d", got)
		}
		if got := doc.Find("li.day:not(.rest)").Length(); got != 3 {
			t.Errorf("Expected 3 training days, got %d", got)
		}
		if got := doc.Find("[data-testid=completed-workouts]").Text(); got != "0 of 3 completed" {
			t.Errorf("Expected no completed workouts, got %q", got)
		}
	})

	t.Run("Complete workout", func(t *testing.T) {
		action, ok := doc.Find("li.day form").First().Attr("action")
		if !ok {
			t.Fatal("Expected a complete form on a training day")
		}
		if doc, err = client.SubmitForm(ctx, doc, action, nil); err != nil {
			t.Fatalf("Failed to complete workout: %v", err)
		}
		if got := doc.Find("[data-testid=completed-workouts]").Text(); got != "1 of 3 completed" {
			t.Errorf("Expected one completed workout, got %q", got)
		}
		if got := doc.Find("li.day .done").Length(); got != 1 {
			t.Errorf("Expected one day marked done, got %d", got)
		}
	})

	t.Run("Plan listed", func(t *testing.T) {
		if doc, err = client.GetDoc(ctx, "/"); err != nil {
			t.Fatalf("Failed to get document: %v", err)
		}
		if got := doc.Find(".plans li").Length(); got != 1 {
			t.Errorf("Expected one listed plan, got %d", got)
		}
	})
}

func Test_application_home_invalidForm(t *testing.T) {
	ctx := t.Context()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	client := server.Client()

	doc, err := client.GetDoc(ctx, "/")
	if err != nil {
		t.Fatalf("Failed to get document: %v", err)
	}
	_, err = client.SubmitForm(ctx, doc, "/plans", map[string]string{"Seed": "not-a-number"})
	if !containsStatusError(err, 400) {
		t.Errorf("Expected status error 400, got: %v", err)
	}
}

func Test_crossOriginProtection(t *testing.T) {
	ctx := t.Context()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}

	// This simulates a malicious cross-origin request.
	maliciousClient := e2etest.NewClientWithSecFetchSite(server.URL(), "cross-site")

	doc, err := maliciousClient.GetDoc(ctx, "/")
	if err != nil {
		t.Fatalf("Failed to get home page: %v", err)
	}

	_, err = maliciousClient.SubmitForm(ctx, doc, "/plans", map[string]string{"Primary goal": "maintain"})
	if err == nil {
		t.Error("Expected cross-origin form submission to be blocked, but it succeeded")
	}
	if !containsStatusError(err, 403) {
		t.Errorf("Expected status error 403 for blocked request, got: %v", err)
	}
}

// containsStatusError checks if the error contains a specific HTTP status code.
func containsStatusError(err error, statusCode int) bool {
	return err != nil && strings.Contains(err.Error(), fmt.Sprintf("status code: %d", statusCode))
}
