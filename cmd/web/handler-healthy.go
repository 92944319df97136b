package main

import (
	"net/http"
	"strconv"
	"time"
)

type healthResponse struct {
	Status    string `json:"status"`
	Exercises int    `json:"exercises"`
	Programs  int    `json:"programs"`
}

// healthy responds with a JSON object indicating that the server is healthy and the catalog is loaded.
func (app *application) healthy(w http.ResponseWriter, r *http.Request) {
	catalog := app.workoutService.Catalog()
	app.writeJSON(w, r, http.StatusOK, healthResponse{
		Status:    "ok",
		Exercises: len(catalog.Exercises()),
		Programs:  len(catalog.Programs()),
	})
}

// testTimeout is a handler for testing timeout functionality.
// It accepts a query parameter sleep_ms to control how long it sleeps.
func (app *application) testTimeout(w http.ResponseWriter, r *http.Request) {
	sleepMs, err := strconv.Atoi(r.URL.Query().Get("sleep_ms"))
	if err != nil {
		http.Error(w, "Invalid sleep_ms parameter", http.StatusBadRequest)
		return
	}

	if sleepMs > 0 {
		time.Sleep(time.Duration(sleepMs) * time.Millisecond)
	}

	app.writeJSON(w, r, http.StatusOK, map[string]any{"status": "completed", "slept_ms": sleepMs})
}
