package main

import (
	"net/http"

	"github.com/myrjola/trainplan/internal/workout"
)

type alignmentRequest struct {
	Preferences workout.Preferences        `json:"preferences"`
	Plan        workout.WeeklyTrainingPlan `json:"plan"`
}

// alignmentPOST scores a caller-supplied plan. Totals are recomputed from the days so that stale counters in the
// payload do not skew the score.
func (app *application) alignmentPOST(w http.ResponseWriter, r *http.Request) {
	var req alignmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		app.apiError(w, r, err)
		return
	}
	workout.RecalculateTotals(&req.Plan)
	app.writeJSON(w, r, http.StatusOK, workout.ScoreAlignment(req.Preferences.WithDefaults(), req.Plan))
}
