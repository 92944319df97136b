package main

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/myrjola/trainplan/internal/errors"
	"github.com/myrjola/trainplan/internal/workout"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

func listLimit(r *http.Request) (int, error) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return defaultListLimit, nil
	}
	limit, err := strconv.Atoi(v)
	if err != nil || limit < 1 {
		return 0, errors.Wrap(errBadRequest, "invalid limit", slog.String("limit", v))
	}
	return min(limit, maxListLimit), nil
}

func (app *application) plansGET(w http.ResponseWriter, r *http.Request) {
	limit, err := listLimit(r)
	if err != nil {
		app.apiError(w, r, err)
		return
	}
	summaries, err := app.workoutService.ListPlans(r.Context(), limit)
	if err != nil {
		app.apiError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, summaries)
}

func (app *application) plansPOST(w http.ResponseWriter, r *http.Request) {
	var req workout.PlanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		app.apiError(w, r, err)
		return
	}
	plan, err := app.workoutService.GeneratePlan(r.Context(), req)
	if err != nil {
		app.apiError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/plans/"+plan.Plan.ID)
	app.writeJSON(w, r, http.StatusCreated, plan)
}

func (app *application) planGET(w http.ResponseWriter, r *http.Request) {
	plan, err := app.workoutService.GetPlan(r.Context(), r.PathValue("id"))
	if err != nil {
		app.apiError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, plan)
}

func (app *application) planDayCompletePOST(w http.ResponseWriter, r *http.Request) {
	day, err := intPathValue(r, "day")
	if err != nil {
		app.apiError(w, r, err)
		return
	}
	plan, err := app.workoutService.CompleteWorkout(r.Context(), r.PathValue("id"), day)
	if err != nil {
		app.apiError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, plan)
}

func (app *application) planExerciseSwapPOST(w http.ResponseWriter, r *http.Request) {
	day, err := intPathValue(r, "day")
	if err != nil {
		app.apiError(w, r, err)
		return
	}
	index, err := intPathValue(r, "index")
	if err != nil {
		app.apiError(w, r, err)
		return
	}
	replacement, err := app.workoutService.SwapExercise(r.Context(), r.PathValue("id"), day, index)
	if err != nil {
		app.apiError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, replacement)
}
