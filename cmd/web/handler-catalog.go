package main

import (
	"net/http"

	"github.com/myrjola/trainplan/internal/errors"
	"github.com/myrjola/trainplan/internal/workout"
)

func (app *application) programsGET(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, r, http.StatusOK, app.workoutService.Catalog().Programs())
}

// exercisesGET lists the catalog, optionally narrowed with ?muscle_group= and ?equipment= filters.
func (app *application) exercisesGET(w http.ResponseWriter, r *http.Request) {
	var (
		query       = r.URL.Query()
		muscleGroup = workout.MuscleGroup(query.Get("muscle_group"))
		equipment   workout.Equipment
	)
	if v := query.Get("equipment"); v != "" {
		var err error
		if equipment, err = workout.ParseEquipment(v); err != nil {
			app.apiError(w, r, errors.Wrap(errors.Join(errBadRequest, err), "parse equipment"))
			return
		}
	}

	exercises := []workout.Exercise{}
	for _, ex := range app.workoutService.Catalog().Exercises() {
		if equipment != "" && ex.Equipment != equipment {
			continue
		}
		if muscleGroup != "" && !ex.Targets(muscleGroup) {
			continue
		}
		exercises = append(exercises, ex)
	}
	app.writeJSON(w, r, http.StatusOK, exercises)
}

type instructionsResponse struct {
	ExerciseID string `json:"exercise_id"`
	Markdown   string `json:"markdown"`
}

func (app *application) exerciseInstructionsGET(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	markdown, err := app.workoutService.ExerciseInstructions(r.Context(), id)
	if err != nil {
		app.apiError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, instructionsResponse{ExerciseID: id, Markdown: markdown})
}

func (app *application) programGeneratePOST(w http.ResponseWriter, r *http.Request) {
	var req workout.ProgramRequest
	if err := decodeJSON(w, r, &req); err != nil {
		app.apiError(w, r, err)
		return
	}
	plans, err := app.workoutService.GenerateProgram(r.Context(), req)
	if err != nil {
		app.apiError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusCreated, plans)
}
