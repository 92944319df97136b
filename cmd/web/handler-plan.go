package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/myrjola/trainplan/internal/errors"
	"github.com/myrjola/trainplan/internal/workout"
)

type dayView struct {
	workout.TrainingDay
	// IsToday highlights the current day.
	IsToday bool
	// CompleteAction is the form action that completes the day's workout.
	CompleteAction string
}

type planTemplateData struct {
	BaseTemplateData
	Stored      workout.StoredPlan
	ProgramName string
	Days        []dayView
}

func toDayViews(plan workout.WeeklyTrainingPlan, today time.Time) []dayView {
	days := make([]dayView, len(plan.Days))
	for i, day := range plan.Days {
		days[i] = dayView{
			TrainingDay:    day,
			IsToday:        day.Date.Format(time.DateOnly) == today.Format(time.DateOnly),
			CompleteAction: "/plans/" + plan.ID + "/days/" + strconv.Itoa(day.DayNumber) + "/complete",
		}
	}
	return days
}

func (app *application) planPageGET(w http.ResponseWriter, r *http.Request) {
	stored, err := app.workoutService.GetPlan(r.Context(), r.PathValue("id"))
	if err != nil {
		app.pageError(w, r, err)
		return
	}

	programName := stored.Plan.ProgramID
	if p, ok := app.workoutService.Catalog().Program(stored.Plan.ProgramID); ok {
		programName = p.Name
	}

	data := planTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Stored:           stored,
		ProgramName:      programName,
		Days:             toDayViews(stored.Plan, time.Now().UTC()),
	}
	app.render(w, r, http.StatusOK, "plan", data)
}

func (app *application) planPageCompletePOST(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	day, err := intPathValue(r, "day")
	if err != nil {
		app.notFound(w, r)
		return
	}
	if _, err = app.workoutService.CompleteWorkout(r.Context(), id, day); err != nil {
		if errors.Is(err, workout.ErrRestDay) {
			app.notFound(w, r)
			return
		}
		app.pageError(w, r, err)
		return
	}
	redirect(w, r, "/plans/"+id)
}
