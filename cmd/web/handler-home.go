package main

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/myrjola/trainplan/internal/errors"
	"github.com/myrjola/trainplan/internal/workout"
)

type option struct {
	Value string
	Label string
}

func options[T ~string](values ...T) []option {
	opts := make([]option, len(values))
	for i, v := range values {
		opts[i] = option{Value: string(v), Label: label(v)}
	}
	return opts
}

type homeTemplateData struct {
	BaseTemplateData
	Plans             []workout.PlanSummary
	Goals             []option
	FitnessLevels     []option
	Equipment         []option
	Injuries          []option
	CardioPreferences []option
	Programs          []option
	FormError         string
}

func (app *application) newHomeTemplateData(r *http.Request) homeTemplateData {
	programs := []option{{Value: "", Label: "Recommended for me"}}
	for _, p := range app.workoutService.Catalog().Programs() {
		programs = append(programs, option{Value: p.ID, Label: p.Name})
	}
	return homeTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Plans:            nil,
		Goals: options(workout.GoalLoseWeight, workout.GoalBuildMuscle, workout.GoalMaintain,
			workout.GoalImproveHealth),
		FitnessLevels: options(workout.DifficultyBeginner, workout.DifficultyIntermediate,
			workout.DifficultyAdvanced),
		Equipment: options(workout.EquipmentBodyweight, workout.EquipmentDumbbells, workout.EquipmentBarbell,
			workout.EquipmentKettlebell, workout.EquipmentCableMachine, workout.EquipmentCardioMachine,
			workout.EquipmentResistanceBand, workout.EquipmentPullUpBar, workout.EquipmentBench),
		Injuries: options(workout.InjuryKnee, workout.InjuryLowerBack, workout.InjuryShoulder, workout.InjuryWrist,
			workout.InjuryElbow, workout.InjuryAnkle, workout.InjuryHip, workout.InjuryNeck),
		CardioPreferences: options(workout.CardioWalking, workout.CardioRunning, workout.CardioHIIT),
		Programs:          programs,
		FormError:         "",
	}
}

func (app *application) home(w http.ResponseWriter, r *http.Request) {
	data := app.newHomeTemplateData(r)
	plans, err := app.workoutService.ListPlans(r.Context(), defaultListLimit)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	data.Plans = plans
	app.render(w, r, http.StatusOK, "home", data)
}

// optionalInt parses an optional numeric form field.
func optionalInt(r *http.Request, name string) (int, error) {
	v := r.PostForm.Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrap(errors.Join(errBadRequest, err), "parse form field", slog.String("field", name))
	}
	return n, nil
}

// planRequestFromForm reads the plan generation form. Missing fields are left for [workout.Preferences.WithDefaults].
func planRequestFromForm(r *http.Request) (workout.PlanRequest, error) {
	var (
		req   workout.PlanRequest
		prefs = &req.Preferences
		err   error
	)
	prefs.PrimaryGoal = workout.Goal(r.PostForm.Get("primary_goal"))
	prefs.FitnessLevel = workout.Difficulty(r.PostForm.Get("fitness_level"))
	prefs.CardioPreference = workout.CardioPreference(r.PostForm.Get("cardio_preference"))
	prefs.ProgramID = r.PostForm.Get("program_id")
	if prefs.WorkoutsPerWeek, err = optionalInt(r, "workouts_per_week"); err != nil {
		return req, err
	}
	if prefs.WorkoutDuration, err = optionalInt(r, "workout_duration"); err != nil {
		return req, err
	}
	for _, v := range r.PostForm["available_equipment"] {
		var e workout.Equipment
		if e, err = workout.ParseEquipment(v); err != nil {
			return req, errors.Wrap(errors.Join(errBadRequest, err), "parse equipment")
		}
		prefs.AvailableEquipment = append(prefs.AvailableEquipment, e)
	}
	for _, v := range r.PostForm["injuries"] {
		prefs.Injuries = append(prefs.Injuries, workout.InjuryArea(v))
	}
	if v := r.PostForm.Get("seed"); v != "" {
		var seed uint64
		if seed, err = strconv.ParseUint(v, 10, 64); err != nil {
			return req, errors.Wrap(errors.Join(errBadRequest, err), "parse seed")
		}
		req.Seed = &seed
	}
	return req, nil
}

func (app *application) planFormPOST(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.serverError(w, r, errors.Wrap(err, "parse form"))
		return
	}

	req, err := planRequestFromForm(r)
	if err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelInfo, "invalid plan form", errors.SlogError(err))
		data := app.newHomeTemplateData(r)
		data.FormError = "Please check the form values and try again."
		app.render(w, r, http.StatusBadRequest, "home", data)
		return
	}

	plan, err := app.workoutService.GeneratePlan(r.Context(), req)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	redirect(w, r, "/plans/"+plan.Plan.ID)
}
