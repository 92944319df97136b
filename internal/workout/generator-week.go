package workout

import (
	"slices"
	"time"
)

// AssembleWeek builds the weekNumber-th week of a training plan.
//
// The week starts on the Monday of anchor's week, offset by weekNumber-1 weeks. The program is prefs.ProgramID when
// it names a catalog program, otherwise the one [Catalog.SelectProgram] picks. Training days follow the program's
// weekly structure until prefs.WorkoutsPerWeek days are assigned; the remaining days are rest days.
func (g *Generator) AssembleWeek(prefs Preferences, weekNumber int, anchor time.Time) WeeklyTrainingPlan {
	prefs = prefs.WithDefaults()
	weekNumber = max(weekNumber, 1)
	program := g.resolveProgram(prefs)

	start := mondayOf(anchor).AddDate(0, 0, daysInWeek*(weekNumber-1))
	plan := WeeklyTrainingPlan{
		ID:                  g.newID(),
		ProgramID:           program.ID,
		WeekNumber:          weekNumber,
		StartDate:           start,
		EndDate:             start.AddDate(0, 0, daysInWeek-1),
		Days:                make([]TrainingDay, 0, daysInWeek),
		TotalWorkouts:       0,
		CompletedWorkouts:   0,
		TotalCaloriesBurned: 0,
		FocusAreas:          []MuscleGroup{},
	}

	assigned := 0
	for i := range daysInWeek {
		date := start.AddDate(0, 0, i)
		day := TrainingDay{
			DayOfWeek: date.Weekday().String(),
			DayNumber: i + 1,
			Date:      date,
			Workout:   nil,
			IsRestDay: true,
		}

		structure := program.WeeklyStructure[i]
		if structure.WorkoutType != WorkoutTypeRest && assigned < prefs.WorkoutsPerWeek {
			groups := structure.MuscleGroups
			if len(groups) == 0 {
				groups = []MuscleGroup{MuscleGroupFullBody}
			}
			w := g.BuildWorkout(WorkoutSpec{
				Type:             structure.WorkoutType,
				MuscleGroups:     groups,
				DurationMinutes:  prefs.WorkoutDuration,
				Difficulty:       prefs.FitnessLevel,
				CardioPreference: prefs.CardioPreference,
				Preferences:      &prefs,
			})
			day.Workout = &w
			day.IsRestDay = false
			assigned++
		}
		plan.Days = append(plan.Days, day)
	}

	RecalculateTotals(&plan)
	return plan
}

// RecalculateTotals refreshes the aggregate fields of plan from its days.
func RecalculateTotals(plan *WeeklyTrainingPlan) {
	plan.TotalWorkouts = 0
	plan.CompletedWorkouts = 0
	plan.TotalCaloriesBurned = 0
	plan.FocusAreas = []MuscleGroup{}
	for _, day := range plan.Days {
		if day.Workout == nil {
			continue
		}
		plan.TotalWorkouts++
		if day.Workout.Completed {
			plan.CompletedWorkouts++
		}
		plan.TotalCaloriesBurned += day.Workout.EstimatedCaloriesBurned
		for _, mg := range day.Workout.MuscleGroupsFocused {
			if !slices.Contains(plan.FocusAreas, mg) {
				plan.FocusAreas = append(plan.FocusAreas, mg)
			}
		}
	}
}

func (g *Generator) resolveProgram(prefs Preferences) ProgramTemplate {
	if prefs.ProgramID != "" {
		if p, ok := g.catalog.Program(prefs.ProgramID); ok {
			return p
		}
	}
	return g.catalog.SelectProgram(prefs)
}

// mondayOf returns midnight UTC of the Monday starting t's week.
func mondayOf(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + daysInWeek - 1) % daysInWeek
	return day.AddDate(0, 0, -offset)
}
