package workout

import "slices"

// SwapExercise picks a random alternative for the exercise at index in w.
//
// The alternative shares a muscle group with the original, is as much of a cardio exercise as the original, does not
// exceed the workout's difficulty, passes the equipment and injury filters of prefs, and is not already part of the
// workout. Sets, reps and rest carry over while the weight is estimated anew. It reports false when there is no
// alternative.
func (g *Generator) SwapExercise(w Workout, index int, prefs *Preferences) (WorkoutExercise, bool) {
	if w.Type == WorkoutTypeRest || index < 0 || index >= len(w.Exercises) {
		return WorkoutExercise{}, false
	}
	current := w.Exercises[index]
	original := current.Exercise
	if ex, ok := g.catalog.Exercise(current.ExerciseID); ok {
		original = ex
	}

	inWorkout := make([]string, 0, len(w.Exercises))
	for _, we := range w.Exercises {
		inWorkout = append(inWorkout, we.ExerciseID)
	}

	var pool []Exercise
	for _, ex := range g.catalog.exercises {
		switch {
		case slices.Contains(inWorkout, ex.ID),
			ex.Difficulty.rank() > w.Difficulty.rank(),
			(ex.Category == CategoryCardio) != (original.Category == CategoryCardio),
			!slices.ContainsFunc(original.MuscleGroups, ex.Targets):
			continue
		}
		pool = append(pool, ex)
	}
	if prefs != nil {
		if len(prefs.AvailableEquipment) > 0 {
			pool = filterEquipment(pool, prefs.AvailableEquipment)
		}
		if injured := InjuredMuscleGroups(prefs.Injuries); len(injured) > 0 {
			pool = filterInjuries(pool, injured)
		}
	}
	if len(pool) == 0 {
		return WorkoutExercise{}, false
	}

	replacement := pool[g.rng.IntN(len(pool))]
	weight, _ := EstimateWeight(replacement, w.Type, current.Reps, prefs)
	return WorkoutExercise{
		ExerciseID:  replacement.ID,
		Exercise:    replacement.clone(),
		Sets:        current.Sets,
		Reps:        current.Reps,
		RestSeconds: current.RestSeconds,
		Weight:      weight,
		Completed:   false,
	}, true
}
