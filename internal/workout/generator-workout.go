package workout

import (
	"math"
	"slices"
	"strings"
)

// WorkoutSpec describes one training day to build.
type WorkoutSpec struct {
	Type             Type
	MuscleGroups     []MuscleGroup
	DurationMinutes  int
	Difficulty       Difficulty
	CardioPreference CardioPreference
	Preferences      *Preferences
}

//nolint:gochecknoglobals // read-only lookup table.
var cardioSessionNames = map[CardioPreference]string{
	CardioWalking: "Walking Session",
	CardioRunning: "Running Session",
	CardioHIIT:    "HIIT Cardio Blast",
}

// BuildWorkout assembles a workout for spec. Rest days yield an empty "Rest Day" workout.
func (g *Generator) BuildWorkout(spec WorkoutSpec) Workout {
	if spec.Type == WorkoutTypeRest {
		return Workout{
			ID:                      g.newID(),
			Name:                    "Rest Day",
			Type:                    WorkoutTypeRest,
			Duration:                0,
			EstimatedCaloriesBurned: 0,
			MuscleGroupsFocused:     []MuscleGroup{},
			Difficulty:              spec.Difficulty,
			Exercises:               []WorkoutExercise{},
			Completed:               false,
		}
	}

	exercises := g.SelectExercises(SelectionCriteria{
		WorkoutType:      spec.Type,
		MuscleGroups:     spec.MuscleGroups,
		Difficulty:       spec.Difficulty,
		DurationMinutes:  spec.DurationMinutes,
		CardioPreference: spec.CardioPreference,
		Preferences:      spec.Preferences,
	})

	return Workout{
		ID:                      g.newID(),
		Name:                    workoutName(spec.Type, spec.MuscleGroups, spec.CardioPreference),
		Type:                    spec.Type,
		Duration:                spec.DurationMinutes,
		EstimatedCaloriesBurned: estimateCalories(exercises, spec.DurationMinutes),
		MuscleGroupsFocused:     slices.Clone(spec.MuscleGroups),
		Difficulty:              spec.Difficulty,
		Exercises:               exercises,
		Completed:               false,
	}
}

// estimateCalories multiplies the mean calories per minute of the exercises by the duration.
func estimateCalories(exercises []WorkoutExercise, duration int) int {
	if len(exercises) == 0 {
		return 0
	}
	var total float64
	for _, we := range exercises {
		total += we.Exercise.CaloriesPerMinute
	}
	return int(math.Round(total / float64(len(exercises)) * float64(duration)))
}

func workoutName(t Type, groups []MuscleGroup, pref CardioPreference) string {
	if t.isCardioLike() {
		if name, ok := cardioSessionNames[pref]; ok {
			return name
		}
	}
	typeTitle := titleCase(string(t))
	var parts []string
	for _, g := range groups {
		if title := titleCase(string(g)); !slices.Contains(parts, title) {
			parts = append(parts, title)
		}
	}
	if len(parts) == 0 || (len(parts) == 1 && parts[0] == typeTitle) {
		return typeTitle
	}
	return strings.Join(parts, " & ") + " " + typeTitle
}

// titleCase turns "lower_back" into "Lower Back".
func titleCase(s string) string {
	if s == string(WorkoutTypeHIIT) {
		return "HIIT"
	}
	words := strings.Split(s, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
