package workout

import (
	"math"
	"slices"
)

const (
	minutesPerExercise     = 8
	maxExercisesPerWorkout = 8
)

// SelectionCriteria describes the exercises a workout slot needs.
type SelectionCriteria struct {
	WorkoutType      Type
	MuscleGroups     []MuscleGroup
	Difficulty       Difficulty
	DurationMinutes  int
	CardioPreference CardioPreference
	// Preferences supplies equipment, injuries, age, and strength baseline. May be nil.
	Preferences *Preferences
}

//nolint:gochecknoglobals // read-only lookup table.
var injuryMuscleGroups = map[InjuryArea][]MuscleGroup{
	InjuryKnee:      {MuscleGroupQuadriceps, MuscleGroupHamstrings, MuscleGroupGlutes},
	InjuryLowerBack: {MuscleGroupLowerBack, MuscleGroupHamstrings},
	InjuryShoulder:  {MuscleGroupShoulders, MuscleGroupChest},
	InjuryWrist:     {MuscleGroupForearms},
	InjuryElbow:     {MuscleGroupBiceps, MuscleGroupTriceps, MuscleGroupForearms},
	InjuryAnkle:     {MuscleGroupCalves},
	InjuryHip:       {MuscleGroupHipFlexors, MuscleGroupGlutes},
	InjuryNeck:      {MuscleGroupTraps, MuscleGroupShoulders},
}

// InjuredMuscleGroups returns the muscle groups implicated by injuries.
func InjuredMuscleGroups(injuries []InjuryArea) []MuscleGroup {
	var groups []MuscleGroup
	for _, injury := range injuries {
		for _, g := range injuryMuscleGroups[injury] {
			if !slices.Contains(groups, g) {
				groups = append(groups, g)
			}
		}
	}
	return groups
}

// SelectExercises picks exercises for one workout. It never fails; in the worst case the result is empty.
//
// Candidates must not exceed the requested difficulty and must share a muscle group with the request. They are then
// narrowed to the available equipment and away from injured muscle groups, each step falling back to a safe
// bodyweight subset when nothing would remain. Cardio and HIIT workouts with a cardio preference draw from the
// exercises tagged with that style instead.
func (g *Generator) SelectExercises(c SelectionCriteria) []WorkoutExercise {
	pool := g.candidates(c)
	count := min(c.DurationMinutes/minutesPerExercise, len(pool), maxExercisesPerWorkout)
	picked := sample(g.rng, pool, count)

	out := make([]WorkoutExercise, 0, len(picked))
	for _, ex := range picked {
		out = append(out, newWorkoutExercise(ex, c.WorkoutType, c.Preferences))
	}
	return out
}

func (g *Generator) candidates(c SelectionCriteria) []Exercise {
	styleOverride := c.WorkoutType.isCardioLike() && c.CardioPreference != ""

	var pool []Exercise
	if styleOverride {
		pool = g.styleCandidates(c.CardioPreference, c.Difficulty)
	} else {
		pool = g.muscleCandidates(c.WorkoutType, c.MuscleGroups, c.Difficulty)
	}

	var (
		equipment []Equipment
		injured   []MuscleGroup
	)
	if c.Preferences != nil {
		equipment = c.Preferences.AvailableEquipment
		injured = InjuredMuscleGroups(c.Preferences.Injuries)
	}

	if len(equipment) > 0 {
		pool = filterEquipment(pool, equipment)
		if len(pool) == 0 {
			pool = g.bodyweightFallback(c, styleOverride)
		}
	}

	if len(injured) > 0 {
		safe := filterInjuries(pool, injured)
		if len(safe) == 0 {
			safe = g.injuryFallback(injured)
		}
		pool = safe
	}
	return pool
}

// muscleCandidates keeps cardio machines and walks out of resistance workouts.
func (g *Generator) muscleCandidates(t Type, groups []MuscleGroup, d Difficulty) []Exercise {
	var pool []Exercise
	for _, ex := range g.catalog.exercises {
		if ex.Difficulty.rank() > d.rank() {
			continue
		}
		if !t.isCardioLike() && ex.Category == CategoryCardio {
			continue
		}
		if matchesMuscleGroups(ex, groups) {
			pool = append(pool, ex)
		}
	}
	return pool
}

func (g *Generator) styleCandidates(style CardioPreference, d Difficulty) []Exercise {
	var pool []Exercise
	for _, ex := range g.catalog.exercises {
		if ex.Difficulty.rank() > d.rank() {
			continue
		}
		if matchesStyle(ex, style) {
			pool = append(pool, ex)
		}
	}
	return pool
}

// bodyweightFallback ignores the difficulty cap.
func (g *Generator) bodyweightFallback(c SelectionCriteria, styleOverride bool) []Exercise {
	var pool []Exercise
	if styleOverride {
		for _, ex := range g.catalog.exercises {
			if ex.Equipment == EquipmentBodyweight && matchesStyle(ex, c.CardioPreference) {
				pool = append(pool, ex)
			}
		}
		if len(pool) > 0 {
			return pool
		}
	}
	for _, ex := range g.catalog.exercises {
		if ex.Equipment != EquipmentBodyweight {
			continue
		}
		if !c.WorkoutType.isCardioLike() && ex.Category == CategoryCardio {
			continue
		}
		if matchesMuscleGroups(ex, c.MuscleGroups) {
			pool = append(pool, ex)
		}
	}
	return pool
}

// injuryFallback returns bodyweight cardio and core work, preferring exercises away from the injured groups.
func (g *Generator) injuryFallback(injured []MuscleGroup) []Exercise {
	var all []Exercise
	for _, ex := range g.catalog.exercises {
		if ex.Equipment != EquipmentBodyweight {
			continue
		}
		if ex.Category == CategoryCardio || ex.Targets(MuscleGroupCore) {
			all = append(all, ex)
		}
	}
	if safe := filterInjuries(all, injured); len(safe) > 0 {
		return safe
	}
	return all
}

func matchesMuscleGroups(ex Exercise, groups []MuscleGroup) bool {
	for _, g := range groups {
		if g == MuscleGroupFullBody || ex.Targets(g) {
			return true
		}
	}
	return false
}

func matchesStyle(ex Exercise, style CardioPreference) bool {
	if slices.Contains(ex.CardioStyles, style) {
		return true
	}
	return style == CardioHIIT && ex.Category == CategoryPlyometric
}

// filterEquipment always allows bodyweight exercises.
func filterEquipment(pool []Exercise, available []Equipment) []Exercise {
	var out []Exercise
	for _, ex := range pool {
		if ex.Equipment == EquipmentBodyweight || slices.Contains(available, ex.Equipment) {
			out = append(out, ex)
		}
	}
	return out
}

func filterInjuries(pool []Exercise, injured []MuscleGroup) []Exercise {
	var out []Exercise
	for _, ex := range pool {
		if !slices.ContainsFunc(ex.MuscleGroups, func(g MuscleGroup) bool {
			return slices.Contains(injured, g)
		}) {
			out = append(out, ex)
		}
	}
	return out
}

type prescription struct {
	sets        int
	reps        string
	restSeconds int
}

//nolint:gochecknoglobals // read-only lookup table.
var prescriptions = map[Type]prescription{
	WorkoutTypeStrength:    {sets: 4, reps: "6-8", restSeconds: 90},
	WorkoutTypeHypertrophy: {sets: 4, reps: "8-12", restSeconds: 60},
	WorkoutTypeEndurance:   {sets: 3, reps: "15-20", restSeconds: 45},
	WorkoutTypeHIIT:        {sets: 3, reps: "12-15", restSeconds: 30},
	WorkoutTypeCardio:      {sets: 1, reps: "15-20 min", restSeconds: 0},
}

//nolint:gochecknoglobals // used for workout types without a dedicated prescription.
var defaultPrescription = prescription{sets: 3, reps: "10-12", restSeconds: 60}

func prescribe(ex Exercise, t Type) prescription {
	p, ok := prescriptions[t]
	if !ok {
		p = defaultPrescription
	}
	if t == WorkoutTypeHIIT && ex.Category == CategoryCardio {
		p.reps = "45 sec"
	}
	return p
}

// restMultiplier lengthens rest periods for older users.
func restMultiplier(prefs *Preferences) float64 {
	if prefs == nil || prefs.Age == nil {
		return 1
	}
	switch age := *prefs.Age; {
	case age >= 55: //nolint:mnd // age bracket.
		return 1.3 //nolint:mnd // extra rest.
	case age >= 40: //nolint:mnd // age bracket.
		return 1.2 //nolint:mnd // extra rest.
	case age >= 30: //nolint:mnd // age bracket.
		return 1.1 //nolint:mnd // extra rest.
	default:
		return 1
	}
}

func newWorkoutExercise(ex Exercise, t Type, prefs *Preferences) WorkoutExercise {
	p := prescribe(ex, t)
	rest := p.restSeconds
	if t != WorkoutTypeCardio {
		rest = int(math.Round(float64(rest) * restMultiplier(prefs)))
	}
	weight, _ := EstimateWeight(ex, t, p.reps, prefs)
	return WorkoutExercise{
		ExerciseID:  ex.ID,
		Exercise:    ex.clone(),
		Sets:        p.sets,
		Reps:        p.reps,
		RestSeconds: rest,
		Weight:      weight,
		Completed:   false,
	}
}
