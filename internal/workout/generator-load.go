package workout

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// baselineWeights holds typical working maxima in lbs by sex, strength level and exercise id.
//
//nolint:gochecknoglobals // read-only lookup table.
var baselineWeights = map[Sex]map[StrengthLevel]map[string]float64{
	SexMale: {
		StrengthBeginner: {
			"bench_press": 95, "squat": 135, "deadlift": 155, "overhead_press": 65, "barbell_row": 85,
			"goblet_squat": 35, "dumbbell_bench_press": 30, "dumbbell_row": 30,
		},
		StrengthIntermediate: {
			"bench_press": 185, "squat": 225, "deadlift": 275, "overhead_press": 115, "barbell_row": 155,
			"goblet_squat": 55, "dumbbell_bench_press": 55, "dumbbell_row": 55,
		},
		StrengthAdvanced: {
			"bench_press": 265, "squat": 335, "deadlift": 405, "overhead_press": 155, "barbell_row": 205,
			"goblet_squat": 80, "dumbbell_bench_press": 80, "dumbbell_row": 80,
		},
	},
	SexFemale: {
		StrengthBeginner: {
			"bench_press": 55, "squat": 85, "deadlift": 105, "overhead_press": 45, "barbell_row": 55,
			"goblet_squat": 25, "dumbbell_bench_press": 20, "dumbbell_row": 20,
		},
		StrengthIntermediate: {
			"bench_press": 95, "squat": 135, "deadlift": 165, "overhead_press": 65, "barbell_row": 85,
			"goblet_squat": 35, "dumbbell_bench_press": 30, "dumbbell_row": 30,
		},
		StrengthAdvanced: {
			"bench_press": 135, "squat": 205, "deadlift": 245, "overhead_press": 95, "barbell_row": 125,
			"goblet_squat": 55, "dumbbell_bench_press": 45, "dumbbell_row": 45,
		},
	},
}

const weightIncrementLbs = 5

// hasBaseline reports whether the user has lifted before and rated their strength.
// Without both there is nothing to base a weight on, even when a 1RM is given.
func hasBaseline(prefs *Preferences) bool {
	return prefs != nil && prefs.HasLiftingExperience && prefs.StrengthLevel != ""
}

func oneRepMax(ex Exercise, prefs *Preferences) (float64, bool) {
	var rm *float64
	switch ex.ID {
	case "bench_press":
		rm = prefs.BenchPress1RM
	case "squat":
		rm = prefs.Squat1RM
	case "deadlift":
		rm = prefs.Deadlift1RM
	}
	if rm == nil || *rm <= 0 {
		return 0, false
	}
	return *rm, true
}

func tableWeight(ex Exercise, prefs *Preferences) (float64, bool) {
	sex := prefs.Sex
	if sex != SexMale {
		sex = SexFemale
	}
	level := prefs.StrengthLevel
	if _, ok := baselineWeights[sex][level]; !ok {
		level = StrengthBeginner
	}
	w, ok := baselineWeights[sex][level][ex.ID]
	return w, ok
}

// intensity maps the first number of a rep prescription to a fraction of the base weight.
func intensity(reps string) float64 {
	n := leadingInt(reps)
	switch {
	case n <= 5: //nolint:mnd // heavy rep range.
		return 0.85 //nolint:mnd // percent of max.
	case n <= 8: //nolint:mnd // strength rep range.
		return 0.80 //nolint:mnd // percent of max.
	case n <= 12: //nolint:mnd // hypertrophy rep range.
		return 0.70 //nolint:mnd // percent of max.
	default:
		return 0.60 //nolint:mnd // percent of max.
	}
}

func leadingInt(s string) int {
	s = strings.TrimLeftFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
	end := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
	if end >= 0 {
		s = s[:end]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// EstimateWeight suggests a working weight such as "150 lbs" for one exercise.
//
// Cardio and bodyweight exercises, exercises without reference data and users who have not both lifted before and
// rated their strength get no weight. A known one-rep max for the bench press, squat or deadlift takes precedence
// over the reference table.
func EstimateWeight(ex Exercise, _ Type, reps string, prefs *Preferences) (string, bool) {
	if ex.Category == CategoryCardio || ex.Equipment == EquipmentBodyweight || !hasBaseline(prefs) {
		return "", false
	}
	base, ok := oneRepMax(ex, prefs)
	if !ok {
		if base, ok = tableWeight(ex, prefs); !ok {
			return "", false
		}
	}
	rounded := int(math.Round(base*intensity(reps)/weightIncrementLbs)) * weightIncrementLbs
	if rounded <= 0 {
		return "", false
	}
	return strconv.Itoa(rounded) + " lbs", true
}
