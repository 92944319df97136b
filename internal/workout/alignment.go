package workout

import "math"

const (
	minCardioSessions      = 2
	minStrengthSessions    = 2
	minMuscleBuildSessions = 3
	minMuscleBuildWorkouts = 4
	minMaintainWorkouts    = 3
	minWeeklyCalories      = 1500
	maxScore               = 100

	defaultRecommendation = "Your training plan is well aligned with your goal. Keep it up!"
)

// workoutMix counts the workouts of a plan by kind. Cardio includes HIIT sessions, so a HIIT day
// is counted in both cardio and hiit and weighs more towards the calorie deficit than steady cardio.
type workoutMix struct {
	cardio   int
	hiit     int
	strength int
	total    int
	calories int
}

func countWorkouts(plan WeeklyTrainingPlan) workoutMix {
	var m workoutMix
	for _, day := range plan.Days {
		if day.Workout == nil || day.Workout.Type == WorkoutTypeRest {
			continue
		}
		m.total++
		switch t := day.Workout.Type; {
		case t.isCardioLike():
			m.cardio++
			if t == WorkoutTypeHIIT {
				m.hiit++
			}
		case t.isStrengthLike():
			m.strength++
		}
	}
	m.calories = plan.TotalCaloriesBurned
	return m
}

type scoringPolicy func(m workoutMix) (GoalAlignment, []string)

//nolint:gochecknoglobals // read-only dispatch table.
var scoringPolicies = map[Goal]scoringPolicy{
	GoalLoseWeight:    scoreLoseWeight,
	GoalBuildMuscle:   scoreBuildMuscle,
	GoalMaintain:      scoreMaintain,
	GoalImproveHealth: scoreImproveHealth,
}

// ScoreAlignment rates how well plan serves prefs.PrimaryGoal. Unknown goals are scored like maintain.
//
// Every score is within [0, 100] and the result always carries at least one recommendation.
func ScoreAlignment(prefs Preferences, plan WeeklyTrainingPlan) GoalAlignment {
	policy, ok := scoringPolicies[prefs.PrimaryGoal]
	if !ok {
		policy = scoreMaintain
	}
	a, recs := policy(countWorkouts(plan))

	a.CalorieDeficitSupport = clamp(a.CalorieDeficitSupport)
	a.MusclePreservation = clamp(a.MusclePreservation)
	a.MuscleGrowthPotential = clamp(a.MuscleGrowthPotential)
	a.CardiovascularHealth = clamp(a.CardiovascularHealth)
	sum := a.CalorieDeficitSupport + a.MusclePreservation + a.MuscleGrowthPotential + a.CardiovascularHealth
	a.OverallAlignment = int(math.Round(float64(sum) / 4)) //nolint:mnd // four dimensions.

	if len(recs) == 0 {
		recs = []string{defaultRecommendation}
	}
	a.Recommendations = recs
	return a
}

func scoreLoseWeight(m workoutMix) (GoalAlignment, []string) {
	a := GoalAlignment{
		CalorieDeficitSupport: 50 + 15*m.cardio + 10*m.hiit,
		MusclePreservation:    40 + 20*m.strength,
		MuscleGrowthPotential: 30 + 10*m.strength,
		CardiovascularHealth:  40 + 15*m.cardio,
	}
	var recs []string
	if m.cardio < minCardioSessions {
		recs = append(recs, "Add at least two cardio or HIIT sessions per week to support your calorie deficit.")
	}
	if m.strength < minStrengthSessions {
		recs = append(recs, "Include two strength sessions per week to preserve muscle while losing weight.")
	}
	if m.calories < minWeeklyCalories {
		recs = append(recs, "Your plan burns fewer than 1500 calories per week. "+
			"Consider longer or more frequent workouts.")
	}
	return a, recs
}

func scoreBuildMuscle(m workoutMix) (GoalAlignment, []string) {
	a := GoalAlignment{
		CalorieDeficitSupport: 30,
		MusclePreservation:    90,
		MuscleGrowthPotential: 40 + 20*m.strength,
		CardiovascularHealth:  40 + 10*m.cardio,
	}
	var recs []string
	if m.strength < minMuscleBuildSessions {
		recs = append(recs, "Schedule at least three strength or hypertrophy sessions per week to build muscle.")
	}
	if m.total < minMuscleBuildWorkouts {
		recs = append(recs, "Train at least four days per week for steady muscle growth.")
	}
	return a, recs
}

func scoreMaintain(m workoutMix) (GoalAlignment, []string) {
	a := GoalAlignment{
		CalorieDeficitSupport: 60 + 5*m.total,
		MusclePreservation:    60 + 10*m.strength,
		MuscleGrowthPotential: 50 + 10*m.strength,
		CardiovascularHealth:  50 + 10*m.cardio,
	}
	var recs []string
	if m.total < minMaintainWorkouts {
		recs = append(recs, "Aim for at least three workouts per week to maintain your fitness.")
	}
	return a, recs
}

func scoreImproveHealth(m workoutMix) (GoalAlignment, []string) {
	a := GoalAlignment{
		CalorieDeficitSupport: 40 + 10*m.cardio,
		MusclePreservation:    50 + 15*m.strength,
		MuscleGrowthPotential: 40 + 10*m.strength,
		CardiovascularHealth:  50 + 15*m.cardio,
	}
	var recs []string
	if m.cardio < minCardioSessions {
		recs = append(recs, "Add more cardio sessions to strengthen your heart and lungs.")
	}
	if m.strength < minStrengthSessions {
		recs = append(recs, "Add more strength sessions to keep your muscles and bones healthy.")
	}
	return a, recs
}

func clamp(score int) int {
	return min(max(score, 0), maxScore)
}
