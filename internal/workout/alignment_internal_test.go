package workout

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func planWithTypes(calories int, types ...Type) WeeklyTrainingPlan {
	plan := WeeklyTrainingPlan{TotalCaloriesBurned: calories}
	for i := range daysInWeek {
		day := TrainingDay{DayNumber: i + 1, IsRestDay: true}
		if i < len(types) {
			day.Workout = &Workout{Type: types[i]}
			day.IsRestDay = false
		}
		plan.Days = append(plan.Days, day)
	}
	return plan
}

func TestScoreAlignment(t *testing.T) {
	s, h, c := WorkoutTypeStrength, WorkoutTypeHIIT, WorkoutTypeCardio

	tests := []struct {
		name string
		goal Goal
		plan WeeklyTrainingPlan
		want GoalAlignment
	}{
		{
			name: "build muscle with four strength days",
			goal: GoalBuildMuscle,
			plan: planWithTypes(1200, s, s, WorkoutTypeHypertrophy, s),
			want: GoalAlignment{
				CalorieDeficitSupport: 30, MusclePreservation: 90, MuscleGrowthPotential: 100,
				CardiovascularHealth: 40, OverallAlignment: 65,
				Recommendations: []string{defaultRecommendation},
			},
		},
		{
			name: "build muscle with too few days",
			goal: GoalBuildMuscle,
			plan: planWithTypes(600, s, c),
			want: GoalAlignment{
				CalorieDeficitSupport: 30, MusclePreservation: 90, MuscleGrowthPotential: 60,
				CardiovascularHealth: 50, OverallAlignment: 58,
				Recommendations: []string{
					"Schedule at least three strength or hypertrophy sessions per week to build muscle.",
					"Train at least four days per week for steady muscle growth.",
				},
			},
		},
		{
			name: "lose weight with an empty week",
			goal: GoalLoseWeight,
			plan: planWithTypes(0),
			want: GoalAlignment{
				CalorieDeficitSupport: 50, MusclePreservation: 40, MuscleGrowthPotential: 30,
				CardiovascularHealth: 40, OverallAlignment: 40,
				Recommendations: []string{
					"Add at least two cardio or HIIT sessions per week to support your calorie deficit.",
					"Include two strength sessions per week to preserve muscle while losing weight.",
					"Your plan burns fewer than 1500 calories per week. Consider longer or more frequent workouts.",
				},
			},
		},
		{
			name: "lose weight with a full week clamps at 100",
			goal: GoalLoseWeight,
			plan: planWithTypes(2500, c, c, c, h, h, s, s),
			want: GoalAlignment{
				CalorieDeficitSupport: 100, MusclePreservation: 80, MuscleGrowthPotential: 50,
				CardiovascularHealth: 100, OverallAlignment: 83,
				Recommendations: []string{defaultRecommendation},
			},
		},
		{
			name: "lose weight counts a hiit day as cardio too",
			goal: GoalLoseWeight,
			plan: planWithTypes(300, h),
			want: GoalAlignment{
				CalorieDeficitSupport: 75, MusclePreservation: 40, MuscleGrowthPotential: 30,
				CardiovascularHealth: 55, OverallAlignment: 50,
				Recommendations: []string{
					"Add at least two cardio or HIIT sessions per week to support your calorie deficit.",
					"Include two strength sessions per week to preserve muscle while losing weight.",
					"Your plan burns fewer than 1500 calories per week. Consider longer or more frequent workouts.",
				},
			},
		},
		{
			name: "maintain below three workouts",
			goal: GoalMaintain,
			plan: planWithTypes(400, s, c),
			want: GoalAlignment{
				CalorieDeficitSupport: 70, MusclePreservation: 70, MuscleGrowthPotential: 60,
				CardiovascularHealth: 60, OverallAlignment: 65,
				Recommendations: []string{"Aim for at least three workouts per week to maintain your fitness."},
			},
		},
		{
			name: "unknown goal is scored like maintain",
			goal: "become_a_ninja",
			plan: planWithTypes(900, s, c, h),
			want: GoalAlignment{
				CalorieDeficitSupport: 75, MusclePreservation: 70, MuscleGrowthPotential: 60,
				CardiovascularHealth: 70, OverallAlignment: 69,
				Recommendations: []string{defaultRecommendation},
			},
		},
		{
			name: "improve health",
			goal: GoalImproveHealth,
			plan: planWithTypes(900, c, s, WorkoutTypeMobility),
			want: GoalAlignment{
				CalorieDeficitSupport: 50, MusclePreservation: 65, MuscleGrowthPotential: 50,
				CardiovascularHealth: 65, OverallAlignment: 58,
				Recommendations: []string{
					"Add more cardio sessions to strengthen your heart and lungs.",
					"Add more strength sessions to keep your muscles and bones healthy.",
				},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreAlignment(Preferences{PrimaryGoal: tt.goal}, tt.plan)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("alignment mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScoreAlignment_Bounds(t *testing.T) {
	for i, prefs := range preferenceMatrix() {
		plan := NewGenerator(nil, uint64(i)).AssembleWeek(prefs, 1, anchor)
		a := ScoreAlignment(prefs, plan)
		for name, score := range map[string]int{
			"calorie deficit support": a.CalorieDeficitSupport,
			"muscle preservation":     a.MusclePreservation,
			"muscle growth potential": a.MuscleGrowthPotential,
			"cardiovascular health":   a.CardiovascularHealth,
			"overall":                 a.OverallAlignment,
		} {
			if score < 0 || score > 100 {
				t.Errorf("prefs %d: %s %d out of range", i, name, score)
			}
		}
		if len(a.Recommendations) == 0 {
			t.Errorf("prefs %d: no recommendations", i)
		}
	}
}
