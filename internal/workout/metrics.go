package workout

import (
	"github.com/prometheus/client_golang/prometheus"
)

//nolint:gochecknoglobals // collectors are registered once with the default registry.
var (
	plansGenerated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trainplan",
		Subsystem: "generator",
		Name:      "plans_generated_total",
		Help:      "Weekly training plans generated, by goal and program.",
	}, []string{"goal", "program_id"})

	planWorkouts = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "trainplan",
		Subsystem: "generator",
		Name:      "plan_workouts",
		Help:      "Training days per generated weekly plan.",
		Buckets:   prometheus.LinearBuckets(0, 1, 8), //nolint:mnd // zero to seven days.
	})

	emptyWorkouts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "trainplan",
		Subsystem: "generator",
		Name:      "empty_workouts_total",
		Help:      "Training days generated without any exercise.",
	})

	alignmentScore = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "trainplan",
		Subsystem: "alignment",
		Name:      "overall_score",
		Help:      "Overall goal alignment of generated plans.",
		Buckets:   prometheus.LinearBuckets(0, 10, 11), //nolint:mnd // deciles up to 100.
	}, []string{"goal"})

	enrichmentRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trainplan",
		Subsystem: "enrichment",
		Name:      "requests_total",
		Help:      "Instruction lookups by outcome.",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(plansGenerated, planWorkouts, emptyWorkouts, alignmentScore, enrichmentRequests)
}

func goalLabel(g Goal) string {
	if _, ok := scoringPolicies[g]; ok {
		return string(g)
	}
	return "other"
}

func observePlan(p StoredPlan) {
	goal := goalLabel(p.Preferences.PrimaryGoal)
	plansGenerated.WithLabelValues(goal, p.Plan.ProgramID).Inc()
	planWorkouts.Observe(float64(p.Plan.TotalWorkouts))
	alignmentScore.WithLabelValues(goal).Observe(float64(p.Alignment.OverallAlignment))
	for _, day := range p.Plan.Days {
		if day.Workout != nil && len(day.Workout.Exercises) == 0 {
			emptyWorkouts.Inc()
		}
	}
}
