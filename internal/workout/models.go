package workout

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// MuscleGroup is a body area an exercise trains or a training day targets.
type MuscleGroup string

const (
	MuscleGroupChest      MuscleGroup = "chest"
	MuscleGroupBack       MuscleGroup = "back"
	MuscleGroupShoulders  MuscleGroup = "shoulders"
	MuscleGroupBiceps     MuscleGroup = "biceps"
	MuscleGroupTriceps    MuscleGroup = "triceps"
	MuscleGroupForearms   MuscleGroup = "forearms"
	MuscleGroupTraps      MuscleGroup = "traps"
	MuscleGroupCore       MuscleGroup = "core"
	MuscleGroupLowerBack  MuscleGroup = "lower_back"
	MuscleGroupQuadriceps MuscleGroup = "quadriceps"
	MuscleGroupHamstrings MuscleGroup = "hamstrings"
	MuscleGroupGlutes     MuscleGroup = "glutes"
	MuscleGroupCalves     MuscleGroup = "calves"
	MuscleGroupHipFlexors MuscleGroup = "hip_flexors"
	// MuscleGroupCardio marks the cardiovascular system as a target.
	MuscleGroupCardio MuscleGroup = "cardio"
	// MuscleGroupFullBody matches every exercise when used as a target.
	MuscleGroupFullBody MuscleGroup = "full_body"
)

// ExerciseCategory represents the type of movement.
type ExerciseCategory string

const (
	CategoryCompound   ExerciseCategory = "compound"
	CategoryIsolation  ExerciseCategory = "isolation"
	CategoryCardio     ExerciseCategory = "cardio"
	CategoryPlyometric ExerciseCategory = "plyometric"
	CategoryMobility   ExerciseCategory = "mobility"
)

// Equipment is the canonical equipment an exercise requires.
//
// Aliases such as "dumbbell" or "none" are normalised by [ParseEquipment] when decoding JSON or YAML.
type Equipment string

const (
	EquipmentBodyweight     Equipment = "bodyweight"
	EquipmentDumbbells      Equipment = "dumbbells"
	EquipmentBarbell        Equipment = "barbell"
	EquipmentCableMachine   Equipment = "cable_machine"
	EquipmentKettlebell     Equipment = "kettlebell"
	EquipmentCardioMachine  Equipment = "cardio_machine"
	EquipmentResistanceBand Equipment = "resistance_band"
	EquipmentPullUpBar      Equipment = "pull_up_bar"
	EquipmentBench          Equipment = "bench"
)

//nolint:gochecknoglobals // read-only lookup table.
var equipmentAliases = map[string]Equipment{
	"bodyweight":       EquipmentBodyweight,
	"body_weight":      EquipmentBodyweight,
	"none":             EquipmentBodyweight,
	"dumbbells":        EquipmentDumbbells,
	"dumbbell":         EquipmentDumbbells,
	"barbell":          EquipmentBarbell,
	"barbells":         EquipmentBarbell,
	"cable_machine":    EquipmentCableMachine,
	"cable":            EquipmentCableMachine,
	"cables":           EquipmentCableMachine,
	"kettlebell":       EquipmentKettlebell,
	"kettlebells":      EquipmentKettlebell,
	"cardio_machine":   EquipmentCardioMachine,
	"cardio_machines":  EquipmentCardioMachine,
	"treadmill":        EquipmentCardioMachine,
	"resistance_band":  EquipmentResistanceBand,
	"resistance_bands": EquipmentResistanceBand,
	"bands":            EquipmentResistanceBand,
	"pull_up_bar":      EquipmentPullUpBar,
	"pullup_bar":       EquipmentPullUpBar,
	"bench":            EquipmentBench,
}

// ParseEquipment maps an equipment name or alias to its canonical value.
func ParseEquipment(s string) (Equipment, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	key = strings.ReplaceAll(key, " ", "_")
	if e, ok := equipmentAliases[key]; ok {
		return e, nil
	}
	return "", fmt.Errorf("unknown equipment %q", s)
}

// UnmarshalText normalises aliases so that the rest of the package only sees canonical equipment.
func (e *Equipment) UnmarshalText(text []byte) error {
	parsed, err := ParseEquipment(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// Difficulty is ordered beginner < intermediate < advanced.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// rank orders difficulties. Unknown values rank as beginner.
func (d Difficulty) rank() int {
	switch d {
	case DifficultyBeginner:
		return 0
	case DifficultyIntermediate:
		return 1
	case DifficultyAdvanced:
		return 2 //nolint:mnd // highest rank.
	default:
		return 0
	}
}

func (d Difficulty) valid() bool {
	return d == DifficultyBeginner || d == DifficultyIntermediate || d == DifficultyAdvanced
}

// Type represents the focus of a workout session.
type Type string

// Workout type constants.
const (
	WorkoutTypeStrength    Type = "strength"
	WorkoutTypeHypertrophy Type = "hypertrophy"
	WorkoutTypeEndurance   Type = "endurance"
	WorkoutTypeHIIT        Type = "hiit"
	WorkoutTypeCardio      Type = "cardio"
	WorkoutTypeMobility    Type = "mobility"
	WorkoutTypeRest        Type = "rest"
)

func (t Type) isCardioLike() bool {
	return t == WorkoutTypeCardio || t == WorkoutTypeHIIT
}

func (t Type) isStrengthLike() bool {
	return t == WorkoutTypeStrength || t == WorkoutTypeHypertrophy
}

// Goal is the user's primary objective.
type Goal string

const (
	GoalLoseWeight    Goal = "lose_weight"
	GoalBuildMuscle   Goal = "build_muscle"
	GoalMaintain      Goal = "maintain"
	GoalImproveHealth Goal = "improve_health"
)

// CardioPreference is the user's chosen style of cardiovascular training.
type CardioPreference string

const (
	CardioWalking CardioPreference = "walking"
	CardioRunning CardioPreference = "running"
	CardioHIIT    CardioPreference = "hiit"
)

// InjuryArea is a body area the user needs to protect.
type InjuryArea string

const (
	InjuryKnee      InjuryArea = "knee"
	InjuryLowerBack InjuryArea = "lower_back"
	InjuryShoulder  InjuryArea = "shoulder"
	InjuryWrist     InjuryArea = "wrist"
	InjuryElbow     InjuryArea = "elbow"
	InjuryAnkle     InjuryArea = "ankle"
	InjuryHip       InjuryArea = "hip"
	InjuryNeck      InjuryArea = "neck"
)

// Sex selects the strength reference table.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// StrengthLevel is the user's self-reported lifting level.
type StrengthLevel string

const (
	StrengthBeginner     StrengthLevel = "beginner"
	StrengthIntermediate StrengthLevel = "intermediate"
	StrengthAdvanced     StrengthLevel = "advanced"
)

// Exercise represents a single exercise type, e.g. Squat, Bench Press, etc.
type Exercise struct {
	ID                string             `json:"id"                      yaml:"id"`
	Name              string             `json:"name"                    yaml:"name"`
	MuscleGroups      []MuscleGroup      `json:"muscle_groups"           yaml:"muscle_groups"`
	Category          ExerciseCategory   `json:"category"                yaml:"category"`
	Equipment         Equipment          `json:"equipment"               yaml:"equipment"`
	Difficulty        Difficulty         `json:"difficulty"              yaml:"difficulty"`
	CaloriesPerMinute float64            `json:"calories_per_minute"     yaml:"calories_per_minute"`
	CardioStyles      []CardioPreference `json:"cardio_styles,omitempty" yaml:"cardio_styles"`
	// Instructions is display-only markdown attached after generation.
	Instructions string `json:"instructions,omitempty" yaml:"-"`
}

func (e Exercise) clone() Exercise {
	e.MuscleGroups = slices.Clone(e.MuscleGroups)
	e.CardioStyles = slices.Clone(e.CardioStyles)
	return e
}

// Targets reports whether the exercise trains group.
func (e Exercise) Targets(group MuscleGroup) bool {
	return slices.Contains(e.MuscleGroups, group)
}

// DayStructure is one entry of a program's week.
type DayStructure struct {
	DayIndex     int           `json:"day_index"     yaml:"day_index"`
	WorkoutType  Type          `json:"workout_type"  yaml:"workout_type"`
	MuscleGroups []MuscleGroup `json:"muscle_groups" yaml:"muscle_groups"`
}

// ProgramTemplate describes a multi-day weekly structure.
type ProgramTemplate struct {
	ID              string         `json:"id"               yaml:"id"`
	Name            string         `json:"name"             yaml:"name"`
	DaysPerWeek     int            `json:"days_per_week"    yaml:"days_per_week"`
	DurationWeeks   int            `json:"duration_weeks"   yaml:"duration_weeks"`
	Difficulty      Difficulty     `json:"difficulty"       yaml:"difficulty"`
	TargetGoals     []Goal         `json:"target_goals"     yaml:"target_goals"`
	WeeklyStructure []DayStructure `json:"weekly_structure" yaml:"weekly_structure"`
}

func (p ProgramTemplate) clone() ProgramTemplate {
	p.TargetGoals = slices.Clone(p.TargetGoals)
	structure := make([]DayStructure, len(p.WeeklyStructure))
	for i, d := range p.WeeklyStructure {
		d.MuscleGroups = slices.Clone(d.MuscleGroups)
		structure[i] = d
	}
	p.WeeklyStructure = structure
	return p
}

// Preferences is the per-request input derived by the caller from the user's goal data.
type Preferences struct {
	PrimaryGoal        Goal             `json:"primary_goal"`
	WorkoutsPerWeek    int              `json:"workouts_per_week"`
	WorkoutDuration    int              `json:"workout_duration"`
	FitnessLevel       Difficulty       `json:"fitness_level"`
	AvailableEquipment []Equipment      `json:"available_equipment,omitempty"`
	Injuries           []InjuryArea     `json:"injuries,omitempty"`
	CardioPreference   CardioPreference `json:"cardio_preference,omitempty"`

	// Optional strength baseline.
	Sex                  Sex           `json:"sex,omitempty"`
	Age                  *int          `json:"age,omitempty"`
	HasLiftingExperience bool          `json:"has_lifting_experience,omitempty"`
	StrengthLevel        StrengthLevel `json:"strength_level,omitempty"`
	BenchPress1RM        *float64      `json:"bench_press_1rm,omitempty"`
	Squat1RM             *float64      `json:"squat_1rm,omitempty"`
	Deadlift1RM          *float64      `json:"deadlift_1rm,omitempty"`

	ProgramDurationWeeks *int `json:"program_duration_weeks,omitempty"`
	// ProgramID pins the program instead of letting the program selector choose.
	ProgramID string `json:"program_id,omitempty"`
}

// Default values for missing preference fields.
const (
	DefaultWorkoutDuration  = 45
	DefaultFitnessLevel     = DifficultyBeginner
	DefaultCardioPreference = CardioWalking
	MaxWorkoutsPerWeek      = 7
)

// WithDefaults returns a copy of p with missing fields filled in.
func (p Preferences) WithDefaults() Preferences {
	if !p.FitnessLevel.valid() {
		p.FitnessLevel = DefaultFitnessLevel
	}
	if p.WorkoutDuration <= 0 {
		p.WorkoutDuration = DefaultWorkoutDuration
	}
	if p.CardioPreference == "" {
		p.CardioPreference = DefaultCardioPreference
	}
	p.WorkoutsPerWeek = min(max(p.WorkoutsPerWeek, 0), MaxWorkoutsPerWeek)
	if len(p.AvailableEquipment) == 0 {
		p.AvailableEquipment = []Equipment{EquipmentBodyweight}
	} else {
		p.AvailableEquipment = slices.Clone(p.AvailableEquipment)
	}
	p.Injuries = slices.Clone(p.Injuries)
	return p
}

// WorkoutExercise is one line item inside a Workout.
type WorkoutExercise struct {
	ExerciseID  string   `json:"exercise_id"`
	Exercise    Exercise `json:"exercise"`
	Sets        int      `json:"sets"`
	Reps        string   `json:"reps"`
	RestSeconds int      `json:"rest_seconds"`
	Weight      string   `json:"weight,omitempty"`
	Completed   bool     `json:"completed"`
}

// Workout is one day's training session.
type Workout struct {
	ID                      string            `json:"id"`
	Name                    string            `json:"name"`
	Type                    Type              `json:"type"`
	Duration                int               `json:"duration"`
	EstimatedCaloriesBurned int               `json:"estimated_calories_burned"`
	MuscleGroupsFocused     []MuscleGroup     `json:"muscle_groups_focused"`
	Difficulty              Difficulty        `json:"difficulty"`
	Exercises               []WorkoutExercise `json:"exercises"`
	Completed               bool              `json:"completed"`
}

// TrainingDay is a single day of a weekly plan. IsRestDay is true exactly when Workout is nil.
type TrainingDay struct {
	DayOfWeek string    `json:"day_of_week"`
	DayNumber int       `json:"day_number"`
	Date      time.Time `json:"date"`
	Workout   *Workout  `json:"workout"`
	IsRestDay bool      `json:"is_rest_day"`
}

// WeeklyTrainingPlan is seven days ordered Monday to Sunday.
type WeeklyTrainingPlan struct {
	ID                  string        `json:"id"`
	ProgramID           string        `json:"program_id"`
	WeekNumber          int           `json:"week_number"`
	StartDate           time.Time     `json:"start_date"`
	EndDate             time.Time     `json:"end_date"`
	Days                []TrainingDay `json:"days"`
	TotalWorkouts       int           `json:"total_workouts"`
	CompletedWorkouts   int           `json:"completed_workouts"`
	TotalCaloriesBurned int           `json:"total_calories_burned"`
	FocusAreas          []MuscleGroup `json:"focus_areas"`
}

// GoalAlignment scores how well a weekly plan serves the primary goal.
type GoalAlignment struct {
	CalorieDeficitSupport int      `json:"calorie_deficit_support"`
	MusclePreservation    int      `json:"muscle_preservation"`
	MuscleGrowthPotential int      `json:"muscle_growth_potential"`
	CardiovascularHealth  int      `json:"cardiovascular_health"`
	OverallAlignment      int      `json:"overall_alignment"`
	Recommendations       []string `json:"recommendations"`
}
