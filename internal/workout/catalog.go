package workout

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"sync"

	"github.com/myrjola/trainplan/internal/errors"
	"gopkg.in/yaml.v3"
)

//go:embed catalog/exercises.yaml catalog/programs.yaml
var embeddedCatalog embed.FS

const (
	exercisesFile = "exercises.yaml"
	programsFile  = "programs.yaml"
	daysInWeek    = 7
)

// Recommendation lists the preferred programs for one (fitness level, goal, workouts per week) combination.
type Recommendation struct {
	FitnessLevel    Difficulty `yaml:"fitness_level"`
	Goal            Goal       `yaml:"goal"`
	WorkoutsPerWeek int        `yaml:"workouts_per_week"`
	Programs        []string   `yaml:"programs"`
}

type exercisesDocument struct {
	Exercises []Exercise `yaml:"exercises"`
}

type programsDocument struct {
	DefaultProgram  string            `yaml:"default_program"`
	Programs        []ProgramTemplate `yaml:"programs"`
	Recommendations []Recommendation  `yaml:"recommendations"`
}

// Catalog is the immutable set of exercises and program templates the generator draws from.
//
// Accessors return copies so that callers cannot mutate the catalog.
type Catalog struct {
	exercises       []Exercise
	exerciseIndex   map[string]int
	programs        []ProgramTemplate
	programIndex    map[string]int
	recommendations []Recommendation
	defaultProgram  string
}

// NewCatalog validates the given data and builds a catalog from it.
func NewCatalog(
	exercises []Exercise,
	programs []ProgramTemplate,
	recommendations []Recommendation,
	defaultProgram string,
) (*Catalog, error) {
	c := &Catalog{
		exercises:       make([]Exercise, 0, len(exercises)),
		exerciseIndex:   make(map[string]int, len(exercises)),
		programs:        make([]ProgramTemplate, 0, len(programs)),
		programIndex:    make(map[string]int, len(programs)),
		recommendations: nil,
		defaultProgram:  defaultProgram,
	}

	var errs []error
	for _, ex := range exercises {
		if err := validateExercise(ex); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, ok := c.exerciseIndex[ex.ID]; ok {
			errs = append(errs, fmt.Errorf("duplicate exercise %q", ex.ID))
			continue
		}
		c.exerciseIndex[ex.ID] = len(c.exercises)
		c.exercises = append(c.exercises, ex.clone())
	}

	for _, p := range programs {
		p = p.clone()
		if err := validateProgram(&p); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, ok := c.programIndex[p.ID]; ok {
			errs = append(errs, fmt.Errorf("duplicate program %q", p.ID))
			continue
		}
		c.programIndex[p.ID] = len(c.programs)
		c.programs = append(c.programs, p)
	}

	if _, ok := c.programIndex[defaultProgram]; !ok {
		errs = append(errs, fmt.Errorf("default program %q not found", defaultProgram))
	}

	for _, r := range recommendations {
		for _, id := range r.Programs {
			if _, ok := c.programIndex[id]; !ok {
				errs = append(errs, fmt.Errorf("recommendation for %s/%s/%d references unknown program %q",
					r.FitnessLevel, r.Goal, r.WorkoutsPerWeek, id))
			}
		}
		r.Programs = slices.Clone(r.Programs)
		c.recommendations = append(c.recommendations, r)
	}

	if len(errs) > 0 {
		return nil, errors.Wrap(errors.Join(errs...), "invalid catalog")
	}
	return c, nil
}

func validateExercise(ex Exercise) error {
	switch {
	case ex.ID == "":
		return fmt.Errorf("exercise %q has no id", ex.Name)
	case ex.Name == "":
		return fmt.Errorf("exercise %q has no name", ex.ID)
	case len(ex.MuscleGroups) == 0:
		return fmt.Errorf("exercise %q has no muscle groups", ex.ID)
	case ex.Equipment == "":
		return fmt.Errorf("exercise %q has no equipment", ex.ID)
	case !ex.Difficulty.valid():
		return fmt.Errorf("exercise %q has invalid difficulty %q", ex.ID, ex.Difficulty)
	case ex.CaloriesPerMinute < 0:
		return fmt.Errorf("exercise %q has negative calories per minute", ex.ID)
	}
	return nil
}

// validateProgram checks the weekly structure and assigns the day indices.
func validateProgram(p *ProgramTemplate) error {
	if p.ID == "" {
		return fmt.Errorf("program %q has no id", p.Name)
	}
	if len(p.WeeklyStructure) != daysInWeek {
		return fmt.Errorf("program %q has %d days in its weekly structure, want %d",
			p.ID, len(p.WeeklyStructure), daysInWeek)
	}
	trainingDays := 0
	for i := range p.WeeklyStructure {
		day := &p.WeeklyStructure[i]
		day.DayIndex = i
		if day.WorkoutType == "" {
			return fmt.Errorf("program %q day %d has no workout type", p.ID, i)
		}
		if day.WorkoutType != WorkoutTypeRest {
			trainingDays++
		}
	}
	if p.DaysPerWeek == 0 {
		p.DaysPerWeek = trainingDays
	}
	if p.DaysPerWeek != trainingDays {
		return fmt.Errorf("program %q declares %d days per week but schedules %d", p.ID, p.DaysPerWeek, trainingDays)
	}
	if !p.Difficulty.valid() {
		return fmt.Errorf("program %q has invalid difficulty %q", p.ID, p.Difficulty)
	}
	return nil
}

// ParseCatalog decodes the YAML documents of an exercise and a program catalog.
func ParseCatalog(exercisesYAML, programsYAML []byte) (*Catalog, error) {
	var exDoc exercisesDocument
	if err := decodeStrict(exercisesYAML, &exDoc); err != nil {
		return nil, errors.Wrap(err, "decode exercises")
	}
	var progDoc programsDocument
	if err := decodeStrict(programsYAML, &progDoc); err != nil {
		return nil, errors.Wrap(err, "decode programs")
	}
	return NewCatalog(exDoc.Exercises, progDoc.Programs, progDoc.Recommendations, progDoc.DefaultProgram)
}

func decodeStrict(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("yaml: %w", err)
	}
	return nil
}

// LoadCatalog reads exercises.yaml and programs.yaml from fsys.
func LoadCatalog(fsys fs.FS) (*Catalog, error) {
	exercisesYAML, err := fs.ReadFile(fsys, exercisesFile)
	if err != nil {
		return nil, errors.Wrap(err, "read exercises")
	}
	programsYAML, err := fs.ReadFile(fsys, programsFile)
	if err != nil {
		return nil, errors.Wrap(err, "read programs")
	}
	return ParseCatalog(exercisesYAML, programsYAML)
}

// LoadCatalogDir is [LoadCatalog] for a directory on disk.
func LoadCatalogDir(dir string) (*Catalog, error) {
	return LoadCatalog(os.DirFS(dir))
}

//nolint:gochecknoglobals // the embedded catalog is parsed once and never mutated.
var defaultCatalog = sync.OnceValue(func() *Catalog {
	sub, err := fs.Sub(embeddedCatalog, "catalog")
	if err != nil {
		panic(err)
	}
	c, err := LoadCatalog(sub)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
})

// DefaultCatalog returns the catalog embedded in the binary.
func DefaultCatalog() *Catalog {
	return defaultCatalog()
}

// Exercises returns every exercise in catalog order.
func (c *Catalog) Exercises() []Exercise {
	out := make([]Exercise, len(c.exercises))
	for i, ex := range c.exercises {
		out[i] = ex.clone()
	}
	return out
}

// Exercise looks up an exercise by id.
func (c *Catalog) Exercise(id string) (Exercise, bool) {
	i, ok := c.exerciseIndex[id]
	if !ok {
		return Exercise{}, false
	}
	return c.exercises[i].clone(), true
}

// Programs returns every program template in catalog order.
func (c *Catalog) Programs() []ProgramTemplate {
	out := make([]ProgramTemplate, len(c.programs))
	for i, p := range c.programs {
		out[i] = p.clone()
	}
	return out
}

// Program looks up a program template by id.
func (c *Catalog) Program(id string) (ProgramTemplate, bool) {
	i, ok := c.programIndex[id]
	if !ok {
		return ProgramTemplate{}, false
	}
	return c.programs[i].clone(), true
}

// DefaultProgram is the program used when nothing else fits.
func (c *Catalog) DefaultProgram() ProgramTemplate {
	p, _ := c.Program(c.defaultProgram)
	return p
}
