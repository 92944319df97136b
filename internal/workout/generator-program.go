package workout

import (
	"math"
	"slices"
)

const daysMismatchPenalty = 10

// SelectProgram picks the program template that best fits prefs. It always returns a program.
//
// Programs recommended for the user's fitness level, goal and weekly frequency win, with ties broken by how close
// their duration is to prefs.ProgramDurationWeeks. Otherwise programs targeting the goal are ranked by how closely
// they match the weekly frequency and duration. When no program targets the goal the default program is used.
func (c *Catalog) SelectProgram(prefs Preferences) ProgramTemplate {
	prefs = prefs.WithDefaults()
	target := 0
	if prefs.ProgramDurationWeeks != nil {
		target = *prefs.ProgramDurationWeeks
	}

	if p, ok := c.recommendedProgram(prefs, target); ok {
		return p
	}
	if p, ok := c.closestGoalProgram(prefs, target); ok {
		return p
	}
	return c.DefaultProgram()
}

func (c *Catalog) recommendedProgram(prefs Preferences, targetWeeks int) (ProgramTemplate, bool) {
	for _, r := range c.recommendations {
		if r.FitnessLevel != prefs.FitnessLevel || r.Goal != prefs.PrimaryGoal || r.WorkoutsPerWeek != prefs.WorkoutsPerWeek {
			continue
		}
		var (
			best      ProgramTemplate
			bestScore = math.MaxInt
		)
		for _, id := range r.Programs {
			p, ok := c.Program(id)
			if !ok {
				continue
			}
			score := 0
			if targetWeeks > 0 {
				score = abs(p.DurationWeeks - targetWeeks)
			}
			if score < bestScore {
				best, bestScore = p, score
			}
		}
		if bestScore != math.MaxInt {
			return best, true
		}
	}
	return ProgramTemplate{}, false
}

func (c *Catalog) closestGoalProgram(prefs Preferences, targetWeeks int) (ProgramTemplate, bool) {
	bestIdx, bestScore := -1, math.MaxInt
	for i, p := range c.programs {
		if !slices.Contains(p.TargetGoals, prefs.PrimaryGoal) {
			continue
		}
		score := daysMismatchPenalty * abs(p.DaysPerWeek-prefs.WorkoutsPerWeek)
		if targetWeeks > 0 {
			score += abs(p.DurationWeeks - targetWeeks)
		}
		if score < bestScore {
			bestIdx, bestScore = i, score
		}
	}
	if bestIdx < 0 {
		return ProgramTemplate{}, false
	}
	return c.programs[bestIdx].clone(), true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
