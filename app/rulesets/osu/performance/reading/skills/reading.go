package skills

import (
	"github.com/Givikap120/danser-reading/app/beatmap/difficulty"
	"github.com/Givikap120/danser-reading/app/rulesets/osu/performance/reading/evaluators"
	"github.com/Givikap120/danser-reading/app/rulesets/osu/performance/reading/preprocessing"
)

const readingSkillMultiplier float64 = 2.4

// Reading accumulates reading difficulty of every object in a map
type Reading struct {
	*Skill

	hidden  bool
	preempt float64
	fadeIn  float64

	// ClockRate divides time gaps between objects when positive, replacing the per object estimate.
	// Objects with rate adjusted times need 1.
	ClockRate float64
}

func NewReading(mods difficulty.Modifier, preempt, fadeIn float64) *Reading {
	return &Reading{
		Skill:   NewSkill(),
		hidden:  mods.Active(difficulty.Hidden),
		preempt: preempt,
		fadeIn:  fadeIn,
	}
}

// Process evaluates current and appends the result. Objects have to be processed in index order.
func (skill *Reading) Process(current *preprocessing.DifficultyObject, diffObjects []*preprocessing.DifficultyObject) {
	skill.add(skill.evaluate(current, diffObjects))
}

func (skill *Reading) evaluate(current *preprocessing.DifficultyObject, diffObjects []*preprocessing.DifficultyObject) float64 {
	return evaluators.EvaluateReadingDifficultyAtRateOf(current, diffObjects, skill.hidden, skill.preempt, skill.fadeIn, skill.ClockRate) * readingSkillMultiplier
}

func (skill *Reading) IsHidden() bool {
	return skill.hidden
}
