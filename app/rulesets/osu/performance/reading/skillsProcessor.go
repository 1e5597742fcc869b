package reading

import (
	"context"

	"github.com/Givikap120/danser-reading/app/beatmap/difficulty"
	"github.com/Givikap120/danser-reading/app/rulesets/osu/performance/reading/preprocessing"
	"github.com/Givikap120/danser-reading/app/rulesets/osu/performance/reading/skills"
)

type SkillsProcessor struct {
	Reading *skills.Reading

	workers int
}

// NewSkillsProcessor configures skills with rate adjusted preempt and fade in, matching difficulty object times.
// With explicitClockRate the per object rate estimate is replaced by the real rate. Times are
// already divided by d.Speed, so the evaluator gets 1 to avoid applying the rate twice.
func NewSkillsProcessor(d *difficulty.Difficulty, explicitClockRate bool, workers int) *SkillsProcessor {
	obj := &SkillsProcessor{
		Reading: skills.NewReading(d.Mods, d.PreemptU/d.Speed, d.TimeFadeIn/d.Speed),
		workers: workers,
	}

	if explicitClockRate {
		obj.Reading.ClockRate = 1
	}

	return obj
}

func (skills *SkillsProcessor) Process(current *preprocessing.DifficultyObject, diffObjects []*preprocessing.DifficultyObject) {
	skills.Reading.Process(current, diffObjects)
}

// ProcessAll processes remaining objects in parallel
func (skills *SkillsProcessor) ProcessAll(ctx context.Context, diffObjects []*preprocessing.DifficultyObject) error {
	return skills.Reading.ProcessAll(ctx, diffObjects, skills.workers)
}
