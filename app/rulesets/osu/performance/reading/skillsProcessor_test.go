package reading

import (
	"math"
	"testing"

	"github.com/Givikap120/danser-reading/app/beatmap/difficulty"
	"github.com/Givikap120/danser-reading/app/beatmap/objects"
	"github.com/Givikap120/danser-reading/app/rulesets/osu/performance/reading/preprocessing"
	"github.com/go-gl/mathgl/mgl64"
)

func TestExplicitClockRateUsesRealTime(t *testing.T) {
	// objects on the same spot and further apart than preempt, so only time spent invisible adds difficulty
	position := mgl64.Vec2{256, 192}

	hitObjects := []objects.IHitObject{
		objects.NewCircle(0, position, 1000, true),
		objects.NewCircle(1, position, 4000, false),
		objects.NewCircle(2, position, 7000, false),
	}

	for _, mods := range []difficulty.Modifier{difficulty.Hidden, difficulty.Hidden | difficulty.DoubleTime, difficulty.Hidden | difficulty.HalfTime} {
		diff := testDifficulty(mods)

		diffObjects := preprocessing.CreateDifficultyObjects(hitObjects, diff)

		skills := NewSkillsProcessor(diff, true, 1)
		for _, o := range diffObjects {
			skills.Process(o, diffObjects)
		}

		// time from fade in start until fully faded out, in real milliseconds
		invisible := (diff.TimeFadeIn + difficulty.HiddenFadeOut*diff.PreemptU) / diff.Speed
		expected := 7 * invisible / 800 * 2.4

		if got := skills.Reading.GetObjectDifficulties()[1]; math.Abs(got-expected) > 1e-9 {
			t.Errorf("%s: difficulty = %v, expected %v", mods, got, expected)
		}
	}
}
