package evaluators

import (
	"math"

	"github.com/Givikap120/danser-reading/app/rulesets/osu/performance/reading/preprocessing"
	"github.com/Givikap120/danser-reading/framework/math/mutils"
)

const (
	reading_window_size           float64 = 3000
	fade_out_duration_multiplier  float64 = 0.3
	constant_angle_time_limit     float64 = 2000
	constant_angle_time_limit_low float64 = 200
)

// EvaluateReadingDifficultyOf rates how hard current is to read given how many earlier objects are on screen with it.
// Playback rate is estimated from current's timings.
func EvaluateReadingDifficultyOf(current *preprocessing.DifficultyObject, diffObjects []*preprocessing.DifficultyObject, hidden bool, preempt, fadeIn float64) float64 {
	return EvaluateReadingDifficultyAtRateOf(current, diffObjects, hidden, preempt, fadeIn, 0)
}

// EvaluateReadingDifficultyAtRateOf is EvaluateReadingDifficultyOf with a known playback rate.
// clockRate <= 0 falls back to the start time / strain time estimate.
func EvaluateReadingDifficultyAtRateOf(current *preprocessing.DifficultyObject, diffObjects []*preprocessing.DifficultyObject, hidden bool, preempt, fadeIn, clockRate float64) float64 {
	// If the current object is a Spinner or it's the first object (index 0), return 0 difficulty
	if current.IsSpinner || current.Index == 0 {
		return 0
	}

	currVelocity := current.LazyJumpDistance / current.StrainTime

	if clockRate <= 0 {
		clockRate = estimateClockRate(current)
	}

	pastObjectDifficultyInfluence := 1.0

	for i := current.Index - 1; i >= 0; i-- {
		loopObj := diffObjects[i]

		if current.StartTime-loopObj.StartTime > reading_window_size || loopObj.StartTime < current.StartTime-current.Preempt {
			break
		}

		loopDifficulty := current.OpacityAt(loopObj.StartTime, false, preempt, fadeIn)

		// Small distances means objects may be cheesed, so it doesn't matter whether they are arranged confusingly.
		loopDifficulty *= logistic((loopObj.MinimumJumpDistance - 80) / 15)

		timeBetweenCurrAndLoopObj := (current.StartTime - loopObj.StartTime) / clockRate
		loopDifficulty *= getTimeNerfFactor(timeBetweenCurrAndLoopObj)

		pastObjectDifficultyInfluence += loopDifficulty
	}

	noteDensityDifficulty := math.Pow(3*math.Log(math.Max(pastObjectDifficultyInfluence-1, 1)), 2.3)

	hiddenDifficulty := 0.0

	if hidden {
		timeSpentInvisible := getDurationSpentInvisible(current) / clockRate
		timeDifficultyFactor := 800 / pastObjectDifficultyInfluence

		hiddenDifficulty += math.Pow(7*timeSpentInvisible/timeDifficultyFactor, 1) + 2*currVelocity
	}

	difficulty := hiddenDifficulty + noteDensityDifficulty
	difficulty *= getConstantAngleNerfFactor(current, diffObjects)

	return difficulty
}

// estimateClockRate stands in for the real playback rate and is kept as is to stay reproducible.
func estimateClockRate(current *preprocessing.DifficultyObject) float64 {
	return current.StartTime / current.StrainTime
}

func getConstantAngleNerfFactor(current *preprocessing.DifficultyObject, diffObjects []*preprocessing.DifficultyObject) float64 {
	constantAngleCount := 0.0
	currentTimeGap := 0.0

	for index := 0; currentTimeGap < constant_angle_time_limit; index++ {
		loopObj := preprocessing.Previous(diffObjects, current.Index, index)
		if loopObj == nil {
			break
		}

		longIntervalFactor := mutils.Clamp(1-(loopObj.StrainTime-constant_angle_time_limit_low)/(constant_angle_time_limit-constant_angle_time_limit_low), 0, 1.1)

		if loopObj.Angle.Valid && current.Angle.Valid {
			angleDifference := math.Abs(loopObj.Angle.Value - current.Angle.Value)
			constantAngleCount += math.Cos(4*math.Min(math.Pi/8, angleDifference)) * longIntervalFactor
		}

		currentTimeGap = current.StartTime - loopObj.StartTime
	}

	// count of 0 divides to +Inf, which min turns into no nerf
	return math.Pow(math.Min(2/constantAngleCount, 1), 2)
}

// getDurationSpentInvisible is the time from the object's fade in start until the end of its hidden fade out.
func getDurationSpentInvisible(current *preprocessing.DifficultyObject) float64 {
	fadeOutStartTime := current.StartTime - current.Preempt + current.FadeIn
	fadeOutDuration := current.Preempt * fade_out_duration_multiplier

	return (fadeOutStartTime + fadeOutDuration) - (current.StartTime - current.Preempt)
}

func getTimeNerfFactor(deltaTime float64) float64 {
	return mutils.Clamp(2.0-deltaTime/(reading_window_size/2), 0.0, 1.0)
}

func logistic(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
