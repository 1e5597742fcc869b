package preprocessing

import (
	"math"

	"github.com/Givikap120/danser-reading/app/beatmap/difficulty"
	"github.com/Givikap120/danser-reading/app/beatmap/objects"
	"github.com/Givikap120/danser-reading/framework/math/mutils"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	NormalizedRadius        = 50.0
	CircleSizeBuffThreshold = 30.0
	MinDeltaTime            = 25

	maximumSliderRadius = NormalizedRadius * 2.4
	assumedSliderRadius = NormalizedRadius * 1.8
)

// Angle is an optional movement angle. It is only Valid when two preceding objects define both movement vectors.
type Angle struct {
	Value float64
	Valid bool
}

func SomeAngle(value float64) Angle {
	return Angle{Value: value, Valid: true}
}

type DifficultyObject struct {
	listOfDiffs *[]*DifficultyObject
	Index       int

	Diff *difficulty.Difficulty

	BaseObject objects.IHitObject

	IsSlider  bool
	IsSpinner bool

	lastObject objects.IHitObject

	lastLastObject objects.IHitObject

	DeltaTime float64

	StartTime float64

	LazyJumpDistance float64

	MinimumJumpDistance float64

	Angle Angle

	StrainTime float64

	// Preempt and FadeIn are this object's own timings, adjusted by clock rate
	Preempt float64

	FadeIn float64
}

func NewDifficultyObject(hitObject, lastLastObject, lastObject objects.IHitObject, d *difficulty.Difficulty, listOfDiffs *[]*DifficultyObject, index int) *DifficultyObject {
	obj := &DifficultyObject{
		listOfDiffs:    listOfDiffs,
		Index:          index,
		Diff:           d,
		BaseObject:     hitObject,
		lastObject:     lastObject,
		lastLastObject: lastLastObject,
		DeltaTime:      (hitObject.GetStartTime() - lastObject.GetStartTime()) / d.Speed,
		StartTime:      hitObject.GetStartTime() / d.Speed,
		Preempt:        d.PreemptU / d.Speed,
		FadeIn:         d.TimeFadeIn / d.Speed,
	}

	switch hitObject.GetType() {
	case objects.SPINNER:
		obj.IsSpinner = true
	case objects.SLIDER:
		obj.IsSlider = true
	}

	obj.StrainTime = max(obj.DeltaTime, MinDeltaTime)

	obj.setDistances()

	return obj
}

// OpacityAt returns how visible this object is at given time, 0 after it was hit.
// With hidden the object fades out right after fading in.
func (o *DifficultyObject) OpacityAt(time float64, hidden bool, preempt, fadeIn float64) float64 {
	if time > o.StartTime {
		return 0
	}

	fadeInStartTime := o.StartTime - preempt
	fadeInDuration := fadeIn

	if hidden {
		fadeOutStartTime := o.StartTime - preempt + fadeIn
		fadeOutDuration := preempt * difficulty.HiddenFadeOut

		return min(
			mutils.Clamp((time-fadeInStartTime)/fadeInDuration, 0.0, 1.0),
			1.0-mutils.Clamp((time-fadeOutStartTime)/fadeOutDuration, 0.0, 1.0),
		)
	}

	return mutils.Clamp((time-fadeInStartTime)/fadeInDuration, 0.0, 1.0)
}

func (o *DifficultyObject) Previous(backwardsIndex int) *DifficultyObject {
	if o.listOfDiffs == nil {
		return nil
	}

	return Previous(*o.listOfDiffs, o.Index, backwardsIndex)
}

// Previous returns the object backwardsIndex+1 places before index, nil past the start of the sequence.
func Previous(diffObjects []*DifficultyObject, index, backwardsIndex int) *DifficultyObject {
	i := index - (backwardsIndex + 1)

	if i < 0 || i >= len(diffObjects) {
		return nil
	}

	return diffObjects[i]
}

func (o *DifficultyObject) setDistances() {
	if o.IsSpinner || o.lastObject.GetType() == objects.SPINNER {
		return
	}

	scalingFactor := NormalizedRadius / o.Diff.CircleRadiusU

	if o.Diff.CircleRadiusU < CircleSizeBuffThreshold {
		smallCircleBonus := min(CircleSizeBuffThreshold-o.Diff.CircleRadiusU, 5.0) / 50.0
		scalingFactor *= 1.0 + smallCircleBonus
	}

	lastCursorPosition := getEndCursorPosition(o.lastObject)
	currentPosition := o.BaseObject.GetStartPosition()

	o.LazyJumpDistance = currentPosition.Mul(scalingFactor).Sub(lastCursorPosition.Mul(scalingFactor)).Len()
	o.MinimumJumpDistance = o.LazyJumpDistance

	if lastSlider, ok := o.lastObject.(*objects.Slider); ok {
		// Players either cut the slider short (lazy jump) or follow it to its end and jump from there,
		// the shorter of the two is assumed.
		tailJumpDistance := lastSlider.GetEndPosition().Sub(currentPosition).Len() * scalingFactor
		o.MinimumJumpDistance = max(0, min(o.LazyJumpDistance-(maximumSliderRadius-assumedSliderRadius), tailJumpDistance-maximumSliderRadius))
	}

	if o.lastLastObject == nil || o.lastLastObject.GetType() == objects.SPINNER {
		return
	}

	lastLastCursorPosition := getEndCursorPosition(o.lastLastObject)

	v1 := lastLastCursorPosition.Sub(o.lastObject.GetStartPosition())
	v2 := currentPosition.Sub(lastCursorPosition)
	dot := v1.Dot(v2)
	det := v1.X()*v2.Y() - v1.Y()*v2.X()

	o.Angle = SomeAngle(math.Abs(math.Atan2(det, dot)))
}

func getEndCursorPosition(obj objects.IHitObject) mgl64.Vec2 {
	if s, ok := obj.(*objects.Slider); ok {
		return s.GetEndPosition()
	}

	return obj.GetStartPosition()
}
