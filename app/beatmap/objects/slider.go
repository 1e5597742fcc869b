package objects

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Slider follows its control points as a polyline truncated to PixelLength.
// Curved paths are approximated by their control polygon.
type Slider struct {
	*HitObject

	Points      []mgl64.Vec2
	PixelLength float64

	// RepeatCount is the number of spans, first one included
	RepeatCount int

	// ScorePoints holds ticks, repeats and the tail for max combo purposes
	ScorePoints int

	segmentLengths []float64
	pathLength     float64
}

// NewSlider creates a slider; spanDuration is the time needed to travel PixelLength once.
func NewSlider(id int, points []mgl64.Vec2, pixelLength float64, repeatCount int, startTime, spanDuration float64, tickCount int, newCombo bool) *Slider {
	repeatCount = max(1, repeatCount)

	slider := &Slider{
		HitObject: &HitObject{
			StartTime: startTime,
			EndTime:   startTime + spanDuration*float64(repeatCount),
			NewCombo:  newCombo,
			ID:        id,
		},
		Points:      points,
		PixelLength: pixelLength,
		RepeatCount: repeatCount,
	}

	slider.segmentLengths = make([]float64, 0, max(0, len(points)-1))

	for i := 1; i < len(points); i++ {
		length := points[i].Sub(points[i-1]).Len()
		slider.segmentLengths = append(slider.segmentLengths, length)
		slider.pathLength += length
	}

	if slider.PixelLength <= 0 {
		slider.PixelLength = slider.pathLength
	}

	slider.StartPosition = slider.PointAt(0)
	slider.EndPosition = slider.GetPositionAtTime(slider.EndTime)

	// ticks per span, one repeat arrow per extra span, one tail
	slider.ScorePoints = tickCount*repeatCount + (repeatCount - 1) + 1

	return slider
}

func (slider *Slider) GetType() Type { return SLIDER }

// PointAt returns the position at given fraction of PixelLength, clamped to the path.
func (slider *Slider) PointAt(t float64) mgl64.Vec2 {
	if len(slider.Points) == 0 {
		return mgl64.Vec2{}
	}

	if len(slider.Points) == 1 || slider.pathLength == 0 {
		return slider.Points[0]
	}

	desired := slider.PixelLength * math.Max(0, math.Min(1, t))

	for i, length := range slider.segmentLengths {
		if desired <= length || i == len(slider.segmentLengths)-1 {
			if length == 0 {
				return slider.Points[i+1]
			}

			progress := math.Min(desired/length, 1)

			return slider.Points[i].Add(slider.Points[i+1].Sub(slider.Points[i]).Mul(progress))
		}

		desired -= length
	}

	return slider.Points[len(slider.Points)-1]
}

// GetPositionAtTime returns slider ball position, taking repeats into account
func (slider *Slider) GetPositionAtTime(time float64) mgl64.Vec2 {
	duration := slider.GetDuration()
	if duration <= 0 {
		return slider.StartPosition
	}

	progress := math.Max(0, math.Min(1, (time-slider.StartTime)/duration)) * float64(slider.RepeatCount)

	span := math.Floor(progress)
	spanProgress := progress - span

	if progress > 0 && spanProgress == 0 {
		// exactly at a repeat or the end
		span--
		spanProgress = 1
	}

	if int(span)%2 == 1 {
		spanProgress = 1 - spanProgress
	}

	return slider.PointAt(spanProgress)
}
