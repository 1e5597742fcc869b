package objects

import "github.com/go-gl/mathgl/mgl64"

type Type int

const (
	CIRCLE Type = iota
	SLIDER
	SPINNER
)

type IHitObject interface {
	GetType() Type

	GetStartTime() float64
	GetEndTime() float64
	GetDuration() float64

	GetStartPosition() mgl64.Vec2
	GetEndPosition() mgl64.Vec2

	IsNewCombo() bool
}

type HitObject struct {
	StartPosition mgl64.Vec2
	EndPosition   mgl64.Vec2

	StartTime float64
	EndTime   float64

	NewCombo bool

	ID int
}

func (hitObject *HitObject) GetStartTime() float64 { return hitObject.StartTime }

func (hitObject *HitObject) GetEndTime() float64 { return hitObject.EndTime }

func (hitObject *HitObject) GetDuration() float64 { return hitObject.EndTime - hitObject.StartTime }

func (hitObject *HitObject) GetStartPosition() mgl64.Vec2 { return hitObject.StartPosition }

func (hitObject *HitObject) GetEndPosition() mgl64.Vec2 { return hitObject.EndPosition }

func (hitObject *HitObject) IsNewCombo() bool { return hitObject.NewCombo }

type Circle struct {
	*HitObject
}

func NewCircle(id int, position mgl64.Vec2, time float64, newCombo bool) *Circle {
	return &Circle{
		HitObject: &HitObject{
			StartPosition: position,
			EndPosition:   position,
			StartTime:     time,
			EndTime:       time,
			NewCombo:      newCombo,
			ID:            id,
		},
	}
}

func (circle *Circle) GetType() Type { return CIRCLE }

type Spinner struct {
	*HitObject
}

// spinners are always centered on the 512x384 playfield
var spinnerPosition = mgl64.Vec2{256, 192}

func NewSpinner(id int, startTime, endTime float64, newCombo bool) *Spinner {
	return &Spinner{
		HitObject: &HitObject{
			StartPosition: spinnerPosition,
			EndPosition:   spinnerPosition,
			StartTime:     startTime,
			EndTime:       endTime,
			NewCombo:      newCombo,
			ID:            id,
		},
	}
}

func (spinner *Spinner) GetType() Type { return SPINNER }
