package beatmap

import (
	"github.com/Givikap120/danser-reading/app/beatmap/difficulty"
	"github.com/Givikap120/danser-reading/app/beatmap/objects"
)

type TimingPoint struct {
	Time       float64
	BeatLength float64
	Inherited  bool
}

// SliderVelocity returns the multiplier applied to base slider velocity by an inherited point
func (point TimingPoint) SliderVelocity() float64 {
	if !point.Inherited || point.BeatLength >= 0 {
		return 1
	}

	return min(10, max(0.1, -100/point.BeatLength))
}

type BeatMap struct {
	Name    string
	Artist  string
	Creator string
	Version string

	// MD5 of the raw file, used as beatmap identity
	MD5 string

	Mode int

	SliderMultiplier float64
	SliderTickRate   float64

	Diff *difficulty.Difficulty

	TimingPoints []TimingPoint
	HitObjects   []objects.IHitObject
}

func (beatMap *BeatMap) String() string {
	return beatMap.Artist + " - " + beatMap.Name + " [" + beatMap.Version + "]"
}

// timingAt returns the active uninherited beat length and inherited velocity multiplier at given time
func (beatMap *BeatMap) timingAt(time float64) (beatLength, velocity float64) {
	beatLength, velocity = 500, 1

	found := false

	for _, point := range beatMap.TimingPoints {
		if point.Time > time && found {
			break
		}

		if !point.Inherited {
			beatLength = point.BeatLength
			velocity = 1
			found = true
		} else if point.Time <= time {
			velocity = point.SliderVelocity()
		}
	}

	return
}
