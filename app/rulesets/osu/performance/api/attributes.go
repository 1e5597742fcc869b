package api

type Attributes struct {
	// Reading stars, visible next to the map's aim and speed ratings
	Reading float64

	// ReadingDifficultStrainCount approximates how many objects are close to the hardest part of the map
	ReadingDifficultStrainCount float64

	// ClockRate the map was rated at
	ClockRate float64

	// Preempt and FadeIn are rate adjusted times the rating was calculated with
	Preempt float64
	FadeIn  float64

	Hidden bool

	ObjectCount int
	Circles     int
	Sliders     int
	Spinners    int
	MaxCombo    int
}

// StrainPeaks contains reading difficulty of every object, in map order
type StrainPeaks struct {
	// Reading values as produced by the skill
	Reading []float64

	// Total contains running reading star rating after each object
	Total []float64
}
