package reading

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/Givikap120/danser-reading/app/beatmap/difficulty"
	"github.com/Givikap120/danser-reading/app/beatmap/objects"
	"github.com/Givikap120/danser-reading/app/rulesets/osu/performance/api"
	"github.com/Givikap120/danser-reading/app/rulesets/osu/performance/reading/preprocessing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	// StarScalingFactor is a global stars multiplier
	StarScalingFactor float64 = 0.0668
	CurrentVersion    int     = 20241105

	tracerName = "github.com/Givikap120/danser-reading/reading"
)

type DifficultyCalculator struct {
	// Parallel evaluates objects concurrently in CalculateSingle
	Parallel bool

	// Workers limits parallel evaluation, 0 uses all logical cores
	Workers int

	// ExplicitClockRate evaluates at the real playback rate instead of the per object estimate
	ExplicitClockRate bool
}

func NewDifficultyCalculator() api.IDifficultyCalculator {
	return &DifficultyCalculator{}
}

// getStarsFromRawValues converts raw skill values to Attributes
func (diffCalc *DifficultyCalculator) getStarsFromRawValues(rawReading float64, diff *difficulty.Difficulty, attr api.Attributes) api.Attributes {
	readingRating := math.Sqrt(rawReading) * StarScalingFactor

	if diff.CheckModActive(difficulty.TouchDevice) {
		readingRating = math.Pow(readingRating, 0.8)
	}

	if diff.CheckModActive(difficulty.Relax) {
		readingRating *= 0.7
	}

	attr.Reading = readingRating
	attr.ClockRate = diff.Speed
	attr.Preempt = diff.PreemptU / diff.Speed
	attr.FadeIn = diff.TimeFadeIn / diff.Speed
	attr.Hidden = diff.CheckModActive(difficulty.Hidden)

	return attr
}

// Retrieves skill values and converts to Attributes
func (diffCalc *DifficultyCalculator) getStars(skills *SkillsProcessor, diff *difficulty.Difficulty, attr api.Attributes) api.Attributes {
	rawReading := skills.Reading.DifficultyValue()

	attr = diffCalc.getStarsFromRawValues(rawReading, diff, attr)
	attr.ReadingDifficultStrainCount = skills.Reading.CountDifficultStrainsAt(rawReading)

	return attr
}

func addObjectToAttribs(o objects.IHitObject, attr *api.Attributes) {
	switch obj := o.(type) {
	case *objects.Slider:
		attr.Sliders++
		attr.MaxCombo += obj.ScorePoints
	case *objects.Circle:
		attr.Circles++
	case *objects.Spinner:
		attr.Spinners++
	}

	attr.MaxCombo++
	attr.ObjectCount++
}

// ObjectAttributes counts objects and max combo of a map without rating it
func ObjectAttributes(hitObjects []objects.IHitObject) (attr api.Attributes) {
	for _, o := range hitObjects {
		addObjectToAttribs(o, &attr)
	}

	return
}

func (diffCalc *DifficultyCalculator) newSkillsProcessor(diff *difficulty.Difficulty) *SkillsProcessor {
	return NewSkillsProcessor(diff, diffCalc.ExplicitClockRate, diffCalc.Workers)
}

// CalculateSingle calculates the final difficulty api.Attributes of a map
func (diffCalc *DifficultyCalculator) CalculateSingle(objects []objects.IHitObject, diff *difficulty.Difficulty) api.Attributes {
	attr, err := diffCalc.CalculateSingleContext(context.Background(), objects, diff)
	if err != nil {
		log.Println("Reading calculation failed:", err)
	}

	return attr
}

// CalculateSingleContext is CalculateSingle that can be cancelled while evaluating in parallel
func (diffCalc *DifficultyCalculator) CalculateSingleContext(ctx context.Context, objects []objects.IHitObject, diff *difficulty.Difficulty) (attr api.Attributes, err error) {
	_, span := otel.Tracer(tracerName).Start(ctx, "reading.CalculateSingle")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		span.End()
	}()

	span.SetAttributes(
		attribute.String("mods", difficulty.GetDiffMaskedMods(diff.Mods).String()),
		attribute.Int("objects", len(objects)),
		attribute.Bool("parallel", diffCalc.Parallel),
	)

	if len(objects) == 0 {
		return diffCalc.getStarsFromRawValues(0, diff, attr), nil
	}

	diffObjects := preprocessing.CreateDifficultyObjects(objects, diff)

	skills := diffCalc.newSkillsProcessor(diff)

	attr = ObjectAttributes(objects)

	if diffCalc.Parallel {
		if err = skills.ProcessAll(ctx, diffObjects); err != nil {
			return attr, err
		}
	} else {
		for _, o := range diffObjects {
			skills.Process(o, diffObjects)
		}
	}

	attr = diffCalc.getStars(skills, diff, attr)

	span.SetAttributes(attribute.Float64("reading", attr.Reading))

	return attr, nil
}

// CalculateStep calculates successive star ratings for every part of a beatmap
func (diffCalc *DifficultyCalculator) CalculateStep(objects []objects.IHitObject, diff *difficulty.Difficulty) []api.Attributes {
	if len(objects) == 0 {
		return nil
	}

	modString := difficulty.GetDiffMaskedMods(diff.Mods).String()
	if modString == "" {
		modString = "NM"
	}

	log.Println("Calculating step reading SR for mods:", modString)

	startTime := time.Now()

	diffObjects := preprocessing.CreateDifficultyObjects(objects, diff)

	skills := diffCalc.newSkillsProcessor(diff)

	stars := make([]api.Attributes, 1, len(objects))

	addObjectToAttribs(objects[0], &stars[0])
	stars[0] = diffCalc.getStarsFromRawValues(0, diff, stars[0])

	for i, o := range diffObjects {
		attr := stars[i]
		addObjectToAttribs(objects[i+1], &attr)

		skills.Process(o, diffObjects)

		stars = append(stars, diffCalc.getStars(skills, diff, attr))
	}

	endTime := time.Now()

	log.Println("Calculations finished! Took ", endTime.Sub(startTime).Truncate(time.Millisecond).String())

	return stars
}

func (diffCalc *DifficultyCalculator) CalculateStrainPeaks(objects []objects.IHitObject, diff *difficulty.Difficulty) api.StrainPeaks {
	diffObjects := preprocessing.CreateDifficultyObjects(objects, diff)

	skills := diffCalc.newSkillsProcessor(diff)

	peaks := api.StrainPeaks{
		Total: make([]float64, 0, len(diffObjects)),
	}

	for _, o := range diffObjects {
		skills.Process(o, diffObjects)

		peaks.Total = append(peaks.Total, diffCalc.getStarsFromRawValues(skills.Reading.DifficultyValue(), diff, api.Attributes{}).Reading)
	}

	peaks.Reading = skills.Reading.GetObjectDifficulties()

	return peaks
}

func (diffCalc *DifficultyCalculator) GetVersion() int {
	return CurrentVersion
}

func (diffCalc *DifficultyCalculator) GetVersionMessage() string {
	return "2024-11-05: reading skill with constant angle nerf"
}
