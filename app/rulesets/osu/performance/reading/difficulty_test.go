package reading

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/Givikap120/danser-reading/app/beatmap/difficulty"
	"github.com/Givikap120/danser-reading/app/beatmap/objects"
	"github.com/go-gl/mathgl/mgl64"
)

func testMap(count int) []objects.IHitObject {
	random := rand.New(rand.NewSource(7))

	hitObjects := make([]objects.IHitObject, 0, count)
	time := 500.0

	for i := 0; i < count; i++ {
		position := mgl64.Vec2{random.Float64() * 512, random.Float64() * 384}

		switch {
		case i%50 == 49:
			hitObjects = append(hitObjects, objects.NewSpinner(i, time, time+1000, true))
			time += 1000
		case i%5 == 0:
			end := mgl64.Vec2{random.Float64() * 512, random.Float64() * 384}
			hitObjects = append(hitObjects, objects.NewSlider(i, []mgl64.Vec2{position, end}, position.Sub(end).Len(), 1, time, 300, 1, i%4 == 0))
			time += 300
		default:
			hitObjects = append(hitObjects, objects.NewCircle(i, position, time, i%4 == 0))
		}

		time += 100 + float64(random.Intn(300))
	}

	return hitObjects
}

func testDifficulty(mods difficulty.Modifier) *difficulty.Difficulty {
	diff := difficulty.NewDifficulty(5, 4, 8, 9)
	diff.SetMods(mods)

	return diff
}

func TestCalculateSingleCounts(t *testing.T) {
	hitObjects := testMap(200)

	attr := NewDifficultyCalculator().CalculateSingle(hitObjects, testDifficulty(difficulty.None))

	if attr.ObjectCount != 200 {
		t.Errorf("object count = %d, expected 200", attr.ObjectCount)
	}

	if attr.Circles+attr.Sliders+attr.Spinners != attr.ObjectCount {
		t.Errorf("object types don't add up: %+v", attr)
	}

	if attr.Spinners != 4 || attr.Sliders != 40 {
		t.Errorf("spinners = %d, sliders = %d, expected 4 and 40", attr.Spinners, attr.Sliders)
	}

	if attr.MaxCombo <= attr.ObjectCount {
		t.Errorf("max combo %d should include slider ticks", attr.MaxCombo)
	}

	if attr.Reading <= 0 || math.IsNaN(attr.Reading) || math.IsInf(attr.Reading, 0) {
		t.Errorf("reading = %v, expected positive finite value", attr.Reading)
	}

	if attr.ClockRate != 1 || attr.Hidden {
		t.Errorf("unexpected clock rate %v or hidden %v", attr.ClockRate, attr.Hidden)
	}
}

func TestCalculateSingleEmpty(t *testing.T) {
	attr := NewDifficultyCalculator().CalculateSingle(nil, testDifficulty(difficulty.None))

	if attr.Reading != 0 || attr.ObjectCount != 0 {
		t.Errorf("empty map produced %+v", attr)
	}

	if steps := NewDifficultyCalculator().CalculateStep(nil, testDifficulty(difficulty.None)); steps != nil {
		t.Errorf("empty map produced %d steps", len(steps))
	}
}

func TestHiddenIncreasesReading(t *testing.T) {
	hitObjects := testMap(300)
	calc := NewDifficultyCalculator()

	noMod := calc.CalculateSingle(hitObjects, testDifficulty(difficulty.None))
	hidden := calc.CalculateSingle(hitObjects, testDifficulty(difficulty.Hidden))

	if !hidden.Hidden {
		t.Error("hidden attributes are not marked as hidden")
	}

	if hidden.Reading <= noMod.Reading {
		t.Errorf("HD reading %v should be higher than NM reading %v", hidden.Reading, noMod.Reading)
	}
}

func TestRateAdjustedTimings(t *testing.T) {
	diff := testDifficulty(difficulty.DoubleTime)

	attr := NewDifficultyCalculator().CalculateSingle(testMap(20), diff)

	if attr.ClockRate != 1.5 {
		t.Errorf("clock rate = %v, expected 1.5", attr.ClockRate)
	}

	if math.Abs(attr.Preempt-diff.PreemptU/1.5) > 1e-9 {
		t.Errorf("preempt = %v, expected %v", attr.Preempt, diff.PreemptU/1.5)
	}
}

func TestCalculateStepMatchesSingle(t *testing.T) {
	hitObjects := testMap(150)
	diff := testDifficulty(difficulty.Hidden | difficulty.HardRock)
	calc := NewDifficultyCalculator()

	steps := calc.CalculateStep(hitObjects, diff)
	if len(steps) != len(hitObjects) {
		t.Fatalf("got %d steps, expected %d", len(steps), len(hitObjects))
	}

	if steps[0].Reading != 0 || steps[0].ObjectCount != 1 {
		t.Errorf("first step = %+v", steps[0])
	}

	for i := 1; i < len(steps); i++ {
		if steps[i].Reading < steps[i-1].Reading {
			t.Fatalf("reading decreased at step %d: %v < %v", i, steps[i].Reading, steps[i-1].Reading)
		}
	}

	single := calc.CalculateSingle(hitObjects, diff)
	if steps[len(steps)-1] != single {
		t.Errorf("last step %+v differs from single %+v", steps[len(steps)-1], single)
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	hitObjects := testMap(1500)
	diff := testDifficulty(difficulty.Hidden)

	sequential := NewDifficultyCalculator().CalculateSingle(hitObjects, diff)

	parallelCalc := &DifficultyCalculator{Parallel: true, Workers: 3}

	parallel, err := parallelCalc.CalculateSingleContext(context.Background(), hitObjects, diff)
	if err != nil {
		t.Fatalf("parallel calculation failed: %v", err)
	}

	if parallel != sequential {
		t.Errorf("parallel %+v differs from sequential %+v", parallel, sequential)
	}
}

func TestParallelCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calc := &DifficultyCalculator{Parallel: true}

	if _, err := calc.CalculateSingleContext(ctx, testMap(1000), testDifficulty(difficulty.None)); err == nil {
		t.Error("cancelled calculation returned no error")
	}
}

func TestExplicitClockRate(t *testing.T) {
	hitObjects := testMap(100)
	diff := testDifficulty(difficulty.Hidden | difficulty.DoubleTime)

	estimated := NewDifficultyCalculator().CalculateSingle(hitObjects, diff)
	explicit := (&DifficultyCalculator{ExplicitClockRate: true}).CalculateSingle(hitObjects, diff)

	if estimated.Reading == explicit.Reading {
		t.Error("explicit clock rate had no effect on hidden reading")
	}
}

func TestCalculateStrainPeaks(t *testing.T) {
	hitObjects := testMap(120)
	diff := testDifficulty(difficulty.None)
	calc := NewDifficultyCalculator()

	peaks := calc.CalculateStrainPeaks(hitObjects, diff)

	if len(peaks.Reading) != len(hitObjects)-1 || len(peaks.Total) != len(peaks.Reading) {
		t.Fatalf("got %d reading and %d total values for %d objects", len(peaks.Reading), len(peaks.Total), len(hitObjects))
	}

	if peaks.Reading[0] != 0 {
		t.Errorf("first difficulty object = %v, expected 0", peaks.Reading[0])
	}

	if last := peaks.Total[len(peaks.Total)-1]; last != calc.CalculateSingle(hitObjects, diff).Reading {
		t.Errorf("last running total %v differs from single calculation", last)
	}
}

func TestVersion(t *testing.T) {
	calc := NewDifficultyCalculator()

	if calc.GetVersion() != CurrentVersion || calc.GetVersionMessage() == "" {
		t.Error("missing version information")
	}
}

func BenchmarkCalculateSingle(b *testing.B) {
	hitObjects := testMap(2000)
	diff := testDifficulty(difficulty.Hidden)
	calc := NewDifficultyCalculator()

	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		calc.CalculateSingle(hitObjects, diff)
	}
}
