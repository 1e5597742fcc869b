package difficulty

const (
	HitFadeIn     = 400.0
	PreemptMin    = 450.0
	HiddenFadeIn  = 0.4
	HiddenFadeOut = 0.3
)

type Difficulty struct {
	hpDrain float64
	cs      float64
	od      float64
	ar      float64

	// Preempt time in ms, unaffected by speed
	PreemptU float64

	// TimeFadeIn in ms, unaffected by speed
	TimeFadeIn float64

	CircleRadiusU float64

	// Hit300U is half of the 300 hit window, unaffected by speed
	Hit300U float64

	ARReal float64
	ODReal float64

	Mods Modifier

	Speed float64

	customSpeed float64
}

func NewDifficulty(hpDrain, cs, od, ar float64) *Difficulty {
	diff := &Difficulty{
		hpDrain: hpDrain,
		cs:      cs,
		od:      od,
		ar:      ar,
		Speed:   1,
	}

	diff.calculate()

	return diff
}

func (diff *Difficulty) calculate() {
	hpDrain, cs, od, ar := diff.hpDrain, diff.cs, diff.od, diff.ar

	if diff.Mods.Active(HardRock) {
		ar = min(ar*1.4, 10)
		cs = min(cs*1.3, 10)
		od = min(od*1.4, 10)
		hpDrain = min(hpDrain*1.4, 10)
	}

	if diff.Mods.Active(Easy) {
		ar /= 2
		cs /= 2
		od /= 2
		hpDrain /= 2
	}

	diff.Speed = diff.GetModifiedSpeed()

	diff.CircleRadiusU = 54.4 - 4.48*cs
	diff.PreemptU = DifficultyRate(ar, 1800, 1200, 450)
	diff.Hit300U = DifficultyRate(od, 80, 50, 20)

	if diff.Mods.Active(Hidden) {
		diff.TimeFadeIn = diff.PreemptU * HiddenFadeIn
	} else {
		diff.TimeFadeIn = HitFadeIn * min(1, diff.PreemptU/PreemptMin)
	}

	diff.ARReal = DiffFromRate(diff.PreemptU/diff.Speed, 1800, 1200, 450)
	diff.ODReal = DiffFromRate(diff.Hit300U/diff.Speed, 80, 50, 20)
}

func (diff *Difficulty) SetMods(mods Modifier) {
	diff.Mods = mods
	diff.calculate()
}

// SetCustomSpeed overrides speed implied by DT/HT, 0 clears the override
func (diff *Difficulty) SetCustomSpeed(speed float64) {
	diff.customSpeed = speed
	diff.calculate()
}

func (diff *Difficulty) CheckModActive(mods Modifier) bool {
	return diff.Mods.Active(mods)
}

func (diff *Difficulty) GetModifiedSpeed() float64 {
	if diff.customSpeed > 0 {
		return diff.customSpeed
	}

	switch {
	case diff.Mods.Active(DoubleTime):
		return 1.5
	case diff.Mods.Active(HalfTime):
		return 0.75
	default:
		return 1
	}
}

func (diff *Difficulty) GetHPDrain() float64 { return diff.hpDrain }
func (diff *Difficulty) GetCS() float64      { return diff.cs }
func (diff *Difficulty) GetOD() float64      { return diff.od }
func (diff *Difficulty) GetAR() float64      { return diff.ar }

func DifficultyRate(diff, min, mid, max float64) float64 {
	diff = float64(float32(diff))

	if diff > 5 {
		return mid + (max-mid)*(diff-5)/5
	}

	if diff < 5 {
		return mid - (mid-min)*(5-diff)/5
	}

	return mid
}

func DiffFromRate(rate, min, mid, max float64) float64 {
	minStep := (min - mid) / 5
	maxStep := (mid - max) / 5

	if rate > mid {
		return -(rate - min) / minStep
	}

	return 5.0 - (rate-mid)/maxStep
}
