package difficulty

import (
	"math"
	"testing"
)

func TestParseMods(t *testing.T) {
	tests := []struct {
		input    string
		expected Modifier
	}{
		{"", None},
		{"NM", None},
		{"HD", Hidden},
		{"hddt", Hidden | DoubleTime},
		{"HD,HR", Hidden | HardRock},
		{"+NC", Nightcore | DoubleTime},
		{"EZHTFL", Easy | HalfTime | Flashlight},
	}

	for _, test := range tests {
		mods, err := ParseMods(test.input)
		if err != nil {
			t.Errorf("ParseMods(%q) returned error: %v", test.input, err)
			continue
		}

		if mods != test.expected {
			t.Errorf("ParseMods(%q) = %d, expected %d", test.input, mods, test.expected)
		}
	}
}

func TestParseModsErrors(t *testing.T) {
	for _, input := range []string{"H", "XX", "EZHR", "DTHT"} {
		if _, err := ParseMods(input); err == nil {
			t.Errorf("ParseMods(%q) expected error", input)
		}
	}
}

func TestModsString(t *testing.T) {
	if s := (Hidden | DoubleTime).String(); s != "HDDT" {
		t.Errorf("String() = %q, expected HDDT", s)
	}

	if s := (Hidden | Nightcore | DoubleTime).String(); s != "HDNC" {
		t.Errorf("String() = %q, expected HDNC", s)
	}

	if s := None.String(); s != "" {
		t.Errorf("String() = %q, expected empty", s)
	}
}

func TestPreemptAndFadeIn(t *testing.T) {
	tests := []struct {
		ar      float64
		mods    Modifier
		preempt float64
		fadeIn  float64
	}{
		{5, None, 1200, 400},
		{10, None, 450, 400},
		{0, None, 1800, 400},
		{9, None, 600, 400},
		{9, Hidden, 600, 240},
		{10, Hidden, 450, 180},
	}

	for _, test := range tests {
		diff := NewDifficulty(5, 4, 8, test.ar)
		diff.SetMods(test.mods)

		if math.Abs(diff.PreemptU-test.preempt) > 1e-9 {
			t.Errorf("AR%v %s: preempt = %v, expected %v", test.ar, test.mods, diff.PreemptU, test.preempt)
		}

		if math.Abs(diff.TimeFadeIn-test.fadeIn) > 1e-9 {
			t.Errorf("AR%v %s: fade in = %v, expected %v", test.ar, test.mods, diff.TimeFadeIn, test.fadeIn)
		}
	}
}

func TestSpeed(t *testing.T) {
	diff := NewDifficulty(5, 4, 8, 9)

	diff.SetMods(DoubleTime)
	if diff.Speed != 1.5 {
		t.Errorf("DT speed = %v", diff.Speed)
	}

	if math.Abs(diff.ARReal-10.333333333333334) > 1e-9 {
		t.Errorf("AR9 DT real AR = %v", diff.ARReal)
	}

	diff.SetMods(HalfTime)
	if diff.Speed != 0.75 {
		t.Errorf("HT speed = %v", diff.Speed)
	}

	diff.SetCustomSpeed(1.2)
	if diff.Speed != 1.2 {
		t.Errorf("custom speed = %v", diff.Speed)
	}
}

func TestHardRockCaps(t *testing.T) {
	diff := NewDifficulty(5, 4, 8, 9)
	diff.SetMods(HardRock)

	if math.Abs(diff.PreemptU-450) > 1e-9 {
		t.Errorf("AR9 HR preempt = %v, expected 450", diff.PreemptU)
	}

	if math.Abs(diff.CircleRadiusU-(54.4-4.48*5.2)) > 1e-9 {
		t.Errorf("CS4 HR radius = %v", diff.CircleRadiusU)
	}
}
