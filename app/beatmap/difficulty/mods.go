package difficulty

import (
	"fmt"
	"strings"
)

type Modifier int64

const (
	None        Modifier = 0
	NoFail      Modifier = 1 << 0
	Easy        Modifier = 1 << 1
	TouchDevice Modifier = 1 << 2
	Hidden      Modifier = 1 << 3
	HardRock    Modifier = 1 << 4
	SuddenDeath Modifier = 1 << 5
	DoubleTime  Modifier = 1 << 6
	Relax       Modifier = 1 << 7
	HalfTime    Modifier = 1 << 8
	Nightcore   Modifier = 1 << 9
	Flashlight  Modifier = 1 << 10
	SpunOut     Modifier = 1 << 12

	// DifficultyAdjustMask contains mods that change star rating
	DifficultyAdjustMask = Easy | TouchDevice | Hidden | HardRock | DoubleTime | Relax | HalfTime | Nightcore | Flashlight
)

var modsString = [...]string{
	"NF",
	"EZ",
	"TD",
	"HD",
	"HR",
	"SD",
	"DT",
	"RX",
	"HT",
	"NC",
	"FL",
	"",
	"SO",
}

func (mods Modifier) Active(mod Modifier) bool {
	return mods&mod == mod
}

func (mods Modifier) String() (s string) {
	var sb strings.Builder

	for i, name := range modsString {
		if name == "" || mods&(1<<uint(i)) == 0 {
			continue
		}

		// NC implies DT
		if i == 6 && mods.Active(Nightcore) {
			continue
		}

		sb.WriteString(name)
	}

	return sb.String()
}

// ParseMods parses acronym strings like "HDDT" or "hd,hr". Empty input and "NM" give None.
func ParseMods(mods string) (Modifier, error) {
	cleaned := strings.ToUpper(strings.NewReplacer(",", "", " ", "", "+", "").Replace(mods))

	if cleaned == "" || cleaned == "NM" {
		return None, nil
	}

	if len(cleaned)%2 != 0 {
		return None, fmt.Errorf("invalid mod string %q", mods)
	}

	var result Modifier

	for i := 0; i < len(cleaned); i += 2 {
		acronym := cleaned[i : i+2]

		found := false

		for j, name := range modsString {
			if name == acronym {
				result |= 1 << uint(j)
				found = true

				break
			}
		}

		if !found {
			return None, fmt.Errorf("unknown mod %q in %q", acronym, mods)
		}
	}

	if result.Active(Nightcore) {
		result |= DoubleTime
	}

	if result.Active(Easy | HardRock) {
		return None, fmt.Errorf("mods %q are incompatible: EZ and HR", mods)
	}

	if result&(DoubleTime|HalfTime) == DoubleTime|HalfTime {
		return None, fmt.Errorf("mods %q are incompatible: DT and HT", mods)
	}

	return result, nil
}

func GetDiffMaskedMods(mods Modifier) Modifier {
	return mods & DifficultyAdjustMask
}
