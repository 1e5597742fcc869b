package skills

import (
	"math"
	"slices"

	"github.com/Givikap120/danser-reading/framework/math/mutils"
)

// DefaultDecayWeight follows the weighting used by the other osu! skills, it is not derived from reading data.
const DefaultDecayWeight = 0.9

// Aggregator turns per object difficulties into a single skill difficulty.
type Aggregator interface {
	Aggregate(difficulties []float64) float64
}

// SortedAggregator is implemented by aggregators that can work on difficulties already sorted in ascending order.
// The input must not be modified.
type SortedAggregator interface {
	AggregateSorted(sorted []float64) float64
}

// DecayWeightAggregator sums difficulties from hardest to easiest, each one weighted by DecayWeight^rank.
type DecayWeightAggregator struct {
	DecayWeight float64
}

func (aggregator DecayWeightAggregator) Aggregate(difficulties []float64) float64 {
	sorted := slices.Clone(difficulties)
	slices.Sort(sorted)

	return sumDescending(sorted, aggregator.DecayWeight)
}

func (aggregator DecayWeightAggregator) AggregateSorted(sorted []float64) float64 {
	return sumDescending(sorted, aggregator.DecayWeight)
}

// ReducedDecayWeightAggregator scales down the ReducedSectionCount hardest difficulties before weighting,
// so that a few outliers can't carry the whole map.
type ReducedDecayWeightAggregator struct {
	DecayWeight           float64
	ReducedSectionCount   int
	ReducedStrainBaseline float64

	peakWeights []float64
}

func NewReducedDecayWeightAggregator(decayWeight float64, reducedSectionCount int, reducedStrainBaseline float64) *ReducedDecayWeightAggregator {
	aggregator := &ReducedDecayWeightAggregator{
		DecayWeight:           decayWeight,
		ReducedSectionCount:   reducedSectionCount,
		ReducedStrainBaseline: reducedStrainBaseline,
	}

	aggregator.peakWeights = make([]float64, reducedSectionCount)
	for i := range reducedSectionCount {
		scale := math.Log10(mutils.Lerp(1.0, 10.0, mutils.Clamp(float64(i)/float64(reducedSectionCount), 0, 1)))
		aggregator.peakWeights[i] = mutils.Lerp(reducedStrainBaseline, 1.0, scale)
	}

	return aggregator
}

func (aggregator *ReducedDecayWeightAggregator) Aggregate(difficulties []float64) float64 {
	if len(difficulties) == 0 {
		return 0
	}

	strains := slices.Clone(difficulties)
	slices.Sort(strains)

	return aggregator.reduce(strains)
}

func (aggregator *ReducedDecayWeightAggregator) AggregateSorted(sorted []float64) float64 {
	if len(sorted) == 0 {
		return 0
	}

	return aggregator.reduce(slices.Clone(sorted))
}

// reduce scales and sums strains in place, strains have to be sorted in ascending order
func (aggregator *ReducedDecayWeightAggregator) reduce(strains []float64) float64 {
	lowest := strains[len(strains)-1]

	for i := range min(len(strains), aggregator.ReducedSectionCount) {
		strains[len(strains)-1-i] *= aggregator.peakWeights[i]
		lowest = min(lowest, strains[len(strains)-1-i])
	}

	// Search for lowest strain that's higher or equal than lowest reduced strain to avoid unnecessary sorting
	idx, _ := slices.BinarySearch(strains, lowest)
	slices.Sort(strains[idx:])

	return sumDescending(strains, aggregator.DecayWeight)
}

// sumDescending expects strains sorted in ascending order
func sumDescending(strains []float64, decayWeight float64) float64 {
	difficulty := 0.0
	weight := 1.0

	lastDiff := -math.MaxFloat64

	for i := range len(strains) {
		difficulty += strains[len(strains)-1-i] * weight
		weight *= decayWeight

		if math.Abs(difficulty-lastDiff) < math.SmallestNonzeroFloat64 { // escape when strain * weight calculates to 0
			break
		}

		lastDiff = difficulty
	}

	return difficulty
}

// Skill holds per object difficulties in processing order.
type Skill struct {
	Aggregator Aggregator

	objectDifficulties []float64

	// sortedDifficulties mirrors objectDifficulties in ascending order, so step calculations don't sort on every object
	sortedDifficulties []float64
}

func NewSkill() *Skill {
	return &Skill{Aggregator: DecayWeightAggregator{DecayWeight: DefaultDecayWeight}}
}

func (skill *Skill) DifficultyValue() float64 {
	if sorted, ok := skill.Aggregator.(SortedAggregator); ok {
		return sorted.AggregateSorted(skill.sortedDifficulties)
	}

	return skill.Aggregator.Aggregate(skill.objectDifficulties)
}

func (skill *Skill) add(values ...float64) {
	skill.objectDifficulties = append(skill.objectDifficulties, values...)

	if len(values) == 1 {
		i, _ := slices.BinarySearch(skill.sortedDifficulties, values[0])
		skill.sortedDifficulties = slices.Insert(skill.sortedDifficulties, i, values[0])

		return
	}

	skill.sortedDifficulties = append(skill.sortedDifficulties, values...)
	slices.Sort(skill.sortedDifficulties)
}

// CountDifficultStrains returns a weighted count of objects that are close to the hardest part of the map.
func (skill *Skill) CountDifficultStrains() float64 {
	return skill.CountDifficultStrainsAt(skill.DifficultyValue())
}

// CountDifficultStrainsAt is CountDifficultStrains for an already aggregated difficulty.
func (skill *Skill) CountDifficultStrainsAt(difficulty float64) float64 {
	if difficulty == 0 {
		return 0
	}

	consistentTopStrain := difficulty / 10

	count := 0.0
	for _, strain := range skill.objectDifficulties {
		count += 1.1 / (1 + math.Exp(-10*(strain/consistentTopStrain-0.88)))
	}

	return count
}

// GetObjectDifficulties returns a copy of difficulties in processing order
func (skill *Skill) GetObjectDifficulties() []float64 {
	return slices.Clone(skill.objectDifficulties)
}

func (skill *Skill) ProcessedCount() int {
	return len(skill.objectDifficulties)
}
