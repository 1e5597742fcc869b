package skills

import (
	"context"
	"runtime"

	"github.com/Givikap120/danser-reading/app/rulesets/osu/performance/reading/preprocessing"
	"github.com/shirou/gopsutil/v3/cpu"
	"golang.org/x/sync/errgroup"
)

// minimum amount of objects given to a single worker
const parallelChunkSize = 256

// Workers returns the logical core count, falling back to what the runtime reports
func Workers() int {
	count, err := cpu.Counts(true)
	if err != nil || count < 1 {
		return runtime.NumCPU()
	}

	return count
}

// ProcessAll evaluates every object that wasn't processed yet on up to workers goroutines.
// Results are stored by object index, so the outcome is identical to calling Process in order.
func (skill *Reading) ProcessAll(ctx context.Context, diffObjects []*preprocessing.DifficultyObject, workers int) error {
	start := len(skill.objectDifficulties)
	if start >= len(diffObjects) {
		return nil
	}

	if workers < 1 {
		workers = Workers()
	}

	results := make([]float64, len(diffObjects)-start)

	chunkSize := max(parallelChunkSize, (len(results)+workers-1)/workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for from := 0; from < len(results); from += chunkSize {
		to := min(from+chunkSize, len(results))

		g.Go(func() error {
			for i := from; i < to; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}

				results[i] = skill.evaluate(diffObjects[start+i], diffObjects)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	skill.add(results...)

	return nil
}
