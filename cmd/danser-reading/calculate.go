package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Givikap120/danser-reading/app/beatmap"
	"github.com/Givikap120/danser-reading/app/beatmap/difficulty"
	"github.com/Givikap120/danser-reading/app/database"
	"github.com/Givikap120/danser-reading/app/rulesets/osu/performance/api"
	"github.com/Givikap120/danser-reading/app/rulesets/osu/performance/reading"
	"github.com/Givikap120/danser-reading/app/settings"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

type calculation struct {
	cfg   settings.Config
	cache *database.Cache
	out   io.Writer
}

func (c *calculation) calculate(ctx context.Context, path string) error {
	startTime := time.Now()

	beatMap, err := beatmap.ParseFile(path)
	if err != nil {
		return err
	}

	mods, err := difficulty.ParseMods(c.cfg.Calculation.Mods)
	if err != nil {
		return fmt.Errorf("invalid mods: %w", err)
	}

	diff := beatMap.Diff
	diff.SetMods(mods)
	diff.SetCustomSpeed(c.cfg.Calculation.ClockRate)

	calculator := &reading.DifficultyCalculator{
		Parallel:          c.cfg.Calculation.Parallel,
		Workers:           c.cfg.Calculation.Workers,
		ExplicitClockRate: c.cfg.Calculation.ExplicitClockRate,
	}

	if c.cfg.Output.Step {
		c.printSteps(beatMap, calculator.CalculateStep(beatMap.HitObjects, diff))
	}

	if c.cfg.Output.Peaks {
		c.printPeaks(beatMap, calculator.CalculateStrainPeaks(beatMap.HitObjects, diff))
	}

	attr, cached, err := c.single(ctx, calculator, beatMap, diff)
	if err != nil {
		return err
	}

	source := "calculated in " + time.Since(startTime).Truncate(time.Millisecond).String()
	if cached {
		source = "cache"
	}

	c.printSummary(beatMap, diff, attr, source)

	return nil
}

// single returns the final rating, from cache when possible.
// Explicit clock rate results are not cached since they don't share the cache key.
func (c *calculation) single(ctx context.Context, calculator *reading.DifficultyCalculator, beatMap *beatmap.BeatMap, diff *difficulty.Difficulty) (api.Attributes, bool, error) {
	useCache := c.cache != nil && !calculator.ExplicitClockRate

	if useCache {
		entry, found, err := c.cache.Get(beatMap.MD5, diff.Mods, diff.Speed, calculator.GetVersion())
		if err != nil {
			return api.Attributes{}, false, err
		}

		if found {
			attr := reading.ObjectAttributes(beatMap.HitObjects)
			attr.Reading = entry.Reading
			attr.ReadingDifficultStrainCount = entry.StrainCount
			attr.ClockRate = diff.Speed

			return attr, true, nil
		}
	}

	attr, err := calculator.CalculateSingleContext(ctx, beatMap.HitObjects, diff)
	if err != nil {
		return attr, false, err
	}

	if useCache {
		err = c.cache.Put(database.Entry{
			MD5:         beatMap.MD5,
			Mods:        diff.Mods,
			Version:     calculator.GetVersion(),
			ClockRate:   diff.Speed,
			Reading:     attr.Reading,
			StrainCount: attr.ReadingDifficultStrainCount,
			Objects:     attr.ObjectCount,
		})
	}

	return attr, false, err
}

func modString(mods difficulty.Modifier) string {
	if s := difficulty.GetDiffMaskedMods(mods).String(); s != "" {
		return s
	}

	return "NM"
}

func formatTime(ms float64) string {
	return time.Duration(ms * float64(time.Millisecond)).Truncate(time.Millisecond).String()
}

func (c *calculation) printSummary(beatMap *beatmap.BeatMap, diff *difficulty.Difficulty, attr api.Attributes, source string) {
	table := tablewriter.NewWriter(c.out)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	table.Append([]string{"Beatmap", beatMap.String()})
	table.Append([]string{"Mods", modString(diff.Mods)})
	table.Append([]string{"Clock rate", humanize.Ftoa(diff.Speed)})
	table.Append([]string{"AR", fmt.Sprintf("%.2f", diff.ARReal)})
	table.Append([]string{"Objects", humanize.Comma(int64(attr.ObjectCount))})

	if attr.MaxCombo > 0 {
		table.Append([]string{"Max combo", humanize.Comma(int64(attr.MaxCombo)) + "x"})
	}

	table.Append([]string{"Reading", fmt.Sprintf("%.2f*", attr.Reading)})
	table.Append([]string{"Difficult strains", fmt.Sprintf("%.1f", attr.ReadingDifficultStrainCount)})
	table.Append([]string{"Source", source})

	table.Render()
}

func (c *calculation) printSteps(beatMap *beatmap.BeatMap, steps []api.Attributes) {
	table := tablewriter.NewWriter(c.out)
	table.SetHeader([]string{"#", "Time", "Reading", "Difficult strains"})

	for i, attr := range steps {
		table.Append([]string{
			strconv.Itoa(i),
			formatTime(beatMap.HitObjects[i].GetStartTime()),
			fmt.Sprintf("%.4f", attr.Reading),
			fmt.Sprintf("%.1f", attr.ReadingDifficultStrainCount),
		})
	}

	table.Render()
}

func (c *calculation) printPeaks(beatMap *beatmap.BeatMap, peaks api.StrainPeaks) {
	table := tablewriter.NewWriter(c.out)
	table.SetHeader([]string{"#", "Time", "Difficulty", "Total"})

	// first hit object has no difficulty object
	for i, value := range peaks.Reading {
		table.Append([]string{
			strconv.Itoa(i + 1),
			formatTime(beatMap.HitObjects[i+1].GetStartTime()),
			fmt.Sprintf("%.4f", value),
			fmt.Sprintf("%.4f", peaks.Total[i]),
		})
	}

	table.Render()
}
