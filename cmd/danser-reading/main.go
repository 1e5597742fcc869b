package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/Givikap120/danser-reading/app/database"
	"github.com/Givikap120/danser-reading/app/rulesets/osu/performance/reading"
	"github.com/Givikap120/danser-reading/app/settings"
	"github.com/Givikap120/danser-reading/framework/telemetry"
	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	beatmapPath  = kingpin.Arg("beatmap", "Path to .osu file").Required().ExistingFile()
	configPath   = kingpin.Flag("config", "TOML config file").Default("danser-reading.toml").Short('c').String()
	mods         = kingpin.Flag("mods", "Mods to calculate with, e.g. HDDT").Short('m').String()
	rate         = kingpin.Flag("rate", "Custom clock rate, overrides DT/HT").Short('r').Float64()
	explicitRate = kingpin.Flag("explicit-rate", "Evaluate hidden timings at the real clock rate").Bool()
	step         = kingpin.Flag("step", "Print rating after every object").Bool()
	peaks        = kingpin.Flag("peaks", "Print reading difficulty of every object").Bool()
	parallel     = kingpin.Flag("parallel", "Evaluate objects on all cores").Short('p').Bool()
	workers      = kingpin.Flag("workers", "Parallel worker limit, 0 uses all logical cores").Int()
	cachePath    = kingpin.Flag("cache", "Sqlite database for caching ratings").String()
	watch        = kingpin.Flag("watch", "Recalculate when the beatmap changes").Short('w').Bool()
	trace        = kingpin.Flag("trace", "Export calculation spans to stderr").Bool()
	saveConfig   = kingpin.Flag("save-config", "Write effective settings to --config and exit").Bool()
)

func main() {
	kingpin.Version(versionString())
	kingpin.Parse()

	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func versionString() string {
	return reading.NewDifficultyCalculator().GetVersionMessage()
}

// mergeFlags applies command line flags on top of the config file. Unset flags keep file values.
func mergeFlags(cfg settings.Config) settings.Config {
	if *mods != "" {
		cfg.Calculation.Mods = *mods
	}

	if *rate > 0 {
		cfg.Calculation.ClockRate = *rate
	}

	if *workers > 0 {
		cfg.Calculation.Workers = *workers
	}

	if *cachePath != "" {
		cfg.Cache.Path = *cachePath
	}

	cfg.Calculation.ExplicitClockRate = cfg.Calculation.ExplicitClockRate || *explicitRate
	cfg.Calculation.Parallel = cfg.Calculation.Parallel || *parallel
	cfg.Output.Step = cfg.Output.Step || *step
	cfg.Output.Peaks = cfg.Output.Peaks || *peaks
	cfg.Telemetry.Traces = cfg.Telemetry.Traces || *trace

	return cfg
}

func run() error {
	cfg, err := settings.Load(*configPath)
	if err != nil {
		return err
	}

	cfg = mergeFlags(cfg)

	if *saveConfig {
		if err = settings.Save(*configPath, cfg); err != nil {
			return err
		}

		log.Println("Settings saved to", *configPath)

		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	provider, err := telemetry.Setup(ctx, telemetry.Config{EnableTraces: cfg.Telemetry.Traces})
	if err != nil {
		return err
	}

	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			log.Println("Failed to flush traces:", err)
		}
	}()

	var cache *database.Cache

	if cfg.Cache.Path != "" {
		if cache, err = database.Open(cfg.Cache.Path); err != nil {
			return err
		}

		defer cache.Close()

		if _, err = cache.Prune(reading.CurrentVersion); err != nil {
			log.Println(err)
		}
	}

	calculator := &calculation{
		cfg:   cfg,
		cache: cache,
		out:   os.Stdout,
	}

	if err = calculator.calculate(ctx, *beatmapPath); err != nil {
		if !*watch {
			return err
		}

		log.Println(err)
	}

	if *watch {
		return watchFile(ctx, *beatmapPath, func() {
			if err := calculator.calculate(ctx, *beatmapPath); err != nil {
				log.Println(err)
			}
		})
	}

	return nil
}
