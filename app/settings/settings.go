package settings

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ParseError represents a TOML decode failure.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse config %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type Config struct {
	Calculation Calculation `toml:"calculation"`
	Output      Output      `toml:"output"`
	Cache       Cache       `toml:"cache"`
	Telemetry   Telemetry   `toml:"telemetry"`
}

type Calculation struct {
	Mods string `toml:"mods"`

	// ClockRate overrides the rate implied by DT/HT, 0 keeps it
	ClockRate float64 `toml:"clock_rate"`

	Parallel bool `toml:"parallel"`

	// Workers caps parallel evaluation, 0 uses all logical cores
	Workers int `toml:"workers"`

	ExplicitClockRate bool `toml:"explicit_clock_rate"`
}

type Output struct {
	Step  bool `toml:"step"`
	Peaks bool `toml:"peaks"`
}

type Cache struct {
	// Path to the sqlite database, empty disables caching
	Path string `toml:"path"`
}

type Telemetry struct {
	Traces bool `toml:"traces"`
}

func Default() Config {
	return Config{
		Calculation: Calculation{
			Mods: "NM",
		},
	}
}

// Load reads config from path. Missing files result in defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	// data is already in memory, so every failure here is a *toml.DecodeError,
	// a *toml.StrictMissingError or a type mismatch
	if err = decoder.Decode(&cfg); err != nil {
		return cfg, &ParseError{Path: path, Err: err}
	}

	if cfg.Calculation.ClockRate < 0 {
		return cfg, fmt.Errorf("config %s: clock_rate must not be negative, got %v", path, cfg.Calculation.ClockRate)
	}

	return cfg, nil
}

// Save writes config to path, creating parent directories as needed.
func Save(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	if err = os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}
