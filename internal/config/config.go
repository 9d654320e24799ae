// Package config reads the server settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/ironsheep/tick-reader-mcp/internal/imaging"
	"github.com/ironsheep/tick-reader-mcp/internal/logging"
	"github.com/ironsheep/tick-reader-mcp/internal/tick"
)

// Environment variables read by Load.
const (
	EnvOuterThreshold   = "TICK_OUTER_CHECKED_THRESHOLD"
	EnvOuterTrueMargin  = "TICK_OUTER_CHECKED_TRUE_MARGIN"
	EnvOuterFalseMargin = "TICK_OUTER_CHECKED_FALSE_MARGIN"
	EnvInnerThreshold   = "TICK_INNER_CHECKED_THRESHOLD"
	EnvInnerTrueMargin  = "TICK_INNER_CHECKED_TRUE_MARGIN"
	EnvInnerFalseMargin = "TICK_INNER_CHECKED_FALSE_MARGIN"
	EnvInset            = "TICK_INSET"
	EnvPeakWindow       = "TICK_PEAK_WINDOW"
	EnvPeakProminence   = "TICK_PEAK_PROMINENCE"
	EnvGrayMode         = "TICK_GRAY_MODE"
	EnvWorkers          = "TICK_MCP_WORKERS"
	EnvLogLevel         = "TICK_MCP_LOG_LEVEL"
	EnvLogFile          = "TICK_MCP_LOG_FILE"
)

// Config is everything the server needs to build its classifier and logger.
type Config struct {
	Classifier     tick.Config
	Inset          int
	PeakWindow     int
	PeakProminence int
	GrayMode       imaging.GrayMode

	// Workers bounds how many checkbox regions are classified at once.
	Workers int

	Log logging.Options
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Classifier:     tick.DefaultConfig(),
		Inset:          tick.DefaultInset,
		PeakWindow:     tick.DefaultPeakWindow,
		PeakProminence: tick.DefaultPeakProminence,
		GrayMode:       imaging.DefaultGrayMode,
		Workers:        runtime.NumCPU(),
	}
}

// Load reads the settings from the process environment, falling back to the
// given .env files (".env" when none are named). Process variables win over
// file entries. Missing files are ignored.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}

	fromFiles := make(map[string]string)
	for _, file := range files {
		entries, err := godotenv.Read(file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Config{}, fmt.Errorf("failed to read %s: %w", file, err)
		}
		for k, v := range entries {
			if _, seen := fromFiles[k]; !seen {
				fromFiles[k] = v
			}
		}
	}

	return FromLookup(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fromFiles[key]
		return v, ok
	})
}

// FromLookup builds a Config from a variable lookup such as os.LookupEnv.
// Unset or empty variables keep their defaults. The result is validated.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	r := reader{lookup: lookup}

	r.float(EnvOuterThreshold, &cfg.Classifier.OuterCheckedThreshold)
	r.float(EnvOuterTrueMargin, &cfg.Classifier.OuterCheckedTrueMargin)
	r.float(EnvOuterFalseMargin, &cfg.Classifier.OuterCheckedFalseMargin)
	r.float(EnvInnerThreshold, &cfg.Classifier.InnerCheckedThreshold)
	r.float(EnvInnerTrueMargin, &cfg.Classifier.InnerCheckedTrueMargin)
	r.float(EnvInnerFalseMargin, &cfg.Classifier.InnerCheckedFalseMargin)
	r.int(EnvInset, &cfg.Inset)
	r.int(EnvPeakWindow, &cfg.PeakWindow)
	r.int(EnvPeakProminence, &cfg.PeakProminence)
	r.int(EnvWorkers, &cfg.Workers)
	if v, ok := r.get(EnvGrayMode); ok {
		cfg.GrayMode = imaging.GrayMode(v)
	}
	if v, ok := r.get(EnvLogLevel); ok {
		cfg.Log.Level = v
	}
	if v, ok := r.get(EnvLogFile); ok {
		cfg.Log.File = v
	}

	if r.err != nil {
		return Config{}, r.err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings that New would otherwise reject later.
func (c Config) Validate() error {
	if err := c.Classifier.Validate(); err != nil {
		return err
	}
	if _, err := imaging.ParseGrayMode(string(c.GrayMode)); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", EnvWorkers, c.Workers)
	}
	_, err := c.NewClassifier()
	return err
}

// NewClassifier builds the classifier these settings describe.
func (c Config) NewClassifier() (*tick.Classifier, error) {
	return tick.New(c.Classifier,
		tick.WithInset(c.Inset),
		tick.WithPeakWindow(c.PeakWindow, c.PeakProminence),
	)
}

// reader remembers the first parse error and skips the reads after it.
type reader struct {
	lookup func(string) (string, bool)
	err    error
}

func (r *reader) get(key string) (string, bool) {
	v, ok := r.lookup(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (r *reader) float(key string, dst *float64) {
	v, ok := r.get(key)
	if !ok || r.err != nil {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.err = fmt.Errorf("%s: %q is not a number", key, v)
		return
	}
	*dst = f
}

func (r *reader) int(key string, dst *int) {
	v, ok := r.get(key)
	if !ok || r.err != nil {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.err = fmt.Errorf("%s: %q is not an integer", key, v)
		return
	}
	*dst = n
}
