package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/tick-reader-mcp/internal/imaging"
	"github.com/ironsheep/tick-reader-mcp/internal/tick"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromLookupDefaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, tick.DefaultConfig(), cfg.Classifier)
	assert.Equal(t, imaging.GrayMax, cfg.GrayMode)
	assert.GreaterOrEqual(t, cfg.Workers, 1)
}

func TestFromLookupOverrides(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		EnvOuterThreshold:   "0.6",
		EnvOuterTrueMargin:  "0.05",
		EnvOuterFalseMargin: "0.5",
		EnvInnerThreshold:   "0.1",
		EnvInnerTrueMargin:  "0.02",
		EnvInnerFalseMargin: "0.01",
		EnvInset:            "5",
		EnvPeakWindow:       "9",
		EnvPeakProminence:   "0",
		EnvGrayMode:         "luma",
		EnvWorkers:          "2",
		EnvLogLevel:         "debug",
		EnvLogFile:          "/tmp/tick.log",
	}))
	require.NoError(t, err)

	assert.Equal(t, tick.Config{
		OuterCheckedThreshold:   0.6,
		OuterCheckedTrueMargin:  0.05,
		OuterCheckedFalseMargin: 0.5,
		InnerCheckedThreshold:   0.1,
		InnerCheckedTrueMargin:  0.02,
		InnerCheckedFalseMargin: 0.01,
	}, cfg.Classifier)
	assert.Equal(t, 5, cfg.Inset)
	assert.Equal(t, 9, cfg.PeakWindow)
	assert.Equal(t, 0, cfg.PeakProminence)
	assert.Equal(t, imaging.GrayLuma, cfg.GrayMode)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/tick.log", cfg.Log.File)

	classifier, err := cfg.NewClassifier()
	require.NoError(t, err)
	assert.Equal(t, 5, classifier.Inset())
	assert.Equal(t, cfg.Classifier, classifier.Config())
}

func TestFromLookupRejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		msg  string
	}{
		{"not a number", map[string]string{EnvInnerThreshold: "low"}, `TICK_INNER_CHECKED_THRESHOLD: "low" is not a number`},
		{"not an integer", map[string]string{EnvInset: "2.5"}, `TICK_INSET: "2.5" is not an integer`},
		{"threshold out of range", map[string]string{EnvOuterThreshold: "1.5"}, "OuterCheckedThreshold=1.5 not in [0,1]"},
		{"negative inset", map[string]string{EnvInset: "-1"}, "inset -1 must not be negative"},
		{"zero window", map[string]string{EnvPeakWindow: "0"}, "peak window 0 must be at least 1"},
		{"unknown gray mode", map[string]string{EnvGrayMode: "sepia"}, "sepia"},
		{"no workers", map[string]string{EnvWorkers: "0"}, "TICK_MCP_WORKERS must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromLookup(lookupFrom(tt.env))
			assert.ErrorContains(t, err, tt.msg)
		})
	}

	_, err := FromLookup(lookupFrom(map[string]string{EnvInnerTrueMargin: "NaN"}))
	assert.ErrorIs(t, err, tick.ErrConfiguration)
}

func TestLoadReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "tick.env")
	require.NoError(t, os.WriteFile(file, []byte(
		"TICK_INSET=4\n"+
			"TICK_GRAY_MODE=lightness\n"+
			"# comment\n"+
			"TICK_MCP_WORKERS=3\n",
	), 0o644))

	t.Setenv(EnvWorkers, "7")

	cfg, err := Load(file, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Inset)
	assert.Equal(t, imaging.GrayLightness, cfg.GrayMode)
	assert.Equal(t, 7, cfg.Workers, "process environment wins")
}

func TestLoadBadEnvFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "bad.env")
	require.NoError(t, os.WriteFile(file, []byte("TICK_INSET=\"unterminated\n"), 0o644))

	_, err := Load(file)
	assert.ErrorContains(t, err, "failed to read")
}
