package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"host-snapshot/internal/metrics"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.CPUSampleIntervalMs)
	assert.Equal(t, 500*time.Millisecond, cfg.SampleInterval())
	assert.Equal(t, metrics.DefaultThermalZonePath, cfg.ThermalZonePath)
	assert.Equal(t, metrics.DefaultCPUFreqGlob, cfg.CPUFreqGlob)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, FormatText, cfg.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
cpu_sample_interval_ms: 250
thermal_zone_path: /sys/class/thermal/thermal_zone1/temp
log_level: debug
format: yaml
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.SampleInterval())
	assert.Equal(t, "/sys/class/thermal/thermal_zone1/temp", cfg.ThermalZonePath)
	assert.Equal(t, metrics.DefaultCPUFreqGlob, cfg.CPUFreqGlob)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, FormatYAML, cfg.Format)

	opts := cfg.ReaderOptions()
	assert.Equal(t, 250*time.Millisecond, opts.SampleInterval)
	assert.Equal(t, cfg.ThermalZonePath, opts.ThermalZonePath)
	assert.Equal(t, cfg.CPUFreqGlob, opts.CPUFreqGlob)
	assert.Nil(t, opts.Source)
}

func TestLoadConfigErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "cpu_sample_interval_ms: [1, 2"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config")
	})

	invalid := map[string]string{
		"negative interval": "cpu_sample_interval_ms: -5\n",
		"bad glob":          "cpufreq_glob: \"[\"\n",
		"bad log level":     "log_level: loud\n",
		"bad format":        "format: json\n",
	}
	for name, content := range invalid {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
		})
	}
}
