package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"host-snapshot/internal/logging"
	"host-snapshot/internal/metrics"
)

const (
	FormatText = "text"
	FormatYAML = "yaml"
)

type Config struct {
	CPUSampleIntervalMs int    `yaml:"cpu_sample_interval_ms"`
	ThermalZonePath     string `yaml:"thermal_zone_path"`
	CPUFreqGlob         string `yaml:"cpufreq_glob"`
	LogLevel            string `yaml:"log_level"`
	Format              string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// LoadConfig reads a YAML file. An empty path yields Default.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.CPUSampleIntervalMs == 0 {
		c.CPUSampleIntervalMs = int(metrics.DefaultSampleInterval / time.Millisecond)
	}
	if c.ThermalZonePath == "" {
		c.ThermalZonePath = metrics.DefaultThermalZonePath
	}
	if c.CPUFreqGlob == "" {
		c.CPUFreqGlob = metrics.DefaultCPUFreqGlob
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
	if c.Format == "" {
		c.Format = FormatText
	}
}

// Validate is exported so callers can recheck after applying flag overrides.
func (c *Config) Validate() error {
	if c.CPUSampleIntervalMs <= 0 {
		return fmt.Errorf("cpu_sample_interval_ms must be positive")
	}
	if c.ThermalZonePath == "" {
		return fmt.Errorf("thermal_zone_path cannot be empty")
	}
	if _, err := filepath.Match(c.CPUFreqGlob, ""); err != nil {
		return fmt.Errorf("cpufreq_glob: %w", err)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.Format != FormatText && c.Format != FormatYAML {
		return fmt.Errorf("format must be %q or %q", FormatText, FormatYAML)
	}
	return nil
}

func (c *Config) SampleInterval() time.Duration {
	return time.Duration(c.CPUSampleIntervalMs) * time.Millisecond
}

func (c *Config) ReaderOptions() metrics.Options {
	return metrics.Options{
		SampleInterval:  c.SampleInterval(),
		ThermalZonePath: c.ThermalZonePath,
		CPUFreqGlob:     c.CPUFreqGlob,
	}
}
