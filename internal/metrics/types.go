package metrics

import "time"

// Snapshot holds one read of every host metric. CPUTemperatureC is 0 when no
// thermal reading was available.
type Snapshot struct {
	Timestamp        time.Time `yaml:"timestamp"`
	CPUUsagePercent  float64   `yaml:"cpu_usage_pct"`
	CPUFrequencyMHz  int       `yaml:"cpu_frequency_mhz"`
	CPUTemperatureC  float64   `yaml:"cpu_temperature_c"`
	RAMUsedBytes     uint64    `yaml:"ram_used_bytes"`
	RAMTotalBytes    uint64    `yaml:"ram_total_bytes"`
	RAMUsagePercent  float64   `yaml:"ram_usage_pct"`
	SwapUsedBytes    uint64    `yaml:"swap_used_bytes"`
	SwapTotalBytes   uint64    `yaml:"swap_total_bytes"`
	SwapUsagePercent float64   `yaml:"swap_usage_pct"`
}
