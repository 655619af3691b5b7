package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"host-snapshot/internal/metrics"
)

const bytesPerMB = 1024 * 1024

// MetricReader is the subset of *metrics.Reader the text report needs.
type MetricReader interface {
	ReadCPUUsagePercent() (float64, error)
	ReadCPUFrequencyMHz() (int, error)
	ReadCPUTemperatureC() float64
	ReadRAMUsedBytes() (uint64, error)
	ReadRAMTotalBytes() (uint64, error)
	ReadRAMUsagePercent() (float64, error)
	ReadSwapUsedBytes() (uint64, error)
	ReadSwapTotalBytes() (uint64, error)
	ReadSwapUsagePercent() (float64, error)
}

var _ MetricReader = (*metrics.Reader)(nil)

type line struct {
	label string
	unit  string
	value func() (string, error)
}

// WriteText reads and prints each metric in turn. The first failing read
// stops the report; lines already written are kept.
func WriteText(w io.Writer, r MetricReader) error {
	lines := []line{
		{"CPU usage", "%", pct(r.ReadCPUUsagePercent)},
		{"CPU frequency", "MHz", func() (string, error) {
			mhz, err := r.ReadCPUFrequencyMHz()
			return strconv.Itoa(mhz), err
		}},
		{"CPU temperature", "°C", func() (string, error) {
			return FormatFloat(r.ReadCPUTemperatureC()), nil
		}},
		{"RAM usage", "MB", mb(r.ReadRAMUsedBytes)},
		{"RAM total", "MB", mb(r.ReadRAMTotalBytes)},
		{"RAM usage", "%", pct(r.ReadRAMUsagePercent)},
		{"Swap usage", "MB", mb(r.ReadSwapUsedBytes)},
		{"Swap total", "MB", mb(r.ReadSwapTotalBytes)},
		{"Swap usage", "%", pct(r.ReadSwapUsagePercent)},
	}

	for _, l := range lines {
		v, err := l.value()
		if err != nil {
			return fmt.Errorf("%s: %w", l.label, err)
		}
		if _, err := fmt.Fprintf(w, "%s is %s %s\n", l.label, v, l.unit); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	return nil
}

// WriteYAML encodes a whole snapshot as a YAML document.
func WriteYAML(w io.Writer, snap metrics.Snapshot) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return enc.Close()
}

// BytesToMB floor-divides a byte count into mebibytes.
func BytesToMB(b uint64) uint64 {
	return b / bytesPerMB
}

// FormatFloat prints the shortest exact decimal, keeping a ".0" on whole
// numbers so 45 reads as 45.0.
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !math.IsInf(v, 0) && !math.IsNaN(v) && v == math.Trunc(v) {
		s += ".0"
	}
	return s
}

func pct(read func() (float64, error)) func() (string, error) {
	return func() (string, error) {
		v, err := read()
		if err != nil {
			return "", err
		}
		return FormatFloat(v), nil
	}
}

func mb(read func() (uint64, error)) func() (string, error) {
	return func() (string, error) {
		v, err := read()
		if err != nil {
			return "", err
		}
		return strconv.FormatUint(BytesToMB(v), 10), nil
	}
}
