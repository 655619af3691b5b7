package metrics

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v4/mem"

	"host-snapshot/internal/logging"
)

const (
	DefaultSampleInterval  = 500 * time.Millisecond
	DefaultThermalZonePath = "/sys/class/thermal/thermal_zone0/temp"
	DefaultCPUFreqGlob     = "/sys/devices/system/cpu/cpu[0-9]*/cpufreq/scaling_cur_freq"
)

// ErrQuery matches every QueryError.
var ErrQuery = errors.New("os query failed")

// QueryError reports a failed operating system query for one metric.
type QueryError struct {
	Metric string
	Err    error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrQuery, e.Metric, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

func (e *QueryError) Is(target error) bool {
	return target == ErrQuery
}

type Options struct {
	// SampleInterval is how long ReadCPUUsagePercent blocks between counter reads.
	SampleInterval  time.Duration
	ThermalZonePath string
	CPUFreqGlob     string
	// Source defaults to the gopsutil backed system source.
	Source Source
}

// Reader queries the operating system afresh on every call. It keeps no state
// between calls and is safe to reuse.
type Reader struct {
	sampleInterval  time.Duration
	thermalZonePath string
	source          Source
	log             zerolog.Logger
}

func NewReader(opts Options) *Reader {
	if opts.SampleInterval <= 0 {
		opts.SampleInterval = DefaultSampleInterval
	}
	if opts.ThermalZonePath == "" {
		opts.ThermalZonePath = DefaultThermalZonePath
	}
	if opts.CPUFreqGlob == "" {
		opts.CPUFreqGlob = DefaultCPUFreqGlob
	}
	if opts.Source == nil {
		opts.Source = NewSystemSource(opts.CPUFreqGlob)
	}

	return &Reader{
		sampleInterval:  opts.SampleInterval,
		thermalZonePath: opts.ThermalZonePath,
		source:          opts.Source,
		log:             logging.WithComponent("metrics"),
	}
}

func (r *Reader) Collect() (Snapshot, error) {
	snap := Snapshot{Timestamp: time.Now()}
	var err error

	if snap.CPUUsagePercent, err = r.ReadCPUUsagePercent(); err != nil {
		return snap, fmt.Errorf("cpu usage: %w", err)
	}
	if snap.CPUFrequencyMHz, err = r.ReadCPUFrequencyMHz(); err != nil {
		return snap, fmt.Errorf("cpu frequency: %w", err)
	}
	snap.CPUTemperatureC = r.ReadCPUTemperatureC()

	if snap.RAMUsedBytes, err = r.ReadRAMUsedBytes(); err != nil {
		return snap, fmt.Errorf("ram used: %w", err)
	}
	if snap.RAMTotalBytes, err = r.ReadRAMTotalBytes(); err != nil {
		return snap, fmt.Errorf("ram total: %w", err)
	}
	if snap.RAMUsagePercent, err = r.ReadRAMUsagePercent(); err != nil {
		return snap, fmt.Errorf("ram usage: %w", err)
	}

	if snap.SwapUsedBytes, err = r.ReadSwapUsedBytes(); err != nil {
		return snap, fmt.Errorf("swap used: %w", err)
	}
	if snap.SwapTotalBytes, err = r.ReadSwapTotalBytes(); err != nil {
		return snap, fmt.Errorf("swap total: %w", err)
	}
	if snap.SwapUsagePercent, err = r.ReadSwapUsagePercent(); err != nil {
		return snap, fmt.Errorf("swap usage: %w", err)
	}

	return snap, nil
}

// ReadCPUUsagePercent blocks for the sample interval and returns the
// utilization averaged over all CPUs.
func (r *Reader) ReadCPUUsagePercent() (float64, error) {
	pct, err := r.source.CPUPercent(r.sampleInterval)
	if err != nil {
		return 0, &QueryError{Metric: "cpu_percent", Err: err}
	}

	r.log.Debug().
		Float64("cpu_percent", pct).
		Dur("interval", r.sampleInterval).
		Msg("CPU usage sampled")
	return roundPercent(pct), nil
}

// ReadCPUFrequencyMHz returns the current frequency truncated to whole MHz.
func (r *Reader) ReadCPUFrequencyMHz() (int, error) {
	mhz, err := r.source.CPUFrequency()
	if err != nil {
		return 0, &QueryError{Metric: "cpu_frequency", Err: err}
	}

	r.log.Debug().Float64("cpu_mhz", mhz).Msg("CPU frequency read")
	return int(mhz), nil
}

// ReadCPUTemperatureC returns 0 when the thermal zone is missing or holds
// anything other than a non-negative integer.
func (r *Reader) ReadCPUTemperatureC() float64 {
	temp := readThermalZone(r.thermalZonePath, r.log)
	r.log.Debug().Float64("cpu_temp_c", temp).Str("path", r.thermalZonePath).Msg("CPU temperature read")
	return temp
}

// ReadRAMUsedBytes returns total minus available memory, which is not the
// same figure the OS reports as used.
func (r *Reader) ReadRAMUsedBytes() (uint64, error) {
	vm, err := r.virtualMemory()
	if err != nil {
		return 0, err
	}
	return vm.Total - vm.Available, nil
}

func (r *Reader) ReadRAMTotalBytes() (uint64, error) {
	vm, err := r.virtualMemory()
	if err != nil {
		return 0, err
	}
	return vm.Total, nil
}

// ReadRAMUsagePercent returns the OS computed percentage. On Linux gopsutil
// does not count reclaimable memory as used, so this is often well below
// ReadRAMUsedBytes / ReadRAMTotalBytes.
func (r *Reader) ReadRAMUsagePercent() (float64, error) {
	vm, err := r.virtualMemory()
	if err != nil {
		return 0, err
	}
	return roundPercent(vm.UsedPercent), nil
}

func (r *Reader) ReadSwapUsedBytes() (uint64, error) {
	sm, err := r.swapMemory()
	if err != nil {
		return 0, err
	}
	return sm.Used, nil
}

func (r *Reader) ReadSwapTotalBytes() (uint64, error) {
	sm, err := r.swapMemory()
	if err != nil {
		return 0, err
	}
	return sm.Total, nil
}

func (r *Reader) ReadSwapUsagePercent() (float64, error) {
	sm, err := r.swapMemory()
	if err != nil {
		return 0, err
	}
	return roundPercent(sm.UsedPercent), nil
}

func (r *Reader) virtualMemory() (*mem.VirtualMemoryStat, error) {
	vm, err := r.source.VirtualMemory()
	if err != nil {
		return nil, &QueryError{Metric: "virtual_memory", Err: err}
	}
	if vm == nil {
		return nil, &QueryError{Metric: "virtual_memory", Err: fmt.Errorf("empty memory report")}
	}

	r.log.Debug().
		Uint64("total", vm.Total).
		Uint64("available", vm.Available).
		Float64("used_percent", vm.UsedPercent).
		Msg("Memory info read")
	return vm, nil
}

func (r *Reader) swapMemory() (*mem.SwapMemoryStat, error) {
	sm, err := r.source.SwapMemory()
	if err != nil {
		return nil, &QueryError{Metric: "swap_memory", Err: err}
	}
	if sm == nil {
		return nil, &QueryError{Metric: "swap_memory", Err: fmt.Errorf("empty swap report")}
	}

	r.log.Debug().
		Uint64("total", sm.Total).
		Uint64("used", sm.Used).
		Float64("used_percent", sm.UsedPercent).
		Msg("Swap info read")
	return sm, nil
}

// roundPercent keeps one decimal place.
func roundPercent(v float64) float64 {
	return math.Round(v*10) / 10
}
