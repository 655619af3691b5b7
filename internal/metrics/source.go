package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Source is the operating system boundary the Reader queries.
type Source interface {
	CPUPercent(interval time.Duration) (float64, error)
	CPUFrequency() (float64, error)
	VirtualMemory() (*mem.VirtualMemoryStat, error)
	SwapMemory() (*mem.SwapMemoryStat, error)
}

type systemSource struct {
	cpufreqGlob string
}

// NewSystemSource returns a Source backed by gopsutil. cpufreqGlob selects the
// per-CPU scaling_cur_freq nodes used for the current frequency.
func NewSystemSource(cpufreqGlob string) Source {
	return &systemSource{cpufreqGlob: cpufreqGlob}
}

func (s *systemSource) CPUPercent(interval time.Duration) (float64, error) {
	pcts, err := cpu.Percent(interval, false)
	if err != nil {
		return 0, err
	}
	if len(pcts) == 0 {
		return 0, fmt.Errorf("no cpu percent reported")
	}
	return pcts[0], nil
}

// CPUFrequency prefers the kernel's current scaling frequency; gopsutil's
// cpu.Info reports the maximum on Linux, so it is only the fallback.
func (s *systemSource) CPUFrequency() (float64, error) {
	if mhz, ok := readScalingCurFreq(s.cpufreqGlob); ok {
		return mhz, nil
	}

	infos, err := cpu.Info()
	if err != nil {
		return 0, err
	}

	var sum float64
	var n int
	for _, info := range infos {
		if info.Mhz > 0 {
			sum += info.Mhz
			n++
		}
	}
	if n == 0 {
		return 0, fmt.Errorf("no cpu frequency reported")
	}
	return sum / float64(n), nil
}

func (s *systemSource) VirtualMemory() (*mem.VirtualMemoryStat, error) {
	return mem.VirtualMemory()
}

func (s *systemSource) SwapMemory() (*mem.SwapMemoryStat, error) {
	return mem.SwapMemory()
}

// readScalingCurFreq averages the kHz values of every node matched by pattern
// and returns MHz. ok is false when no node held a usable value.
func readScalingCurFreq(pattern string) (mhz float64, ok bool) {
	if pattern == "" {
		return 0, false
	}

	paths, err := filepath.Glob(pattern)
	if err != nil {
		return 0, false
	}

	var sum float64
	var n int
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		khz, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
		if err != nil || khz == 0 {
			continue
		}
		sum += float64(khz) / 1000.0
		n++
	}

	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
