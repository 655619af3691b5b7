package metrics

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// readThermalZone returns the temperature in degrees Celsius from a sysfs
// thermal node holding millidegrees. Any absent, unreadable or non-numeric
// node yields 0.
func readThermalZone(path string, log zerolog.Logger) float64 {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return 0.0
	}

	file, err := os.Open(path)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("Thermal zone unreadable")
		return 0.0
	}
	defer file.Close()

	line, err := bufio.NewReader(file).ReadString('\n')
	if err != nil && line == "" {
		log.Debug().Err(err).Str("path", path).Msg("Thermal zone empty")
		return 0.0
	}

	line = strings.TrimSpace(line)
	if !isDigits(line) {
		log.Debug().Str("path", path).Str("value", line).Msg("Thermal zone value rejected")
		return 0.0
	}

	milli, err := strconv.ParseFloat(line, 64)
	if err != nil {
		return 0.0
	}
	return milli / 1000.0
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
