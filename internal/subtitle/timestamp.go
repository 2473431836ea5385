package subtitle

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidTimestamp = errors.New("invalid timestamp")

const (
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
)

// DecodeTimestamp converts an SRT timestamp (HH:MM:SS,mmm) to milliseconds.
// The millisecond part defaults to 0 when absent. A '.' separator is
// accepted in place of ',' so WebVTT-style stamps decode the same way.
func DecodeTimestamp(s string) (int64, error) {
	s = strings.TrimSpace(s)

	clock, millis, found := strings.Cut(s, ",")
	if !found {
		if i := strings.LastIndex(s, "."); i >= 0 {
			clock, millis = s[:i], s[i+1:]
		}
	}

	parts := strings.Split(clock, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q: expected HH:MM:SS", ErrInvalidTimestamp, s)
	}

	var fields [3]int64
	for i, p := range parts {
		v, err := parseUint(p)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimestamp, s, err)
		}
		fields[i] = v
	}

	var ms int64
	if millis != "" {
		v, err := parseUint(millis)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimestamp, s, err)
		}
		ms = v
	}

	return fields[0]*msPerHour +
		fields[1]*msPerMinute +
		fields[2]*msPerSecond +
		ms, nil
}

// DecodeTranscriptTimestamp converts transcript panel stamps ("5", "0:05",
// "1:23:45") to milliseconds. Fields are read right to left as seconds,
// minutes, hours.
func DecodeTranscriptTimestamp(s string) (int64, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q: too many fields", ErrInvalidTimestamp, s)
	}

	multipliers := []int64{msPerSecond, msPerMinute, msPerHour}
	var total int64
	for i := range parts {
		v, err := parseUint(parts[len(parts)-1-i])
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimestamp, s, err)
		}
		total += v * multipliers[i]
	}
	return total, nil
}

// strict non-negative decimal; strconv.Atoi would let signs through
func parseUint(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty field")
	}
	if len(s) > 12 {
		return 0, fmt.Errorf("field %q too long", s)
	}
	var v int64
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("field %q is not a number", s)
		}
		v = v*10 + int64(r-'0')
	}
	return v, nil
}

// FormatSRTTimestamp renders milliseconds as HH:MM:SS,mmm. Negative input
// is clamped to zero.
func FormatSRTTimestamp(ms int64) string {
	return formatClock(ms, ',')
}

func formatVTTTimestamp(ms int64) string {
	return formatClock(ms, '.')
}

func formatClock(ms int64, sep byte) string {
	if ms < 0 {
		ms = 0
	}
	hours := ms / msPerHour
	minutes := (ms % msPerHour) / msPerMinute
	seconds := (ms % msPerMinute) / msPerSecond
	millis := ms % msPerSecond

	return fmt.Sprintf("%02d:%02d:%02d%c%03d", hours, minutes, seconds, sep, millis)
}

func formatASSTimestamp(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	hours := ms / msPerHour
	minutes := (ms % msPerHour) / msPerMinute
	seconds := (ms % msPerMinute) / msPerSecond
	centis := (ms % msPerSecond) / 10

	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, seconds, centis)
}
