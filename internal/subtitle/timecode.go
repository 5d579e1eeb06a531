package subtitle

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// returned when an ASS timestamp does not have the H:MM:SS.cc shape
var ErrMalformedTimestamp = fmt.Errorf("malformed ASS timestamp")

// formats a duration as an ASS timestamp: H:MM:SS.cc
func FormatASSTime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	centis := (int(d.Milliseconds()) % 1000) / 10

	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, seconds, centis)
}

// formats a duration as an SRT timestamp: HH:MM:SS,mmm
func FormatSRTTime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

// parses an ASS timestamp (H:MM:SS.cc) back into a duration
func ParseASSTime(ts string) (time.Duration, error) {
	ts = strings.TrimSpace(ts)

	parts := strings.Split(ts, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, ts)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, ts)
	}

	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, ts)
	}

	secParts := strings.Split(parts[2], ".")
	if len(secParts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, ts)
	}

	seconds, err := strconv.Atoi(secParts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, ts)
	}

	centis, err := strconv.Atoi(secParts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, ts)
	}

	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(centis)*10*time.Millisecond, nil
}

// Centiseconds converts a duration to whole centiseconds, rounded to
// nearest. The result is clamped to at least 1: a zero-length karaoke
// unit is invalid for renderers, so it is bumped up rather than emitted.
func Centiseconds(d time.Duration) int {
	cs := int((d + 5*time.Millisecond) / (10 * time.Millisecond))
	if cs < 1 {
		cs = 1
	}
	return cs
}
