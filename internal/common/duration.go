package common

import (
	"fmt"
	"strings"
	"time"

	iso8601 "github.com/senseyeio/duration"
)

// ParseDuration accepts Go duration strings ("30s", "1m30s") and ISO 8601
// durations ("PT30S"). Empty input is zero.
func ParseDuration(duration string) (time.Duration, error) {

	duration = strings.TrimSpace(duration)
	if len(duration) == 0 {
		return 0, nil
	}

	if parsed, err := time.ParseDuration(duration); err == nil {
		return parsed, nil
	}

	if isoDuration, err := iso8601.ParseISO8601(duration); err == nil {
		referenceTime := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
		return isoDuration.Shift(referenceTime).Sub(referenceTime), nil
	}

	return 0, fmt.Errorf("invalid duration format: %s. Expect ISO 8601 or duration string", duration)
}

// FormatDuration formats a duration in ISO 8601 format (PT1H30M20S)
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "PT0S"
	}

	var result strings.Builder
	result.WriteString("PT")

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		fmt.Fprintf(&result, "%dH", hours)
	}
	if minutes > 0 {
		fmt.Fprintf(&result, "%dM", minutes)
	}
	if seconds > 0 || (hours == 0 && minutes == 0) {
		fmt.Fprintf(&result, "%dS", seconds)
	}

	return result.String()
}
