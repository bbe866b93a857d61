package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	ClockLayout    = "15:04:05"
	DateTimeLayout = "2006-01-02 15:04:05"
	ZeroClock      = "00:00:00"
)

func StartOfDay(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, value.Location())
}

func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// MonthStart returns the first day of the month containing value.
func MonthStart(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), 1, 0, 0, 0, 0, value.Location())
}

// MonthEnd returns the last day of the month containing value.
func MonthEnd(value time.Time) time.Time {
	return MonthStart(value).AddDate(0, 1, -1)
}

func SecondsFromMidnight(value time.Time) int {
	return value.Hour()*3600 + value.Minute()*60 + value.Second()
}

// ParseClock accepts HH:MM:SS or HH:MM and returns seconds from midnight.
// Hours above 23 are accepted since shift bounds may be stored as durations.
func ParseClock(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty clock value")
	}
	parts := strings.Split(value, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("unsupported clock format: %q", value)
	}

	total := 0
	multipliers := []int{3600, 60, 1}
	for i, part := range parts {
		number, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || number < 0 {
			return 0, fmt.Errorf("unsupported clock format: %q", value)
		}
		if i > 0 && number > 59 {
			return 0, fmt.Errorf("clock component out of range: %q", value)
		}
		total += number * multipliers[i]
	}
	return total, nil
}

// FormatClock renders seconds from midnight as HH:MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

// FormatDuration renders seconds as "1d 2h 3m 4s", omitting zero components.
// Zero and negative values render as an empty string.
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return ""
	}
	components := []struct {
		value  int
		suffix string
	}{
		{seconds / 86400, "d"},
		{(seconds % 86400) / 3600, "h"},
		{(seconds % 3600) / 60, "m"},
		{seconds % 60, "s"},
	}

	parts := make([]string, 0, len(components))
	for _, component := range components {
		if component.value == 0 {
			continue
		}
		parts = append(parts, strconv.Itoa(component.value)+component.suffix)
	}
	return strings.Join(parts, " ")
}

func ParseDate(value string) (time.Time, error) {
	parsed, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), time.Local)
	if err != nil {
		return time.Time{}, err
	}
	return parsed, nil
}
