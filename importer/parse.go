package importer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"shiftreport/internal/timeutil"
)

func parseMinutes(raw string) (int, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return 0, nil
	}

	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	minutes, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse minutes %q: %w", raw, err)
	}

	rounded := int(math.Round(minutes))
	if rounded < 0 {
		return 0, fmt.Errorf("minutes must not be negative")
	}
	return rounded, nil
}

func parseDateAndTime(dateValue, timeValue string) (time.Time, error) {
	dateValue = strings.TrimSpace(dateValue)
	timeValue = strings.TrimSpace(timeValue)
	if dateValue == "" || timeValue == "" {
		return time.Time{}, fmt.Errorf("missing date or time")
	}
	return parseDateTime(dateValue + " " + timeValue)
}

func parseDateTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty datetime")
	}

	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed.In(time.Local), nil
	}

	layouts := []string{
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.000000",
		"02.01.2006 15:04:05",
		"02.01.2006 15:04",
		"02.01.2006 03:04 PM",
		"2006-01-02 03:04 PM",
	}

	for _, layout := range layouts {
		if parsed, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, fmt.Errorf("unsupported datetime format: %q", value)
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, layout := range []string{"2006-01-02", "02.01.2006", "02-01-2006"} {
		if parsed, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date format: %q", value)
}

// parseClock normalizes a shift bound to HH:MM:SS. Empty input stays empty.
func parseClock(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	seconds, err := timeutil.ParseClock(value)
	if err != nil {
		return "", err
	}
	return timeutil.FormatClock(seconds), nil
}

func parseFlag(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "0", "false", "no", "n":
		return false, nil
	case "1", "true", "yes", "y":
		return true, nil
	default:
		return false, fmt.Errorf("unsupported flag value: %q", value)
	}
}

func fallback(value, defaultValue string) string {
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	return strings.TrimSpace(value)
}
