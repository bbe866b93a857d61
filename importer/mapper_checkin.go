package importer

import (
	"fmt"
	"strings"
	"time"

	"shiftreport/attendance"
)

const (
	LogTypeIn  = "IN"
	LogTypeOut = "OUT"
)

type CheckinMapper struct{}

func (m *CheckinMapper) Name() string {
	return "checkin"
}

func (m *CheckinMapper) Map(record Record, options RunOptions, sourceFile string, batch *Batch) (bool, error) {
	employee := record.Get("employee", "employeeid", "userid", "emp")
	if employee == "" {
		return false, nil
	}

	var (
		stamp time.Time
		err   error
	)
	if raw := record.Get("time", "datetime", "timestamp", "checkintime"); raw != "" {
		stamp, err = parseDateTime(raw)
	} else {
		stamp, err = parseDateAndTime(record.Get("date", "day"), record.Get("clock", "timeofday"))
	}
	if err != nil {
		return false, fmt.Errorf("row %d: parse checkin time: %w", record.RowNumber, err)
	}

	logType, err := normalizeLogType(record.Get("logtype", "type", "direction", "punchstate"))
	if err != nil {
		return false, fmt.Errorf("row %d: %w", record.RowNumber, err)
	}

	skip, err := parseFlag(record.Get("skipautoattendance", "skip"))
	if err != nil {
		return false, fmt.Errorf("row %d: parse skip_auto_attendance: %w", record.RowNumber, err)
	}

	batch.Checkins = append(batch.Checkins, attendance.Checkin{
		Employee:           employee,
		Time:               stamp,
		LogType:            logType,
		Shift:              fallback(record.Get("shift", "shifttype"), options.DefaultShift),
		SkipAutoAttendance: skip,
		SourceFile:         sourceFile,
	})
	return true, nil
}

// normalizeLogType maps textual directions and terminal punch states to IN
// or OUT. Punch states 0, 3 and 4 are check-in, break-in and overtime-in.
func normalizeLogType(value string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return "", nil
	case "in", "i", "checkin", "check-in", "0", "3", "4":
		return LogTypeIn, nil
	case "out", "o", "checkout", "check-out", "1", "2", "5":
		return LogTypeOut, nil
	default:
		return "", fmt.Errorf("unsupported log type %q", value)
	}
}
