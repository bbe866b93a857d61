package importer

import (
	"fmt"
	"path/filepath"
	"strings"

	"shiftreport/attendance"
)

type Result struct {
	FilesProcessed int
	RowsRead       int
	RowsMapped     int
	RowsSkipped    int
	Batch          Batch
}

type RunOptions struct {
	// DefaultShift is assigned to check-ins whose row names no shift.
	DefaultShift string
	// Sheet names the worksheet read from Excel workbooks.
	Sheet string
}

func Run(paths []string, format string, mapper Mapper, options RunOptions) (*Result, error) {
	result := &Result{}
	for _, path := range paths {
		sourceFormat, err := inferFormat(path, format)
		if err != nil {
			return nil, err
		}
		reader, err := ReaderForFormat(sourceFormat, options)
		if err != nil {
			return nil, err
		}

		records, err := reader.Read(path)
		if err != nil {
			return nil, err
		}

		result.FilesProcessed++
		result.RowsRead += len(records)
		sourceFile := filepath.Base(path)
		for _, record := range records {
			ok, mapErr := mapper.Map(record, options, sourceFile, &result.Batch)
			if mapErr != nil {
				return nil, fmt.Errorf("%s: %w", sourceFile, mapErr)
			}
			if !ok {
				result.RowsSkipped++
				continue
			}
			result.RowsMapped++
		}
	}

	return result, nil
}

func inferFormat(path string, format string) (string, error) {
	if strings.TrimSpace(format) != "" {
		return format, nil
	}

	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch extension {
	case "csv":
		return "csv", nil
	case "xlsx", "xlsm", "xls":
		return "excel", nil
	case "dat", "tsv", "txt":
		return "device", nil
	default:
		return "", fmt.Errorf("unsupported file extension for %s", path)
	}
}

// Store persists an import batch.
type Store interface {
	UpsertEmployees(employees []attendance.Employee) (int, error)
	UpsertShiftTypes(shiftTypes []attendance.ShiftType) (int, error)
	InsertCheckins(checkins []attendance.Checkin) (int, error)
	UpsertAttendance(records []attendance.Record) (int, error)
}

type PersistCounts struct {
	Employees  int
	ShiftTypes int
	Checkins   int
	Attendance int
}

// Persist writes batch to store, master data first.
func Persist(store Store, batch Batch) (PersistCounts, error) {
	var (
		counts PersistCounts
		err    error
	)
	if counts.Employees, err = store.UpsertEmployees(batch.Employees); err != nil {
		return counts, err
	}
	if counts.ShiftTypes, err = store.UpsertShiftTypes(batch.ShiftTypes); err != nil {
		return counts, err
	}
	if counts.Checkins, err = store.InsertCheckins(batch.Checkins); err != nil {
		return counts, err
	}
	if counts.Attendance, err = store.UpsertAttendance(batch.Attendance); err != nil {
		return counts, err
	}
	return counts, nil
}
