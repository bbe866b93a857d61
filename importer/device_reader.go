package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Column names assigned to the positional fields of a device punch log.
const (
	deviceColumnEmployee = "employee"
	deviceColumnTime     = "time"
	deviceColumnVerify   = "verifymode"
	deviceColumnPunch    = "punchstate"
)

var deviceColumns = []string{deviceColumnEmployee, deviceColumnTime, deviceColumnVerify, deviceColumnPunch}

// DeviceLogReader reads headerless tab-separated punch logs as exported by
// biometric attendance terminals: user id, timestamp, verify mode and punch
// state, optionally followed by device specific columns. The file may be
// UTF-8 or UTF-16 with a byte order mark. Blank lines are skipped and
// RowNumber is the line in the file.
type DeviceLogReader struct{}

func (r *DeviceLogReader) Read(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open device log %s: %w", path, err)
	}
	defer file.Close()

	csvReader := csv.NewReader(utf8Text(file))
	csvReader.Comma = '\t'
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true

	records := make([]Record, 0, 256)
	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read device log %s: %w", path, err)
		}
		if blankRow(row) {
			continue
		}
		rowNumber, _ := csvReader.FieldPos(0)

		values := make(map[string]string, len(deviceColumns))
		for i, column := range deviceColumns {
			if i < len(row) {
				values[column] = strings.TrimSpace(row[i])
			} else {
				values[column] = ""
			}
		}

		records = append(records, Record{RowNumber: rowNumber, Values: values})
	}

	return records, nil
}
