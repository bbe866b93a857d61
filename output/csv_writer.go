package output

import (
	"encoding/csv"
	"fmt"
	"os"

	"shiftreport/report"
)

// CSVWriter writes plain cell text. Highlighting has no CSV representation.
type CSVWriter struct{}

func (w *CSVWriter) Write(path string, _ report.Descriptor, result report.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(headerLabels(result.Columns)); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}

	for _, data := range result.Rows {
		row := make([]string, len(result.Columns))
		for i, column := range result.Columns {
			row[i] = plainCell(data[column.Fieldname], column, data)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}

	return nil
}
