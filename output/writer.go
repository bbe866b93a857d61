package output

import (
	"fmt"
	"strings"

	"shiftreport/report"
)

// Writer exports a report result to a file. Cells are rendered with the
// descriptor formatter over the plain default formatter.
type Writer interface {
	Write(path string, descriptor report.Descriptor, result report.Result) error
}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// FormatFromPath infers the export format from a file extension.
func FormatFromPath(path string) string {
	lower := strings.ToLower(strings.TrimSpace(path))
	if strings.HasSuffix(lower, ".xlsx") {
		return "excel"
	}
	return "csv"
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}

// plainCell renders one cell as text. Highlight markup is left to the caller.
func plainCell(value any, column report.Column, data report.Row) string {
	return report.PlainFormatter(value, nil, column, data)
}

func headerLabels(columns []report.Column) []string {
	labels := make([]string, len(columns))
	for i, column := range columns {
		labels[i] = column.Label
	}
	return labels
}
