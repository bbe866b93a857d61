package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"shiftreport/report"
)

const highlightFontColor = "FF0000"

// ExcelWriter writes one sheet and colors the cells the descriptor formatter
// highlights with a red font.
type ExcelWriter struct{}

func (w *ExcelWriter) Write(path string, descriptor report.Descriptor, result report.Result) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	headerStyle, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	highlightStyle, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Color: highlightFontColor}})
	if err != nil {
		return fmt.Errorf("create highlight style: %w", err)
	}

	for col, column := range result.Columns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(sheet, cell, column.Label); err != nil {
			return fmt.Errorf("set excel header %s: %w", cell, err)
		}
		if err := file.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("style excel header %s: %w", cell, err)
		}
		if column.Width > 0 {
			name, _ := excelize.ColumnNumberToName(col + 1)
			if err := file.SetColWidth(sheet, name, name, float64(column.Width)/7); err != nil {
				return fmt.Errorf("set excel column width %s: %w", name, err)
			}
		}
	}

	for i, data := range result.Rows {
		row := i + 2
		for col, column := range result.Columns {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			value := data[column.Fieldname]
			if err := file.SetCellValue(sheet, cell, plainCell(value, column, data)); err != nil {
				return fmt.Errorf("set excel value %s: %w", cell, err)
			}
			if isHighlighted(descriptor, value, column, data) {
				if err := file.SetCellStyle(sheet, cell, cell, highlightStyle); err != nil {
					return fmt.Errorf("style excel value %s: %w", cell, err)
				}
			}
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}

	return nil
}

// isHighlighted reports whether the descriptor formatter changes the plain
// rendering of the cell.
func isHighlighted(descriptor report.Descriptor, value any, column report.Column, data report.Row) bool {
	if descriptor.Formatter == nil {
		return false
	}
	plain := plainCell(value, column, data)
	return descriptor.FormatCell(value, nil, column, data, report.PlainFormatter) != plain
}
