package importer

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExcelReader reads one worksheet of a workbook. Sheet selects it by name,
// ignoring case; when empty the first visible sheet is used. The header is
// the first non-blank row and blank rows below it are skipped.
type ExcelReader struct {
	Sheet string
}

func (r *ExcelReader) Read(path string) ([]Record, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open excel file %s: %w", path, err)
	}
	defer file.Close()

	sheetName, err := r.pickSheet(file)
	if err != nil {
		return nil, fmt.Errorf("excel file %s: %w", path, err)
	}

	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %s: %w", sheetName, err)
	}

	headerIndex := -1
	for i, row := range rows {
		if !blankRow(row) {
			headerIndex = i
			break
		}
	}
	if headerIndex < 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheetName)
	}

	keys, err := headerKeys(rows[headerIndex])
	if err != nil {
		return nil, fmt.Errorf("sheet %s header: %w", sheetName, err)
	}

	records := make([]Record, 0, len(rows)-headerIndex-1)
	for i := headerIndex + 1; i < len(rows); i++ {
		if blankRow(rows[i]) {
			continue
		}
		records = append(records, newRecord(i+1, keys, rows[i]))
	}

	return records, nil
}

func (r *ExcelReader) pickSheet(file *excelize.File) (string, error) {
	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}

	wanted := strings.TrimSpace(r.Sheet)
	if wanted == "" {
		for _, sheet := range sheets {
			if visible, err := file.GetSheetVisible(sheet); err == nil && visible {
				return sheet, nil
			}
		}
		return sheets[0], nil
	}

	for _, sheet := range sheets {
		if strings.EqualFold(sheet, wanted) {
			return sheet, nil
		}
	}
	return "", fmt.Errorf("sheet %q not found (sheets: %s)", wanted, strings.Join(sheets, ", "))
}
