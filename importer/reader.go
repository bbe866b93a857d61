package importer

import "fmt"

type Reader interface {
	Read(path string) ([]Record, error)
}

func SupportedFormats() []string {
	return []string{"csv", "semicolon", "excel", "device"}
}

// ReaderForFormat returns the reader for format. options.Sheet selects the
// worksheet of Excel input.
func ReaderForFormat(format string, options RunOptions) (Reader, error) {
	switch normalizeHeader(format) {
	case "csv":
		return &CSVReader{}, nil
	case "semicolon", "ssv":
		return &CSVReader{Comma: ';'}, nil
	case "excel", "xlsx", "xlsm", "xls":
		return &ExcelReader{Sheet: options.Sheet}, nil
	case "device", "dat", "attlog", "tsv":
		return &DeviceLogReader{}, nil
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}
