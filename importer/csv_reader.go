package importer

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

const headerPeekSize = 64 * 1024

// CSVReader reads delimited exports with a header row. HR systems in
// European locales write ';' instead of ','; when Comma is zero the
// delimiter is picked from the header line. UTF-8 and UTF-16 files with a
// byte order mark are accepted. Rows where every cell is blank are skipped.
type CSVReader struct {
	Comma rune
}

func (r *CSVReader) Read(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file %s: %w", path, err)
	}
	defer file.Close()

	text := bufio.NewReaderSize(utf8Text(file), headerPeekSize)
	comma := r.Comma
	if comma == 0 {
		comma, err = sniffDelimiter(text)
		if err != nil {
			return nil, fmt.Errorf("read csv header %s: %w", path, err)
		}
	}

	reader := csv.NewReader(text)
	reader.Comma = comma
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header %s: %w", path, err)
	}
	keys, err := headerKeys(headers)
	if err != nil {
		return nil, fmt.Errorf("csv header %s: %w", path, err)
	}

	records := make([]Record, 0, 128)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv %s: %w", path, err)
		}
		if blankRow(row) {
			continue
		}
		line, _ := reader.FieldPos(0)
		records = append(records, newRecord(line, keys, row))
	}

	return records, nil
}

// sniffDelimiter returns whichever of ',', ';' and tab occurs most often in
// the first line, preferring ',' on a tie.
func sniffDelimiter(text *bufio.Reader) (rune, error) {
	peeked, err := text.Peek(headerPeekSize)
	if err != nil && err != io.EOF {
		return 0, err
	}
	header := string(peeked)
	if i := strings.IndexByte(header, '\n'); i >= 0 {
		header = header[:i]
	}
	return pickDelimiter(header), nil
}

func pickDelimiter(header string) rune {
	best, bestCount := ',', strings.Count(header, ",")
	for _, candidate := range []rune{';', '\t'} {
		if count := strings.Count(header, string(candidate)); count > bestCount {
			best, bestCount = candidate, count
		}
	}
	return best
}
