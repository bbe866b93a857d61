package importer

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Record is one data row keyed by normalized header. RowNumber is the
// 1-based line or sheet row the values came from.
type Record struct {
	RowNumber int
	Values    map[string]string
}

// Get returns the trimmed value of the first key present in the record.
func (r Record) Get(keys ...string) string {
	for _, key := range keys {
		normalized := normalizeHeader(key)
		if value, ok := r.Values[normalized]; ok {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// normalizeHeader folds "Employee ID", "employee_id" and "Employee-Id." to
// the same key. A leading byte order mark left by spreadsheet exports is
// dropped.
func normalizeHeader(input string) string {
	trimmed := strings.TrimPrefix(input, "\ufeff")
	trimmed = strings.TrimSpace(strings.ToLower(trimmed))
	return strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', ' ', '.', '/':
			return -1
		}
		return r
	}, trimmed)
}

// headerKeys normalizes a header row. Two columns that fold to the same key
// are rejected so that one cannot silently shadow the other.
func headerKeys(headers []string) ([]string, error) {
	keys := make([]string, len(headers))
	seen := make(map[string]int, len(headers))
	for i, header := range headers {
		key := normalizeHeader(header)
		keys[i] = key
		if key == "" {
			continue
		}
		if first, exists := seen[key]; exists {
			return nil, fmt.Errorf("duplicate column %q (columns %d and %d)", strings.TrimSpace(header), first+1, i+1)
		}
		seen[key] = i
	}
	return keys, nil
}

// newRecord maps row onto keys. Missing trailing cells become empty values
// and cells under an empty header are dropped.
func newRecord(rowNumber int, keys []string, row []string) Record {
	values := make(map[string]string, len(keys))
	for i, key := range keys {
		if key == "" {
			continue
		}
		if i < len(row) {
			values[key] = row[i]
		} else {
			values[key] = ""
		}
	}
	return Record{RowNumber: rowNumber, Values: values}
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// utf8Text decodes r as UTF-8, switching to UTF-16 when a byte order mark
// says so. The mark itself is removed.
func utf8Text(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}
