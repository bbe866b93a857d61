// Package report declares query reports: their filters, columns, cell
// formatter and the execution that turns stored check-ins into rows.
package report

import (
	"errors"
	"time"

	"shiftreport/attendance"
)

// FieldType names the input control or cell type of a filter or column.
type FieldType string

const (
	FieldTypeDate     FieldType = "Date"
	FieldTypeDatetime FieldType = "Datetime"
	FieldTypeTime     FieldType = "Time"
	FieldTypeLink     FieldType = "Link"
	FieldTypeCheck    FieldType = "Check"
	FieldTypeData     FieldType = "Data"
)

var (
	ErrUnknownReport = errors.New("unknown report")
	ErrUnknownFilter = errors.New("unknown filter")
	ErrMissingFilter = errors.New("missing required filter")
	ErrInvalidFilter = errors.New("invalid filter value")
	ErrInvalidRange  = errors.New("invalid date range")
)

// Row is one rendered report row keyed by column fieldname.
type Row map[string]any

// Column describes one report column.
type Column struct {
	Label     string    `json:"label"`
	Fieldname string    `json:"fieldname"`
	Fieldtype FieldType `json:"fieldtype"`
	Options   string    `json:"options,omitempty"`
	Width     int       `json:"width"`
}

// Result is the output of one report run.
type Result struct {
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Source supplies per employee and day check-in aggregates.
type Source interface {
	QueryDayAggregates(query attendance.Query) ([]attendance.DayAggregate, error)
}

// Host is what a report needs from the application that renders it.
type Host interface {
	Today() time.Time
	Default(key string) string
	Translate(label string) string
}

// Translator is satisfied by *i18n.Translator.
type Translator interface {
	Translate(label string) string
}

// StaticHost is a Host backed by fixed defaults and an optional clock and translator.
type StaticHost struct {
	Clock      func() time.Time
	Defaults   map[string]string
	Translator Translator
}

func (h StaticHost) Today() time.Time {
	now := time.Now()
	if h.Clock != nil {
		now = h.Clock()
	}
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func (h StaticHost) Default(key string) string {
	if h.Defaults == nil {
		return ""
	}
	return h.Defaults[key]
}

func (h StaticHost) Translate(label string) string {
	if h.Translator == nil {
		return label
	}
	return h.Translator.Translate(label)
}

// TranslateColumns returns a copy of columns with labels translated by host.
func TranslateColumns(host Host, columns []Column) []Column {
	out := make([]Column, len(columns))
	for i, column := range columns {
		column.Label = host.Translate(column.Label)
		out[i] = column
	}
	return out
}
