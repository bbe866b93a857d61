package web

import (
	"html"
	"html/template"
	"sort"
	"strconv"
	"strings"

	"shiftreport/attendance"
	"shiftreport/internal/timeutil"
	"shiftreport/output"
	"shiftreport/report"
)

// TableRow is one rendered report row. Cells hold formatter output that is
// already HTML-safe.
type TableRow struct {
	Cells []template.HTML
}

// TableView is a report result shaped for the HTML page.
type TableView struct {
	Headers []string
	Rows    []TableRow
}

type summaryLine struct {
	Label string
	Value string
}

// escapedFormatter is the base formatter of the HTML page. Report formatters
// may wrap its output in markup, so it escapes the plain rendering itself.
func escapedFormatter(value any, row []any, column report.Column, data report.Row) string {
	return html.EscapeString(report.PlainFormatter(value, row, column, data))
}

// BuildTableView formats every cell of result through the descriptor formatter.
func BuildTableView(host report.Host, descriptor report.Descriptor, result report.Result) TableView {
	columns := report.TranslateColumns(host, result.Columns)
	view := TableView{
		Headers: make([]string, 0, len(columns)),
		Rows:    make([]TableRow, 0, len(result.Rows)),
	}
	for _, column := range columns {
		view.Headers = append(view.Headers, column.Label)
	}

	for _, formatted := range FormattedRows(descriptor, result) {
		cells := make([]template.HTML, 0, len(formatted))
		for _, cell := range formatted {
			cells = append(cells, template.HTML(cell))
		}
		view.Rows = append(view.Rows, TableRow{Cells: cells})
	}
	return view
}

// FormattedRows renders every cell of result as formatter output, row by row.
func FormattedRows(descriptor report.Descriptor, result report.Result) [][]string {
	rows := make([][]string, 0, len(result.Rows))
	for _, data := range result.Rows {
		values := make([]any, len(result.Columns))
		for i, column := range result.Columns {
			values[i] = data[column.Fieldname]
		}
		cells := make([]string, 0, len(result.Columns))
		for i, column := range result.Columns {
			cells = append(cells, descriptor.FormatCell(values[i], values, column, data, escapedFormatter))
		}
		rows = append(rows, cells)
	}
	return rows
}

func buildSummaryLines(host report.Host, summary output.Summary) []summaryLine {
	lines := []summaryLine{
		{Label: host.Translate("Records"), Value: strconv.Itoa(summary.Records)},
		{Label: host.Translate("Employees"), Value: strconv.Itoa(summary.Employees)},
		{Label: host.Translate("Late Entries"), Value: strconv.Itoa(summary.LateEntries)},
		{Label: host.Translate("Early Exits"), Value: strconv.Itoa(summary.EarlyExits)},
		{Label: host.Translate("Total Working Hours"), Value: formatTotal(summary.WorkingSeconds)},
	}
	for _, status := range summary.Statuses {
		lines = append(lines, summaryLine{Label: host.Translate(status.Status), Value: strconv.Itoa(status.Count)})
	}
	return lines
}

// BuildLinkOptions collects the suggestion lists offered by Link filters,
// keyed by the linked doctype.
func BuildLinkOptions(employees []attendance.Employee, shiftTypes []attendance.ShiftType) map[string][]string {
	options := map[string][]string{
		"Employee":   {},
		"Shift Type": {},
		"Department": {},
		"Company":    {},
	}
	departments := make(map[string]struct{})
	companies := make(map[string]struct{})
	for _, employee := range employees {
		options["Employee"] = append(options["Employee"], employee.Name)
		if department := strings.TrimSpace(employee.Department); department != "" {
			departments[department] = struct{}{}
		}
		if company := strings.TrimSpace(employee.Company); company != "" {
			companies[company] = struct{}{}
		}
	}
	for _, shiftType := range shiftTypes {
		options["Shift Type"] = append(options["Shift Type"], shiftType.Name)
	}
	options["Department"] = sortedKeys(departments)
	options["Company"] = sortedKeys(companies)
	sort.Strings(options["Employee"])
	sort.Strings(options["Shift Type"])
	return options
}

func sortedKeys(values map[string]struct{}) []string {
	out := make([]string, 0, len(values))
	for value := range values {
		out = append(out, value)
	}
	sort.Strings(out)
	return out
}

func formatTotal(seconds int) string {
	if seconds <= 0 {
		return timeutil.ZeroClock
	}
	return timeutil.FormatDuration(seconds)
}
