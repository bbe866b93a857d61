package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"shiftreport/internal/timeutil"
	"shiftreport/report"
)

// DefaultTerminalColumns is the column subset that fits a terminal.
var DefaultTerminalColumns = []string{
	report.FieldEmployee,
	report.FieldEmployeeName,
	report.FieldAttendanceDate,
	report.FieldShift,
	report.FieldInTime,
	report.FieldOutTime,
	report.FieldWorkingHours,
	report.FieldLateEntryHrs,
	report.FieldEarlyExitHrs,
	report.FieldOverTime,
	report.FieldStatus,
}

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle      = lipgloss.NewStyle().Padding(0, 1)
	highlightStyle = cellStyle.Foreground(lipgloss.Color("9"))
	borderStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// TerminalWriter renders a result as a bordered table. Cells highlighted by
// the descriptor formatter are drawn in red.
type TerminalWriter struct {
	Out io.Writer
	// Columns selects fieldnames to show. Empty shows every result column.
	Columns []string
}

func (w *TerminalWriter) Render(descriptor report.Descriptor, result report.Result) error {
	columns := selectColumns(result.Columns, w.Columns)

	rows := make([][]string, len(result.Rows))
	highlighted := make([][]bool, len(result.Rows))
	for i, data := range result.Rows {
		rows[i] = make([]string, len(columns))
		highlighted[i] = make([]bool, len(columns))
		for j, column := range columns {
			value := data[column.Fieldname]
			rows[i][j] = plainCell(value, column, data)
			highlighted[i][j] = isHighlighted(descriptor, value, column, data)
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headerLabels(columns)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(highlighted) && col < len(highlighted[row]) && highlighted[row][col] {
				return highlightStyle
			}
			return cellStyle
		})

	if _, err := fmt.Fprintln(w.Out, t.Render()); err != nil {
		return fmt.Errorf("write terminal table: %w", err)
	}
	return nil
}

// RenderSummary writes the headline counters below a table.
func (w *TerminalWriter) RenderSummary(host report.Host, summary Summary) error {
	lines := []string{
		fmt.Sprintf("%s: %d", host.Translate("Records"), summary.Records),
		fmt.Sprintf("%s: %d", host.Translate("Employees"), summary.Employees),
		fmt.Sprintf("%s: %d", host.Translate("Late Entries"), summary.LateEntries),
		fmt.Sprintf("%s: %d", host.Translate("Early Exits"), summary.EarlyExits),
		fmt.Sprintf("%s: %s", host.Translate("Total Working Hours"), formatTotal(summary.WorkingSeconds)),
	}
	for _, status := range summary.Statuses {
		lines = append(lines, fmt.Sprintf("%s: %d", host.Translate(status.Status), status.Count))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w.Out, line); err != nil {
			return fmt.Errorf("write terminal summary: %w", err)
		}
	}
	return nil
}

func formatTotal(seconds int) string {
	if seconds <= 0 {
		return timeutil.ZeroClock
	}
	return timeutil.FormatDuration(seconds)
}

func selectColumns(columns []report.Column, fieldnames []string) []report.Column {
	if len(fieldnames) == 0 {
		return columns
	}
	byName := make(map[string]report.Column, len(columns))
	for _, column := range columns {
		byName[column.Fieldname] = column
	}
	selected := make([]report.Column, 0, len(fieldnames))
	for _, fieldname := range fieldnames {
		if column, ok := byName[fieldname]; ok {
			selected = append(selected, column)
		}
	}
	return selected
}
