package output

import (
	"sort"
	"time"

	"shiftreport/internal/timeutil"
	"shiftreport/report"
)

// Summary aggregates a shift attendance result into headline counters.
type Summary struct {
	Records        int
	Employees      int
	Days           int
	LateEntries    int
	EarlyExits     int
	WorkingSeconds int
	Statuses       []StatusCount
}

type StatusCount struct {
	Status string
	Count  int
}

func BuildSummary(result report.Result) Summary {
	summary := Summary{Records: len(result.Rows)}
	if len(result.Rows) == 0 {
		return summary
	}

	employees := make(map[string]struct{})
	days := make(map[string]struct{})
	statuses := make(map[string]int)
	for _, row := range result.Rows {
		if employee, ok := row[report.FieldEmployee].(string); ok {
			employees[employee] = struct{}{}
		}
		if day, ok := row[report.FieldAttendanceDate].(time.Time); ok {
			days[day.Format(timeutil.DateLayout)] = struct{}{}
		}
		if status, ok := row[report.FieldStatus].(string); ok && status != "" {
			statuses[status]++
		}
		if report.Truthy(row[report.FieldLateEntry]) {
			summary.LateEntries++
		}
		if report.Truthy(row[report.FieldEarlyExit]) {
			summary.EarlyExits++
		}
		summary.WorkingSeconds += workingSeconds(row)
	}

	summary.Employees = len(employees)
	summary.Days = len(days)
	summary.Statuses = make([]StatusCount, 0, len(statuses))
	for status, count := range statuses {
		summary.Statuses = append(summary.Statuses, StatusCount{Status: status, Count: count})
	}
	sort.Slice(summary.Statuses, func(i, j int) bool {
		if summary.Statuses[i].Count == summary.Statuses[j].Count {
			return summary.Statuses[i].Status < summary.Statuses[j].Status
		}
		return summary.Statuses[i].Count > summary.Statuses[j].Count
	})

	return summary
}

// Count returns the number of records with status.
func (s Summary) Count(status string) int {
	for _, entry := range s.Statuses {
		if entry.Status == status {
			return entry.Count
		}
	}
	return 0
}

func workingSeconds(row report.Row) int {
	first, okFirst := row[report.FieldFirstCheckin].(time.Time)
	last, okLast := row[report.FieldLastCheckin].(time.Time)
	if !okFirst || !okLast || !last.After(first) {
		return 0
	}
	return int(last.Sub(first) / time.Second)
}
