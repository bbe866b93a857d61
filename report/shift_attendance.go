package report

import (
	"fmt"

	"shiftreport/attendance"
	"shiftreport/internal/classify"
	"shiftreport/internal/timeutil"
)

// ShiftAttendanceName is the registered name of the shift attendance report.
const ShiftAttendanceName = "Custom Shift Attendance"

func init() {
	Register(ShiftAttendance())
}

// ShiftAttendance returns the descriptor of the shift attendance report.
func ShiftAttendance() Descriptor {
	return Descriptor{
		Name:      ShiftAttendanceName,
		Filters:   ShiftAttendanceFilters(),
		Columns:   ShiftAttendanceColumns(),
		Formatter: Format,
		Execute:   ExecuteShiftAttendance,
		Validate:  validateDateRange,
	}
}

func validateDateRange(values Values) error {
	from := values.Date(FieldFromDate)
	to := values.Date(FieldToDate)
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return fmt.Errorf("%w: from_date %s is after to_date %s", ErrInvalidRange, from.Format(timeutil.DateLayout), to.Format(timeutil.DateLayout))
	}
	return nil
}

// ExecuteShiftAttendance loads the day aggregates for values and turns them
// into report rows.
func ExecuteShiftAttendance(source Source, values Values) (Result, error) {
	if err := validateDateRange(values); err != nil {
		return Result{}, err
	}

	aggregates, err := source.QueryDayAggregates(attendance.Query{
		From:       values.Date(FieldFromDate),
		To:         values.Date(FieldToDate),
		Employee:   values.String(FieldEmployee),
		Shift:      values.String(FieldShift),
		Department: values.String(FieldDepartment),
		Company:    values.String(FieldCompany),
	})
	if err != nil {
		return Result{}, fmt.Errorf("query day aggregates: %w", err)
	}

	considerGrace := values.BoolOr(FieldConsiderGracePeriod, true)
	onlyLate := values.Bool(FieldLateEntry)
	onlyEarly := values.Bool(FieldEarlyExit)

	rows := make([]Row, 0, len(aggregates))
	for _, aggregate := range aggregates {
		row := buildRow(aggregate, considerGrace)
		if onlyLate && !Truthy(row[FieldLateEntry]) {
			continue
		}
		if onlyEarly && !Truthy(row[FieldEarlyExit]) {
			continue
		}
		rows = append(rows, row)
	}

	return Result{Columns: ShiftAttendanceColumns(), Rows: rows}, nil
}

func buildRow(aggregate attendance.DayAggregate, considerGrace bool) Row {
	status := aggregate.AttendanceStatus
	if status == "" {
		status = StatusNotMarked
	}

	row := Row{
		FieldEmployee:       aggregate.Employee,
		FieldEmployeeName:   aggregate.EmployeeName,
		FieldDepartment:     aggregate.Department,
		FieldCompany:        aggregate.Company,
		FieldAttendanceDate: timeutil.StartOfDay(aggregate.Date),
		FieldShift:          aggregate.Shift,
		FieldShiftStart:     "",
		FieldShiftEnd:       "",
		FieldFirstCheckin:   aggregate.FirstCheckin,
		FieldLastCheckin:    aggregate.LastCheckin,
		FieldInTime:         aggregate.FirstCheckin,
		FieldOutTime:        aggregate.LastCheckin,
		FieldWorkingHours:   timeutil.ZeroClock,
		FieldLateEntryHrs:   timeutil.ZeroClock,
		FieldEarlyExitHrs:   timeutil.ZeroClock,
		FieldOverTime:       timeutil.ZeroClock,
		FieldActualOverTime: timeutil.ZeroClock,
		FieldStatus:         status,
		FieldAttendanceID:   aggregate.AttendanceID,
		FieldLateEntry:      false,
		FieldEarlyExit:      false,
	}

	shift, ok := shiftWindow(aggregate.ShiftType)
	if ok {
		row[FieldShiftStart] = timeutil.FormatClock(shift.Start)
		row[FieldShiftEnd] = timeutil.FormatClock(shift.End)
	}

	working := aggregate.WorkingSeconds()
	day := classify.Day{
		In:             timeutil.SecondsFromMidnight(aggregate.FirstCheckin),
		Out:            timeutil.SecondsFromMidnight(aggregate.LastCheckin),
		HasIn:          !aggregate.FirstCheckin.IsZero(),
		HasOut:         !aggregate.LastCheckin.IsZero(),
		WorkingSeconds: working,
	}

	if !ok {
		if working > 0 {
			row[FieldWorkingHours] = durationOrZero(working)
		}
		return row
	}

	// Late and early are only judged for days with working time.
	if working <= 0 {
		return row
	}
	outcome := classify.Evaluate(day, shift, considerGrace)
	row[FieldLateEntry] = outcome.LateEntry
	row[FieldEarlyExit] = outcome.EarlyExit
	row[FieldWorkingHours] = durationOrZero(working)
	if outcome.LateEntry {
		row[FieldLateEntryHrs] = durationOrZero(outcome.LateBySeconds)
	}
	if outcome.EarlyExit {
		row[FieldEarlyExitHrs] = durationOrZero(outcome.EarlyBySeconds)
	}
	if outcome.OvertimeKnown {
		row[FieldOverTime] = durationOrZero(outcome.OvertimeSeconds)
	}
	if outcome.ActualOvertimeKnown {
		row[FieldActualOverTime] = durationOrZero(outcome.ActualOvertimeSeconds)
	}
	return row
}

// shiftWindow converts a shift type into seconds from midnight. It reports
// false when the shift is missing or either bound does not parse.
func shiftWindow(shiftType *attendance.ShiftType) (classify.Shift, bool) {
	if shiftType == nil {
		return classify.Shift{}, false
	}
	start, err := timeutil.ParseClock(shiftType.StartTime)
	if err != nil {
		return classify.Shift{}, false
	}
	end, err := timeutil.ParseClock(shiftType.EndTime)
	if err != nil {
		return classify.Shift{}, false
	}
	return classify.Shift{
		Start:             start,
		End:               end,
		LateGraceMinutes:  shiftType.LateEntryGracePeriod,
		EarlyGraceMinutes: shiftType.EarlyExitGracePeriod,
	}, true
}

func durationOrZero(seconds int) string {
	if seconds <= 0 {
		return timeutil.ZeroClock
	}
	return timeutil.FormatDuration(seconds)
}
