package report

// Column and filter fieldnames of the shift attendance report.
const (
	FieldEmployee       = "employee"
	FieldEmployeeName   = "employee_name"
	FieldDepartment     = "department"
	FieldCompany        = "company"
	FieldAttendanceDate = "attendance_date"
	FieldShift          = "shift"
	FieldShiftStart     = "shift_start"
	FieldShiftEnd       = "shift_end"
	FieldFirstCheckin   = "first_checkin"
	FieldLastCheckin    = "last_checkin"
	FieldInTime         = "in_time"
	FieldOutTime        = "out_time"
	FieldWorkingHours   = "working_hours"
	FieldLateEntryHrs   = "late_entry_hrs"
	FieldEarlyExitHrs   = "early_exit_hrs"
	FieldOverTime       = "over_time"
	FieldActualOverTime = "actual_over_time"
	FieldStatus         = "status"
	FieldAttendanceID   = "attendance_id"

	FieldFromDate            = "from_date"
	FieldToDate              = "to_date"
	FieldLateEntry           = "late_entry"
	FieldEarlyExit           = "early_exit"
	FieldConsiderGracePeriod = "consider_grace_period"
)

// StatusNotMarked is reported for days without an attendance record.
const StatusNotMarked = "Not Marked"

// ShiftAttendanceColumns returns the report columns in display order.
func ShiftAttendanceColumns() []Column {
	return []Column{
		{Label: "Employee", Fieldname: FieldEmployee, Fieldtype: FieldTypeLink, Options: "Employee", Width: 150},
		{Label: "Employee Name", Fieldname: FieldEmployeeName, Fieldtype: FieldTypeData, Width: 150},
		{Label: "Department", Fieldname: FieldDepartment, Fieldtype: FieldTypeLink, Options: "Department", Width: 150},
		{Label: "Company", Fieldname: FieldCompany, Fieldtype: FieldTypeLink, Options: "Company", Width: 150},
		{Label: "Attendance Date", Fieldname: FieldAttendanceDate, Fieldtype: FieldTypeDate, Width: 120},
		{Label: "Shift", Fieldname: FieldShift, Fieldtype: FieldTypeLink, Options: "Shift Type", Width: 120},
		{Label: "Shift Start", Fieldname: FieldShiftStart, Fieldtype: FieldTypeData, Width: 100},
		{Label: "Shift End", Fieldname: FieldShiftEnd, Fieldtype: FieldTypeData, Width: 100},
		{Label: "First Checkin", Fieldname: FieldFirstCheckin, Fieldtype: FieldTypeDatetime, Width: 150},
		{Label: "Last Checkin", Fieldname: FieldLastCheckin, Fieldtype: FieldTypeDatetime, Width: 150},
		{Label: "In Time", Fieldname: FieldInTime, Fieldtype: FieldTypeTime, Width: 100},
		{Label: "Out Time", Fieldname: FieldOutTime, Fieldtype: FieldTypeTime, Width: 100},
		{Label: "Working Hours", Fieldname: FieldWorkingHours, Fieldtype: FieldTypeData, Width: 120},
		{Label: "Late Entry By", Fieldname: FieldLateEntryHrs, Fieldtype: FieldTypeData, Width: 120},
		{Label: "Early Exit By", Fieldname: FieldEarlyExitHrs, Fieldtype: FieldTypeData, Width: 120},
		{Label: "Overtime", Fieldname: FieldOverTime, Fieldtype: FieldTypeData, Width: 100},
		{Label: "Actual Overtime", Fieldname: FieldActualOverTime, Fieldtype: FieldTypeData, Width: 100},
		{Label: "Status", Fieldname: FieldStatus, Fieldtype: FieldTypeData, Width: 100},
		{Label: "Attendance ID", Fieldname: FieldAttendanceID, Fieldtype: FieldTypeLink, Options: "Attendance", Width: 150},
	}
}

// ShiftAttendanceFilters returns the report filters in display order.
func ShiftAttendanceFilters() []Filter {
	return []Filter{
		{Fieldname: FieldFromDate, Label: "From Date", Fieldtype: FieldTypeDate, Required: true, Default: MonthStartOfToday},
		{Fieldname: FieldToDate, Label: "To Date", Fieldtype: FieldTypeDate, Required: true, Default: MonthEndOfToday},
		{Fieldname: FieldEmployee, Label: "Employee", Fieldtype: FieldTypeLink, Options: "Employee"},
		{Fieldname: FieldShift, Label: "Shift Type", Fieldtype: FieldTypeLink, Options: "Shift Type"},
		{Fieldname: FieldDepartment, Label: "Department", Fieldtype: FieldTypeLink, Options: "Department"},
		{Fieldname: FieldCompany, Label: "Company", Fieldtype: FieldTypeLink, Options: "Company", Required: true, Default: HostDefault("company")},
		{Fieldname: FieldLateEntry, Label: "Late Entry", Fieldtype: FieldTypeCheck},
		{Fieldname: FieldEarlyExit, Label: "Early Exit", Fieldtype: FieldTypeCheck},
		{Fieldname: FieldConsiderGracePeriod, Label: "Consider Grace Period", Fieldtype: FieldTypeCheck, Default: Fixed(true)},
	}
}
