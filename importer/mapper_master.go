package importer

import (
	"fmt"

	"shiftreport/attendance"
)

type EmployeeMapper struct{}

func (m *EmployeeMapper) Name() string {
	return "employee"
}

func (m *EmployeeMapper) Map(record Record, _ RunOptions, _ string, batch *Batch) (bool, error) {
	name := record.Get("employee", "employeeid", "id", "name")
	if name == "" {
		return false, nil
	}

	batch.Employees = append(batch.Employees, attendance.Employee{
		Name:         name,
		EmployeeName: fallback(record.Get("employeename", "fullname"), name),
		Department:   record.Get("department"),
		Company:      record.Get("company"),
	})
	return true, nil
}

type ShiftTypeMapper struct{}

func (m *ShiftTypeMapper) Name() string {
	return "shift"
}

func (m *ShiftTypeMapper) Map(record Record, _ RunOptions, _ string, batch *Batch) (bool, error) {
	name := record.Get("shifttype", "shift", "name")
	if name == "" {
		return false, nil
	}

	start, err := parseClock(record.Get("starttime", "start"))
	if err != nil {
		return false, fmt.Errorf("row %d: parse start time: %w", record.RowNumber, err)
	}
	end, err := parseClock(record.Get("endtime", "end"))
	if err != nil {
		return false, fmt.Errorf("row %d: parse end time: %w", record.RowNumber, err)
	}
	lateGrace, err := parseMinutes(record.Get("lateentrygraceperiod", "lategraceperiod", "lategrace"))
	if err != nil {
		return false, fmt.Errorf("row %d: parse late entry grace period: %w", record.RowNumber, err)
	}
	earlyGrace, err := parseMinutes(record.Get("earlyexitgraceperiod", "earlygraceperiod", "earlygrace"))
	if err != nil {
		return false, fmt.Errorf("row %d: parse early exit grace period: %w", record.RowNumber, err)
	}

	batch.ShiftTypes = append(batch.ShiftTypes, attendance.ShiftType{
		Name:                 name,
		StartTime:            start,
		EndTime:              end,
		LateEntryGracePeriod: lateGrace,
		EarlyExitGracePeriod: earlyGrace,
	})
	return true, nil
}

type AttendanceMapper struct{}

func (m *AttendanceMapper) Name() string {
	return "attendance"
}

func (m *AttendanceMapper) Map(record Record, _ RunOptions, _ string, batch *Batch) (bool, error) {
	name := record.Get("attendanceid", "attendance", "id", "name")
	employee := record.Get("employee", "employeeid")
	if name == "" || employee == "" {
		return false, nil
	}

	date, err := parseDate(record.Get("attendancedate", "date"))
	if err != nil {
		return false, fmt.Errorf("row %d: parse attendance date: %w", record.RowNumber, err)
	}

	batch.Attendance = append(batch.Attendance, attendance.Record{
		Name:     name,
		Employee: employee,
		Date:     date,
		Status:   record.Get("status"),
	})
	return true, nil
}
