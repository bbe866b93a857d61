package attendance

import "time"

// Employee is the normalized employee master record used for report joins.
type Employee struct {
	Name         string
	EmployeeName string
	Department   string
	Company      string
}

// ShiftType holds shift bounds as HH:MM:SS clock strings and grace periods in minutes.
type ShiftType struct {
	Name                 string
	StartTime            string
	EndTime              string
	LateEntryGracePeriod int
	EarlyExitGracePeriod int
}

// Checkin is one raw employee check-in log line.
type Checkin struct {
	ID                 int64
	Employee           string
	Time               time.Time
	LogType            string
	Shift              string
	SkipAutoAttendance bool
	SourceFile         string
}

// Record is a marked attendance for one employee and day.
type Record struct {
	Name     string
	Employee string
	Date     time.Time
	Status   string
}

// DayAggregate is the per employee and day grouping of check-ins joined with
// the employee, shift type and attendance records.
type DayAggregate struct {
	Employee         string
	EmployeeName     string
	Department       string
	Company          string
	Date             time.Time
	Shift            string
	FirstCheckin     time.Time
	LastCheckin      time.Time
	AttendanceID     string
	AttendanceStatus string
	ShiftType        *ShiftType
}

// WorkingSeconds is the span between the first and last check-in of the day.
func (d DayAggregate) WorkingSeconds() int {
	if !d.LastCheckin.After(d.FirstCheckin) {
		return 0
	}
	return int(d.LastCheckin.Sub(d.FirstCheckin) / time.Second)
}

// Query narrows the check-ins considered for a report run. From and To are
// inclusive calendar days; empty strings do not filter.
type Query struct {
	From       time.Time
	To         time.Time
	Employee   string
	Shift      string
	Department string
	Company    string
}
