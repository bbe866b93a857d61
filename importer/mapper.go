package importer

import (
	"fmt"

	"shiftreport/attendance"
)

// Batch collects the records produced by one import run.
type Batch struct {
	Employees  []attendance.Employee
	ShiftTypes []attendance.ShiftType
	Checkins   []attendance.Checkin
	Attendance []attendance.Record
}

func (b Batch) Len() int {
	return len(b.Employees) + len(b.ShiftTypes) + len(b.Checkins) + len(b.Attendance)
}

type Mapper interface {
	Name() string
	// Map appends the record to batch. It returns false for rows that are skipped.
	Map(record Record, options RunOptions, sourceFile string, batch *Batch) (bool, error)
}

func SupportedMapperNames() []string {
	return []string{"checkin", "employee", "shift", "attendance"}
}

func MapperByName(name string) (Mapper, error) {
	switch normalizeHeader(name) {
	case "checkin", "checkins", "employeecheckin":
		return &CheckinMapper{}, nil
	case "employee", "employees":
		return &EmployeeMapper{}, nil
	case "shift", "shifts", "shifttype":
		return &ShiftTypeMapper{}, nil
	case "attendance":
		return &AttendanceMapper{}, nil
	default:
		return nil, fmt.Errorf("unsupported mapper: %s", name)
	}
}
