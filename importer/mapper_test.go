package importer

import (
	"testing"
	"time"
)

func record(row int, values map[string]string) Record {
	normalized := make(map[string]string, len(values))
	for key, value := range values {
		normalized[normalizeHeader(key)] = value
	}
	return Record{RowNumber: row, Values: normalized}
}

func TestMapperByName(t *testing.T) {
	t.Parallel()

	for _, name := range SupportedMapperNames() {
		mapper, err := MapperByName(name)
		if err != nil {
			t.Fatalf("mapper %q: %v", name, err)
		}
		if mapper.Name() != name {
			t.Fatalf("mapper %q reports name %q", name, mapper.Name())
		}
	}
	if _, err := MapperByName("epm"); err == nil {
		t.Fatalf("expected error for unknown mapper")
	}
}

func TestCheckinMapper_MapsRow(t *testing.T) {
	t.Parallel()

	var batch Batch
	ok, err := (&CheckinMapper{}).Map(record(2, map[string]string{
		"Employee":             "EMP-0001",
		"Time":                 "2026-03-02 09:20:00",
		"Log Type":             "in",
		"skip_auto_attendance": "0",
	}), RunOptions{DefaultShift: "Day"}, "checkins.csv", &batch)
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	if !ok || len(batch.Checkins) != 1 {
		t.Fatalf("expected one mapped checkin, got ok=%v batch=%+v", ok, batch)
	}

	checkin := batch.Checkins[0]
	if checkin.Employee != "EMP-0001" || checkin.LogType != LogTypeIn || checkin.Shift != "Day" || checkin.SourceFile != "checkins.csv" {
		t.Fatalf("unexpected checkin: %+v", checkin)
	}
	if !checkin.Time.Equal(time.Date(2026, 3, 2, 9, 20, 0, 0, time.Local)) {
		t.Fatalf("unexpected checkin time: %s", checkin.Time)
	}
}

func TestCheckinMapper_SplitDateAndClock(t *testing.T) {
	t.Parallel()

	var batch Batch
	ok, err := (&CheckinMapper{}).Map(record(3, map[string]string{
		"employee": "EMP-0002",
		"date":     "02.03.2026",
		"clock":    "17:05",
		"shift":    "Late",
		"type":     "OUT",
	}), RunOptions{DefaultShift: "Day"}, "x.csv", &batch)
	if err != nil || !ok {
		t.Fatalf("map: ok=%v err=%v", ok, err)
	}
	checkin := batch.Checkins[0]
	if checkin.Shift != "Late" || checkin.LogType != LogTypeOut {
		t.Fatalf("unexpected checkin: %+v", checkin)
	}
	if !checkin.Time.Equal(time.Date(2026, 3, 2, 17, 5, 0, 0, time.Local)) {
		t.Fatalf("unexpected checkin time: %s", checkin.Time)
	}
}

func TestCheckinMapper_SkipsAndErrors(t *testing.T) {
	t.Parallel()

	mapper := &CheckinMapper{}
	var batch Batch

	ok, err := mapper.Map(record(2, map[string]string{"time": "2026-03-02 09:00"}), RunOptions{}, "x.csv", &batch)
	if err != nil || ok {
		t.Fatalf("expected row without employee to be skipped, ok=%v err=%v", ok, err)
	}
	if _, err := mapper.Map(record(3, map[string]string{"employee": "E", "time": "soon"}), RunOptions{}, "x.csv", &batch); err == nil {
		t.Fatalf("expected error for invalid time")
	}
	if _, err := mapper.Map(record(4, map[string]string{"employee": "E", "time": "2026-03-02 09:00", "logtype": "lunch"}), RunOptions{}, "x.csv", &batch); err == nil {
		t.Fatalf("expected error for invalid log type")
	}
	if len(batch.Checkins) != 0 {
		t.Fatalf("expected no checkins, got %+v", batch.Checkins)
	}
}

func TestNormalizeLogType_PunchStates(t *testing.T) {
	t.Parallel()

	tests := map[string]string{"0": LogTypeIn, "1": LogTypeOut, "2": LogTypeOut, "3": LogTypeIn, "4": LogTypeIn, "5": LogTypeOut, "": ""}
	for input, want := range tests {
		got, err := normalizeLogType(input)
		if err != nil {
			t.Fatalf("normalize %q: %v", input, err)
		}
		if got != want {
			t.Fatalf("normalize %q: want %q, got %q", input, want, got)
		}
	}
}

func TestEmployeeMapper(t *testing.T) {
	t.Parallel()

	var batch Batch
	ok, err := (&EmployeeMapper{}).Map(record(2, map[string]string{
		"ID":         "EMP-0001",
		"Full Name":  "Ada Obi",
		"Department": "Ops",
		"Company":    "Acme Ltd",
	}), RunOptions{}, "", &batch)
	if err != nil || !ok {
		t.Fatalf("map: ok=%v err=%v", ok, err)
	}
	employee := batch.Employees[0]
	if employee.Name != "EMP-0001" || employee.EmployeeName != "Ada Obi" || employee.Company != "Acme Ltd" {
		t.Fatalf("unexpected employee: %+v", employee)
	}

	ok, err = (&EmployeeMapper{}).Map(record(3, map[string]string{"employee": "EMP-0002"}), RunOptions{}, "", &batch)
	if err != nil || !ok {
		t.Fatalf("map: ok=%v err=%v", ok, err)
	}
	if batch.Employees[1].EmployeeName != "EMP-0002" {
		t.Fatalf("expected employee id as name fallback, got %+v", batch.Employees[1])
	}
}

func TestShiftTypeMapper(t *testing.T) {
	t.Parallel()

	var batch Batch
	ok, err := (&ShiftTypeMapper{}).Map(record(2, map[string]string{
		"Shift Type":              "Day",
		"Start Time":              "9:00",
		"End Time":                "17:00:00",
		"Late Entry Grace Period": "15",
		"Early Exit Grace Period": "10",
	}), RunOptions{}, "", &batch)
	if err != nil || !ok {
		t.Fatalf("map: ok=%v err=%v", ok, err)
	}
	shiftType := batch.ShiftTypes[0]
	if shiftType.StartTime != "09:00:00" || shiftType.EndTime != "17:00:00" || shiftType.LateEntryGracePeriod != 15 || shiftType.EarlyExitGracePeriod != 10 {
		t.Fatalf("unexpected shift type: %+v", shiftType)
	}

	if _, err := (&ShiftTypeMapper{}).Map(record(3, map[string]string{"shift": "Bad", "start": "nine"}), RunOptions{}, "", &batch); err == nil {
		t.Fatalf("expected error for invalid start time")
	}
}

func TestAttendanceMapper(t *testing.T) {
	t.Parallel()

	var batch Batch
	ok, err := (&AttendanceMapper{}).Map(record(2, map[string]string{
		"Attendance ID":   "HR-ATT-0001",
		"Employee":        "EMP-0001",
		"Attendance Date": "2026-03-02",
		"Status":          "Present",
	}), RunOptions{}, "", &batch)
	if err != nil || !ok {
		t.Fatalf("map: ok=%v err=%v", ok, err)
	}
	got := batch.Attendance[0]
	if got.Name != "HR-ATT-0001" || got.Status != "Present" || got.Date.Format("2006-01-02") != "2026-03-02" {
		t.Fatalf("unexpected attendance: %+v", got)
	}
}
