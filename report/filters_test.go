package report

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type filterShape struct {
	Fieldname  string
	Label      string
	Fieldtype  FieldType
	Options    string
	Required   bool
	HasDefault bool
}

func testHost() StaticHost {
	return StaticHost{
		Clock:    func() time.Time { return time.Date(2026, 2, 14, 10, 30, 0, 0, time.Local) },
		Defaults: map[string]string{"company": "Acme Ltd"},
	}
}

func TestShiftAttendanceFilters_DeclaredOrder(t *testing.T) {
	t.Parallel()

	filters := ShiftAttendanceFilters()
	got := make([]filterShape, 0, len(filters))
	for _, filter := range filters {
		got = append(got, filterShape{
			Fieldname:  filter.Fieldname,
			Label:      filter.Label,
			Fieldtype:  filter.Fieldtype,
			Options:    filter.Options,
			Required:   filter.Required,
			HasDefault: filter.Default != nil,
		})
	}

	want := []filterShape{
		{"from_date", "From Date", FieldTypeDate, "", true, true},
		{"to_date", "To Date", FieldTypeDate, "", true, true},
		{"employee", "Employee", FieldTypeLink, "Employee", false, false},
		{"shift", "Shift Type", FieldTypeLink, "Shift Type", false, false},
		{"department", "Department", FieldTypeLink, "Department", false, false},
		{"company", "Company", FieldTypeLink, "Company", true, true},
		{"late_entry", "Late Entry", FieldTypeCheck, "", false, false},
		{"early_exit", "Early Exit", FieldTypeCheck, "", false, false},
		{"consider_grace_period", "Consider Grace Period", FieldTypeCheck, "", false, true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("filters mismatch (-want +got):\n%s", diff)
	}
}

func TestShiftAttendanceColumns_Labels(t *testing.T) {
	t.Parallel()

	columns := ShiftAttendanceColumns()
	got := make([]string, 0, len(columns))
	for _, column := range columns {
		got = append(got, column.Label)
	}

	want := []string{
		"Employee", "Employee Name", "Department", "Company", "Attendance Date",
		"Shift", "Shift Start", "Shift End", "First Checkin", "Last Checkin",
		"In Time", "Out Time", "Working Hours", "Late Entry By", "Early Exit By",
		"Overtime", "Actual Overtime", "Status", "Attendance ID",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("column labels mismatch (-want +got):\n%s", diff)
	}
}

func TestShiftAttendanceFilters_RequiredHaveDefaults(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for _, filter := range ShiftAttendanceFilters() {
		if seen[filter.Fieldname] {
			t.Fatalf("duplicate filter %q", filter.Fieldname)
		}
		seen[filter.Fieldname] = true
		if filter.Required && filter.Default == nil {
			t.Fatalf("required filter %q has no default", filter.Fieldname)
		}
	}
}

func TestShiftAttendanceFilters_DefaultsFromHost(t *testing.T) {
	t.Parallel()

	host := testHost()
	defaults := map[string]any{}
	for _, filter := range ShiftAttendanceFilters() {
		if filter.Default != nil {
			defaults[filter.Fieldname] = filter.Default(host)
		}
	}

	want := map[string]any{
		FieldFromDate:            time.Date(2026, 2, 1, 0, 0, 0, 0, time.Local),
		FieldToDate:              time.Date(2026, 2, 28, 0, 0, 0, 0, time.Local),
		FieldCompany:             "Acme Ltd",
		FieldConsiderGracePeriod: true,
	}
	if diff := cmp.Diff(want, defaults); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestHostDefault_EmptyIsNil(t *testing.T) {
	t.Parallel()

	if got := HostDefault("company")(StaticHost{}); got != nil {
		t.Fatalf("expected nil default without configured company, got %#v", got)
	}
}

func TestResolve_AppliesDefaults(t *testing.T) {
	t.Parallel()

	values, err := Resolve(ShiftAttendance(), testHost(), nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got := values.Date(FieldFromDate).Format("2006-01-02"); got != "2026-02-01" {
		t.Fatalf("unexpected from_date %s", got)
	}
	if got := values.Date(FieldToDate).Format("2006-01-02"); got != "2026-02-28" {
		t.Fatalf("unexpected to_date %s", got)
	}
	if got := values.String(FieldCompany); got != "Acme Ltd" {
		t.Fatalf("unexpected company %q", got)
	}
	if !values.Bool(FieldConsiderGracePeriod) {
		t.Fatalf("expected consider_grace_period to default to true")
	}
	if values.Bool(FieldLateEntry) || values.Bool(FieldEarlyExit) {
		t.Fatalf("expected late_entry and early_exit to be unset")
	}
	if _, ok := values[FieldEmployee]; ok {
		t.Fatalf("expected employee to be absent")
	}
}

func TestResolve_ParsesInput(t *testing.T) {
	t.Parallel()

	values, err := Resolve(ShiftAttendance(), testHost(), map[string]string{
		FieldFromDate:            "2026-01-05",
		FieldToDate:              " 2026-01-09 ",
		FieldEmployee:            "EMP-0001",
		FieldLateEntry:           "on",
		FieldConsiderGracePeriod: "0",
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got := values.Date(FieldToDate).Format("2006-01-02"); got != "2026-01-09" {
		t.Fatalf("unexpected to_date %s", got)
	}
	if values.String(FieldEmployee) != "EMP-0001" {
		t.Fatalf("unexpected employee %q", values.String(FieldEmployee))
	}
	if !values.Bool(FieldLateEntry) {
		t.Fatalf("expected late_entry true")
	}
	if values.BoolOr(FieldConsiderGracePeriod, true) {
		t.Fatalf("expected explicit consider_grace_period=0 to win over default")
	}
}

func TestResolve_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		host Host
		raw  map[string]string
		want error
	}{
		{"missing company", StaticHost{}, nil, ErrMissingFilter},
		{"reversed range", testHost(), map[string]string{FieldFromDate: "2026-02-10", FieldToDate: "2026-02-01"}, ErrInvalidRange},
		{"bad date", testHost(), map[string]string{FieldFromDate: "10.02.2026"}, ErrInvalidFilter},
		{"bad check", testHost(), map[string]string{FieldLateEntry: "maybe"}, ErrInvalidFilter},
		{"unknown filter", testHost(), map[string]string{"project": "x"}, ErrUnknownFilter},
	}

	for _, tc := range tests {
		_, err := Resolve(ShiftAttendance(), tc.host, tc.raw)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestViews_TranslatesAndPrefersInput(t *testing.T) {
	t.Parallel()

	host := testHost()
	host.Translator = translatorFunc(func(label string) string {
		if label == "From Date" {
			return "Von Datum"
		}
		return label
	})

	views := Views(ShiftAttendance(), host, map[string]string{FieldToDate: "2026-02-20"})
	if len(views) != 9 {
		t.Fatalf("expected 9 views, got %d", len(views))
	}
	if views[0].Label != "Von Datum" || views[0].Value != "2026-02-01" {
		t.Fatalf("unexpected from_date view: %+v", views[0])
	}
	if views[1].Value != "2026-02-20" {
		t.Fatalf("expected entered to_date to win, got %+v", views[1])
	}
	if views[8].Value != "1" {
		t.Fatalf("expected consider_grace_period checked, got %+v", views[8])
	}
	if views[6].Value != "" {
		t.Fatalf("expected late_entry empty, got %+v", views[6])
	}
}

func TestTranslateColumns_CopiesColumns(t *testing.T) {
	t.Parallel()

	columns := ShiftAttendanceColumns()
	host := StaticHost{Translator: translatorFunc(func(label string) string { return "x" + label })}
	translated := TranslateColumns(host, columns)
	if translated[0].Label != "xEmployee" {
		t.Fatalf("unexpected translated label %q", translated[0].Label)
	}
	if columns[0].Label != "Employee" {
		t.Fatalf("source columns were modified")
	}
}

type translatorFunc func(label string) string

func (f translatorFunc) Translate(label string) string {
	return f(label)
}
