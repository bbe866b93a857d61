package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"
)

func TestCSVReader_SemicolonWithBOM(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "export.csv")
	content := "\ufeffEmployee ID;Time;Log Type\n" +
		"EMP-0001;2026-03-02 09:20:00;IN\n" +
		";;\n" +
		"EMP-0001;2026-03-02 16:40:00;OUT\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	records, err := (&CSVReader{}).Read(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Record{
		{RowNumber: 2, Values: map[string]string{"employeeid": "EMP-0001", "time": "2026-03-02 09:20:00", "logtype": "IN"}},
		{RowNumber: 4, Values: map[string]string{"employeeid": "EMP-0001", "time": "2026-03-02 16:40:00", "logtype": "OUT"}},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestCSVReader_UTF16Tabs(t *testing.T) {
	t.Parallel()

	path := writeUTF16LEFile(t, t.TempDir(), "export.csv", "employee\ttime\n101\t2026-03-02 08:58:11\n")

	records, err := (&CSVReader{}).Read(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].Get("employee") != "101" || records[0].Get("time") != "2026-03-02 08:58:11" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestCSVReader_ExplicitCommaKeepsSemicolonsInValues(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "employees.csv")
	content := "employee;name\nEMP-0001;Ada;Obi\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	records, err := (&CSVReader{Comma: ','}).Read(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].Get("employee;name") != "EMP-0001;Ada;Obi" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestCSVReader_DuplicateHeader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "dup.csv")
	if err := os.WriteFile(path, []byte("Employee,employee_,time\nE,F,2026-03-02 09:00\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := (&CSVReader{}).Read(path)
	if err == nil || !strings.Contains(err.Error(), "duplicate column") {
		t.Fatalf("expected duplicate column error, got %v", err)
	}
}

func TestPickDelimiter(t *testing.T) {
	t.Parallel()

	tests := map[string]rune{
		"employee,time,log_type":       ',',
		"employee;time;log_type":       ';',
		"employee\ttime\tlog_type":     '\t',
		"name;\"Obi, Ada\";time":       ';',
		"single":                       ',',
		"employee,time;log_type":       ',',
		"Mitarbeiter;Zeit;Art;Schicht": ';',
	}
	for header, want := range tests {
		if got := pickDelimiter(header); got != want {
			t.Errorf("pickDelimiter(%q) = %q, want %q", header, got, want)
		}
	}
}

func writeWorkbook(t *testing.T, path string, sheets map[string][][]any, order []string) {
	t.Helper()

	file := excelize.NewFile()
	defer file.Close()
	for i, name := range order {
		if i == 0 {
			if err := file.SetSheetName(file.GetSheetName(0), name); err != nil {
				t.Fatal(err)
			}
		} else if _, err := file.NewSheet(name); err != nil {
			t.Fatal(err)
		}
		for rowIndex, row := range sheets[name] {
			if row == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(1, rowIndex+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := file.SetSheetRow(name, cell, &row); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := file.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
}

func TestExcelReader_SelectsSheet(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "hr-master.xlsx")
	writeWorkbook(t, path, map[string][][]any{
		"Employees": {
			nil,
			{"Employee", "Employee Name"},
			{"EMP-0001", "Ada Obi"},
		},
		"Shift Types": {
			{"Shift Type", "Start Time", "End Time"},
			{"Day", "09:00", "17:00"},
		},
	}, []string{"Employees", "Shift Types"})

	employees, err := (&ExcelReader{}).Read(path)
	if err != nil {
		t.Fatalf("read default sheet: %v", err)
	}
	wantEmployees := []Record{
		{RowNumber: 3, Values: map[string]string{"employee": "EMP-0001", "employeename": "Ada Obi"}},
	}
	if diff := cmp.Diff(wantEmployees, employees); diff != "" {
		t.Fatalf("employees mismatch (-want +got):\n%s", diff)
	}

	shifts, err := (&ExcelReader{Sheet: "shift types"}).Read(path)
	if err != nil {
		t.Fatalf("read named sheet: %v", err)
	}
	if len(shifts) != 1 || shifts[0].Get("shift_type") != "Day" || shifts[0].RowNumber != 2 {
		t.Fatalf("unexpected shift records: %+v", shifts)
	}

	_, err = (&ExcelReader{Sheet: "Payroll"}).Read(path)
	if err == nil || !strings.Contains(err.Error(), `sheet "Payroll" not found`) {
		t.Fatalf("expected missing sheet error, got %v", err)
	}
}

func TestRun_PassesSheetToExcelReader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "hr-master.xlsx")
	writeWorkbook(t, path, map[string][][]any{
		"Cover": {
			{"HR master data export"},
		},
		"Employees": {
			{"Employee", "Employee Name", "Department", "Company"},
			{"EMP-0001", "Ada Obi", "Ops", "Acme"},
			{"EMP-0002", "Ben Kora", "Ops", "Acme"},
		},
	}, []string{"Cover", "Employees"})

	result, err := Run([]string{path}, "", &EmployeeMapper{}, RunOptions{Sheet: "Employees"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.RowsRead != 2 || len(result.Batch.Employees) != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Batch.Employees[1].Name != "EMP-0002" {
		t.Fatalf("unexpected employees: %+v", result.Batch.Employees)
	}
}

func TestNormalizeHeader(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Employee ID":    "employeeid",
		"employee_id":    "employeeid",
		"Employee-Id.":   "employeeid",
		"\ufeffEmployee": "employee",
		" In/Out ":       "inout",
	}
	for input, want := range tests {
		if got := normalizeHeader(input); got != want {
			t.Errorf("normalizeHeader(%q) = %q, want %q", input, got, want)
		}
	}
}
