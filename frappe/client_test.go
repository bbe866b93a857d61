package frappe

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"shiftreport/attendance"
	"shiftreport/importer"
)

func TestNewClient_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  ClientConfig
	}{
		{name: "missing base url", cfg: ClientConfig{APIKey: "k", APISecret: "s"}},
		{name: "relative base url", cfg: ClientConfig{BaseURL: "erp.example.com", APIKey: "k", APISecret: "s"}},
		{name: "missing key", cfg: ClientConfig{BaseURL: "https://erp.example.com", APISecret: "s"}},
		{name: "missing secret", cfg: ClientConfig{BaseURL: "https://erp.example.com", APIKey: "k"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := NewClient(tt.cfg); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestHTTPClient_ListEmployeesPagesAndHeaders(t *testing.T) {
	t.Parallel()

	var starts []string
	doer := fakeDoer{fn: func(r *http.Request) (*http.Response, error) {
		if r.Method != http.MethodGet {
			t.Fatalf("unexpected method %s", r.Method)
		}
		if r.URL.Path != "/api/resource/Employee" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "token key:secret" {
			t.Fatalf("unexpected Authorization header %q", got)
		}
		query := r.URL.Query()
		if got := query.Get("limit_page_length"); got != "2" {
			t.Fatalf("unexpected page length %q", got)
		}
		var filters [][]any
		if err := json.Unmarshal([]byte(query.Get("filters")), &filters); err != nil {
			t.Fatalf("decode filters: %v", err)
		}
		if len(filters) != 1 || filters[0][0] != "status" || filters[0][2] != "Active" {
			t.Fatalf("unexpected filters %v", filters)
		}

		starts = append(starts, query.Get("limit_start"))
		switch query.Get("limit_start") {
		case "0":
			return jsonResponse(map[string]any{"data": []employeeDoc{
				{Name: "HR-EMP-0001", EmployeeName: "Ada Lovelace", Department: "Ops", Company: "Acme"},
				{Name: "HR-EMP-0002", EmployeeName: "Grace Hopper", Department: "Ops", Company: "Acme"},
			}}), nil
		default:
			return jsonResponse(map[string]any{"data": []employeeDoc{
				{Name: "HR-EMP-0003", EmployeeName: "Alan Turing", Department: "R&D", Company: "Acme"},
			}}), nil
		}
	}}

	client, err := NewClient(ClientConfig{
		BaseURL:    "https://erp.example.com/",
		APIKey:     "key",
		APISecret:  "secret",
		PageSize:   2,
		HTTPClient: doer,
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	employees, err := client.ListEmployees(context.Background())
	if err != nil {
		t.Fatalf("ListEmployees() error = %v", err)
	}
	if diff := cmp.Diff([]string{"0", "2"}, starts); diff != "" {
		t.Fatalf("page starts mismatch (-want +got):\n%s", diff)
	}
	want := []attendance.Employee{
		{Name: "HR-EMP-0001", EmployeeName: "Ada Lovelace", Department: "Ops", Company: "Acme"},
		{Name: "HR-EMP-0002", EmployeeName: "Grace Hopper", Department: "Ops", Company: "Acme"},
		{Name: "HR-EMP-0003", EmployeeName: "Alan Turing", Department: "R&D", Company: "Acme"},
	}
	if diff := cmp.Diff(want, employees); diff != "" {
		t.Fatalf("employees mismatch (-want +got):\n%s", diff)
	}
}

func TestHTTPClient_ListShiftTypesKeepsGraceMinutes(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/api/resource/Shift Type" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		var fields []string
		if err := json.Unmarshal([]byte(r.URL.Query().Get("fields")), &fields); err != nil {
			t.Fatalf("decode fields: %v", err)
		}
		wantFields := []string{"name", "start_time", "end_time", "late_entry_grace_period", "early_exit_grace_period"}
		if diff := cmp.Diff(wantFields, fields); diff != "" {
			t.Fatalf("fields mismatch (-want +got):\n%s", diff)
		}
		return jsonResponse(map[string]any{"data": []map[string]any{
			{
				"name":                      "Day",
				"start_time":                "9:00:00",
				"end_time":                  "17:30:00.000000",
				"enable_entry_grace_period": 0,
				"late_entry_grace_period":   15,
				"enable_exit_grace_period":  0,
				"early_exit_grace_period":   10,
			},
			{
				"name":       "Night",
				"start_time": "22:00:00",
				"end_time":   "06:00:00",
			},
		}}), nil
	})

	shiftTypes, err := client.ListShiftTypes(context.Background())
	if err != nil {
		t.Fatalf("ListShiftTypes() error = %v", err)
	}
	want := []attendance.ShiftType{
		{Name: "Day", StartTime: "09:00:00", EndTime: "17:30:00", LateEntryGracePeriod: 15, EarlyExitGracePeriod: 10},
		{Name: "Night", StartTime: "22:00:00", EndTime: "06:00:00"},
	}
	if diff := cmp.Diff(want, shiftTypes); diff != "" {
		t.Fatalf("shift types mismatch (-want +got):\n%s", diff)
	}
}

func TestHTTPClient_ListCheckinsFiltersByDayRange(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		var filters [][]any
		if err := json.Unmarshal([]byte(r.URL.Query().Get("filters")), &filters); err != nil {
			t.Fatalf("decode filters: %v", err)
		}
		want := [][]any{
			{"time", ">=", "2026-03-02 00:00:00"},
			{"time", "<", "2026-03-04 00:00:00"},
		}
		if diff := cmp.Diff(want, filters); diff != "" {
			t.Fatalf("filters mismatch (-want +got):\n%s", diff)
		}
		return jsonResponse(map[string]any{"data": []checkinDoc{
			{Name: "EMP-CKIN-1", Employee: "HR-EMP-0001", Time: "2026-03-02 09:20:00.000000", LogType: "IN", Shift: "Day"},
			{Name: "EMP-CKIN-2", Employee: "HR-EMP-0001", Time: "2026-03-02 17:00:00", LogType: "OUT", Shift: "Day", SkipAutoAttendance: 1},
		}}), nil
	})

	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	to := time.Date(2026, 3, 3, 0, 0, 0, 0, time.Local)
	checkins, err := client.ListCheckins(context.Background(), from, to)
	if err != nil {
		t.Fatalf("ListCheckins() error = %v", err)
	}
	want := []attendance.Checkin{
		{Employee: "HR-EMP-0001", Time: time.Date(2026, 3, 2, 9, 20, 0, 0, time.Local), LogType: "IN", Shift: "Day", SourceFile: "frappe"},
		{Employee: "HR-EMP-0001", Time: time.Date(2026, 3, 2, 17, 0, 0, 0, time.Local), LogType: "OUT", Shift: "Day", SkipAutoAttendance: true, SourceFile: "frappe"},
	}
	if diff := cmp.Diff(want, checkins); diff != "" {
		t.Fatalf("checkins mismatch (-want +got):\n%s", diff)
	}
}

func TestHTTPClient_ListAttendance(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/api/resource/Attendance" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		return jsonResponse(map[string]any{"data": []attendanceDoc{
			{Name: "HR-ATT-0001", Employee: "HR-EMP-0001", AttendanceDate: "2026-03-02", Status: "Present"},
		}}), nil
	})

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	records, err := client.ListAttendance(context.Background(), day, day)
	if err != nil {
		t.Fatalf("ListAttendance() error = %v", err)
	}
	want := []attendance.Record{{Name: "HR-ATT-0001", Employee: "HR-EMP-0001", Date: day, Status: "Present"}}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestHTTPClient_NonSuccessStatusWrapsUpstreamError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(*http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusForbidden,
			Body:       io.NopCloser(strings.NewReader(`{"exc_type":"PermissionError"}`)),
			Header:     make(http.Header),
		}, nil
	})

	_, err := client.ListEmployees(context.Background())
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if !strings.Contains(err.Error(), "PermissionError") {
		t.Fatalf("expected response body in error, got %v", err)
	}
}

func TestSync_PersistsEveryDoctype(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	client := fakeClient{
		employees:  []attendance.Employee{{Name: "HR-EMP-0001"}},
		shiftTypes: []attendance.ShiftType{{Name: "Day", StartTime: "09:00:00", EndTime: "17:00:00"}},
		checkins: []attendance.Checkin{
			{Employee: "HR-EMP-0001", Time: day.Add(9 * time.Hour), LogType: "IN"},
			{Employee: "HR-EMP-0001", Time: day.Add(17 * time.Hour), LogType: "OUT"},
		},
		records: []attendance.Record{{Name: "HR-ATT-0001", Employee: "HR-EMP-0001", Date: day, Status: "Present"}},
	}
	store := &fakeStore{}

	counts, err := Sync(context.Background(), client, store, day, day, nil)
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	want := importer.PersistCounts{Employees: 1, ShiftTypes: 1, Checkins: 2, Attendance: 1}
	if diff := cmp.Diff(want, counts); diff != "" {
		t.Fatalf("counts mismatch (-want +got):\n%s", diff)
	}
	if len(store.checkins) != 2 || len(store.records) != 1 {
		t.Fatalf("unexpected stored data: %+v", store)
	}
}

func TestSync_ReversedRange(t *testing.T) {
	t.Parallel()

	from := time.Date(2026, 3, 3, 0, 0, 0, 0, time.Local)
	to := from.AddDate(0, 0, -1)
	if _, err := Sync(context.Background(), fakeClient{}, &fakeStore{}, from, to, nil); err == nil {
		t.Fatalf("expected error for reversed range")
	}
}

func TestSync_ClientErrorStopsBeforePersist(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	store := &fakeStore{}
	_, err := Sync(context.Background(), fakeClient{err: ErrUpstream}, store, day, day, nil)
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if store.calls != 0 {
		t.Fatalf("expected no store calls, got %d", store.calls)
	}
}

func newTestClient(t *testing.T, fn func(*http.Request) (*http.Response, error)) *HTTPClient {
	t.Helper()
	client, err := NewClient(ClientConfig{
		BaseURL:    "https://erp.example.com",
		APIKey:     "key",
		APISecret:  "secret",
		HTTPClient: fakeDoer{fn: fn},
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

type fakeDoer struct {
	fn func(*http.Request) (*http.Response, error)
}

func (f fakeDoer) Do(req *http.Request) (*http.Response, error) {
	return f.fn(req)
}

func jsonResponse(payload any) *http.Response {
	body, _ := json.Marshal(payload)
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(string(body))),
		Header:     make(http.Header),
	}
}

type fakeClient struct {
	employees  []attendance.Employee
	shiftTypes []attendance.ShiftType
	checkins   []attendance.Checkin
	records    []attendance.Record
	err        error
}

func (f fakeClient) ListEmployees(context.Context) ([]attendance.Employee, error) {
	return f.employees, f.err
}

func (f fakeClient) ListShiftTypes(context.Context) ([]attendance.ShiftType, error) {
	return f.shiftTypes, f.err
}

func (f fakeClient) ListCheckins(context.Context, time.Time, time.Time) ([]attendance.Checkin, error) {
	return f.checkins, f.err
}

func (f fakeClient) ListAttendance(context.Context, time.Time, time.Time) ([]attendance.Record, error) {
	return f.records, f.err
}

type fakeStore struct {
	calls    int
	checkins []attendance.Checkin
	records  []attendance.Record
}

func (f *fakeStore) UpsertEmployees(employees []attendance.Employee) (int, error) {
	f.calls++
	return len(employees), nil
}

func (f *fakeStore) UpsertShiftTypes(shiftTypes []attendance.ShiftType) (int, error) {
	f.calls++
	return len(shiftTypes), nil
}

func (f *fakeStore) InsertCheckins(checkins []attendance.Checkin) (int, error) {
	f.calls++
	f.checkins = append(f.checkins, checkins...)
	return len(checkins), nil
}

func (f *fakeStore) UpsertAttendance(records []attendance.Record) (int, error) {
	f.calls++
	f.records = append(f.records, records...)
	return len(records), nil
}
