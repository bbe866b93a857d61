// Package frappe pulls employees, shift types, check-ins and attendance from
// a Frappe/ERPNext site through its REST resource API.
package frappe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shiftreport/attendance"
	"shiftreport/internal/timeutil"
)

const defaultPageSize = 500

// ErrUpstream marks a non-2xx response from the remote site.
var ErrUpstream = errors.New("frappe upstream error")

// Client defines the remote operations used by sync.
type Client interface {
	ListEmployees(ctx context.Context) ([]attendance.Employee, error)
	ListShiftTypes(ctx context.Context) ([]attendance.ShiftType, error)
	ListCheckins(ctx context.Context, from, to time.Time) ([]attendance.Checkin, error)
	ListAttendance(ctx context.Context, from, to time.Time) ([]attendance.Record, error)
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type ClientConfig struct {
	BaseURL    string
	APIKey     string
	APISecret  string
	UserAgent  string
	PageSize   int
	HTTPClient httpDoer
}

type HTTPClient struct {
	baseURL    string
	token      string
	userAgent  string
	pageSize   int
	httpClient httpDoer
}

func NewClient(cfg ClientConfig) (*HTTPClient, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errors.New("base URL is required")
	}
	baseURL = strings.TrimRight(baseURL, "/")

	parsedBase, err := url.Parse(baseURL)
	if err != nil || parsedBase.Scheme == "" || parsedBase.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", cfg.BaseURL)
	}

	key := strings.TrimSpace(cfg.APIKey)
	secret := strings.TrimSpace(cfg.APISecret)
	if key == "" || secret == "" {
		return nil, errors.New("api key and api secret are required")
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	doer := cfg.HTTPClient
	if doer == nil {
		doer = &http.Client{Timeout: 30 * time.Second}
	}

	return &HTTPClient{
		baseURL:    baseURL,
		token:      "token " + key + ":" + secret,
		userAgent:  strings.TrimSpace(cfg.UserAgent),
		pageSize:   pageSize,
		httpClient: doer,
	}, nil
}

type employeeDoc struct {
	Name         string `json:"name"`
	EmployeeName string `json:"employee_name"`
	Department   string `json:"department"`
	Company      string `json:"company"`
}

type shiftTypeDoc struct {
	Name                 string `json:"name"`
	StartTime            string `json:"start_time"`
	EndTime              string `json:"end_time"`
	LateEntryGracePeriod int    `json:"late_entry_grace_period"`
	EarlyExitGracePeriod int    `json:"early_exit_grace_period"`
}

type checkinDoc struct {
	Name               string `json:"name"`
	Employee           string `json:"employee"`
	Time               string `json:"time"`
	LogType            string `json:"log_type"`
	Shift              string `json:"shift"`
	SkipAutoAttendance int    `json:"skip_auto_attendance"`
}

type attendanceDoc struct {
	Name           string `json:"name"`
	Employee       string `json:"employee"`
	AttendanceDate string `json:"attendance_date"`
	Status         string `json:"status"`
}

type listResponse[T any] struct {
	Data []T `json:"data"`
}

// listQuery describes one /api/resource request. Filters use the Frappe
// triple form [field, operator, value].
type listQuery struct {
	Doctype string
	Fields  []string
	Filters [][]any
	OrderBy string
}

func (c *HTTPClient) ListEmployees(ctx context.Context) ([]attendance.Employee, error) {
	docs, err := listAll[employeeDoc](ctx, c, listQuery{
		Doctype: "Employee",
		Fields:  []string{"name", "employee_name", "department", "company"},
		Filters: [][]any{{"status", "=", "Active"}},
		OrderBy: "name asc",
	})
	if err != nil {
		return nil, err
	}

	employees := make([]attendance.Employee, 0, len(docs))
	for _, doc := range docs {
		employees = append(employees, attendance.Employee{
			Name:         doc.Name,
			EmployeeName: doc.EmployeeName,
			Department:   doc.Department,
			Company:      doc.Company,
		})
	}
	return employees, nil
}

func (c *HTTPClient) ListShiftTypes(ctx context.Context) ([]attendance.ShiftType, error) {
	docs, err := listAll[shiftTypeDoc](ctx, c, listQuery{
		Doctype: "Shift Type",
		Fields: []string{
			"name",
			"start_time",
			"end_time",
			"late_entry_grace_period",
			"early_exit_grace_period",
		},
		OrderBy: "name asc",
	})
	if err != nil {
		return nil, err
	}

	shiftTypes := make([]attendance.ShiftType, 0, len(docs))
	for _, doc := range docs {
		start, err := normalizeClock(doc.StartTime)
		if err != nil {
			return nil, fmt.Errorf("shift type %q start_time: %w", doc.Name, err)
		}
		end, err := normalizeClock(doc.EndTime)
		if err != nil {
			return nil, fmt.Errorf("shift type %q end_time: %w", doc.Name, err)
		}

		shiftTypes = append(shiftTypes, attendance.ShiftType{
			Name:                 doc.Name,
			StartTime:            start,
			EndTime:              end,
			LateEntryGracePeriod: doc.LateEntryGracePeriod,
			EarlyExitGracePeriod: doc.EarlyExitGracePeriod,
		})
	}
	return shiftTypes, nil
}

// ListCheckins returns the check-ins between from and to, both inclusive days.
func (c *HTTPClient) ListCheckins(ctx context.Context, from, to time.Time) ([]attendance.Checkin, error) {
	docs, err := listAll[checkinDoc](ctx, c, listQuery{
		Doctype: "Employee Checkin",
		Fields:  []string{"name", "employee", "time", "log_type", "shift", "skip_auto_attendance"},
		Filters: [][]any{
			{"time", ">=", timeutil.StartOfDay(from).Format(timeutil.DateTimeLayout)},
			{"time", "<", timeutil.StartOfDay(to).AddDate(0, 0, 1).Format(timeutil.DateTimeLayout)},
		},
		OrderBy: "time asc",
	})
	if err != nil {
		return nil, err
	}

	checkins := make([]attendance.Checkin, 0, len(docs))
	for _, doc := range docs {
		stamp, err := parseTimestamp(doc.Time)
		if err != nil {
			return nil, fmt.Errorf("checkin %q: %w", doc.Name, err)
		}
		checkins = append(checkins, attendance.Checkin{
			Employee:           doc.Employee,
			Time:               stamp,
			LogType:            doc.LogType,
			Shift:              doc.Shift,
			SkipAutoAttendance: doc.SkipAutoAttendance != 0,
			SourceFile:         "frappe",
		})
	}
	return checkins, nil
}

// ListAttendance returns submitted attendance between from and to, both inclusive.
func (c *HTTPClient) ListAttendance(ctx context.Context, from, to time.Time) ([]attendance.Record, error) {
	docs, err := listAll[attendanceDoc](ctx, c, listQuery{
		Doctype: "Attendance",
		Fields:  []string{"name", "employee", "attendance_date", "status"},
		Filters: [][]any{
			{"docstatus", "=", 1},
			{"attendance_date", ">=", from.Format(timeutil.DateLayout)},
			{"attendance_date", "<=", to.Format(timeutil.DateLayout)},
		},
		OrderBy: "attendance_date asc",
	})
	if err != nil {
		return nil, err
	}

	records := make([]attendance.Record, 0, len(docs))
	for _, doc := range docs {
		date, err := timeutil.ParseDate(doc.AttendanceDate)
		if err != nil {
			return nil, fmt.Errorf("attendance %q date %q: %w", doc.Name, doc.AttendanceDate, err)
		}
		records = append(records, attendance.Record{
			Name:     doc.Name,
			Employee: doc.Employee,
			Date:     date,
			Status:   doc.Status,
		})
	}
	return records, nil
}

// listAll pages through a resource list until a short page is returned.
func listAll[T any](ctx context.Context, c *HTTPClient, query listQuery) ([]T, error) {
	fields, err := json.Marshal(query.Fields)
	if err != nil {
		return nil, fmt.Errorf("marshal fields: %w", err)
	}
	var filters []byte
	if len(query.Filters) > 0 {
		if filters, err = json.Marshal(query.Filters); err != nil {
			return nil, fmt.Errorf("marshal filters: %w", err)
		}
	}

	all := make([]T, 0, c.pageSize)
	for start := 0; ; start += c.pageSize {
		params := url.Values{}
		params.Set("fields", string(fields))
		if filters != nil {
			params.Set("filters", string(filters))
		}
		if query.OrderBy != "" {
			params.Set("order_by", query.OrderBy)
		}
		params.Set("limit_start", fmt.Sprint(start))
		params.Set("limit_page_length", fmt.Sprint(c.pageSize))

		endpointPath := "/api/resource/" + url.PathEscape(query.Doctype) + "?" + params.Encode()
		var page listResponse[T]
		if err := c.doJSON(ctx, http.MethodGet, endpointPath, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Data...)
		if len(page.Data) < c.pageSize {
			return all, nil
		}
	}
}

func (c *HTTPClient) doJSON(ctx context.Context, method, endpointPath string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpointPath, nil)
	if err != nil {
		return fmt.Errorf("create request %s %s: %w", method, endpointPath, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", c.token)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s failed: %w", method, endpointPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf(
			"%w: request %s %s failed with status %d: %s",
			ErrUpstream,
			method,
			endpointPath,
			resp.StatusCode,
			strings.TrimSpace(string(responseBody)),
		)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response %s %s: %w", method, endpointPath, err)
	}
	return nil
}

// normalizeClock converts a Frappe time value such as "9:00:00" or
// "09:00:00.000000" to HH:MM:SS.
func normalizeClock(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if dot := strings.IndexByte(value, '.'); dot >= 0 {
		value = value[:dot]
	}
	seconds, err := timeutil.ParseClock(value)
	if err != nil {
		return "", err
	}
	return timeutil.FormatClock(seconds), nil
}

func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if dot := strings.IndexByte(value, '.'); dot >= 0 {
		value = value[:dot]
	}
	parsed, err := time.ParseInLocation(timeutil.DateTimeLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", value, err)
	}
	return parsed, nil
}
