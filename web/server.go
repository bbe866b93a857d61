// Package web serves the report pages, the JSON report API and file uploads
// on a local address.
package web

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"shiftreport/attendance"
	"shiftreport/config"
	"shiftreport/importer"
	"shiftreport/output"
	"shiftreport/report"
)

//go:embed templates/*.html
var templateFS embed.FS

// Store is the persistence the server reads reports from and imports into.
type Store interface {
	report.Source
	importer.Store
	ListEmployees() ([]attendance.Employee, error)
	ListShiftTypes() ([]attendance.ShiftType, error)
}

type Server struct {
	store  Store
	host   report.Host
	rules  []config.Rule
	logger *zap.Logger
	mux    *http.ServeMux
}

type reportLink struct {
	Name string
	Link string
}

type reportPageView struct {
	Title       string
	ReportName  string
	Slug        string
	Reports     []reportLink
	Filters     []report.FilterView
	LinkOptions map[string][]string
	Table       TableView
	Summary     []summaryLine
	Error       string
}

type reportResponse struct {
	Report    string            `json:"report"`
	Filters   map[string]string `json:"filters"`
	Columns   []report.Column   `json:"columns"`
	Rows      []report.Row      `json:"rows"`
	Formatted [][]string        `json:"formatted"`
	Summary   summaryResponse   `json:"summary"`
}

type summaryResponse struct {
	Records      int            `json:"records"`
	Employees    int            `json:"employees"`
	Days         int            `json:"days"`
	LateEntries  int            `json:"lateEntries"`
	EarlyExits   int            `json:"earlyExits"`
	WorkingHours string         `json:"workingHours"`
	Statuses     map[string]int `json:"statuses"`
}

type reportListItem struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type importResponse struct {
	FilesProcessed int    `json:"filesProcessed"`
	RowsRead       int    `json:"rowsRead"`
	RowsMapped     int    `json:"rowsMapped"`
	RowsSkipped    int    `json:"rowsSkipped"`
	Mapper         string `json:"mapper"`
	Employees      int    `json:"employees"`
	ShiftTypes     int    `json:"shiftTypes"`
	Checkins       int    `json:"checkins"`
	Attendance     int    `json:"attendance"`
}

func NewServer(store Store, host report.Host, rules []config.Rule, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	server := &Server{
		store:  store,
		host:   host,
		rules:  rules,
		logger: logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", server.handleIndex)
	mux.HandleFunc("GET /report/{name}", server.handleReportPage)
	mux.HandleFunc("GET /api/reports", server.handleAPIReports)
	mux.HandleFunc("GET /api/report/{name}", server.handleAPIReport)
	mux.HandleFunc("GET /api/report/{name}/filters", server.handleAPIFilters)
	mux.HandleFunc("POST /api/import", server.handleAPIImport)
	server.mux = mux

	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(recorder, r)
	s.logger.Debug("HTTP request",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", recorder.status),
		zap.Duration("duration", time.Since(started)),
	)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	names := report.Names()
	if len(names) == 0 {
		http.Error(w, "no reports registered", http.StatusNotFound)
		return
	}
	http.Redirect(w, r, "/report/"+report.Slug(names[0]), http.StatusFound)
}

func (s *Server) handleReportPage(w http.ResponseWriter, r *http.Request) {
	descriptor, err := report.Lookup(r.PathValue("name"))
	if err != nil {
		http.Error(w, err.Error(), errorStatus(err))
		return
	}

	raw := queryValues(r.URL.Query())
	view := reportPageView{
		Title:      "shiftreport - " + s.host.Translate(descriptor.Name),
		ReportName: s.host.Translate(descriptor.Name),
		Slug:       descriptor.Slug(),
		Reports:    reportLinks(s.host),
		Filters:    report.Views(descriptor, s.host, raw),
	}

	linkOptions, err := s.linkOptions()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	view.LinkOptions = linkOptions

	status := http.StatusOK
	result, err := s.runReport(descriptor, raw)
	if err != nil {
		status = errorStatus(err)
		if status == http.StatusInternalServerError {
			http.Error(w, err.Error(), status)
			return
		}
		view.Error = err.Error()
	} else {
		view.Table = BuildTableView(s.host, descriptor, result)
		view.Summary = buildSummaryLines(s.host, output.BuildSummary(result))
	}

	if err := renderTemplate(w, status, "report.html", view); err != nil {
		s.logger.Error("Render report page failed", zap.Error(err))
	}
}

func (s *Server) handleAPIReports(w http.ResponseWriter, _ *http.Request) {
	names := report.Names()
	items := make([]reportListItem, 0, len(names))
	for _, name := range names {
		items = append(items, reportListItem{Name: name, Slug: report.Slug(name)})
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleAPIReport(w http.ResponseWriter, r *http.Request) {
	descriptor, err := report.Lookup(r.PathValue("name"))
	if err != nil {
		http.Error(w, err.Error(), errorStatus(err))
		return
	}

	raw := queryValues(r.URL.Query())
	result, err := s.runReport(descriptor, raw)
	if err != nil {
		http.Error(w, err.Error(), errorStatus(err))
		return
	}

	summary := output.BuildSummary(result)
	statuses := make(map[string]int, len(summary.Statuses))
	for _, status := range summary.Statuses {
		statuses[status.Status] = status.Count
	}
	filters := make(map[string]string, len(descriptor.Filters))
	for _, view := range report.Views(descriptor, s.host, raw) {
		filters[view.Fieldname] = view.Value
	}

	writeJSON(w, http.StatusOK, reportResponse{
		Report:    descriptor.Name,
		Filters:   filters,
		Columns:   report.TranslateColumns(s.host, result.Columns),
		Rows:      result.Rows,
		Formatted: FormattedRows(descriptor, result),
		Summary: summaryResponse{
			Records:      summary.Records,
			Employees:    summary.Employees,
			Days:         summary.Days,
			LateEntries:  summary.LateEntries,
			EarlyExits:   summary.EarlyExits,
			WorkingHours: formatTotal(summary.WorkingSeconds),
			Statuses:     statuses,
		},
	})
}

func (s *Server) handleAPIFilters(w http.ResponseWriter, r *http.Request) {
	descriptor, err := report.Lookup(r.PathValue("name"))
	if err != nil {
		http.Error(w, err.Error(), errorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, report.Views(descriptor, s.host, queryValues(r.URL.Query())))
}

func (s *Server) handleAPIImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, fmt.Sprintf("parse multipart form: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file upload", http.StatusBadRequest)
		return
	}
	defer file.Close()

	mapperName := strings.TrimSpace(r.FormValue("mapper"))
	options := importer.RunOptions{
		DefaultShift: strings.TrimSpace(r.FormValue("shift")),
		Sheet:        strings.TrimSpace(r.FormValue("sheet")),
	}
	if rule, ok := config.MatchRule(header.Filename, s.rules); ok {
		if mapperName == "" {
			mapperName = rule.Mapper
		}
		if options.DefaultShift == "" {
			options.DefaultShift = strings.TrimSpace(rule.DefaultShift)
		}
		if options.Sheet == "" {
			options.Sheet = strings.TrimSpace(rule.Sheet)
		}
	}
	if mapperName == "" {
		mapperName = "checkin"
	}
	mapper, err := importer.MapperByName(mapperName)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tmp, err := os.CreateTemp("", tempUploadPattern(header.Filename))
	if err != nil {
		http.Error(w, fmt.Sprintf("create temp upload: %v", err), http.StatusInternalServerError)
		return
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, file); err != nil {
		_ = tmp.Close()
		http.Error(w, fmt.Sprintf("save upload: %v", err), http.StatusInternalServerError)
		return
	}
	if err := tmp.Close(); err != nil {
		http.Error(w, fmt.Sprintf("close upload temp file: %v", err), http.StatusInternalServerError)
		return
	}

	result, err := importer.Run([]string{tmpPath}, strings.TrimSpace(r.FormValue("format")), mapper, options)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	counts, err := importer.Persist(s.store, result.Batch)
	if err != nil {
		http.Error(w, fmt.Sprintf("persist imported rows: %v", err), http.StatusInternalServerError)
		return
	}
	s.logger.Info("Imported upload",
		zap.String("file", header.Filename),
		zap.String("mapper", mapper.Name()),
		zap.Int("rows_mapped", result.RowsMapped),
		zap.Int("checkins", counts.Checkins),
	)

	writeJSON(w, http.StatusOK, importResponse{
		FilesProcessed: result.FilesProcessed,
		RowsRead:       result.RowsRead,
		RowsMapped:     result.RowsMapped,
		RowsSkipped:    result.RowsSkipped,
		Mapper:         mapper.Name(),
		Employees:      counts.Employees,
		ShiftTypes:     counts.ShiftTypes,
		Checkins:       counts.Checkins,
		Attendance:     counts.Attendance,
	})
}

func (s *Server) runReport(descriptor report.Descriptor, raw map[string]string) (report.Result, error) {
	values, err := report.Resolve(descriptor, s.host, raw)
	if err != nil {
		return report.Result{}, err
	}
	return descriptor.Execute(s.store, values)
}

func (s *Server) linkOptions() (map[string][]string, error) {
	employees, err := s.store.ListEmployees()
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	shiftTypes, err := s.store.ListShiftTypes()
	if err != nil {
		return nil, fmt.Errorf("list shift types: %w", err)
	}
	return BuildLinkOptions(employees, shiftTypes), nil
}

func reportLinks(host report.Host) []reportLink {
	names := report.Names()
	links := make([]reportLink, 0, len(names))
	for _, name := range names {
		links = append(links, reportLink{Name: host.Translate(name), Link: "/report/" + report.Slug(name)})
	}
	return links
}

// queryValues keeps the first value of each parameter. Check boxes submit a
// hidden "0" after the box itself, so a ticked box arrives as "1" first.
func queryValues(query url.Values) map[string]string {
	raw := make(map[string]string, len(query))
	for key, values := range query {
		if len(values) == 0 {
			continue
		}
		raw[key] = values[0]
	}
	return raw
}

func renderTemplate(w http.ResponseWriter, status int, pageTemplate string, data any) error {
	tmpl, err := template.New("base.html").Funcs(template.FuncMap{
		"checked": func(value string) bool {
			return value == "1"
		},
		"datalistID": func(options string) string {
			return "options-" + report.Slug(options)
		},
	}).ParseFS(templateFS, "templates/base.html", "templates/"+pageTemplate)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return fmt.Errorf("parse template %s: %w", pageTemplate, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		return fmt.Errorf("render template %s: %w", pageTemplate, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, report.ErrUnknownReport):
		return http.StatusNotFound
	case errors.Is(err, report.ErrUnknownFilter),
		errors.Is(err, report.ErrMissingFilter),
		errors.Is(err, report.ErrInvalidFilter),
		errors.Is(err, report.ErrInvalidRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func tempUploadPattern(filename string) string {
	base := filepath.Base(strings.TrimSpace(filename))
	if base == "" || base == "." {
		return "upload-*"
	}

	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		stem = "upload"
	}
	if ext == "" {
		return stem + "-*"
	}
	return stem + "-*" + ext
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
