package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"shiftreport/attendance"
	"shiftreport/internal/timeutil"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

var ErrNotFound = errors.New("record not found")

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	// Timestamps are stored as local "YYYY-MM-DD HH:MM:SS" text so that
	// SQLite date() groups check-ins by the calendar day they happened on.
	const schema = `
CREATE TABLE IF NOT EXISTS employees (
	name TEXT PRIMARY KEY,
	employee_name TEXT NOT NULL DEFAULT '',
	department TEXT NOT NULL DEFAULT '',
	company TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS shift_types (
	name TEXT PRIMARY KEY,
	start_time TEXT NOT NULL DEFAULT '',
	end_time TEXT NOT NULL DEFAULT '',
	late_entry_grace_period INTEGER NOT NULL DEFAULT 0 CHECK(late_entry_grace_period >= 0),
	early_exit_grace_period INTEGER NOT NULL DEFAULT 0 CHECK(early_exit_grace_period >= 0)
);

CREATE TABLE IF NOT EXISTS checkins (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	employee TEXT NOT NULL,
	time TEXT NOT NULL,
	log_type TEXT NOT NULL DEFAULT '',
	shift TEXT NOT NULL DEFAULT '',
	skip_auto_attendance INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(employee, time, log_type)
);

CREATE INDEX IF NOT EXISTS idx_checkins_time ON checkins(time);

CREATE TABLE IF NOT EXISTS attendance (
	name TEXT PRIMARY KEY,
	employee TEXT NOT NULL,
	attendance_date TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT '',
	UNIQUE(employee, attendance_date)
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if err := s.ensureColumn("checkins", "source_file", `TEXT NOT NULL DEFAULT ''`); err != nil {
		return err
	}

	return nil
}

// ensureColumn adds column to table when an older database lacks it.
func (s *SQLiteStore) ensureColumn(table, column, definition string) error {
	rows, err := s.db.Query(fmt.Sprintf(`PRAGMA table_info(%s);`, table))
	if err != nil {
		return fmt.Errorf("query table info: %w", err)
	}
	defer rows.Close()

	hasColumn := false
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return fmt.Errorf("scan table info: %w", err)
		}
		if strings.EqualFold(name, column) {
			hasColumn = true
			break
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate table info: %w", err)
	}

	if hasColumn {
		return nil
	}

	if _, err := s.db.Exec(fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s;`, table, column, definition)); err != nil {
		return fmt.Errorf("add %s.%s column: %w", table, column, err)
	}

	return nil
}

func (s *SQLiteStore) UpsertEmployees(employees []attendance.Employee) (int, error) {
	const upsertStmt = `
INSERT INTO employees (name, employee_name, department, company)
VALUES (?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
	employee_name = excluded.employee_name,
	department = excluded.department,
	company = excluded.company;`

	return s.execBatch(upsertStmt, len(employees), "upsert employee", func(stmt *sql.Stmt, i int) (sql.Result, error) {
		employee := employees[i]
		if strings.TrimSpace(employee.Name) == "" {
			return nil, fmt.Errorf("employee id is required")
		}
		return stmt.Exec(employee.Name, employee.EmployeeName, employee.Department, employee.Company)
	})
}

func (s *SQLiteStore) UpsertShiftTypes(shiftTypes []attendance.ShiftType) (int, error) {
	const upsertStmt = `
INSERT INTO shift_types (name, start_time, end_time, late_entry_grace_period, early_exit_grace_period)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
	start_time = excluded.start_time,
	end_time = excluded.end_time,
	late_entry_grace_period = excluded.late_entry_grace_period,
	early_exit_grace_period = excluded.early_exit_grace_period;`

	return s.execBatch(upsertStmt, len(shiftTypes), "upsert shift type", func(stmt *sql.Stmt, i int) (sql.Result, error) {
		shiftType := shiftTypes[i]
		if strings.TrimSpace(shiftType.Name) == "" {
			return nil, fmt.Errorf("shift type name is required")
		}
		return stmt.Exec(
			shiftType.Name,
			shiftType.StartTime,
			shiftType.EndTime,
			shiftType.LateEntryGracePeriod,
			shiftType.EarlyExitGracePeriod,
		)
	})
}

// InsertCheckins stores check-ins and returns how many were new. Rows that
// repeat an existing employee, time and log type are ignored.
func (s *SQLiteStore) InsertCheckins(checkins []attendance.Checkin) (int, error) {
	const insertStmt = `
INSERT OR IGNORE INTO checkins (
	employee,
	time,
	log_type,
	shift,
	skip_auto_attendance,
	source_file
) VALUES (?, ?, ?, ?, ?, ?);`

	return s.execBatch(insertStmt, len(checkins), "insert checkin", func(stmt *sql.Stmt, i int) (sql.Result, error) {
		checkin := checkins[i]
		if strings.TrimSpace(checkin.Employee) == "" {
			return nil, fmt.Errorf("checkin employee is required")
		}
		if checkin.Time.IsZero() {
			return nil, fmt.Errorf("checkin time is required")
		}
		return stmt.Exec(
			checkin.Employee,
			formatTimestamp(checkin.Time),
			checkin.LogType,
			checkin.Shift,
			boolToInt(checkin.SkipAutoAttendance),
			checkin.SourceFile,
		)
	})
}

// UpsertAttendance stores attendance records. A record for an employee and
// day that already has one replaces it.
func (s *SQLiteStore) UpsertAttendance(records []attendance.Record) (int, error) {
	const upsertStmt = `
INSERT INTO attendance (name, employee, attendance_date, status)
VALUES (?, ?, ?, ?)
ON CONFLICT(employee, attendance_date) DO UPDATE SET
	name = excluded.name,
	status = excluded.status;`

	return s.execBatch(upsertStmt, len(records), "upsert attendance", func(stmt *sql.Stmt, i int) (sql.Result, error) {
		record := records[i]
		if strings.TrimSpace(record.Name) == "" || strings.TrimSpace(record.Employee) == "" {
			return nil, fmt.Errorf("attendance id and employee are required")
		}
		return stmt.Exec(record.Name, record.Employee, record.Date.Format(timeutil.DateLayout), record.Status)
	})
}

func (s *SQLiteStore) execBatch(statement string, count int, action string, exec func(stmt *sql.Stmt, i int) (sql.Result, error)) (int, error) {
	if count == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(statement)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare %s statement: %w", action, err)
	}
	defer stmt.Close()

	affected := 0
	for i := 0; i < count; i++ {
		res, err := exec(stmt, i)
		if err != nil {
			_ = tx.Rollback()
			return affected, fmt.Errorf("%s (row %d): %w", action, i+1, err)
		}

		rows, err := res.RowsAffected()
		if err == nil && rows > 0 {
			affected++
		}
	}

	if err := tx.Commit(); err != nil {
		return affected, fmt.Errorf("commit transaction: %w", err)
	}

	return affected, nil
}

func (s *SQLiteStore) ListEmployees() ([]attendance.Employee, error) {
	rows, err := s.db.Query(`
SELECT name, employee_name, department, company
FROM employees
ORDER BY name;`)
	if err != nil {
		return nil, fmt.Errorf("query employees: %w", err)
	}
	defer rows.Close()

	employees := make([]attendance.Employee, 0, 64)
	for rows.Next() {
		var employee attendance.Employee
		if err := rows.Scan(&employee.Name, &employee.EmployeeName, &employee.Department, &employee.Company); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		employees = append(employees, employee)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employees: %w", err)
	}

	return employees, nil
}

func (s *SQLiteStore) ListShiftTypes() ([]attendance.ShiftType, error) {
	rows, err := s.db.Query(`
SELECT name, start_time, end_time, late_entry_grace_period, early_exit_grace_period
FROM shift_types
ORDER BY name;`)
	if err != nil {
		return nil, fmt.Errorf("query shift types: %w", err)
	}
	defer rows.Close()

	shiftTypes := make([]attendance.ShiftType, 0, 16)
	for rows.Next() {
		var shiftType attendance.ShiftType
		if err := rows.Scan(
			&shiftType.Name,
			&shiftType.StartTime,
			&shiftType.EndTime,
			&shiftType.LateEntryGracePeriod,
			&shiftType.EarlyExitGracePeriod,
		); err != nil {
			return nil, fmt.Errorf("scan shift type: %w", err)
		}
		shiftTypes = append(shiftTypes, shiftType)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shift types: %w", err)
	}

	return shiftTypes, nil
}

// GetShiftType returns the shift type with the given name or ErrNotFound.
func (s *SQLiteStore) GetShiftType(name string) (attendance.ShiftType, error) {
	var shiftType attendance.ShiftType
	err := s.db.QueryRow(`
SELECT name, start_time, end_time, late_entry_grace_period, early_exit_grace_period
FROM shift_types
WHERE name = ?;`, name).Scan(
		&shiftType.Name,
		&shiftType.StartTime,
		&shiftType.EndTime,
		&shiftType.LateEntryGracePeriod,
		&shiftType.EarlyExitGracePeriod,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return attendance.ShiftType{}, fmt.Errorf("shift type %q: %w", name, ErrNotFound)
		}
		return attendance.ShiftType{}, fmt.Errorf("query shift type %q: %w", name, err)
	}
	return shiftType, nil
}

func (s *SQLiteStore) ListCheckins(from, to time.Time) ([]attendance.Checkin, error) {
	rows, err := s.db.Query(`
SELECT id, employee, time, log_type, shift, skip_auto_attendance, source_file
FROM checkins
WHERE time >= ? AND time < ?
ORDER BY time, id;`, dayStart(from), dayAfter(to))
	if err != nil {
		return nil, fmt.Errorf("query checkins: %w", err)
	}
	defer rows.Close()

	checkins := make([]attendance.Checkin, 0, 256)
	for rows.Next() {
		var (
			checkin attendance.Checkin
			timeRaw string
			skip    int
		)
		if err := rows.Scan(
			&checkin.ID,
			&checkin.Employee,
			&timeRaw,
			&checkin.LogType,
			&checkin.Shift,
			&skip,
			&checkin.SourceFile,
		); err != nil {
			return nil, fmt.Errorf("scan checkin: %w", err)
		}
		checkin.Time, err = parseTimestamp(timeRaw)
		if err != nil {
			return nil, err
		}
		checkin.SkipAutoAttendance = skip != 0
		checkins = append(checkins, checkin)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checkins: %w", err)
	}

	return checkins, nil
}

func (s *SQLiteStore) CountCheckins() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM checkins;`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count checkins: %w", err)
	}
	return count, nil
}

// QueryDayAggregates groups the check-ins of query by employee and calendar
// day, newest day first and then by employee name.
func (s *SQLiteStore) QueryDayAggregates(query attendance.Query) ([]attendance.DayAggregate, error) {
	inner := []string{"time >= ?", "time < ?", "skip_auto_attendance = 0"}
	args := []any{dayStart(query.From), dayAfter(query.To)}
	if value := strings.TrimSpace(query.Employee); value != "" {
		inner = append(inner, "employee = ?")
		args = append(args, value)
	}
	if value := strings.TrimSpace(query.Shift); value != "" {
		inner = append(inner, "shift = ?")
		args = append(args, value)
	}

	outer := []string{"1 = 1"}
	if value := strings.TrimSpace(query.Department); value != "" {
		outer = append(outer, "e.department = ?")
		args = append(args, value)
	}
	if value := strings.TrimSpace(query.Company); value != "" {
		outer = append(outer, "e.company = ?")
		args = append(args, value)
	}

	statement := `
SELECT
	g.employee,
	COALESCE(e.employee_name, ''),
	COALESCE(e.department, ''),
	COALESCE(e.company, ''),
	g.day,
	g.shift,
	g.first_time,
	g.last_time,
	COALESCE(a.name, ''),
	COALESCE(a.status, ''),
	st.name,
	st.start_time,
	st.end_time,
	st.late_entry_grace_period,
	st.early_exit_grace_period
FROM (
	SELECT
		employee,
		date(time) AS day,
		MAX(shift) AS shift,
		MIN(time) AS first_time,
		MAX(time) AS last_time
	FROM checkins
	WHERE ` + strings.Join(inner, " AND ") + `
	GROUP BY employee, date(time)
) g
LEFT JOIN employees e ON e.name = g.employee
LEFT JOIN shift_types st ON st.name = g.shift
LEFT JOIN attendance a ON a.employee = g.employee AND a.attendance_date = g.day
WHERE ` + strings.Join(outer, " AND ") + `
ORDER BY g.day DESC, COALESCE(NULLIF(e.employee_name, ''), g.employee) ASC;`

	rows, err := s.db.Query(statement, args...)
	if err != nil {
		return nil, fmt.Errorf("query day aggregates: %w", err)
	}
	defer rows.Close()

	aggregates := make([]attendance.DayAggregate, 0, 64)
	for rows.Next() {
		var (
			aggregate  attendance.DayAggregate
			dayRaw     string
			firstRaw   string
			lastRaw    string
			shiftName  sql.NullString
			shiftStart sql.NullString
			shiftEnd   sql.NullString
			lateGrace  sql.NullInt64
			earlyGrace sql.NullInt64
		)
		if err := rows.Scan(
			&aggregate.Employee,
			&aggregate.EmployeeName,
			&aggregate.Department,
			&aggregate.Company,
			&dayRaw,
			&aggregate.Shift,
			&firstRaw,
			&lastRaw,
			&aggregate.AttendanceID,
			&aggregate.AttendanceStatus,
			&shiftName,
			&shiftStart,
			&shiftEnd,
			&lateGrace,
			&earlyGrace,
		); err != nil {
			return nil, fmt.Errorf("scan day aggregate: %w", err)
		}

		aggregate.Date, err = timeutil.ParseDate(dayRaw)
		if err != nil {
			return nil, fmt.Errorf("parse attendance date %q: %w", dayRaw, err)
		}
		if aggregate.FirstCheckin, err = parseTimestamp(firstRaw); err != nil {
			return nil, err
		}
		if aggregate.LastCheckin, err = parseTimestamp(lastRaw); err != nil {
			return nil, err
		}
		if shiftName.Valid {
			aggregate.ShiftType = &attendance.ShiftType{
				Name:                 shiftName.String,
				StartTime:            shiftStart.String,
				EndTime:              shiftEnd.String,
				LateEntryGracePeriod: int(lateGrace.Int64),
				EarlyExitGracePeriod: int(earlyGrace.Int64),
			}
		}

		aggregates = append(aggregates, aggregate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate day aggregates: %w", err)
	}

	return aggregates, nil
}

// DeleteCheckins removes the check-ins between from and to, both inclusive days.
func (s *SQLiteStore) DeleteCheckins(from, to time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM checkins WHERE time >= ? AND time < ?;`, dayStart(from), dayAfter(to))
	if err != nil {
		return 0, fmt.Errorf("delete checkins: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read deleted row count: %w", err)
	}
	return rows, nil
}

// DeleteCheckin removes one check-in by ID.
func (s *SQLiteStore) DeleteCheckin(id int64) error {
	if id <= 0 {
		return fmt.Errorf("checkin id must be > 0")
	}

	res, err := s.db.Exec(`DELETE FROM checkins WHERE id = ?;`, id)
	if err != nil {
		return fmt.Errorf("delete checkin %d: %w", id, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read deleted row count: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("checkin %d: %w", id, ErrNotFound)
	}
	return nil
}

func formatTimestamp(value time.Time) string {
	return value.In(time.Local).Format(timeutil.DateTimeLayout)
}

func parseTimestamp(value string) (time.Time, error) {
	parsed, err := time.ParseInLocation(timeutil.DateTimeLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse checkin time %q: %w", value, err)
	}
	return parsed, nil
}

func dayStart(value time.Time) string {
	return timeutil.StartOfDay(value).Format(timeutil.DateTimeLayout)
}

func dayAfter(value time.Time) string {
	return timeutil.StartOfDay(value).AddDate(0, 0, 1).Format(timeutil.DateTimeLayout)
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
