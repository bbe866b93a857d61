package frappe

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"shiftreport/importer"
	"shiftreport/internal/timeutil"
)

// Sync pulls master data and the check-ins and attendance of the given days
// from client and stores them. Master data is written first so report joins
// resolve for every pulled check-in.
func Sync(ctx context.Context, client Client, store importer.Store, from, to time.Time, logger *zap.Logger) (importer.PersistCounts, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if from.After(to) {
		return importer.PersistCounts{}, fmt.Errorf("from date %s is after to date %s", from.Format(timeutil.DateLayout), to.Format(timeutil.DateLayout))
	}

	var (
		batch importer.Batch
		err   error
	)
	if batch.Employees, err = client.ListEmployees(ctx); err != nil {
		return importer.PersistCounts{}, fmt.Errorf("list employees: %w", err)
	}
	logger.Debug("Fetched employees", zap.Int("count", len(batch.Employees)))

	if batch.ShiftTypes, err = client.ListShiftTypes(ctx); err != nil {
		return importer.PersistCounts{}, fmt.Errorf("list shift types: %w", err)
	}
	logger.Debug("Fetched shift types", zap.Int("count", len(batch.ShiftTypes)))

	if batch.Checkins, err = client.ListCheckins(ctx, from, to); err != nil {
		return importer.PersistCounts{}, fmt.Errorf("list checkins: %w", err)
	}
	logger.Debug("Fetched checkins", zap.Int("count", len(batch.Checkins)))

	if batch.Attendance, err = client.ListAttendance(ctx, from, to); err != nil {
		return importer.PersistCounts{}, fmt.Errorf("list attendance: %w", err)
	}
	logger.Debug("Fetched attendance", zap.Int("count", len(batch.Attendance)))

	counts, err := importer.Persist(store, batch)
	if err != nil {
		return counts, fmt.Errorf("persist sync batch: %w", err)
	}
	logger.Info("Sync finished",
		zap.Int("employees", counts.Employees),
		zap.Int("shift_types", counts.ShiftTypes),
		zap.Int("checkins", counts.Checkins),
		zap.Int("attendance", counts.Attendance),
	)
	return counts, nil
}
