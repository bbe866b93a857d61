package cmd

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"shiftreport/config"
	"shiftreport/internal/i18n"
	"shiftreport/internal/timeutil"
	"shiftreport/report"
	"shiftreport/storage"
)

func resolveDBPath(flagValue string, cfg *config.Config) string {
	if strings.TrimSpace(flagValue) != "" {
		return flagValue
	}
	if cfg != nil && strings.TrimSpace(cfg.Database.Path) != "" {
		return cfg.Database.Path
	}
	return config.DefaultDatabasePath
}

func openStore(flagValue string, cfg *config.Config) (*storage.SQLiteStore, error) {
	path := resolveDBPath(flagValue, cfg)
	store, err := storage.OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("Opened database", zap.String("path", path))
	return store, nil
}

// buildHost wires the configured locale, translations and company default
// into the report host.
func buildHost(cfg *config.Config) (report.StaticHost, error) {
	translator, err := i18n.New(cfg.Locale, cfg.TranslationTables())
	if err != nil {
		return report.StaticHost{}, err
	}
	return report.StaticHost{
		Defaults:   cfg.Defaults(),
		Translator: translator,
	}, nil
}

// parseDayRange parses optional YYYY-MM-DD bounds. Missing bounds default to
// the current month.
func parseDayRange(fromValue, toValue string, today time.Time) (time.Time, time.Time, error) {
	from := timeutil.MonthStart(today)
	to := timeutil.MonthEnd(today)

	if strings.TrimSpace(fromValue) != "" {
		parsed, err := timeutil.ParseDate(fromValue)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from value %q (expected YYYY-MM-DD)", fromValue)
		}
		from = parsed
	}
	if strings.TrimSpace(toValue) != "" {
		parsed, err := timeutil.ParseDate(toValue)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to value %q (expected YYYY-MM-DD)", toValue)
		}
		to = parsed
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid range: --from must be <= --to")
	}
	return from, to, nil
}
