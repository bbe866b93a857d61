package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"shiftreport/config"
	"shiftreport/frappe"
)

var (
	syncFrom   string
	syncTo     string
	syncDBPath string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull employees, shift types, check-ins and attendance from Frappe/ERPNext",
	Long: `Fetch master data and the check-ins and submitted attendance of a day range from the
Frappe/ERPNext site configured under frappe.url and store them in the local database.

Authentication uses an API key/secret pair (frappe.api_key, frappe.api_secret).
Employees and shift types are upserted; check-ins already present are ignored.`,
	Example: `
  # Sync the current month
  shiftreport sync

  # Sync a custom range into a custom database
  shiftreport sync --from 2026-03-01 --to 2026-03-15 --db ./march.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		if !cfg.Frappe.Enabled() {
			return fmt.Errorf("frappe.url is not configured")
		}

		from, to, err := parseDayRange(syncFrom, syncTo, time.Now())
		if err != nil {
			return err
		}

		client, err := frappe.NewClient(frappe.ClientConfig{
			BaseURL:   cfg.Frappe.URL,
			APIKey:    cfg.Frappe.APIKey,
			APISecret: cfg.Frappe.APISecret,
			UserAgent: "shiftreport-sync/1.0",
		})
		if err != nil {
			return err
		}

		store, err := openStore(syncDBPath, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		counts, err := frappe.Sync(ctx, client, store, from, to, logger)
		if err != nil {
			return err
		}

		fmt.Printf("Sync completed. Range: %s..%s, Employees: %d, Shift types: %d, Check-ins: %d, Attendance: %d\n",
			from.Format("2006-01-02"),
			to.Format("2006-01-02"),
			counts.Employees,
			counts.ShiftTypes,
			counts.Checkins,
			counts.Attendance,
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().StringVar(&syncFrom, "from", "", "First day to sync, YYYY-MM-DD (default: first day of current month)")
	syncCmd.Flags().StringVar(&syncTo, "to", "", "Last day to sync, YYYY-MM-DD (default: last day of current month)")
	syncCmd.Flags().StringVar(&syncDBPath, "db", "", "Path to local SQLite database (default: database.path from config)")
}
