package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shiftreport/config"
	"shiftreport/importer"
)

var (
	importInputs []string
	importFormat string
	importMapper string
	importShift  string
	importSheet  string
	importDBPath string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import check-ins and HR master data into a local SQLite database",
	Long: `Read source files, normalize each row via the selected mapper, and persist results in SQLite.

Mappers:
- checkin: employee check-in log lines (device logs, CSV, Excel)
- employee: employee master (id, name, department, company)
- shift: shift types (start/end time, late entry and early exit grace periods)
- attendance: marked attendance per employee and day

When --mapper is omitted, the first configured rule whose file_template matches the
file name selects the mapper, default shift and worksheet; otherwise "checkin" is used.
When --format is omitted, format is inferred from each input file extension. CSV
files may use ',', ';' or tab as delimiter and may be UTF-16 encoded.
Re-importing the same check-ins is safe: duplicates are ignored.`,
	Example: `
  # Import shift types and employees
  shiftreport import -i shift_types.csv --mapper shift
  shiftreport import -i employees.xlsx --mapper employee

  # Read the "Shift Types" sheet of a combined HR workbook
  shiftreport import -i hr-master.xlsx --mapper shift --sheet "Shift Types"

  # Import two device logs with a default shift for check-ins without one
  shiftreport import -i attlog-north.dat -i attlog-south.dat --mapper checkin --shift Day

  # Let configured rules pick mapper and shift by file name
  shiftreport import -i ./exports/gate-2026-03.csv

  # Force device log format independent of extension
  shiftreport import -i ./terminal.log --format device --db ./shiftreport.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		store, err := openStore(importDBPath, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		var (
			total   importer.Result
			written importer.PersistCounts
		)
		for _, input := range importInputs {
			plan := resolveImportPlan(input, importMapper, importShift, importSheet, cfg.Rules)
			mapper, err := importer.MapperByName(plan.mapper)
			if err != nil {
				return err
			}
			logger.Debug("Importing file",
				zap.String("file", input),
				zap.String("mapper", mapper.Name()),
				zap.String("rule", plan.rule),
				zap.String("default_shift", plan.options.DefaultShift),
				zap.String("sheet", plan.options.Sheet),
			)

			result, err := importer.Run([]string{input}, importFormat, mapper, plan.options)
			if err != nil {
				return err
			}
			counts, err := importer.Persist(store, result.Batch)
			if err != nil {
				return err
			}

			total.FilesProcessed += result.FilesProcessed
			total.RowsRead += result.RowsRead
			total.RowsMapped += result.RowsMapped
			total.RowsSkipped += result.RowsSkipped
			written.Employees += counts.Employees
			written.ShiftTypes += counts.ShiftTypes
			written.Checkins += counts.Checkins
			written.Attendance += counts.Attendance
		}

		fmt.Printf("Import completed. Files: %d, Rows read: %d, Rows mapped: %d, Rows skipped: %d\n",
			total.FilesProcessed,
			total.RowsRead,
			total.RowsMapped,
			total.RowsSkipped,
		)
		fmt.Printf("Persisted. Employees: %d, Shift types: %d, Check-ins: %d, Attendance: %d\n",
			written.Employees,
			written.ShiftTypes,
			written.Checkins,
			written.Attendance,
		)
		return nil
	},
}

type importPlan struct {
	mapper  string
	rule    string
	options importer.RunOptions
}

// resolveImportPlan applies explicit flags over the first matching rule.
func resolveImportPlan(path, mapperFlag, shiftFlag, sheetFlag string, rules []config.Rule) importPlan {
	plan := importPlan{
		mapper: strings.TrimSpace(mapperFlag),
		options: importer.RunOptions{
			DefaultShift: strings.TrimSpace(shiftFlag),
			Sheet:        strings.TrimSpace(sheetFlag),
		},
	}
	if rule, ok := config.MatchRule(path, rules); ok {
		plan.rule = rule.Name
		if plan.mapper == "" {
			plan.mapper = strings.TrimSpace(rule.Mapper)
		}
		if plan.options.DefaultShift == "" {
			plan.options.DefaultShift = strings.TrimSpace(rule.DefaultShift)
		}
		if plan.options.Sheet == "" {
			plan.options.Sheet = strings.TrimSpace(rule.Sheet)
		}
	}
	if plan.mapper == "" {
		plan.mapper = "checkin"
	}
	return plan
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringArrayVarP(&importInputs, "input", "i", nil, "Input file path (repeatable)")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "Input format: "+strings.Join(importer.SupportedFormats(), "|")+" (optional, inferred from extension when omitted)")
	importCmd.Flags().StringVarP(&importMapper, "mapper", "m", "", "Mapper to normalize input data: "+strings.Join(importer.SupportedMapperNames(), "|")+" (default: matching rule, then checkin)")
	importCmd.Flags().StringVar(&importShift, "shift", "", "Default shift type for check-ins without one (overrides matching config rule)")
	importCmd.Flags().StringVar(&importSheet, "sheet", "", "Worksheet to read from Excel input (default: matching config rule, then first visible sheet)")
	importCmd.Flags().StringVar(&importDBPath, "db", "", "Path to local SQLite database (default: database.path from config)")

	_ = importCmd.MarkFlagRequired("input")
}
