package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"shiftreport/config"
	"shiftreport/output"
	"shiftreport/report"
)

// reportFlags are the filter flags shared by "report" and "export". Each flag
// maps onto one report filter and is only passed on when set explicitly, so
// unset flags fall back to the filter defaults.
type reportFlags struct {
	name          string
	dbPath        string
	from          string
	to            string
	employee      string
	shift         string
	department    string
	company       string
	lateEntry     bool
	earlyExit     bool
	considerGrace bool
}

var reportFlagFilters = map[string]string{
	"from":                  report.FieldFromDate,
	"to":                    report.FieldToDate,
	"employee":              report.FieldEmployee,
	"shift":                 report.FieldShift,
	"department":            report.FieldDepartment,
	"company":               report.FieldCompany,
	"late-entry":            report.FieldLateEntry,
	"early-exit":            report.FieldEarlyExit,
	"consider-grace-period": report.FieldConsiderGracePeriod,
}

var (
	reportOptions reportFlags
	reportColumns []string
	reportAll     bool
	reportNoSum   bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the shift attendance report as a terminal table",
	Long: `Run a registered report over the local SQLite database and print it.

The "Custom Shift Attendance" report lists one row per employee and day with check-ins:
first and last check-in, working hours, late entry, early exit and overtime against
the assigned shift type. In times of late entries and out times of early exits are
highlighted in red. A summary with record, late entry, early exit and status counts
follows the table.

From/To default to the first and last day of the current month, Company defaults to
company.default from the configuration.`,
	Example: `
  # Current month for the default company
  shiftreport report

  # March, one department, late entries only
  shiftreport report --from 2026-03-01 --to 2026-03-31 --department Ops --late-entry

  # Ignore shift grace periods
  shiftreport report --consider-grace-period=false

  # Show every column
  shiftreport report --all-columns
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		descriptor, host, result, err := runReport(cmd.Flags(), reportOptions)
		if err != nil {
			return err
		}

		columns := output.DefaultTerminalColumns
		if len(reportColumns) > 0 {
			columns = reportColumns
		}
		if reportAll {
			columns = nil
		}
		result.Columns = report.TranslateColumns(host, result.Columns)

		writer := &output.TerminalWriter{Out: os.Stdout, Columns: columns}
		if err := writer.Render(descriptor, result); err != nil {
			return err
		}
		if reportNoSum {
			return nil
		}
		return writer.RenderSummary(host, output.BuildSummary(result))
	},
}

// runReport resolves the filter flags and executes the named report.
func runReport(flags *pflag.FlagSet, options reportFlags) (report.Descriptor, report.StaticHost, report.Result, error) {
	cfg, err := config.LoadAndValidate()
	if err != nil {
		return report.Descriptor{}, report.StaticHost{}, report.Result{}, err
	}

	descriptor, err := report.Lookup(options.name)
	if err != nil {
		return report.Descriptor{}, report.StaticHost{}, report.Result{}, fmt.Errorf("%w (available: %s)", err, strings.Join(report.Names(), ", "))
	}

	host, err := buildHost(cfg)
	if err != nil {
		return report.Descriptor{}, report.StaticHost{}, report.Result{}, err
	}

	raw := reportFilterInput(flags)
	values, err := report.Resolve(descriptor, host, raw)
	if err != nil {
		return report.Descriptor{}, report.StaticHost{}, report.Result{}, err
	}

	store, err := openStore(options.dbPath, cfg)
	if err != nil {
		return report.Descriptor{}, report.StaticHost{}, report.Result{}, err
	}
	defer store.Close()

	result, err := descriptor.Execute(store, values)
	if err != nil {
		return report.Descriptor{}, report.StaticHost{}, report.Result{}, err
	}
	logger.Debug("Report executed",
		zap.String("report", descriptor.Name),
		zap.Int("rows", len(result.Rows)),
	)
	return descriptor, host, result, nil
}

// reportFilterInput collects the explicitly set filter flags as raw filter values.
func reportFilterInput(flags *pflag.FlagSet) map[string]string {
	raw := make(map[string]string)
	for flagName, fieldname := range reportFlagFilters {
		flag := flags.Lookup(flagName)
		if flag == nil || !flag.Changed {
			continue
		}
		raw[fieldname] = flag.Value.String()
	}
	return raw
}

func addReportFlags(cmd *cobra.Command, options *reportFlags) {
	cmd.Flags().StringVar(&options.name, "name", report.ShiftAttendanceName, "Report name or slug")
	cmd.Flags().StringVar(&options.dbPath, "db", "", "Path to local SQLite database (default: database.path from config)")
	cmd.Flags().StringVar(&options.from, "from", "", "From date YYYY-MM-DD (default: first day of current month)")
	cmd.Flags().StringVar(&options.to, "to", "", "To date YYYY-MM-DD, inclusive (default: last day of current month)")
	cmd.Flags().StringVar(&options.employee, "employee", "", "Only this employee ID")
	cmd.Flags().StringVar(&options.shift, "shift", "", "Only check-ins of this shift type")
	cmd.Flags().StringVar(&options.department, "department", "", "Only employees of this department")
	cmd.Flags().StringVar(&options.company, "company", "", "Only employees of this company (default: company.default from config)")
	cmd.Flags().BoolVar(&options.lateEntry, "late-entry", false, "Only rows with a late entry")
	cmd.Flags().BoolVar(&options.earlyExit, "early-exit", false, "Only rows with an early exit")
	cmd.Flags().BoolVar(&options.considerGrace, "consider-grace-period", true, "Apply the shift type grace periods")
}

func init() {
	rootCmd.AddCommand(reportCmd)

	addReportFlags(reportCmd, &reportOptions)
	reportCmd.Flags().StringSliceVar(&reportColumns, "columns", nil, "Comma separated column fieldnames to print")
	reportCmd.Flags().BoolVar(&reportAll, "all-columns", false, "Print every report column")
	reportCmd.Flags().BoolVar(&reportNoSum, "no-summary", false, "Do not print the summary below the table")
}
