package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"shiftreport/output"
	"shiftreport/report"
)

var (
	exportOptions reportFlags
	exportFormat  string
	exportOutput  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the shift attendance report to CSV/Excel",
	Long: `Run a report with the same filters as "report" and write every column to a file.

Formats:
- csv: plain cell values
- excel: header row in bold, in times of late entries and out times of early exits in red

Output format can be selected explicitly via --format or inferred from --output extension.`,
	Example: `
  # Export March to CSV
  shiftreport export --from 2026-03-01 --to 2026-03-31 --output ./attendance.csv

  # Export early exits of one shift to Excel
  shiftreport export --shift Day --early-exit --output ./early-exits.xlsx

  # Force Excel format independent of extension
  shiftreport export --format excel --output ./attendance.out
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := exportFormat
		if strings.TrimSpace(format) == "" {
			format = output.FormatFromPath(exportOutput)
		}
		writer, err := output.WriterForFormat(format)
		if err != nil {
			return err
		}

		descriptor, host, result, err := runReport(cmd.Flags(), exportOptions)
		if err != nil {
			return err
		}
		result.Columns = report.TranslateColumns(host, result.Columns)

		if err := writer.Write(exportOutput, descriptor, result); err != nil {
			return err
		}
		fmt.Printf("Export completed. Rows: %d, Report: %s, Format: %s, File: %s\n", len(result.Rows), descriptor.Name, format, exportOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	addReportFlags(exportCmd, &exportOptions)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: csv|excel (optional, inferred from output extension)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")

	_ = exportCmd.MarkFlagRequired("output")
}
