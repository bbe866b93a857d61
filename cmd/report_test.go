package cmd

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"shiftreport/report"
)

func TestReportFilterInput_OnlyChangedFlags(t *testing.T) {
	var options reportFlags
	cmd := &cobra.Command{Use: "test"}
	addReportFlags(cmd, &options)

	if err := cmd.Flags().Parse([]string{
		"--from", "2026-03-01",
		"--department", "Ops",
		"--late-entry",
		"--consider-grace-period=false",
	}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	want := map[string]string{
		report.FieldFromDate:            "2026-03-01",
		report.FieldDepartment:          "Ops",
		report.FieldLateEntry:           "true",
		report.FieldConsiderGracePeriod: "false",
	}
	if diff := cmp.Diff(want, reportFilterInput(cmd.Flags())); diff != "" {
		t.Fatalf("filter input mismatch (-want +got):\n%s", diff)
	}
	if options.name != report.ShiftAttendanceName {
		t.Fatalf("expected default report name, got %q", options.name)
	}
}

func TestReportFilterInput_ResolvesAgainstDescriptor(t *testing.T) {
	var options reportFlags
	cmd := &cobra.Command{Use: "test"}
	addReportFlags(cmd, &options)
	if err := cmd.Flags().Parse([]string{"--company", "Acme", "--early-exit"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	values, err := report.Resolve(report.ShiftAttendance(), report.StaticHost{}, reportFilterInput(cmd.Flags()))
	if err != nil {
		t.Fatalf("resolve filters: %v", err)
	}
	if values.String(report.FieldCompany) != "Acme" {
		t.Fatalf("unexpected company %q", values.String(report.FieldCompany))
	}
	if !values.Bool(report.FieldEarlyExit) {
		t.Fatalf("expected early_exit filter to be set")
	}
	if !values.BoolOr(report.FieldConsiderGracePeriod, false) {
		t.Fatalf("expected grace period default to stay on")
	}
}
