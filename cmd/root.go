/*
Copyright © 2025 riad@rsworld.eu

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"shiftreport/config"
)

var (
	cfgFile string
	verbose bool

	logger = zap.NewNop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "shiftreport",
	Short: "Import employee check-ins and report shift attendance, late entries and early exits.",
	Long: `
**********************************************
*              SHIFT REPORT                  *
**********************************************

This CLI imports employee check-ins (device logs, CSV, Excel) and HR master data
into a local SQLite database and runs the "Custom Shift Attendance" report over it:
first and last check-in per employee and day, working hours, late entry, early exit
and overtime against the assigned shift type.

Supported input formats:
- Excel: .xlsx, .xlsm, .xls
- CSV: .csv
- Attendance device logs: .dat, .tsv, .txt (tab separated, optionally UTF-16)
`,
	Example: `
  # Create configuration file
  shiftreport config create

  # Import shift types and employees
  shiftreport import -i shift_types.csv --mapper shift
  shiftreport import -i employees.xlsx --mapper employee

  # Import a device log, assigning shift "Day" to every check-in
  shiftreport import -i attlog.dat --mapper checkin --shift Day

  # Pull master data and check-ins from a Frappe/ERPNext site
  shiftreport sync --from 2026-03-01 --to 2026-03-31

  # Print the report for March, late entries only
  shiftreport report --from 2026-03-01 --to 2026-03-31 --late-entry

  # Export the report to Excel
  shiftreport export --from 2026-03-01 --to 2026-03-31 --output ./attendance.xlsx

  # Browse the report in the local web UI
  shiftreport serve
`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		built, err := buildLogger(viper.GetString(config.KeyLogLevel), verbose)
		if err != nil {
			return err
		}
		logger = built
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.shiftreport.yaml, then ./.shiftreport.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// buildLogger returns a production zap logger at level. verbose forces debug.
func buildLogger(level string, verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	parsed := zapcore.InfoLevel
	if level != "" {
		var err error
		if parsed, err = zapcore.ParseLevel(level); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}
	if verbose {
		parsed = zapcore.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(parsed)

	built, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return built, nil
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".shiftreport" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".shiftreport")
	}

	viper.SetEnvPrefix("SHIFTREPORT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found. Using defaults; create one with: shiftreport config create")
	}
}
