package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the shiftreport configuration file.",
	Long: `Create, edit, validate, display, and delete the shiftreport configuration file.

The file is looked up as .shiftreport.yaml in $HOME and the working directory unless
--configFile names one. Every key can also be set through SHIFTREPORT_<KEY> environment
variables, e.g. SHIFTREPORT_COMPANY_DEFAULT or SHIFTREPORT_FRAPPE_API_SECRET.

Sections:
- company.default: value of the report's Company filter when none is given
- database.path, server.port, log.level
- locale and translations[] (locale, source label, translated text)
- frappe.url, api_key, api_secret: remote site read by "shiftreport sync"
- rules[] (name, mapper, file_template, default_shift, sheet): per file import settings`,
	Example: `
  # Create config in $HOME/.shiftreport.yaml with a default company
  shiftreport config create --company "Acme Ltd"

  # Show active config and source file
  shiftreport config show

  # Open active config in editor (creates example if missing)
  shiftreport config edit

  # Validate without editing
  shiftreport config edit --check

  # Delete active config file
  shiftreport config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
