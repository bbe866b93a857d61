package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"shiftreport/config"
)

var (
	configCreateCompany string
	configCreateDBPath  string
	configCreateLocale  string
)

var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a configuration file from the example template.",
	Long: `Create a new configuration file from the same example template used by "config edit".

--company, --db and --locale fill the default company of the report, the SQLite
database path and the label locale. The rendered file is validated before it is
written. If a configuration file is already in use, no new file is written.`,
	Example: `
  # Create default config at $HOME/.shiftreport.yaml
  shiftreport config create

  # Preset the company filter and a German label locale
  shiftreport config create --company "Acme Ltd" --locale de --db ~/attendance.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return saveDefaultConfig(cmd.OutOrStdout(), config.ExampleValues{
			Company:      configCreateCompany,
			DatabasePath: configCreateDBPath,
			Locale:       configCreateLocale,
		})
	},
}

func saveDefaultConfig(out io.Writer, values config.ExampleValues) error {
	configPath, err := resolveConfigEditPath(cfgFile, viper.ConfigFileUsed())
	if err != nil {
		return err
	}

	content := config.RenderExampleYAML(values)
	if _, err := config.ValidateYAMLContent([]byte(content)); err != nil {
		return fmt.Errorf("config template: %w", err)
	}

	created, err := ensureConfigFileWithTemplate(configPath, content)
	if err != nil {
		return err
	}

	if !created {
		fmt.Fprintf(out, "Config file already exists at: %s\n", configPath)
		return nil
	}

	fmt.Fprintf(out, "New config file created at: %s\n", configPath)
	fmt.Fprintln(out, "Next: import shift types and employees, then check-ins, e.g.")
	fmt.Fprintln(out, "  shiftreport import -i shift_types.csv --mapper shift")
	fmt.Fprintln(out, "  shiftreport import -i employees.csv --mapper employee")
	return nil
}

func init() {
	configCmd.AddCommand(configCreateCmd)

	configCreateCmd.Flags().StringVar(&configCreateCompany, "company", "", "Default company of the report's Company filter")
	configCreateCmd.Flags().StringVar(&configCreateDBPath, "db", "", "Path of the SQLite database (default: "+config.DefaultDatabasePath+")")
	configCreateCmd.Flags().StringVar(&configCreateLocale, "locale", "", "BCP 47 locale of report labels (default: "+config.DefaultLocale+")")
}
