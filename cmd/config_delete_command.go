package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"shiftreport/config"
)

var configDeleteYes bool

var configDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the active configuration file.",
	Long: `Delete the configuration file currently selected by shiftreport.

Import rules, translations and Frappe credentials are lost with the file. The SQLite
database named by database.path is kept; use "shiftreport delete" to remove it.
The deletion asks for confirmation unless --yes is given.
If no configuration file is active, the command returns an error.`,
	Example: `
  # Delete active config
  shiftreport config delete

  # Delete config at a custom path without a prompt
  shiftreport --configFile ./custom-shiftreport.yaml config delete --yes
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return deleteConfigFile(viper.ConfigFileUsed(), viper.GetString(config.KeyDatabasePath), configDeleteYes, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func deleteConfigFile(configPath, databasePath string, skipConfirm bool, input io.Reader, output io.Writer) error {
	if configPath == "" {
		return fmt.Errorf("no configuration file found")
	}

	if !skipConfirm {
		confirmed, err := confirmDeletePrompt(input, output, fmt.Sprintf("Delete configuration file %s?", configPath))
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(output, "Deletion cancelled.")
			return nil
		}
	}

	if err := os.Remove(configPath); err != nil {
		return fmt.Errorf("error deleting configuration file: %w", err)
	}

	fmt.Fprintf(output, "Configuration file successfully deleted: %s\n", configPath)
	if databasePath != "" {
		fmt.Fprintf(output, "Database kept at: %s\n", databasePath)
	}
	return nil
}

func init() {
	configCmd.AddCommand(configDeleteCmd)

	configDeleteCmd.Flags().BoolVarP(&configDeleteYes, "yes", "y", false, "Delete without asking for confirmation")
}
