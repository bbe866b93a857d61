package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"shiftreport/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values. The Frappe API
secret is never printed.`,
	Example: `
  # Show active configuration
  shiftreport config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", configPath)
		} else {
			fmt.Println("No config file loaded, showing defaults.")
		}
		printConfig(os.Stdout, cfg)
	},
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Configuration:")
	fmt.Fprintf(out, "company.default: %s\n", cfg.Company.Default)
	fmt.Fprintf(out, "database.path: %s\n", cfg.Database.Path)
	fmt.Fprintf(out, "server.port: %d\n", cfg.Server.Port)
	fmt.Fprintf(out, "locale: %s\n", cfg.Locale)
	fmt.Fprintf(out, "translations: %d\n", len(cfg.Translations))
	fmt.Fprintf(out, "log.level: %s\n", cfg.Log.Level)
	fmt.Fprintf(out, "frappe.url: %s\n", cfg.Frappe.URL)
	fmt.Fprintf(out, "frappe.api_key: %s\n", cfg.Frappe.APIKey)
	secret := ""
	if cfg.Frappe.APISecret != "" {
		secret = "(set)"
	}
	fmt.Fprintf(out, "frappe.api_secret: %s\n", secret)
	fmt.Fprintf(out, "rules: %d\n", len(cfg.Rules))
	for i, rule := range cfg.Rules {
		fmt.Fprintf(out, "rules[%d].name: %s\n", i, rule.Name)
		fmt.Fprintf(out, "rules[%d].mapper: %s\n", i, rule.Mapper)
		fmt.Fprintf(out, "rules[%d].file_template: %s\n", i, rule.FileTemplate)
		fmt.Fprintf(out, "rules[%d].default_shift: %s\n", i, rule.DefaultShift)
	}
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
