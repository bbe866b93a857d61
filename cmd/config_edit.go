package cmd

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"shiftreport/config"
)

var configEditCheck bool

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the active config in an editor.",
	Long: `Open the active shiftreport config file in your editor.

Editor selection order:
1) $VISUAL
2) $EDITOR
3) vi

If no config file exists yet, this command creates one with an example template first.
After the editor exits, the content is validated as shiftreport YAML config: locale and
translations must be BCP 47 tags, rule names must be unique, rule mappers must be one of
checkin, employee, shift or attendance, and frappe.url needs api_key and api_secret.
A valid file is summarized; an invalid one is left in place for another edit.

With --check the editor is not opened and the existing file is only validated.`,
	Example: `
  # Edit active config
  shiftreport config edit

  # Validate a config written by a deployment script
  shiftreport --configFile /etc/shiftreport.yaml config edit --check
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := resolveConfigEditPath(cfgFile, viper.ConfigFileUsed())
		if err != nil {
			return err
		}

		openEditor := runEditor
		if configEditCheck {
			openEditor = nil
		}
		return editConfig(cmd.OutOrStdout(), configPath, openEditor)
	},
}

// editConfig creates configPath from the template when missing, hands it to
// openEditor and validates the result. A nil openEditor only validates.
func editConfig(out io.Writer, configPath string, openEditor func(path string) error) error {
	if openEditor == nil {
		if _, err := os.Stat(configPath); err != nil {
			return fmt.Errorf("checking config file failed: %w", err)
		}
	} else {
		created, err := ensureConfigFileWithTemplate(configPath, config.ExampleYAML())
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(out, "No config file found. Created example config at: %s\n", configPath)
		}
		if err := openEditor(configPath); err != nil {
			return err
		}
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("reading edited config failed: %w", err)
	}
	cfg, err := config.ValidateYAMLContent(content)
	if err != nil {
		return fmt.Errorf("config validation failed in %s (run \"shiftreport config edit\" again to fix it): %w", configPath, err)
	}

	if openEditor == nil {
		fmt.Fprintf(out, "Configuration is valid: %s\n", configPath)
	} else {
		fmt.Fprintf(out, "Configuration saved and validated: %s\n", configPath)
	}
	describeConfig(out, cfg)
	return nil
}

func runEditor(configPath string) error {
	editor := resolveEditorValue(os.Getenv("VISUAL"), os.Getenv("EDITOR"))
	editorCommand, err := buildEditorCommand(editor, configPath)
	if err != nil {
		return err
	}
	editorCommand.Stdin = os.Stdin
	editorCommand.Stdout = os.Stdout
	editorCommand.Stderr = os.Stderr
	if err := editorCommand.Run(); err != nil {
		return fmt.Errorf("opening editor failed: %w", err)
	}
	return nil
}

// describeConfig prints what the active configuration turns on.
func describeConfig(out io.Writer, cfg *config.Config) {
	company := cfg.Company.Default
	if strings.TrimSpace(company) == "" {
		company = "(none, --company is required for reports)"
	}
	fmt.Fprintf(out, "  Default company: %s\n", company)
	fmt.Fprintf(out, "  Database: %s\n", cfg.Database.Path)
	fmt.Fprintf(out, "  Locale: %s (%d translations)\n", cfg.Locale, len(cfg.Translations))

	if cfg.Frappe.Enabled() {
		fmt.Fprintf(out, "  Frappe sync: enabled (%s)\n", cfg.Frappe.URL)
	} else {
		fmt.Fprintln(out, "  Frappe sync: disabled")
	}

	if len(cfg.Rules) == 0 {
		fmt.Fprintln(out, "  Import rules: none")
		return
	}
	names := make([]string, 0, len(cfg.Rules))
	for _, rule := range cfg.Rules {
		names = append(names, rule.Name)
	}
	fmt.Fprintf(out, "  Import rules: %d (%s)\n", len(cfg.Rules), strings.Join(names, ", "))
}

func ensureConfigFileWithTemplate(path, content string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, fmt.Errorf("checking config file failed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating config directory failed: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return false, fmt.Errorf("creating example config failed: %w", err)
	}

	return true, nil
}

func resolveEditorValue(visual, editor string) string {
	if strings.TrimSpace(visual) != "" {
		return visual
	}
	if strings.TrimSpace(editor) != "" {
		return editor
	}
	return "vi"
}

func buildEditorCommand(editorValue, configPath string) (*exec.Cmd, error) {
	fields := strings.Fields(strings.TrimSpace(editorValue))
	if len(fields) == 0 {
		return nil, fmt.Errorf("editor command is empty")
	}

	args := append(fields[1:], configPath)
	return exec.Command(fields[0], args...), nil
}

func init() {
	configCmd.AddCommand(configEditCmd)

	configEditCmd.Flags().BoolVar(&configEditCheck, "check", false, "Validate the config file without opening an editor")
}
