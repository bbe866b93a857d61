package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"shiftreport/config"
)

var (
	deleteDBPath string
	deleteFrom   string
	deleteTo     string
)

var (
	deletePromptInput  io.Reader = os.Stdin
	deletePromptOutput io.Writer = os.Stdout
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete check-ins of a day range or the complete SQLite database file",
	Long: `Destructive database cleanup command.

Without --from/--to this command deletes the complete SQLite database file.
With --from and/or --to only the check-ins of that inclusive day range are deleted;
employees, shift types and attendance stay.
Before deletion, an interactive security prompt requires typing exactly "Y".`,
	Example: `
  # Delete the complete SQLite file (requires interactive confirmation)
  shiftreport delete --db ./shiftreport.db

  # Delete the check-ins of March only
  shiftreport delete --from 2026-03-01 --to 2026-03-31
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		path := resolveDBPath(deleteDBPath, cfg)

		if strings.TrimSpace(deleteFrom) == "" && strings.TrimSpace(deleteTo) == "" {
			confirmed, err := confirmDeletePrompt(deletePromptInput, deletePromptOutput, fmt.Sprintf("Delete database file %q?", path))
			if err != nil {
				return err
			}
			if !confirmed {
				return fmt.Errorf("delete aborted: confirmation was not 'Y'")
			}

			if err := removeDatabaseFile(path); err != nil {
				return err
			}
			fmt.Printf("Deleted database file: %s\n", path)
			return nil
		}

		from, to, err := parseDeleteRange(deleteFrom, deleteTo, time.Now())
		if err != nil {
			return err
		}
		question := fmt.Sprintf("Delete check-ins from %s to %s in %q?", from.Format("2006-01-02"), to.Format("2006-01-02"), path)
		confirmed, err := confirmDeletePrompt(deletePromptInput, deletePromptOutput, question)
		if err != nil {
			return err
		}
		if !confirmed {
			return fmt.Errorf("delete aborted: confirmation was not 'Y'")
		}

		store, err := openStore(path, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		deleted, err := store.DeleteCheckins(from, to)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted check-ins: %d\n", deleted)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().StringVar(&deleteDBPath, "db", "", "Path to local SQLite database (default: database.path from config)")
	deleteCmd.Flags().StringVar(&deleteFrom, "from", "", "Delete check-ins from this day, YYYY-MM-DD")
	deleteCmd.Flags().StringVar(&deleteTo, "to", "", "Delete check-ins up to this day, YYYY-MM-DD")
}

// parseDeleteRange requires at least one bound. A single bound deletes that day only.
func parseDeleteRange(fromValue, toValue string, today time.Time) (time.Time, time.Time, error) {
	fromValue = strings.TrimSpace(fromValue)
	toValue = strings.TrimSpace(toValue)
	switch {
	case fromValue == "" && toValue == "":
		return time.Time{}, time.Time{}, fmt.Errorf("--from or --to is required")
	case fromValue == "":
		fromValue = toValue
	case toValue == "":
		toValue = fromValue
	}
	return parseDayRange(fromValue, toValue, today)
}

func confirmDeletePrompt(input io.Reader, output io.Writer, question string) (bool, error) {
	if input == nil {
		return false, fmt.Errorf("delete confirmation input is not available")
	}

	if output == nil {
		output = io.Discard
	}

	if _, err := fmt.Fprintf(output, "%s Type Y to confirm: ", question); err != nil {
		return false, fmt.Errorf("write delete confirmation prompt: %w", err)
	}

	line, err := bufio.NewReader(input).ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			line = strings.TrimSpace(line)
			return line == "Y", nil
		}
		return false, fmt.Errorf("read delete confirmation: %w", err)
	}
	return strings.TrimSpace(line) == "Y", nil
}

func removeDatabaseFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("database file not found: %s", path)
		}
		return fmt.Errorf("stat database file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("database path is a directory: %s", path)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete database file: %w", err)
	}
	return nil
}
