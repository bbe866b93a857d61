package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shiftreport/config"
	"shiftreport/report"
	"shiftreport/web"
)

var (
	servePort   int
	serveDBPath string
	serveNoOpen bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web UI for the shift attendance report",
	Long: `Start a local HTTP server with the report page, its JSON API and file upload.

Routes:
- GET  /report/{name}             filter form and result table
- GET  /api/report/{name}         result rows as JSON (query parameters are report filters)
- GET  /api/report/{name}/filters filter definitions with resolved defaults
- POST /api/import                multipart upload (file, optional mapper, shift, format)`,
	Example: `
  # Start local server on the configured port
  shiftreport serve

  # Start with explicit db and custom port, without opening a browser
  shiftreport serve --port 9090 --db ./shiftreport.db --no-open
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		host, err := buildHost(cfg)
		if err != nil {
			return err
		}

		store, err := openStore(serveDBPath, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		port := resolveServePort(servePort, cfg)
		addr := fmt.Sprintf(":%d", port)
		server := &http.Server{
			Addr:              addr,
			Handler:           web.NewServer(store, host, cfg.Rules, logger),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.ListenAndServe()
		}()

		listenURL := fmt.Sprintf("http://localhost:%d", port)
		logger.Info("Web UI listening", zap.String("url", listenURL))
		fmt.Printf("Listening on %s\n", listenURL)
		if !serveNoOpen {
			target := listenURL + "/report/" + report.Slug(report.ShiftAttendanceName)
			if openErr := openURLInBrowser(target); openErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to open browser: %v\n", openErr)
			}
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-sigCh:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown server: %w", err)
			}
			err := <-errCh
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP port for the local web server (default: server.port from config)")
	serveCmd.Flags().StringVar(&serveDBPath, "db", "", "Path to local SQLite database (default: database.path from config)")
	serveCmd.Flags().BoolVar(&serveNoOpen, "no-open", false, "Do not open browser automatically")
}

func resolveServePort(flagValue int, cfg *config.Config) int {
	if flagValue > 0 {
		return flagValue
	}
	if cfg != nil && cfg.Server.Port > 0 {
		return cfg.Server.Port
	}
	return config.DefaultServerPort
}

func openURLInBrowser(rawURL string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", rawURL)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		cmd = exec.Command("xdg-open", rawURL)
	}
	return cmd.Start()
}
