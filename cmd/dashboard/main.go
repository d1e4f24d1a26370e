package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/spacesedan/sentidash/config"
	"github.com/spacesedan/sentidash/internal/dashboard"
	"github.com/spacesedan/sentidash/internal/logging"
	"github.com/spacesedan/sentidash/internal/sentiment"
	"github.com/spacesedan/sentidash/internal/tui"
)

var (
	apiURL  string
	timeout time.Duration
	logFile string
)

func main() {
	config.LoadEnv(config.AppEnv())

	defaultURL, defaultTimeout := "http://127.0.0.1:8080", 10*time.Second
	if cfg, err := config.Load(); err == nil {
		defaultURL, defaultTimeout = cfg.DashboardAPIURL, cfg.HTTPClientTimeout
	}

	rootCmd := &cobra.Command{
		Use:          "dashboard",
		Short:        "Terminal view of tweet sentiment",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			p := tea.NewProgram(tui.New(newClient()), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", defaultURL, "base URL of the sentiment API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", defaultTimeout, "HTTP timeout per request")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write debug logs to this file")

	rootCmd.AddCommand(summaryCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newClient() *dashboard.Client {
	return dashboard.NewClient(apiURL, timeout)
}

// setupLogging keeps logs off the terminal the TUI draws on.
func setupLogging() error {
	if logFile == "" {
		logging.InitLogger(io.Discard, slog.LevelInfo)
		return nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logging.InitLogger(f, slog.LevelDebug)
	return nil
}

type summaryOutput struct {
	State   string            `json:"state"`
	Error   string            `json:"error,omitempty"`
	Summary sentiment.Summary `json:"summary"`
	Tweets  int               `json:"tweets"`
}

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print the folded sentiment counts as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			v := dashboard.Load(cmd.Context(), newClient())

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(summaryOutput{
				State:   v.State.String(),
				Error:   v.Err,
				Summary: v.Summary,
				Tweets:  len(v.Tweets),
			}); err != nil {
				return err
			}

			if v.State == dashboard.StateError {
				return errors.New(v.Err)
			}
			return nil
		},
	}
}
