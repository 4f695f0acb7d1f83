package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/JustJay7/consumer-case-tracker/internal/api"
	"github.com/JustJay7/consumer-case-tracker/internal/config"
	"github.com/JustJay7/consumer-case-tracker/internal/fallback"
	"github.com/JustJay7/consumer-case-tracker/internal/server"
	"github.com/JustJay7/consumer-case-tracker/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	baseURL   string
	timeout   time.Duration
	logLevel  string
	jsonOut   bool
	gateway   api.Gateway
	cliLogger *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:           "jagriti",
	Short:         "jagriti queries the e-Jagriti consumer case portal from the command line.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if baseURL != "" {
			cfg.JagritiBaseURL = baseURL
		}
		if timeout > 0 {
			cfg.SearchTimeout = timeout
			cfg.ListTimeout = timeout
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}

		cliLogger, err = logger.NewLogger(cfg.LogLevel, "text")
		if err != nil {
			return err
		}

		store := fallback.Load(cfg.FallbackPath, cliLogger)
		gateway = server.NewGateway(cfg, store, cliLogger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if cliLogger != nil {
			_ = cliLogger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Upstream base URL (defaults to JAGRITI_BASE_URL)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Timeout for each upstream call")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Print JSON instead of a table")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
