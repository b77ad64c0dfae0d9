package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"samarth-platform/internal/config"
	"samarth-platform/pkg/logging"
	"samarth-platform/pkg/metrics"
)

const version = "1.0.0"

var (
	// Global flags
	configPath string
	verbose    bool

	cfg              *config.Config
	logger           *logging.StructuredLogger
	metricsCollector *metrics.Collector
)

var rootCmd = &cobra.Command{
	Use:   "samarth",
	Short: "Samarth - questions over Indian crop production and rainfall data",
	Long: `samarth downloads district crop production and sub-divisional rainfall
tables from data.gov.in, normalizes them into Parquet snapshots, and answers
natural-language questions by generating SQL with a local Ollama model.

Typical flow:
  samarth fetch    download the raw tables
  samarth clean    build the canonical snapshots
  samarth ask      answer questions from the command line
  samarth dash     open the terminal dashboard`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			os.Setenv("SAMARTH_CONFIG", configPath)
		}

		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		level := logging.ParseLevel(cfg.Logging.Level)
		if verbose {
			level = logging.DebugLevel
		}
		logger = logging.NewStructuredLogger("samarth", version, level)
		logger.SetOutput(logOutput(cfg.Logging.Output))

		metricsCollector = metrics.NewNopCollector()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default config.yaml or $SAMARTH_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(fetchCmd, cleanCmd, askCmd, dashCmd)
}

// logOutput keeps stdout free for command output unless asked otherwise.
func logOutput(name string) io.Writer {
	if name == "stdout" {
		return os.Stdout
	}
	return os.Stderr
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
