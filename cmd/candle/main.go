package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/candle/internal/app"
	"github.com/ternarybob/candle/internal/common"
)

var (
	// Command-line flags
	configFiles []string // Multiple --config flags supported
	logLevel    string
	quiet       bool

	// Global state
	config *common.Config
	logger arbor.ILogger
)

var rootCmd = &cobra.Command{
	Use:           "candle",
	Short:         "canDLE daily puzzle pipeline",
	Long:          `Maintains the rolling schedule of daily stock-chart puzzles and generates the puzzle documents behind it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
}

func init() {
	rootCmd.PersistentFlags().StringArrayVarP(&configFiles, "config", "c", nil, "Configuration file path (can be specified multiple times, later files override earlier ones)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Do not print the banner")

	rootCmd.AddCommand(dailyCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(regenCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if logger != nil {
			logger.Error().Err(err).Msg("Command failed")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

// loadConfig resolves configuration and the logger.
// Order: defaults -> file1 -> file2 -> ... -> .env -> env -> CLI flags
func loadConfig() error {
	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("candle.toml"); err == nil {
			configFiles = append(configFiles, "candle.toml")
		}
	}

	var err error
	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	common.ApplyFlagOverrides(config, logLevel, maxPerRun)
	if err := common.ValidateConfig(config); err != nil {
		return err
	}

	logger = common.InitLogger(config)
	common.CrashLogDir = config.Logging.Dir

	if !quiet {
		common.PrintBanner(common.GetVersion())
	}

	logger.Debug().
		Strs("config_files", configFiles).
		Str("log_level", config.Logging.Level).
		Str("schedule_path", config.Paths.SchedulePath).
		Str("puzzles_dir", config.Paths.PuzzlesDir).
		Str("pool_path", config.Paths.PoolPath).
		Str("llm_provider", string(config.LLM.Provider)).
		Bool("cache_enabled", config.Cache.Enabled).
		Msg("Resolved configuration (sanitized)")

	return nil
}

// newApp wires the services for a command
func newApp() (*app.App, error) {
	application, err := app.New(config, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	return application, nil
}
