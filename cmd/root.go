// =============================================================================
// Pledge Reminders - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command
// takes the input export as its single positional argument and runs the
// processing pipeline (see process.go).
//
// COBRA CLI STRUCTURE:
//   rootCmd (reminders <input-file>)
//   ├── validateCmd (reminders validate [input-file])
//   └── versionCmd (reminders version)
//
// The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ginjaninja78/pledge-reminders/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// mainConfig is loaded before any command runs.
var mainConfig *config.MainConfig

// logger is built before any command runs.
var logger *zap.Logger

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "reminders <input-file>",
	Short: "Split a pledge reminder export into one worksheet per college group",
	Long: `reminders reads a pledge reminder export (CSV or XLSX), assigns every
reminder to a college group by its COLL_CODE, and writes an Excel workbook
with one sheet per group found in the export, sorted by AREA. Reminders whose
college code belongs to no group are collected on a final OTHER sheet.

Example Usage:
  reminders pledge_reminders.csv                 # write and open the workbook
  reminders --no-open --output-dir out data.csv  # write into ./out, do not open
  reminders --clean data.csv                     # also delete previous workbooks
  reminders --dry-run data.csv                   # show the sheets, write nothing`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}

		var err error
		mainConfig, err = config.LoadMainConfig(cfgFile, cmd.Flags().Changed("config"))
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger, err = newLogger(mainConfig.LogLevel, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd, args[0])
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds the console logger. verbose forces debug level.
func newLogger(level string, verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true

	atomic, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg.Level = atomic
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	return cfg.Build()
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file (optional unless given explicitly)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
