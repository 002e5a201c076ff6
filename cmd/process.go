// =============================================================================
// Pledge Reminders - Process
// =============================================================================
//
// This file holds the flags and the run function of the root command.
//
// FLAGS:
//   --dry-run     : Build the workbook in memory and print its sheets
//   --clean       : Delete previous workbooks in the output directory
//   --no-open     : Do not open the workbook when done
//   --output-dir  : Directory to write the workbook to
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/pledge-reminders/internal/converter"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	dryRun    bool
	clean     bool
	noOpen    bool
	outputDir string
)

func init() {
	rootCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Build the workbook in memory and print its sheets without writing",
	)

	rootCmd.Flags().BoolVar(
		&clean,
		"clean",
		false,
		"Delete previous workbooks (*.xls, *.xlsx) in the output directory after writing",
	)

	rootCmd.Flags().BoolVar(
		&noOpen,
		"no-open",
		false,
		"Do not open the workbook with the default viewer",
	)

	rootCmd.Flags().StringVar(
		&outputDir,
		"output-dir",
		"",
		"Directory to write the workbook to (overrides output_dir)",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runProcess runs the pipeline for inputPath and prints a summary.
func runProcess(cmd *cobra.Command, inputPath string) error {
	if outputDir != "" {
		mainConfig.OutputDir = outputDir
	}

	conv := converter.New(inputPath, mainConfig, converter.Options{
		DryRun:     dryRun,
		Clean:      clean || mainConfig.Cleanup.Enabled,
		OpenViewer: !noOpen && !dryRun && mainConfig.ShouldOpenViewer(),
	}, logger)

	result := conv.Run()
	if result.Error != nil {
		return result.Error
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Records:     %d\n", result.Stats.RowsProcessed)
	for _, s := range result.Sheets {
		fmt.Fprintf(out, "  %-24s %d\n", s.Name, s.Rows)
	}
	if result.Stats.CoercedCodes > 0 {
		fmt.Fprintf(out, "Non-numeric college codes: %d\n", result.Stats.CoercedCodes)
	}
	for _, p := range result.Removed {
		fmt.Fprintf(out, "Removed:     %s\n", filepath.Base(p))
	}
	if dryRun {
		fmt.Fprintln(out, "Dry run: no workbook written.")
		return nil
	}
	fmt.Fprintf(out, "Workbook:    %s\n", result.OutputFile)
	fmt.Fprintf(out, "Time:        %s\n", result.Stats.ProcessingTime)

	return nil
}
