// =============================================================================
// Pledge Reminders - Validate Command
// =============================================================================
//
// COMMAND USAGE:
//   reminders validate                 # check config and taxonomy
//   reminders validate export.csv      # also check the export's header and codes
//
// Nothing is written. The command fails when any error-severity finding is
// reported; warnings are printed but do not fail it.
//
// =============================================================================

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/pledge-reminders/internal/csvparser"
	"github.com/ginjaninja78/pledge-reminders/internal/records"
	"github.com/ginjaninja78/pledge-reminders/internal/validation"
	"github.com/ginjaninja78/pledge-reminders/internal/xlsxparser"
)

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate [input-file]",
	Short: "Check the configuration, taxonomy and optionally an input export",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	tax, err := mainConfig.Taxonomy()
	if err != nil {
		return fmt.Errorf("invalid taxonomy: %w", err)
	}

	result := validation.ValidateTaxonomy(tax, mainConfig.CodeWidth)
	fmt.Fprintf(out, "Taxonomy: %d group(s)\n", tax.Len())
	for _, g := range tax.Groups() {
		fmt.Fprintf(out, "  %s%s%s %v\n", g.ID, mainConfig.SheetNameSeparator, g.Name, g.Members)
	}
	fmt.Fprintf(out, "Known codes: %s\n", strings.Join(tax.KnownCodes(), " "))

	if len(args) == 1 {
		var (
			data *records.Data
			err  error
		)
		if xlsxparser.IsWorkbook(args[0]) {
			data, err = xlsxparser.Parse(args[0], mainConfig.XLSXSettings)
		} else {
			data, err = csvparser.Parse(args[0], mainConfig.CSVSettings)
		}
		if err != nil {
			return fmt.Errorf("failed to parse input: %w", err)
		}

		fmt.Fprintf(out, "Input: %d record(s), %d column(s)\n", len(data.Records), len(data.Headers))
		result.Merge(validation.ValidateHeaders(data, mainConfig.ClassificationField, mainConfig.SortField))
		result.Merge(validation.ValidateCodes(records.Normalize(data.Records), mainConfig.ClassificationField))
	}

	fmt.Fprintln(out, validation.FormatErrors(result.Errors))

	if !result.IsValid() {
		return fmt.Errorf("validation failed with %d error(s)", result.ErrorCount)
	}
	return nil
}
