// =============================================================================
// Pledge Reminders - Converter Module
// =============================================================================
//
// This module orchestrates one run: from the input export to the finished
// workbook.
//
// CONVERSION PIPELINE:
//   1. Parse the input file (CSV or XLSX, chosen by extension)
//   2. Validate that the college code and sort columns exist
//   3. Normalize record values (trailing whitespace)
//   4. Resolve present groups and partitions against the taxonomy
//   5. Assemble the sheets into the sink
//   6. Finalize the workbook (atomic write + rename)
//   7. Remove previous workbooks (opt-in)
//   8. Open the workbook in the default viewer (opt-in)
//
// Steps 1-6 abort the run on error. Steps 7-8 only run after step 6
// succeeded. Every step runs to completion before the next one starts.
//
// =============================================================================

package converter

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/ginjaninja78/pledge-reminders/internal/config"
	"github.com/ginjaninja78/pledge-reminders/internal/csvparser"
	"github.com/ginjaninja78/pledge-reminders/internal/grouping"
	"github.com/ginjaninja78/pledge-reminders/internal/records"
	"github.com/ginjaninja78/pledge-reminders/internal/validation"
	"github.com/ginjaninja78/pledge-reminders/internal/workbook"
	"github.com/ginjaninja78/pledge-reminders/internal/xlsxparser"
	"github.com/ginjaninja78/pledge-reminders/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one run.
type Result struct {
	// FilePath is the input file.
	FilePath string

	// OutputFile is the path of the finished workbook. Empty on failure and
	// on dry runs.
	OutputFile string

	// Success indicates whether the workbook was produced.
	Success bool

	// Error contains the error if the run failed.
	Error error

	// Sheets lists the written sheets in workbook order.
	Sheets []workbook.SheetSummary

	// Removed lists previous workbooks deleted by cleanup.
	Removed []string

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the run.
type ProcessingStats struct {
	// RowsProcessed is the number of input records.
	RowsProcessed int

	// SkippedLines is the number of blank and footer lines dropped.
	SkippedLines int

	// PresentGroups are the ids of the groups found in the input.
	PresentGroups []string

	// ResidualRows is the number of records on the OTHER sheet.
	ResidualRows int

	// CoercedCodes counts records whose college code was not numeric.
	CoercedCodes int

	// ProcessingTime is the time taken by the run.
	ProcessingTime time.Duration
}

// =============================================================================
// OPTIONS
// =============================================================================

// Options holds the per-run switches set from the command line.
type Options struct {
	// DryRun assembles the workbook in memory and writes nothing.
	DryRun bool

	// Clean removes previous workbooks after a successful write.
	Clean bool

	// OpenViewer opens the finished workbook.
	OpenViewer bool

	// Now returns the run time used in the output name. Defaults to time.Now.
	Now func() time.Time

	// Viewer opens a file. Defaults to utils.OpenWithViewer.
	Viewer func(path string) error
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter runs the pipeline for a single input file.
type Converter struct {
	inputPath string
	cfg       *config.MainConfig
	opts      Options
	logger    *zap.Logger
}

// New creates a Converter.
func New(inputPath string, cfg *config.MainConfig, opts Options, logger *zap.Logger) *Converter {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Viewer == nil {
		opts.Viewer = utils.OpenWithViewer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{
		inputPath: inputPath,
		cfg:       cfg,
		opts:      opts,
		logger:    logger,
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the pipeline.
func (c *Converter) Run() Result {
	startTime := time.Now()
	result := Result{FilePath: c.inputPath}

	fail := func(err error) Result {
		result.Error = err
		result.Stats.ProcessingTime = time.Since(startTime)
		return result
	}

	c.logger.Info("Processing file", zap.String("path", c.inputPath))

	tax, err := c.cfg.Taxonomy()
	if err != nil {
		return fail(fmt.Errorf("failed to load taxonomy: %w", err))
	}
	taxCheck := validation.ValidateTaxonomy(tax, c.cfg.CodeWidth)
	c.logFindings(taxCheck)
	if err := taxCheck.Err(); err != nil {
		return fail(fmt.Errorf("invalid taxonomy: %w", err))
	}

	// =========================================================================
	// STEP 1: PARSE INPUT
	// =========================================================================

	data, err := c.parse()
	if err != nil {
		return fail(fmt.Errorf("failed to parse input: %w", err))
	}

	result.Stats.RowsProcessed = len(data.Records)
	result.Stats.SkippedLines = data.SkippedLines
	c.logger.Debug("Parsed input",
		zap.Int("records", len(data.Records)),
		zap.Int("headers", len(data.Headers)),
		zap.Int("skipped_lines", data.SkippedLines))

	// =========================================================================
	// STEP 2: VALIDATE HEADERS
	// =========================================================================

	headerCheck := validation.ValidateHeaders(data, c.cfg.ClassificationField, c.cfg.SortField)
	if err := headerCheck.Err(); err != nil {
		return fail(fmt.Errorf("invalid input: %w", err))
	}

	// =========================================================================
	// STEP 3: NORMALIZE
	// =========================================================================

	recs := records.Normalize(data.Records)

	codeCheck := validation.ValidateCodes(recs, c.cfg.ClassificationField)
	result.Stats.CoercedCodes = codeCheck.WarningCount
	c.logFindings(codeCheck)

	// =========================================================================
	// STEP 4: RESOLVE GROUPS
	// =========================================================================

	res := grouping.Resolve(tax, recs, grouping.Options{
		CodeField: c.cfg.ClassificationField,
		CodeWidth: c.cfg.CodeWidth,
	})
	result.Stats.PresentGroups = res.PresentGroups()

	c.logger.Info("Resolved groups",
		zap.Strings("present_codes", res.PresentCodes()),
		zap.Strings("present_groups", res.PresentGroups()))

	// =========================================================================
	// STEP 5-6: ASSEMBLE AND FINALIZE
	// =========================================================================

	outputPath := filepath.Join(c.cfg.OutputDir, utils.GenerateOutputFileName(
		c.cfg.OutputNameFormat, c.opts.Now(), c.cfg.TimestampLayout))

	summary, err := c.write(res, data.Headers, outputPath)
	if err != nil {
		return fail(err)
	}

	result.Sheets = summary.Sheets
	result.Stats.ResidualRows = summary.ResidualRows
	result.Success = true

	if c.opts.DryRun {
		result.Stats.ProcessingTime = time.Since(startTime)
		return result
	}

	result.OutputFile = outputPath
	c.logger.Info("Wrote workbook",
		zap.String("path", outputPath),
		zap.Int("sheets", len(summary.Sheets)))

	// =========================================================================
	// STEP 7: CLEANUP
	// =========================================================================

	if c.opts.Clean {
		removed, err := utils.CleanupOutputs(c.cfg.OutputDir, c.cfg.Cleanup.Patterns, outputPath)
		result.Removed = removed
		if err != nil {
			// Cleanup failures are not fatal.
			c.logger.Warn("Cleanup failed", zap.Error(err))
		}
		for _, p := range removed {
			c.logger.Debug("Removed previous workbook", zap.String("path", p))
		}
	}

	// =========================================================================
	// STEP 8: OPEN VIEWER
	// =========================================================================

	if c.opts.OpenViewer {
		if err := c.opts.Viewer(outputPath); err != nil {
			c.logger.Warn("Could not open workbook", zap.String("path", outputPath), zap.Error(err))
		}
	}

	result.Stats.ProcessingTime = time.Since(startTime)
	return result
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// parse reads the input with the parser matching its extension.
func (c *Converter) parse() (*records.Data, error) {
	if xlsxparser.IsWorkbook(c.inputPath) {
		return xlsxparser.Parse(c.inputPath, c.cfg.XLSXSettings)
	}
	return csvparser.Parse(c.inputPath, c.cfg.CSVSettings)
}

// write assembles the sheets and finalizes the workbook. The sink is closed
// on every path.
func (c *Converter) write(res *grouping.Resolution, headers []string, outputPath string) (*workbook.Summary, error) {
	sink, err := c.newSink()
	if err != nil {
		return nil, fmt.Errorf("failed to create workbook: %w", err)
	}
	defer sink.Close()

	assembler := workbook.NewAssembler(sink, workbook.AssemblerOptions{
		SortField:     c.cfg.SortField,
		Separator:     c.cfg.SheetNameSeparator,
		ResidualSheet: c.cfg.ResidualSheet,
	}, c.logger)

	summary, err := assembler.Assemble(res, headers)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble workbook: %w", err)
	}

	if err := sink.Finalize(outputPath); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return summary, nil
}

func (c *Converter) newSink() (workbook.Sink, error) {
	if c.opts.DryRun {
		return workbook.NewMemorySink(), nil
	}

	bold := c.cfg.HeaderStyle.Bold == nil || *c.cfg.HeaderStyle.Bold
	opts := workbook.DefaultExcelOptions()
	opts.AutoFit = c.cfg.ShouldAutoFit()
	opts.HeaderStyle = workbook.HeaderStyle{
		Bold:      bold,
		FontColor: c.cfg.HeaderStyle.FontColor,
		FillColor: c.cfg.HeaderStyle.FillColor,
	}
	return workbook.NewExcelizeSink(opts)
}

// logFindings logs validation warnings.
func (c *Converter) logFindings(result *validation.ValidationResult) {
	for _, w := range result.Warnings() {
		c.logger.Warn("Validation warning",
			zap.String("field", w.Field),
			zap.String("value", w.Value),
			zap.Int("line", w.RowNumber),
			zap.String("message", w.Message))
	}
}
