// =============================================================================
// Pledge Reminders - XLSX Parser Module
// =============================================================================
//
// This module reads a pledge reminder export that was saved as an .xlsx
// workbook instead of a delimited file.
//
// LAYOUT:
//   The first non-empty row of the sheet is the header row; every following
//   row is a record. Rows whose comma-joined cells match the skip pattern are
//   dropped, the same way csvparser drops raw lines.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/pledge-reminders/internal/config"
	"github.com/ginjaninja78/pledge-reminders/internal/records"
)

// IsWorkbook reports whether path names a spreadsheet this package can read.
func IsWorkbook(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xlsm")
}

// Parse reads the configured (or first) sheet of an XLSX file.
//
// PARAMETERS:
//   - filePath: The path to the XLSX file.
//   - settings: Sheet selection and skip pattern.
//
// RETURNS:
//   - The parsed batch.
//   - An error if the file cannot be opened, the sheet is missing, or the
//     sheet has no header row.
func Parse(filePath string, settings config.XLSXSettings) (*records.Data, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := settings.Sheet
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of %q: %w", sheetName, err)
	}

	var skip *regexp.Regexp
	if settings.SkipLinesPattern != "" {
		skip, err = regexp.Compile(settings.SkipLinesPattern)
		if err != nil {
			return nil, fmt.Errorf("invalid skip_lines_pattern: %w", err)
		}
	}

	data := &records.Data{SourceFile: filePath}
	var headers []string

	for i, row := range rows {
		if isRowEmpty(row) || (skip != nil && skip.MatchString(strings.Join(row, ","))) {
			data.SkippedLines++
			continue
		}

		if headers == nil {
			headers = records.CleanHeaders(row)
			continue
		}

		data.Records = append(data.Records, records.FromRow(headers, row, i+1))
	}

	if headers == nil {
		return nil, fmt.Errorf("sheet %q: %w", sheetName, records.ErrNoHeaders)
	}

	data.Headers = headers
	return data, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
