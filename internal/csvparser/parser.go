// =============================================================================
// Pledge Reminders - CSV Parser Module
// =============================================================================
//
// This module reads the delimited pledge reminder export into records.
//
// FEATURES:
//   - Configurable delimiter (comma, pipe, semicolon, tab)
//   - Character encodings via golang.org/x/text (UTF-8 BOM always removed)
//   - Skip pattern: records whose raw text matches a regular expression are
//     dropped (blank ",,,," separators and the "N rows selected." footer of
//     the report export)
//   - Values are kept verbatim; trailing whitespace is removed later by
//     records.Normalize
//
// The whole file is read into memory.
//
// =============================================================================

package csvparser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/pledge-reminders/internal/config"
	"github.com/ginjaninja78/pledge-reminders/internal/records"
)

// ErrEmptyFile is returned when the file holds no parsable rows.
var ErrEmptyFile = errors.New("CSV file is empty")

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file and returns the parsed batch.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: The CSV parsing settings.
//
// RETURNS:
//   - The parsed batch; the first surviving row is the header row.
//   - An error if the file cannot be read or parsed.
func Parse(filePath string, settings config.CSVSettings) (*records.Data, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	data, err := ParseReader(file, settings)
	if err != nil {
		return nil, err
	}

	data.SourceFile = filePath
	return data, nil
}

// ParseReader parses CSV content from r.
func ParseReader(r io.Reader, settings config.CSVSettings) (*records.Data, error) {
	decoded, err := decode(r, settings.Encoding)
	if err != nil {
		return nil, err
	}

	raw, err := io.ReadAll(decoded)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	skip, err := compileSkipPattern(settings.SkipLinesPattern)
	if err != nil {
		return nil, err
	}

	text := string(raw)
	csvReader := csv.NewReader(strings.NewReader(text))
	configureReader(csvReader, settings)

	var (
		headers []string
		data    = &records.Data{}
	)

	for {
		start := csvReader.InputOffset()
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		// Matched against the whole record, quoted line breaks included.
		if skip != nil && skip.MatchString(recordText(text, start, csvReader.InputOffset())) {
			data.SkippedLines++
			continue
		}

		if isRowEmpty(row) {
			data.SkippedLines++
			continue
		}

		if headers == nil {
			headers = records.CleanHeaders(row)
			continue
		}

		line, _ := csvReader.FieldPos(0)
		data.Records = append(data.Records, records.FromRow(headers, row, line))
	}

	if headers == nil {
		return nil, ErrEmptyFile
	}

	data.Headers = headers
	return data, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// decode wraps r with a decoder for the named encoding. A byte order mark
// overrides the configured encoding.
func decode(r io.Reader, name string) (io.Reader, error) {
	if name == "" {
		name = "utf-8"
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", name, err)
	}

	return transform.NewReader(r, unicode.BOMOverride(enc.NewDecoder())), nil
}

func compileSkipPattern(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid skip_lines_pattern: %w", err)
	}
	return re, nil
}

// recordText returns the raw text of the record between the reader offsets
// start and end, without the blank lines the reader skipped before it and
// without its line terminator.
func recordText(text string, start, end int64) string {
	span := text[start:end]
	span = strings.TrimLeft(span, "\r\n")
	return strings.TrimRight(span, "\r\n")
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Report exports end rows early when trailing columns are empty.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	// Leading spaces are data; only trailing whitespace is normalized.
	reader.TrimLeadingSpace = false
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
