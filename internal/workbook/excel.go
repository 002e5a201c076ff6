// =============================================================================
// Pledge Reminders - Excel Sink
// =============================================================================
//
// ExcelizeSink writes the workbook as an .xlsx file using excelize.
//
// FEATURES:
//   - Header row styling (bold font on a solid fill, colors configurable)
//   - Column auto-width from the longest cell text of each column
//   - Sheet names sanitized to Excel's rules (31 chars, no : \ / ? * [ ])
//   - Atomic finalize: the workbook is written to a temp file next to the
//     destination and renamed into place only when the write succeeded
//
// =============================================================================

package workbook

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// maxSheetNameLength is Excel's limit on worksheet names.
const maxSheetNameLength = 31

// =============================================================================
// OPTIONS
// =============================================================================

// HeaderStyle describes how StyleHeader rows are rendered.
type HeaderStyle struct {
	// Bold renders the header text in bold.
	Bold bool

	// FontColor is an RRGGBB hex color for the header text.
	FontColor string

	// FillColor is an RRGGBB hex color for the header background.
	FillColor string
}

// DefaultHeaderStyle is white bold text on maroon.
func DefaultHeaderStyle() HeaderStyle {
	return HeaderStyle{
		Bold:      true,
		FontColor: "FFFFFF",
		FillColor: "800000",
	}
}

// ExcelOptions configures an ExcelizeSink.
type ExcelOptions struct {
	HeaderStyle HeaderStyle

	// AutoFit sizes every column to its longest cell.
	AutoFit bool

	// MinColumnWidth and MaxColumnWidth bound auto-fitted widths.
	MinColumnWidth float64
	MaxColumnWidth float64
}

// DefaultExcelOptions returns the options used when none are configured.
func DefaultExcelOptions() ExcelOptions {
	return ExcelOptions{
		HeaderStyle:    DefaultHeaderStyle(),
		AutoFit:        true,
		MinColumnWidth: 6,
		MaxColumnWidth: 60,
	}
}

// =============================================================================
// SINK
// =============================================================================

// ExcelizeSink is a Sink backed by an in-memory excelize workbook.
type ExcelizeSink struct {
	file    *excelize.File
	opts    ExcelOptions
	styleID int

	sheets  []string
	nextRow map[string]int
	widths  map[string][]int

	closed bool
}

// NewExcelizeSink creates an empty workbook.
func NewExcelizeSink(opts ExcelOptions) (*ExcelizeSink, error) {
	f := excelize.NewFile()

	styleID, err := f.NewStyle(headerStyle(opts.HeaderStyle))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	return &ExcelizeSink{
		file:    f,
		opts:    opts,
		styleID: styleID,
		nextRow: make(map[string]int),
		widths:  make(map[string][]int),
	}, nil
}

// headerStyle converts a HeaderStyle into an excelize style definition.
func headerStyle(hs HeaderStyle) *excelize.Style {
	style := &excelize.Style{
		Font: &excelize.Font{
			Bold:  hs.Bold,
			Color: hs.FontColor,
		},
	}
	if hs.FillColor != "" {
		style.Fill = excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{hs.FillColor},
		}
	}
	return style
}

// CreateSheet appends a sheet. The first sheet reuses the default sheet that
// excelize creates with every new file.
func (s *ExcelizeSink) CreateSheet(name string) (SheetHandle, error) {
	name = SanitizeSheetName(name)

	for _, existing := range s.sheets {
		if strings.EqualFold(existing, name) {
			return SheetHandle{}, fmt.Errorf("sheet %q already exists", name)
		}
	}

	if len(s.sheets) == 0 {
		if err := s.file.SetSheetName(s.file.GetSheetName(0), name); err != nil {
			return SheetHandle{}, fmt.Errorf("failed to create sheet %q: %w", name, err)
		}
	} else if _, err := s.file.NewSheet(name); err != nil {
		return SheetHandle{}, fmt.Errorf("failed to create sheet %q: %w", name, err)
	}

	s.sheets = append(s.sheets, name)
	s.nextRow[name] = 1

	return SheetHandle{Name: name, Index: len(s.sheets) - 1}, nil
}

// WriteHeaderRow writes fields into row 1 and styles the row.
func (s *ExcelizeSink) WriteHeaderRow(h SheetHandle, fields []string, style RowStyle) error {
	if err := s.check(h); err != nil {
		return err
	}

	if err := s.writeRow(h.Name, 1, fields); err != nil {
		return err
	}

	if style == StyleHeader {
		if err := s.file.SetRowStyle(h.Name, 1, 1, s.styleID); err != nil {
			return fmt.Errorf("failed to style header of %q: %w", h.Name, err)
		}
	}

	if s.nextRow[h.Name] < 2 {
		s.nextRow[h.Name] = 2
	}
	return nil
}

// WriteRows appends rows below the last written row.
func (s *ExcelizeSink) WriteRows(h SheetHandle, rows [][]string) error {
	if err := s.check(h); err != nil {
		return err
	}

	for _, row := range rows {
		rowNum := s.nextRow[h.Name]
		if err := s.writeRow(h.Name, rowNum, row); err != nil {
			return err
		}
		s.nextRow[h.Name] = rowNum + 1
	}
	return nil
}

// writeRow writes cells starting at column A of rowNum.
func (s *ExcelizeSink) writeRow(sheet string, rowNum int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}

	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}

	if err := s.file.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %q: %w", rowNum, sheet, err)
	}

	s.track(sheet, cells)
	return nil
}

// track records the widest cell seen per column.
func (s *ExcelizeSink) track(sheet string, cells []string) {
	widths := s.widths[sheet]
	for len(widths) < len(cells) {
		widths = append(widths, 0)
	}
	for i, c := range cells {
		if n := utf8.RuneCountInString(c); n > widths[i] {
			widths[i] = n
		}
	}
	s.widths[sheet] = widths
}

// autoFit applies the tracked column widths.
func (s *ExcelizeSink) autoFit() error {
	for _, sheet := range s.sheets {
		for i, n := range s.widths[sheet] {
			col, err := excelize.ColumnNumberToName(i + 1)
			if err != nil {
				return err
			}
			if err := s.file.SetColWidth(sheet, col, col, s.columnWidth(n)); err != nil {
				return fmt.Errorf("failed to size column %s of %q: %w", col, sheet, err)
			}
		}
	}
	return nil
}

func (s *ExcelizeSink) columnWidth(chars int) float64 {
	w := float64(chars) + 2
	if s.opts.MinColumnWidth > 0 && w < s.opts.MinColumnWidth {
		w = s.opts.MinColumnWidth
	}
	if s.opts.MaxColumnWidth > 0 && w > s.opts.MaxColumnWidth {
		w = s.opts.MaxColumnWidth
	}
	return w
}

// Finalize writes the workbook to path via a temp file in the same directory.
// On any failure the temp file is removed and path is left untouched.
func (s *ExcelizeSink) Finalize(path string) (err error) {
	if s.closed {
		return errors.New("workbook already closed")
	}
	if len(s.sheets) == 0 {
		return errors.New("workbook has no sheets")
	}

	if s.opts.AutoFit {
		if err := s.autoFit(); err != nil {
			return err
		}
	}
	s.file.SetActiveSheet(0)

	dir := filepath.Dir(path)
	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.New().String()))

	tmp, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create temp workbook: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err = s.file.WriteTo(tmp); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to flush workbook: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close workbook: %w", err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move workbook into place: %w", err)
	}

	return nil
}

// Close releases the excelize workbook.
func (s *ExcelizeSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.file.Close()
}

func (s *ExcelizeSink) check(h SheetHandle) error {
	if s.closed {
		return errors.New("workbook already closed")
	}
	if h.Index < 0 || h.Index >= len(s.sheets) || s.sheets[h.Index] != h.Name {
		return fmt.Errorf("unknown sheet %q", h.Name)
	}
	return nil
}

// =============================================================================
// SHEET NAMES
// =============================================================================

// SanitizeSheetName makes name acceptable to Excel: forbidden characters are
// replaced with '_', surrounding apostrophes are dropped and the result is cut
// to 31 characters.
func SanitizeSheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, name)
	name = strings.Trim(name, "'")

	if utf8.RuneCountInString(name) > maxSheetNameLength {
		name = string([]rune(name)[:maxSheetNameLength])
	}
	if name == "" {
		name = "_"
	}
	return name
}
