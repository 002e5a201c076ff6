// =============================================================================
// Pledge Reminders - Sheet Sink
// =============================================================================
//
// A Sink receives the sheets of the output workbook one at a time. The
// assembler only talks to this interface, so the classification pipeline can
// run against MemorySink (dry runs, tests) or ExcelizeSink (real .xlsx files).
//
// CALL ORDER:
//   CreateSheet -> WriteHeaderRow -> WriteRows   (repeated per sheet)
//   Finalize(path)                               (once)
//   Close                                        (always, via defer)
//
// =============================================================================

package workbook

// RowStyle marks a row for visual styling by the sink.
type RowStyle int

const (
	// StylePlain is an unstyled row.
	StylePlain RowStyle = iota

	// StyleHeader is the header row: bold, light text on a dark fill.
	StyleHeader
)

func (s RowStyle) String() string {
	switch s {
	case StyleHeader:
		return "header"
	default:
		return "plain"
	}
}

// SheetHandle identifies a sheet created by a Sink.
type SheetHandle struct {
	// Name is the final sheet name, after any sanitizing by the sink.
	Name string

	// Index is the 0-based creation position.
	Index int
}

// Sink is the output side of the workbook assembler.
type Sink interface {
	// CreateSheet appends a new sheet and returns its handle.
	CreateSheet(name string) (SheetHandle, error)

	// WriteHeaderRow writes fields as the first row of the sheet.
	WriteHeaderRow(h SheetHandle, fields []string, style RowStyle) error

	// WriteRows appends rows below whatever the sheet already holds.
	WriteRows(h SheetHandle, rows [][]string) error

	// Finalize writes the complete workbook to path. Either the whole
	// workbook ends up at path or nothing does.
	Finalize(path string) error

	// Close releases the sink's resources. It is safe to call more than once.
	Close() error
}
