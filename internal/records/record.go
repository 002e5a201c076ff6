// =============================================================================
// Pledge Reminders - Records
// =============================================================================
//
// This package contains the record type shared by the record sources
// (csvparser, xlsxparser), the group resolver and the workbook assembler.
//
// A Record is a flat bag of string values keyed by field name. The field
// order lives on Data.Headers, not on the record, so every record of a batch
// renders in the same column order.
//
// =============================================================================

package records

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoHeaders is returned when a source yields no header row.
var ErrNoHeaders = errors.New("input has no header row")

// =============================================================================
// RECORD
// =============================================================================

// Record is one pledge reminder row.
//
// A field that was not present in the source row (a short row) is missing,
// which is different from a field that is present but empty.
type Record struct {
	fields map[string]string

	// Line is the 1-indexed line (or sheet row) the record was read from.
	// Zero when the record was built in memory.
	Line int
}

// New builds a record from a field map. The map is copied.
func New(fields map[string]string) Record {
	r := Record{fields: make(map[string]string, len(fields))}
	for k, v := range fields {
		r.fields[k] = v
	}
	return r
}

// FromRow builds a record by pairing headers with row cells. Cells beyond the
// header count are ignored; headers beyond the cell count are missing.
func FromRow(headers, row []string, line int) Record {
	r := Record{fields: make(map[string]string, len(headers)), Line: line}
	for i, h := range headers {
		if i < len(row) {
			r.fields[h] = row[i]
		}
	}
	return r
}

// Get returns the value of field and whether it is present.
func (r Record) Get(field string) (string, bool) {
	v, ok := r.fields[field]
	return v, ok
}

// Value returns the value of field, or "" when it is missing.
func (r Record) Value(field string) string {
	return r.fields[field]
}

// Cells returns the record's values in the given field order. Missing fields
// render as empty cells.
func (r Record) Cells(fields []string) []string {
	cells := make([]string, len(fields))
	for i, f := range fields {
		cells[i] = r.fields[f]
	}
	return cells
}

// Len returns the number of present fields.
func (r Record) Len() int {
	return len(r.fields)
}

// Equal reports whether two records hold the same fields and values.
func (r Record) Equal(o Record) bool {
	if len(r.fields) != len(o.fields) {
		return false
	}
	for k, v := range r.fields {
		ov, ok := o.fields[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// with returns a copy of r where fn has been applied to every present value.
func (r Record) with(fn func(string) string) Record {
	out := Record{fields: make(map[string]string, len(r.fields)), Line: r.Line}
	for k, v := range r.fields {
		out.fields[k] = fn(v)
	}
	return out
}

// =============================================================================
// DATA
// =============================================================================

// Data is a parsed input batch.
type Data struct {
	// Headers is the field list in source order. It is also the column order
	// of every output sheet.
	Headers []string

	// Records holds the data rows in source order.
	Records []Record

	// SourceFile is the path the batch was read from.
	SourceFile string

	// SkippedLines counts blank and footer lines dropped while parsing.
	SkippedLines int
}

// HasHeader reports whether name is one of the batch's headers.
func (d *Data) HasHeader(name string) bool {
	for _, h := range d.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// CleanHeaders turns a raw header row into field names. Names are trimmed,
// an empty name becomes "Column_N" and a repeated name gets its column
// position appended ("NAME_5"), so every column maps to its own field.
func CleanHeaders(row []string) []string {
	headers := make([]string, len(row))
	seen := make(map[string]bool, len(row))

	for i, h := range row {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Column_%d", i+1)
		}

		name := h
		for n := i + 1; seen[name]; n++ {
			name = fmt.Sprintf("%s_%d", h, n)
		}

		seen[name] = true
		headers[i] = name
	}

	return headers
}
