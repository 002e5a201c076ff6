// =============================================================================
// Pledge Reminders - Workbook Assembler
// =============================================================================
//
// The assembler turns a grouping.Resolution into sheets on a Sink.
//
// SHEET ORDER:
//   1. One sheet per present group, in taxonomy declaration order, named
//      "<group id><separator><display name>" (e.g. "02-AG").
//   2. Exactly one residual sheet ("OTHER"), always last, written even when
//      no record falls into it.
//
// Every sheet starts with the full header row (StyleHeader) and lists its
// records ordered by the sort field, cells in header order. All partitions
// are built and sorted before the first sheet is created.
//
// =============================================================================

package workbook

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ginjaninja78/pledge-reminders/internal/grouping"
	"github.com/ginjaninja78/pledge-reminders/internal/records"
)

// DefaultResidualSheet is the name of the catch-all sheet.
const DefaultResidualSheet = "OTHER"

// DefaultSeparator joins group id and display name in sheet names.
const DefaultSeparator = "-"

// =============================================================================
// OPTIONS AND SUMMARY
// =============================================================================

// AssemblerOptions configures sheet naming and row order.
type AssemblerOptions struct {
	// SortField orders the rows of every sheet.
	SortField string

	// Separator joins group id and display name. Defaults to "-".
	Separator string

	// ResidualSheet names the catch-all sheet. Defaults to "OTHER".
	ResidualSheet string
}

// SheetSummary describes one written sheet.
type SheetSummary struct {
	Name string

	// GroupID is empty for the residual sheet.
	GroupID string

	Rows int
}

// Summary describes a finished assembly.
type Summary struct {
	Sheets []SheetSummary

	// ResidualRows is the number of records on the residual sheet.
	ResidualRows int

	// TotalRows counts rows across all sheets. It can exceed the input size
	// when overlapping groups place a record on several sheets.
	TotalRows int
}

// =============================================================================
// ASSEMBLER
// =============================================================================

// Assembler drives a Sink.
type Assembler struct {
	sink   Sink
	opts   AssemblerOptions
	logger *zap.Logger
}

// NewAssembler returns an Assembler writing to sink.
func NewAssembler(sink Sink, opts AssemblerOptions, logger *zap.Logger) *Assembler {
	if opts.Separator == "" {
		opts.Separator = DefaultSeparator
	}
	if opts.ResidualSheet == "" {
		opts.ResidualSheet = DefaultResidualSheet
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{sink: sink, opts: opts, logger: logger}
}

// plannedSheet is a sheet whose rows are already selected and sorted.
type plannedSheet struct {
	name    string
	groupID string
	records []records.Record
}

// Assemble writes one sheet per present group and the residual sheet.
//
// Sink errors are returned wrapped with the sheet they occurred on; nothing
// is retried.
func (a *Assembler) Assemble(res *grouping.Resolution, headers []string) (*Summary, error) {
	plan := a.plan(res)

	summary := &Summary{}
	for _, p := range plan {
		if err := a.writeSheet(p, headers); err != nil {
			return nil, err
		}

		summary.Sheets = append(summary.Sheets, SheetSummary{
			Name:    p.name,
			GroupID: p.groupID,
			Rows:    len(p.records),
		})
		summary.TotalRows += len(p.records)
		if p.groupID == "" {
			summary.ResidualRows = len(p.records)
		}
	}

	return summary, nil
}

// plan selects and sorts the records of every sheet.
func (a *Assembler) plan(res *grouping.Resolution) []plannedSheet {
	tax := res.Taxonomy()
	present := res.PresentGroups()

	plan := make([]plannedSheet, 0, len(present)+1)
	for _, id := range present {
		group := tax.Lookup(id)
		plan = append(plan, plannedSheet{
			name:    a.SheetName(group.ID, group.Name),
			groupID: group.ID,
			records: records.SortBy(res.Partition(id), a.opts.SortField),
		})
	}

	plan = append(plan, plannedSheet{
		name:    a.opts.ResidualSheet,
		records: records.SortBy(res.Residual(), a.opts.SortField),
	})

	return plan
}

// SheetName builds the sheet name of a group.
func (a *Assembler) SheetName(id, name string) string {
	return id + a.opts.Separator + name
}

func (a *Assembler) writeSheet(p plannedSheet, headers []string) error {
	handle, err := a.sink.CreateSheet(p.name)
	if err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", p.name, err)
	}

	if err := a.sink.WriteHeaderRow(handle, headers, StyleHeader); err != nil {
		return fmt.Errorf("failed to write header of sheet %s: %w", p.name, err)
	}

	rows := make([][]string, len(p.records))
	for i, rec := range p.records {
		rows[i] = rec.Cells(headers)
	}

	if err := a.sink.WriteRows(handle, rows); err != nil {
		return fmt.Errorf("failed to write rows of sheet %s: %w", p.name, err)
	}

	a.logger.Debug("Wrote sheet",
		zap.String("sheet", handle.Name),
		zap.Int("rows", len(rows)))

	return nil
}
