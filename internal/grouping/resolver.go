// =============================================================================
// Pledge Reminders - Group Resolver
// =============================================================================
//
// The resolver decides which taxonomy groups are present in an input batch
// and which records belong to each group's sheet.
//
// RESOLUTION STEPS:
//   1. Collect the distinct college codes of the batch, reduce each to its
//      integer form (CanonicalCode) and sort them numerically.
//   2. Walk the taxonomy in declaration order and mark a group present when
//      one of its member codes equals a padded canonical code.
//   3. Take the union of every group's member codes as the known codes.
//   4. A group's partition holds the records whose padded raw code is one of
//      its members; the residual holds the records whose padded raw code is
//      not a known code.
//
// NOTES:
//   - Steps 1-2 compare canonical codes but step 4 compares raw codes, so a
//     raw "002" marks group 02 present while the record itself only matches
//     no member and falls into the residual.
//   - A blank code pads to "00", which the default taxonomy assigns to
//     General University.
//   - When member sets overlap, a record is placed in every matching group.
//
// =============================================================================

package grouping

import (
	"github.com/ginjaninja78/pledge-reminders/internal/records"
	"github.com/ginjaninja78/pledge-reminders/internal/taxonomy"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options controls how the resolver reads records.
type Options struct {
	// CodeField is the record field holding the college code.
	CodeField string

	// CodeWidth is the width codes are zero-padded to. Zero means
	// DefaultCodeWidth.
	CodeWidth int
}

func (o Options) width() int {
	if o.CodeWidth <= 0 {
		return DefaultCodeWidth
	}
	return o.CodeWidth
}

// =============================================================================
// RESOLUTION
// =============================================================================

// Resolution is the outcome of resolving a batch against a taxonomy.
// It is read-only once Resolve returns.
type Resolution struct {
	tax     *taxonomy.Taxonomy
	opts    Options
	records []records.Record

	presentCodes  []string
	presentGroups []string
}

// Resolve classifies recs against tax.
func Resolve(tax *taxonomy.Taxonomy, recs []records.Record, opts Options) *Resolution {
	res := &Resolution{
		tax:     tax,
		opts:    opts,
		records: recs,
	}

	res.collectPresentCodes()
	res.collectPresentGroups()

	return res
}

// collectPresentCodes fills presentCodes with the distinct canonical codes of
// the batch in ascending numeric order.
func (r *Resolution) collectPresentCodes() {
	seenRaw := make(map[string]bool)
	seenCode := make(map[string]bool)

	for _, rec := range r.records {
		raw := rec.Value(r.opts.CodeField)
		if seenRaw[raw] {
			continue
		}
		seenRaw[raw] = true

		code, _ := CanonicalCode(raw)
		if !seenCode[code] {
			seenCode[code] = true
			r.presentCodes = append(r.presentCodes, code)
		}
	}

	sortNumeric(r.presentCodes)
}

// collectPresentGroups marks, in taxonomy order, every group that owns at
// least one present code.
func (r *Resolution) collectPresentGroups() {
	padded := make(map[string]bool, len(r.presentCodes))
	for _, c := range r.presentCodes {
		padded[PadCode(c, r.opts.width())] = true
	}

	for _, g := range r.tax.Groups() {
		for _, m := range g.Members {
			if padded[m] {
				r.presentGroups = append(r.presentGroups, g.ID)
				break
			}
		}
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// PresentCodes returns the distinct canonical codes of the batch, ascending.
func (r *Resolution) PresentCodes() []string {
	return append([]string(nil), r.presentCodes...)
}

// PresentGroups returns the ids of the groups present in the batch, in
// taxonomy declaration order, without duplicates.
func (r *Resolution) PresentGroups() []string {
	return append([]string(nil), r.presentGroups...)
}

// Taxonomy returns the taxonomy the batch was resolved against.
func (r *Resolution) Taxonomy() *taxonomy.Taxonomy {
	return r.tax
}

// PaddedCode returns the comparison form of a record's raw college code.
func (r *Resolution) PaddedCode(rec records.Record) string {
	return PadCode(rec.Value(r.opts.CodeField), r.opts.width())
}

// =============================================================================
// PARTITIONS
// =============================================================================

// Partition returns the records belonging to group id, in input order.
// It panics when id is not a taxonomy group.
func (r *Resolution) Partition(id string) []records.Record {
	group := r.tax.Lookup(id)

	var out []records.Record
	for _, rec := range r.records {
		if group.HasMember(r.PaddedCode(rec)) {
			out = append(out, rec)
		}
	}
	return out
}

// Residual returns the records whose code matches no taxonomy group, in input
// order.
func (r *Resolution) Residual() []records.Record {
	var out []records.Record
	for _, rec := range r.records {
		if !r.tax.IsKnown(r.PaddedCode(rec)) {
			out = append(out, rec)
		}
	}
	return out
}

// MatchingGroups returns the ids of every group whose members include the
// record's padded code, in taxonomy order.
func (r *Resolution) MatchingGroups(rec records.Record) []string {
	code := r.PaddedCode(rec)

	var ids []string
	for _, g := range r.tax.Groups() {
		if g.HasMember(code) {
			ids = append(ids, g.ID)
		}
	}
	return ids
}
