package records

import (
	"slices"
	"strings"
)

// trailingSpace is the set of characters stripped from the end of values.
// It includes NUL because legacy report exports pad fixed-width columns with it.
const trailingSpace = " \t\n\v\f\r\x00"

// TrimTrailing removes trailing whitespace from a single value.
func TrimTrailing(v string) string {
	return strings.TrimRight(v, trailingSpace)
}

// Normalize returns a copy of recs with trailing whitespace removed from every
// present value. Missing fields stay missing. Normalize is idempotent.
func Normalize(recs []Record) []Record {
	out := make([]Record, len(recs))
	for i, r := range recs {
		out[i] = r.with(TrimTrailing)
	}
	return out
}

// SortBy returns a copy of recs ordered by the raw value of field, ascending,
// using byte-wise string comparison. Records with equal values keep their
// relative order.
func SortBy(recs []Record, field string) []Record {
	sorted := slices.Clone(recs)
	slices.SortStableFunc(sorted, func(a, b Record) int {
		return strings.Compare(a.Value(field), b.Value(field))
	})
	return sorted
}
