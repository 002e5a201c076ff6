// =============================================================================
// Pledge Reminders - College Code Taxonomy
// =============================================================================
//
// This package holds the table that maps organizational (college) codes to the
// groups that become worksheets in the output workbook.
//
// ORDERING:
//   The taxonomy is an ordered list, not a map. Declaration order decides the
//   order of the sheets in the workbook, so it must never depend on map
//   iteration.
//
// IMMUTABILITY:
//   A Taxonomy is built once at startup (either Default() or New() from the
//   YAML override) and is read-only afterwards. Accessors return copies.
//
// =============================================================================

package taxonomy

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrEmptyGroupID is returned by New when a group has no identifier.
var ErrEmptyGroupID = errors.New("group id must not be empty")

// ErrDuplicateGroup is returned by New when two groups share an identifier.
var ErrDuplicateGroup = errors.New("duplicate group id")

// =============================================================================
// TYPES
// =============================================================================

// Group is a single taxonomy entry.
type Group struct {
	// ID is the group code, e.g. "02". It prefixes the sheet name.
	ID string

	// Name is the display name, e.g. "AG".
	Name string

	// Members are the college codes captured by this group, already padded
	// to the comparison width (e.g. "02", "14").
	Members []string
}

// HasMember reports whether code is one of the group's member codes.
func (g Group) HasMember(code string) bool {
	for _, m := range g.Members {
		if m == code {
			return true
		}
	}
	return false
}

// Overlap describes a member code claimed by more than one group.
type Overlap struct {
	Code     string
	GroupIDs []string
}

func (o Overlap) String() string {
	return fmt.Sprintf("code %s claimed by groups %s", o.Code, strings.Join(o.GroupIDs, ", "))
}

// Taxonomy is an ordered, immutable set of groups.
type Taxonomy struct {
	groups []Group
	index  map[string]int
	known  []string
}

// =============================================================================
// CONSTRUCTION
// =============================================================================

// Default returns the built-in college code table.
func Default() *Taxonomy {
	t, err := New([]Group{
		{ID: "00", Name: "General University", Members: []string{"00", "10", "12", "15", "99"}},
		{ID: "02", Name: "AG", Members: []string{"02", "14"}},
		{ID: "03", Name: "CAAD", Members: []string{"03"}},
		{ID: "04", Name: "A&S", Members: []string{"04"}},
		{ID: "05", Name: "COB", Members: []string{"01", "05"}},
		{ID: "06", Name: "ED", Members: []string{"06"}},
		{ID: "07", Name: "ENG", Members: []string{"07"}},
		{ID: "08", Name: "FR", Members: []string{"08"}},
		{ID: "09", Name: "VM", Members: []string{"09"}},
		{ID: "11", Name: "Grad School", Members: []string{"11", "16"}},
		{ID: "13", Name: "Meridian", Members: []string{"13"}},
	})
	if err != nil {
		// The built-in table is a constant; failing here is a programming error.
		panic(fmt.Sprintf("taxonomy: invalid default table: %v", err))
	}
	return t
}

// New builds a Taxonomy from groups in declaration order.
//
// Group IDs must be non-empty and unique. Member sets may overlap; use
// Overlaps to report them.
func New(groups []Group) (*Taxonomy, error) {
	t := &Taxonomy{
		groups: make([]Group, 0, len(groups)),
		index:  make(map[string]int, len(groups)),
	}

	seen := make(map[string]bool)
	for _, g := range groups {
		if strings.TrimSpace(g.ID) == "" {
			return nil, ErrEmptyGroupID
		}
		if _, exists := t.index[g.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateGroup, g.ID)
		}

		t.index[g.ID] = len(t.groups)
		t.groups = append(t.groups, copyGroup(g))

		for _, m := range g.Members {
			if !seen[m] {
				seen[m] = true
				t.known = append(t.known, m)
			}
		}
	}

	return t, nil
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Lookup returns the group with the given id.
//
// The ids driving lookups always come from the taxonomy itself, so an unknown
// id is a programming error and panics.
func (t *Taxonomy) Lookup(id string) Group {
	i, ok := t.index[id]
	if !ok {
		panic(fmt.Sprintf("taxonomy: unknown group id %q", id))
	}
	return copyGroup(t.groups[i])
}

// GroupIDs returns the group ids in declaration order.
func (t *Taxonomy) GroupIDs() []string {
	ids := make([]string, len(t.groups))
	for i, g := range t.groups {
		ids[i] = g.ID
	}
	return ids
}

// Groups returns copies of all groups in declaration order.
func (t *Taxonomy) Groups() []Group {
	out := make([]Group, len(t.groups))
	for i, g := range t.groups {
		out[i] = copyGroup(g)
	}
	return out
}

// Len returns the number of groups.
func (t *Taxonomy) Len() int {
	return len(t.groups)
}

// KnownCodes returns the union of all member codes, deduplicated, in the order
// they were first declared.
func (t *Taxonomy) KnownCodes() []string {
	return append([]string(nil), t.known...)
}

// IsKnown reports whether code is a member of any group.
func (t *Taxonomy) IsKnown(code string) bool {
	for _, k := range t.known {
		if k == code {
			return true
		}
	}
	return false
}

// Overlaps returns the member codes that appear in more than one group, in the
// order the codes were first declared.
func (t *Taxonomy) Overlaps() []Overlap {
	owners := make(map[string][]string)
	for _, g := range t.groups {
		for _, m := range g.Members {
			owners[m] = appendUnique(owners[m], g.ID)
		}
	}

	var overlaps []Overlap
	for _, code := range t.known {
		if ids := owners[code]; len(ids) > 1 {
			overlaps = append(overlaps, Overlap{Code: code, GroupIDs: ids})
		}
	}
	return overlaps
}

// =============================================================================
// HELPERS
// =============================================================================

func copyGroup(g Group) Group {
	g.Members = append([]string(nil), g.Members...)
	return g
}

func appendUnique(list []string, v string) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}
