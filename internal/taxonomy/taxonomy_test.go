package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOrder(t *testing.T) {
	tax := Default()

	assert.Equal(t,
		[]string{"00", "02", "03", "04", "05", "06", "07", "08", "09", "11", "13"},
		tax.GroupIDs())
	assert.Equal(t, 11, tax.Len())
}

func TestDefaultLookup(t *testing.T) {
	tax := Default()

	g := tax.Lookup("05")
	assert.Equal(t, "COB", g.Name)
	assert.Equal(t, []string{"01", "05"}, g.Members)

	g = tax.Lookup("00")
	assert.Equal(t, "General University", g.Name)
	assert.True(t, g.HasMember("99"))
	assert.False(t, g.HasMember("98"))
}

func TestLookupUnknownPanics(t *testing.T) {
	assert.Panics(t, func() { Default().Lookup("42") })
}

func TestLookupReturnsCopy(t *testing.T) {
	tax := Default()

	g := tax.Lookup("02")
	g.Members[0] = "77"

	assert.Equal(t, []string{"02", "14"}, tax.Lookup("02").Members)
}

func TestKnownCodes(t *testing.T) {
	tax := Default()

	known := tax.KnownCodes()
	assert.Len(t, known, 18)
	assert.Equal(t, []string{"00", "10", "12", "15", "99", "02", "14"}, known[:7])
	assert.True(t, tax.IsKnown("16"))
	assert.False(t, tax.IsKnown("77"))
}

func TestNewRejectsBadGroups(t *testing.T) {
	_, err := New([]Group{{ID: "", Name: "x"}})
	assert.ErrorIs(t, err, ErrEmptyGroupID)

	_, err = New([]Group{{ID: "01"}, {ID: "01"}})
	assert.ErrorIs(t, err, ErrDuplicateGroup)
}

func TestOverlaps(t *testing.T) {
	assert.Empty(t, Default().Overlaps())

	tax, err := New([]Group{
		{ID: "A", Members: []string{"01", "02"}},
		{ID: "B", Members: []string{"02", "03"}},
		{ID: "C", Members: []string{"02"}},
	})
	require.NoError(t, err)

	overlaps := tax.Overlaps()
	require.Len(t, overlaps, 1)
	assert.Equal(t, "02", overlaps[0].Code)
	assert.Equal(t, []string{"A", "B", "C"}, overlaps[0].GroupIDs)
	assert.Equal(t, "code 02 claimed by groups A, B, C", overlaps[0].String())
}
