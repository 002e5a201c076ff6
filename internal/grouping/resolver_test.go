package grouping

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/pledge-reminders/internal/records"
	"github.com/ginjaninja78/pledge-reminders/internal/taxonomy"
)

var testOpts = Options{CodeField: "COLL_CODE"}

func reminder(id, code, area string) records.Record {
	return records.New(map[string]string{"MSU-ID": id, "COLL_CODE": code, "AREA": area})
}

func ids(recs []records.Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Value("MSU-ID")
	}
	return out
}

func TestCanonicalCode(t *testing.T) {
	tests := []struct {
		raw  string
		code string
		ok   bool
	}{
		{"2", "2", true},
		{"02", "2", true},
		{"014", "14", true},
		{"00", "0", true},
		{" 7", "7", true},
		{"12abc", "12", true},
		{"+5", "5", true},
		{"-3", "-3", true},
		{"1_000", "1000", true},
		{"1__0", "1", true},
		{"99999999999999999999999", "99999999999999999999999", true},
		{"abc", "0", false},
		{"", "0", false},
		{"_1", "0", false},
	}

	for _, tt := range tests {
		code, ok := CanonicalCode(tt.raw)
		assert.Equal(t, tt.code, code, "CanonicalCode(%q)", tt.raw)
		assert.Equal(t, tt.ok, ok, "CanonicalCode(%q) ok", tt.raw)
	}
}

func TestPadCode(t *testing.T) {
	assert.Equal(t, "00", PadCode("", 2))
	assert.Equal(t, "02", PadCode("2", 2))
	assert.Equal(t, "14", PadCode("14", 2))
	assert.Equal(t, "002", PadCode("002", 2))
	assert.Equal(t, "0002", PadCode("2", 4))
}

func TestSortNumeric(t *testing.T) {
	codes := []string{"14", "3", "2", "100", "0", "-1"}
	sortNumeric(codes)
	assert.Equal(t, []string{"-1", "0", "2", "3", "14", "100"}, codes)
}

func TestPresentGroupsDeclarationOrder(t *testing.T) {
	recs := []records.Record{
		reminder("1", "2", "A"),
		reminder("2", "14", "A"),
		reminder("3", "3", "A"),
	}

	res := Resolve(taxonomy.Default(), recs, testOpts)

	if diff := cmp.Diff([]string{"02", "03"}, res.PresentGroups()); diff != "" {
		t.Errorf("present groups mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"2", "3", "14"}, res.PresentCodes())
	assert.Equal(t, []string{"1", "2"}, ids(res.Partition("02")))
	assert.Equal(t, []string{"3"}, ids(res.Partition("03")))
	assert.Empty(t, res.Residual())
}

func TestUnknownCodeGoesToResidual(t *testing.T) {
	recs := []records.Record{
		reminder("1", "77", "A"),
		reminder("2", "04", "A"),
	}

	res := Resolve(taxonomy.Default(), recs, testOpts)

	assert.Equal(t, []string{"04"}, res.PresentGroups())
	assert.Equal(t, []string{"1"}, ids(res.Residual()))
	assert.Equal(t, []string{"2"}, ids(res.Partition("04")))
}

func TestBlankCodeJoinsGeneralUniversity(t *testing.T) {
	recs := []records.Record{
		reminder("1", "", "A"),
		records.New(map[string]string{"MSU-ID": "2", "AREA": "B"}),
	}

	res := Resolve(taxonomy.Default(), recs, testOpts)

	assert.Equal(t, []string{"00"}, res.PresentGroups())
	assert.Equal(t, []string{"1", "2"}, ids(res.Partition("00")))
	assert.Empty(t, res.Residual())
}

func TestNoRecognizableCodes(t *testing.T) {
	recs := []records.Record{
		reminder("1", "77", "A"),
		reminder("2", "88", "B"),
		reminder("3", "123", "C"),
	}

	res := Resolve(taxonomy.Default(), recs, testOpts)

	assert.Empty(t, res.PresentGroups())
	assert.Equal(t, []string{"1", "2", "3"}, ids(res.Residual()))
}

func TestNonNumericCodeIsCoercedToZero(t *testing.T) {
	recs := []records.Record{
		reminder("1", "XX", "A"),
		reminder("2", "XX", "A"),
	}

	res := Resolve(taxonomy.Default(), recs, testOpts)

	assert.Equal(t, []string{"0"}, res.PresentCodes())
	assert.Equal(t, []string{"00"}, res.PresentGroups(), "0 pads to 00")
	assert.Empty(t, res.Partition("00"), "partitions compare the raw code")
	assert.Equal(t, []string{"1", "2"}, ids(res.Residual()))
}

func TestLeadingZerosDetectGroupButPartitionUsesRawCode(t *testing.T) {
	recs := []records.Record{reminder("1", "002", "A")}

	res := Resolve(taxonomy.Default(), recs, testOpts)

	assert.Equal(t, []string{"02"}, res.PresentGroups())
	assert.Empty(t, res.Partition("02"))
	assert.Equal(t, []string{"1"}, ids(res.Residual()))
}

func TestPresentGroupsIndependentOfInputOrder(t *testing.T) {
	recs := []records.Record{
		reminder("1", "13", "A"),
		reminder("2", "1", "A"),
		reminder("3", "9", "A"),
		reminder("4", "16", "A"),
		reminder("5", "0", "A"),
	}
	reversed := make([]records.Record, len(recs))
	for i, r := range recs {
		reversed[len(recs)-1-i] = r
	}

	want := []string{"00", "05", "09", "11", "13"}
	assert.Equal(t, want, Resolve(taxonomy.Default(), recs, testOpts).PresentGroups())
	assert.Equal(t, want, Resolve(taxonomy.Default(), reversed, testOpts).PresentGroups())
}

func TestOverlappingGroupsBothCapture(t *testing.T) {
	tax, err := taxonomy.New([]taxonomy.Group{
		{ID: "A", Name: "Alpha", Members: []string{"01", "02"}},
		{ID: "B", Name: "Beta", Members: []string{"02"}},
	})
	require.NoError(t, err)

	res := Resolve(tax, []records.Record{reminder("1", "2", "A")}, testOpts)

	assert.Equal(t, []string{"A", "B"}, res.PresentGroups())
	assert.Equal(t, []string{"1"}, ids(res.Partition("A")))
	assert.Equal(t, []string{"1"}, ids(res.Partition("B")))
	assert.Equal(t, []string{"A", "B"}, res.MatchingGroups(reminder("1", "2", "A")))
}

func TestPartitionCompleteness(t *testing.T) {
	recs := []records.Record{
		reminder("1", "2", "A"),
		reminder("2", "14", "B"),
		reminder("3", "77", "C"),
		reminder("4", "", "D"),
		reminder("5", "5", "E"),
		reminder("6", "01", "F"),
		reminder("7", "002", "G"),
		reminder("8", "bad", "H"),
	}

	tax := taxonomy.Default()
	res := Resolve(tax, recs, testOpts)

	placed := make(map[string][]string)
	for _, id := range res.PresentGroups() {
		for _, r := range res.Partition(id) {
			placed[r.Value("MSU-ID")] = append(placed[r.Value("MSU-ID")], id)
		}
	}
	for _, r := range res.Residual() {
		placed[r.Value("MSU-ID")] = append(placed[r.Value("MSU-ID")], "OTHER")
	}

	for _, r := range recs {
		id := r.Value("MSU-ID")
		want := res.MatchingGroups(r)
		if len(want) == 0 {
			want = []string{"OTHER"}
		}
		assert.Equal(t, want, placed[id], "record %s", id)
	}
}

func TestCustomCodeWidth(t *testing.T) {
	tax, err := taxonomy.New([]taxonomy.Group{{ID: "100", Name: "Three", Members: []string{"007"}}})
	require.NoError(t, err)

	res := Resolve(tax, []records.Record{reminder("1", "7", "A")}, Options{CodeField: "COLL_CODE", CodeWidth: 3})

	assert.Equal(t, []string{"100"}, res.PresentGroups())
	assert.Equal(t, []string{"1"}, ids(res.Partition("100")))
}

func TestPartitionUnknownGroupPanics(t *testing.T) {
	res := Resolve(taxonomy.Default(), nil, testOpts)

	assert.Panics(t, func() { res.Partition("42") })
}
