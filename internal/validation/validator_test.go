package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/pledge-reminders/internal/records"
	"github.com/ginjaninja78/pledge-reminders/internal/taxonomy"
)

func TestValidateHeaders(t *testing.T) {
	data := &records.Data{Headers: []string{"MSU-ID", "AREA"}}

	result := ValidateHeaders(data, "COLL_CODE", "AREA")

	assert.False(t, result.IsValid())
	assert.Equal(t, 1, result.ErrorCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "COLL_CODE", result.Errors[0].Field)
	assert.ErrorIs(t, result.Err(), ErrMissingField)
	assert.Equal(t, "[ERROR] COLL_CODE: column not found in input header", result.Errors[0].Error())
}

func TestValidateHeadersPresent(t *testing.T) {
	data := &records.Data{Headers: []string{"COLL_CODE", "AREA"}}

	result := ValidateHeaders(data, "COLL_CODE", "AREA")

	assert.True(t, result.IsValid())
	assert.NoError(t, result.Err())
}

func TestValidateCodes(t *testing.T) {
	headers := []string{"COLL_CODE"}
	recs := []records.Record{
		records.FromRow(headers, []string{"02"}, 2),
		records.FromRow(headers, []string{""}, 3),
		records.FromRow(headers, []string{"XX"}, 4),
		records.FromRow(headers, []string{"7b"}, 5),
	}

	result := ValidateCodes(recs, "COLL_CODE")

	assert.True(t, result.IsValid(), "non-numeric codes only warn")
	assert.Equal(t, 1, result.WarningCount)
	warnings := result.Warnings()
	require.Len(t, warnings, 1)
	assert.ErrorIs(t, warnings[0], ErrNonNumericCode)
	assert.Equal(t, "[WARNING] line 4, COLL_CODE: not a number, read as 0 (value: 'XX')", warnings[0].Error())
}

func TestValidateTaxonomy(t *testing.T) {
	assert.Empty(t, ValidateTaxonomy(taxonomy.Default(), 2).Errors)

	tax, err := taxonomy.New([]taxonomy.Group{
		{ID: "A", Members: []string{"01", "2"}},
		{ID: "B", Members: []string{"01"}},
		{ID: "C"},
	})
	require.NoError(t, err)

	result := ValidateTaxonomy(tax, 2)

	assert.True(t, result.IsValid())
	assert.Equal(t, 3, result.WarningCount)

	var sentinels []error
	for _, w := range result.Warnings() {
		sentinels = append(sentinels, w.Err)
	}
	assert.ElementsMatch(t, []error{ErrMemberWidth, ErrEmptyGroup, ErrOverlap}, sentinels)
}

func TestMergeAndFormat(t *testing.T) {
	result := &ValidationResult{}
	result.Merge(ValidateHeaders(&records.Data{}, "COLL_CODE"))
	result.Merge(ValidateCodes([]records.Record{records.New(map[string]string{"COLL_CODE": "?"})}, "COLL_CODE"))

	assert.Equal(t, 1, result.ErrorCount)
	assert.Equal(t, 1, result.WarningCount)

	out := FormatErrors(result.Errors)
	assert.Contains(t, out, "2 finding(s)")
	assert.Contains(t, out, "1. [ERROR] COLL_CODE")
	assert.Contains(t, out, "2. [WARNING] COLL_CODE")

	assert.Equal(t, "No validation errors.", FormatErrors(nil))
}

func TestValidateTaxonomyUnreachableMembers(t *testing.T) {
	tax, err := taxonomy.New([]taxonomy.Group{
		{ID: "X", Name: "Ext", Members: []string{"EX"}},
		{ID: "Y", Name: "Wide", Members: []string{"007", "07"}},
		{ID: "Z", Name: "Zero", Members: []string{"00", "-1"}},
	})
	require.NoError(t, err)

	result := ValidateTaxonomy(tax, 2)

	assert.False(t, result.IsValid())
	assert.Equal(t, 2, result.ErrorCount)
	assert.ErrorIs(t, result.Err(), ErrUnreachableMember)

	var values []string
	for _, e := range result.Errors {
		if e.Severity == SeverityError {
			values = append(values, e.Value)
		}
	}
	assert.Equal(t, []string{"EX", "007"}, values)
}

func TestValidateTaxonomyZeroWidthUsesDefault(t *testing.T) {
	tax, err := taxonomy.New([]taxonomy.Group{{ID: "A", Members: []string{"1"}}})
	require.NoError(t, err)

	result := ValidateTaxonomy(tax, 0)

	assert.True(t, result.IsValid())
	assert.ErrorIs(t, result.Warnings()[0], ErrMemberWidth)
}
