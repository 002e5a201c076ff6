// =============================================================================
// Pledge Reminders - Validation
// =============================================================================
//
// This module checks an input batch and the taxonomy before any output is
// produced.
//
// SEVERITY:
//   - error:   the run must stop (e.g. the college code column is missing,
//              or a taxonomy member code like "EX" would drop its records)
//   - warning: the run continues; the problem is logged (e.g. a college code
//              that is not a number and will be read as 0, or a member code
//              shared by two groups)
//
// Field values themselves are not format-checked.
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ginjaninja78/pledge-reminders/internal/grouping"
	"github.com/ginjaninja78/pledge-reminders/internal/records"
	"github.com/ginjaninja78/pledge-reminders/internal/taxonomy"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Sentinel errors wrapped by ValidationError.
var (
	ErrMissingField   = errors.New("required column missing")
	ErrNonNumericCode = errors.New("college code is not numeric")
	ErrOverlap        = errors.New("member code shared by several groups")
	ErrMemberWidth    = errors.New("member code narrower than code width")
	ErrEmptyGroup     = errors.New("group has no member codes")

	// ErrUnreachableMember marks a member code that is not the padded form
	// of an integer. Records carrying it are known to the taxonomy but can
	// never make their group present, so they would land on no sheet.
	ErrUnreachableMember = errors.New("member code is not a padded integer")
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single validation finding.
type ValidationError struct {
	// Severity is SeverityError or SeverityWarning.
	Severity string

	// Field is the column or group the finding is about.
	Field string

	// Value is the offending value, if any.
	Value string

	// Message is a human-readable description.
	Message string

	// RowNumber is the source line of the record, 0 when not row-specific.
	RowNumber int

	// Err is the sentinel describing the rule that was violated.
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] ", strings.ToUpper(e.Severity))
	if e.RowNumber > 0 {
		fmt.Fprintf(&b, "line %d, ", e.RowNumber)
	}
	fmt.Fprintf(&b, "%s: %s", e.Field, e.Message)
	if e.Value != "" {
		fmt.Fprintf(&b, " (value: '%s')", e.Value)
	}
	return b.String()
}

// Unwrap returns the rule sentinel.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult collects findings.
type ValidationResult struct {
	Errors       []*ValidationError
	ErrorCount   int
	WarningCount int
}

func (r *ValidationResult) add(e *ValidationError) {
	r.Errors = append(r.Errors, e)
	if e.Severity == SeverityError {
		r.ErrorCount++
	} else {
		r.WarningCount++
	}
}

// Merge appends the findings of other.
func (r *ValidationResult) Merge(other *ValidationResult) {
	for _, e := range other.Errors {
		r.add(e)
	}
}

// IsValid is true when there are no error-severity findings.
func (r *ValidationResult) IsValid() bool {
	return r.ErrorCount == 0
}

// Err returns the first error-severity finding, or nil.
func (r *ValidationResult) Err() error {
	for _, e := range r.Errors {
		if e.Severity == SeverityError {
			return e
		}
	}
	return nil
}

// Warnings returns the warning-severity findings.
func (r *ValidationResult) Warnings() []*ValidationError {
	var out []*ValidationError
	for _, e := range r.Errors {
		if e.Severity == SeverityWarning {
			out = append(out, e)
		}
	}
	return out
}

// =============================================================================
// VALIDATORS
// =============================================================================

// ValidateHeaders checks that every required column is present.
func ValidateHeaders(data *records.Data, required ...string) *ValidationResult {
	result := &ValidationResult{}
	for _, field := range required {
		if !data.HasHeader(field) {
			result.add(&ValidationError{
				Severity: SeverityError,
				Field:    field,
				Message:  "column not found in input header",
				Err:      ErrMissingField,
			})
		}
	}
	return result
}

// ValidateCodes reports college codes that are not numeric. Such codes are
// read as 0 by the resolver; blank codes are not reported.
func ValidateCodes(recs []records.Record, codeField string) *ValidationResult {
	result := &ValidationResult{}
	for _, rec := range recs {
		raw := rec.Value(codeField)
		if raw == "" {
			continue
		}
		if _, ok := grouping.CanonicalCode(raw); !ok {
			result.add(&ValidationError{
				Severity:  SeverityWarning,
				Field:     codeField,
				Value:     raw,
				Message:   "not a number, read as 0",
				RowNumber: rec.Line,
				Err:       ErrNonNumericCode,
			})
		}
	}
	return result
}

// ValidateTaxonomy reports groups without members, member codes that can
// never match a padded code, member codes that are not padded integers
// (an error) and member codes claimed by several groups.
func ValidateTaxonomy(tax *taxonomy.Taxonomy, codeWidth int) *ValidationResult {
	result := &ValidationResult{}

	if codeWidth <= 0 {
		codeWidth = grouping.DefaultCodeWidth
	}

	for _, g := range tax.Groups() {
		if len(g.Members) == 0 {
			result.add(&ValidationError{
				Severity: SeverityWarning,
				Field:    g.ID,
				Message:  "group has no member codes and can never be present",
				Err:      ErrEmptyGroup,
			})
		}
		for _, m := range g.Members {
			if utf8.RuneCountInString(m) < codeWidth {
				result.add(&ValidationError{
					Severity: SeverityWarning,
					Field:    g.ID,
					Value:    m,
					Message:  fmt.Sprintf("member code shorter than %d characters never matches", codeWidth),
					Err:      ErrMemberWidth,
				})
				continue
			}

			code, _ := grouping.CanonicalCode(m)
			if want := grouping.PadCode(code, codeWidth); want != m {
				result.add(&ValidationError{
					Severity: SeverityError,
					Field:    g.ID,
					Value:    m,
					Message:  fmt.Sprintf("member code never marks the group present (reads as %s); records with it would be dropped", want),
					Err:      ErrUnreachableMember,
				})
			}
		}
	}

	for _, o := range tax.Overlaps() {
		result.add(&ValidationError{
			Severity: SeverityWarning,
			Field:    strings.Join(o.GroupIDs, ","),
			Value:    o.Code,
			Message:  "records with this code appear on every listed group's sheet",
			Err:      ErrOverlap,
		})
	}

	return result
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatErrors formats findings for display.
func FormatErrors(errs []*ValidationError) string {
	if len(errs) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Validation completed with %d finding(s):\n\n", len(errs)))
	for i, err := range errs {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}
	return builder.String()
}
