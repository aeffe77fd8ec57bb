package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/candidhq/intake/internal/core/domain"
	"github.com/candidhq/intake/internal/intake/countries"
)

// FieldType enumerates the supported form field kinds.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldTel      FieldType = "tel"
	FieldTextarea FieldType = "textarea"
	FieldSelect   FieldType = "select"
	FieldFile     FieldType = "file"
)

// FieldSpec declares one form field and its constraints.
type FieldSpec struct {
	ID            string
	Label         string
	Type          FieldType
	Required      bool
	MaxLen        int      // text/textarea; 0 = unlimited
	MaxFileSize   int64    // file; bytes, 0 = unlimited
	AcceptedTypes []string // file; extensions (".pdf") or MIME types
}

// Result is the outcome of validating a single field. Ephemeral: it exists
// only for one validation pass.
type Result struct {
	FieldID string
	Valid   bool
	Message string
}

func ok(fieldID string) Result {
	return Result{FieldID: fieldID, Valid: true}
}

func fail(fieldID, msg string) Result {
	return Result{FieldID: fieldID, Valid: false, Message: msg}
}

// Permissive local@domain.tld shape; no MX or DNS verification.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)

var digitsOnly = regexp.MustCompile(`\D`)

// Digits strips everything but digits from a phone input.
func Digits(s string) string {
	return digitsOnly.ReplaceAllString(s, "")
}

// Validator checks form fields against their specs. Phone checks consult
// the country registry for per-calling-code patterns.
type Validator struct {
	reg *countries.Registry
}

// New creates a validator backed by the given country registry.
func New(reg *countries.Registry) *Validator {
	return &Validator{reg: reg}
}

// Field validates one field value. For tel fields the selected country is
// mandatory: a missing country context is a validation failure, never a
// silent skip. Pure: identical inputs yield identical results.
func (v *Validator) Field(spec FieldSpec, value string, country *domain.CountryEntry) Result {
	value = strings.TrimSpace(value)

	// Required check runs before any format check.
	if value == "" {
		if spec.Required {
			return fail(spec.ID, fmt.Sprintf("%s is required", label(spec)))
		}
		return ok(spec.ID)
	}

	switch spec.Type {
	case FieldEmail:
		if !emailPattern.MatchString(value) {
			return fail(spec.ID, fmt.Sprintf("%s must be a valid email address", label(spec)))
		}
	case FieldTel:
		if country == nil {
			return fail(spec.ID, "Select a country first")
		}
		return v.phone(spec, value, country)
	case FieldText, FieldTextarea:
		if spec.MaxLen > 0 && len(value) > spec.MaxLen {
			return fail(spec.ID, fmt.Sprintf("%s must be at most %d characters", label(spec), spec.MaxLen))
		}
	case FieldSelect:
		// Non-empty selection is sufficient.
	}

	return ok(spec.ID)
}

func (v *Validator) phone(spec FieldSpec, value string, country *domain.CountryEntry) Result {
	digits := Digits(value)
	if digits == "" {
		return fail(spec.ID, fmt.Sprintf("%s must contain digits", label(spec)))
	}

	if p := v.reg.Pattern(country.CallingCode); p != nil {
		if !p.Matches(digits) {
			return fail(spec.ID, fmt.Sprintf("%s must match the format %s", label(spec), p.Hint))
		}
		return ok(spec.ID)
	}

	// No country-specific rule: generic length check.
	if len(digits) < countries.GenericMinDigits || len(digits) > countries.GenericMaxDigits {
		return fail(spec.ID, fmt.Sprintf("%s must have between %d and %d digits",
			label(spec), countries.GenericMinDigits, countries.GenericMaxDigits))
	}
	return ok(spec.ID)
}

// Form carries the raw values and file handles of one submission.
type Form struct {
	Values  map[string]string
	Files   map[string]*FileInfo
	Country *domain.CountryEntry
}

// All validates every declared field and stops at the first failure so the
// caller can steer focus to the offending field.
func (v *Validator) All(specs []FieldSpec, form Form) (bool, *Result) {
	for _, spec := range specs {
		var res Result
		if spec.Type == FieldFile {
			res = v.File(spec, form.Files[spec.ID])
		} else {
			res = v.Field(spec, form.Values[spec.ID], form.Country)
		}
		if !res.Valid {
			return false, &res
		}
	}
	return true, nil
}

func label(spec FieldSpec) string {
	if spec.Label != "" {
		return spec.Label
	}
	return spec.ID
}
