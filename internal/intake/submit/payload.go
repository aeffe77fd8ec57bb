package submit

import (
	"strings"

	"github.com/candidhq/intake/internal/core/domain"
	"github.com/candidhq/intake/internal/intake/validate"
)

// BuildPayload assembles the outbound payload from a validated form:
// field values are copied, the phone number is normalized to
// "<calling code> <digits>", and the auxiliary multi-select is collapsed
// into one comma-separated field.
func BuildPayload(form Form, country *domain.CountryEntry) *domain.SubmissionPayload {
	fields := make(map[string]string, len(form.Values)+1)
	for k, v := range form.Values {
		fields[k] = strings.TrimSpace(v)
	}

	if phone, ok := fields["phone"]; ok && phone != "" && country != nil {
		fields["phone"] = country.CallingCode + " " + validate.Digits(phone)
	}

	if len(form.Channels) > 0 {
		fields["channels"] = strings.Join(form.Channels, ", ")
	}

	return &domain.SubmissionPayload{
		Fields: fields,
		Files:  form.Files,
	}
}

// DefaultFieldSpecs declares the application form shipped with the intake
// service. The server re-validates against the same specs.
func DefaultFieldSpecs() []validate.FieldSpec {
	return []validate.FieldSpec{
		{ID: "full_name", Label: "Full name", Type: validate.FieldText, Required: true, MaxLen: 120},
		{ID: "email", Label: "Email", Type: validate.FieldEmail, Required: true},
		{ID: "country", Label: "Country", Type: validate.FieldSelect, Required: true},
		{ID: "phone", Label: "Phone", Type: validate.FieldTel, Required: true},
		{ID: "position", Label: "Position", Type: validate.FieldText, Required: true, MaxLen: 120},
		{ID: "cover_note", Label: "Cover note", Type: validate.FieldTextarea, MaxLen: 2000},
		{
			ID: "cv", Label: "CV", Type: validate.FieldFile, Required: true,
			MaxFileSize: 5 << 20,
			AcceptedTypes: []string{
				".pdf", ".doc", ".docx",
				"application/pdf",
				"application/msword",
				"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			},
		},
	}
}
