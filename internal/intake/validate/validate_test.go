package validate

import (
	"strings"
	"testing"

	"github.com/candidhq/intake/internal/core/domain"
	"github.com/candidhq/intake/internal/intake/countries"
)

func newValidator() *Validator {
	return New(countries.NewRegistry())
}

func TestField_RequiredPrecedesFormat(t *testing.T) {
	v := newValidator()
	spec := FieldSpec{ID: "email", Label: "Email", Type: FieldEmail, Required: true}

	res := v.Field(spec, "   ", nil)
	if res.Valid {
		t.Fatal("Expected empty required field to fail")
	}
	if !strings.Contains(res.Message, "required") {
		t.Errorf("Expected generic required message, got %q", res.Message)
	}
}

func TestField_OptionalEmptyPasses(t *testing.T) {
	v := newValidator()
	spec := FieldSpec{ID: "note", Type: FieldTextarea, MaxLen: 10}

	if res := v.Field(spec, "", nil); !res.Valid {
		t.Errorf("Expected empty optional field to pass, got %q", res.Message)
	}
}

func TestField_Email(t *testing.T) {
	v := newValidator()
	spec := FieldSpec{ID: "email", Label: "Email", Type: FieldEmail, Required: true}

	tests := []struct {
		value string
		valid bool
	}{
		{"ana@example.com", true},
		{"a.b+c@sub.domain.org", true},
		{"no-at-sign", false},
		{"two@@example.com", false},
		{"missing@tld", false},
		{"spaces in@example.com", false},
	}

	for _, tt := range tests {
		if res := v.Field(spec, tt.value, nil); res.Valid != tt.valid {
			t.Errorf("Field(%q) valid = %v, want %v (%s)", tt.value, res.Valid, tt.valid, res.Message)
		}
	}
}

func TestField_TextLength(t *testing.T) {
	v := newValidator()
	spec := FieldSpec{ID: "name", Label: "Full name", Type: FieldText, Required: true, MaxLen: 5}

	res := v.Field(spec, "abcdef", nil)
	if res.Valid {
		t.Fatal("Expected over-length value to fail")
	}
	if !strings.Contains(res.Message, "5") {
		t.Errorf("Expected message to include the limit, got %q", res.Message)
	}

	if res := v.Field(spec, "abcde", nil); !res.Valid {
		t.Errorf("Expected value at the limit to pass, got %q", res.Message)
	}
}

func TestField_TelRequiresCountry(t *testing.T) {
	v := newValidator()
	spec := FieldSpec{ID: "phone", Label: "Phone", Type: FieldTel, Required: true}

	res := v.Field(spec, "951234567", nil)
	if res.Valid {
		t.Fatal("Expected tel without country context to fail")
	}
	if !strings.Contains(strings.ToLower(res.Message), "country") {
		t.Errorf("Expected message to ask for a country, got %q", res.Message)
	}
}

func TestField_TelCroatianPattern(t *testing.T) {
	v := newValidator()
	spec := FieldSpec{ID: "phone", Label: "Phone", Type: FieldTel, Required: true}
	hr := &domain.CountryEntry{ISO: "HR", CallingCode: "+385"}

	// 9 digits with formatting noise: valid per the 8-9 digit rule.
	if res := v.Field(spec, "95 1234567", hr); !res.Valid {
		t.Errorf("Expected Croatian number to pass, got %q", res.Message)
	}
	if res := v.Field(spec, "1234", hr); res.Valid {
		t.Error("Expected short number to fail")
	}
}

func TestField_TelGenericFallback(t *testing.T) {
	v := newValidator()
	spec := FieldSpec{ID: "phone", Label: "Phone", Type: FieldTel, Required: true}
	// Calling code with no specific pattern: generic 7-15 digit rule.
	unknown := &domain.CountryEntry{ISO: "AQ", CallingCode: "+672"}

	if res := v.Field(spec, "1234567", unknown); !res.Valid {
		t.Errorf("Expected 7 digits to pass generic check, got %q", res.Message)
	}
	if res := v.Field(spec, "123456", unknown); res.Valid {
		t.Error("Expected 6 digits to fail generic check")
	}
	if res := v.Field(spec, "1234567890123456", unknown); res.Valid {
		t.Error("Expected 16 digits to fail generic check")
	}
}

func TestField_Idempotent(t *testing.T) {
	v := newValidator()
	spec := FieldSpec{ID: "phone", Label: "Phone", Type: FieldTel, Required: true}
	hr := &domain.CountryEntry{ISO: "HR", CallingCode: "+385"}

	first := v.Field(spec, "95 1234567", hr)
	second := v.Field(spec, "95 1234567", hr)
	if first != second {
		t.Errorf("Expected identical results, got %+v then %+v", first, second)
	}
}

func TestFile_SizeLimit(t *testing.T) {
	v := newValidator()
	spec := FieldSpec{
		ID: "cv", Label: "CV", Type: FieldFile, Required: true,
		MaxFileSize:   5 << 20,
		AcceptedTypes: []string{".pdf"},
	}

	res := v.File(spec, &FileInfo{Name: "cv.pdf", Size: 6 << 20, ContentType: "application/pdf"})
	if res.Valid {
		t.Fatal("Expected oversized file to fail")
	}
	if !strings.Contains(res.Message, "6.0 MB") || !strings.Contains(res.Message, "5.0 MB") {
		t.Errorf("Expected message with actual and max size, got %q", res.Message)
	}
}

func TestFile_TypeChecks(t *testing.T) {
	v := newValidator()
	spec := FieldSpec{
		ID: "cv", Label: "CV", Type: FieldFile, Required: true,
		AcceptedTypes: []string{".pdf", "application/msword"},
	}

	tests := []struct {
		name  string
		file  *FileInfo
		valid bool
	}{
		{"missing required", nil, false},
		{"pdf by extension", &FileInfo{Name: "cv.PDF", Size: 100}, true},
		{"doc by mime", &FileInfo{Name: "cv.doc", Size: 100, ContentType: "application/msword"}, true},
		{"executable", &FileInfo{Name: "cv.exe", Size: 100, ContentType: "application/octet-stream"}, false},
	}

	for _, tt := range tests {
		if res := v.File(spec, tt.file); res.Valid != tt.valid {
			t.Errorf("%s: valid = %v, want %v (%s)", tt.name, res.Valid, tt.valid, res.Message)
		}
	}
}

func TestAll_StopsAtFirstFailure(t *testing.T) {
	v := newValidator()
	specs := []FieldSpec{
		{ID: "name", Label: "Full name", Type: FieldText, Required: true},
		{ID: "email", Label: "Email", Type: FieldEmail, Required: true},
		{ID: "cv", Label: "CV", Type: FieldFile, Required: true},
	}
	form := Form{
		Values: map[string]string{"name": "Ana", "email": ""},
		Files:  map[string]*FileInfo{},
	}

	valid, first := v.All(specs, form)
	if valid {
		t.Fatal("Expected form to be invalid")
	}
	if first == nil || first.FieldID != "email" {
		t.Fatalf("Expected first failure on email, got %+v", first)
	}
	if !strings.Contains(first.Message, "Email") {
		t.Errorf("Expected message to reference the Email field, got %q", first.Message)
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{512, "512 B"},
		{2 << 10, "2.0 KB"},
		{2411725, "2.3 MB"},
		{5 << 20, "5.0 MB"},
		{3 << 30, "3.0 GB"},
	}
	for _, tt := range tests {
		if got := FormatSize(tt.n); got != tt.want {
			t.Errorf("FormatSize(%d) = %s, want %s", tt.n, got, tt.want)
		}
	}
}
