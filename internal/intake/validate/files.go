package validate

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FileInfo describes an attached file without holding its contents.
type FileInfo struct {
	Name        string
	Size        int64
	ContentType string
}

// File validates an attachment against the field's constraints.
func (v *Validator) File(spec FieldSpec, file *FileInfo) Result {
	if file == nil || file.Name == "" {
		if spec.Required {
			return fail(spec.ID, fmt.Sprintf("%s is required", label(spec)))
		}
		return ok(spec.ID)
	}

	if spec.MaxFileSize > 0 && file.Size > spec.MaxFileSize {
		return fail(spec.ID, fmt.Sprintf("%s is too large: %s (limit %s)",
			label(spec), FormatSize(file.Size), FormatSize(spec.MaxFileSize)))
	}

	if len(spec.AcceptedTypes) > 0 && !accepted(spec.AcceptedTypes, file) {
		return fail(spec.ID, fmt.Sprintf("%s has an unsupported file type: %s",
			label(spec), filepath.Ext(file.Name)))
	}

	return ok(spec.ID)
}

// accepted matches the file's extension or declared MIME type against the
// field's accepted set.
func accepted(types []string, file *FileInfo) bool {
	ext := strings.ToLower(filepath.Ext(file.Name))
	ct := strings.ToLower(file.ContentType)

	for _, t := range types {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if strings.HasPrefix(t, ".") {
			if t == ext {
				return true
			}
			continue
		}
		if t == ct {
			return true
		}
	}
	return false
}

// FormatSize renders a byte count for humans, e.g. "2.3 MB".
func FormatSize(n int64) string {
	const (
		kb = 1 << 10
		mb = 1 << 20
		gb = 1 << 30
	)
	switch {
	case n >= gb:
		return fmt.Sprintf("%.1f GB", float64(n)/gb)
	case n >= mb:
		return fmt.Sprintf("%.1f MB", float64(n)/mb)
	case n >= kb:
		return fmt.Sprintf("%.1f KB", float64(n)/kb)
	default:
		return fmt.Sprintf("%d B", n)
	}
}
