package submit

import (
	"strings"
)

// MessageKind classifies the single user-facing message shown after a
// terminal outcome.
type MessageKind string

const (
	MessageNone       MessageKind = ""
	MessageSuccess    MessageKind = "success"
	MessageValidation MessageKind = "validation"
	MessageDuplicate  MessageKind = "duplicate"
	MessageFailure    MessageKind = "failure"
)

const (
	// ValidationMarker prefixes server messages the user can fix locally.
	ValidationMarker = "⚠"

	// DuplicateMarker is the substring the server includes when the
	// candidate already applied. Matching on wording is fragile but it is
	// the only contract the endpoint offers; there is no error-code field.
	DuplicateMarker = "ya aplicó anteriormente"

	successMessage   = "Your application was received. We will be in touch soon."
	duplicateMessage = "You have already submitted an application for this position."
	failureMessage   = "Could not send your application. Please check your connection and try again later."
)

// Classify maps a terminal submission error to the message shown to the
// user. Three classes: validation-shaped messages render as-is, a
// server-reported duplicate gets its own message, everything else is a
// generic connection failure.
func Classify(err error) (MessageKind, string) {
	if err == nil {
		return MessageSuccess, successMessage
	}

	msg := err.Error()
	if i := strings.Index(msg, ValidationMarker); i >= 0 {
		return MessageValidation, strings.TrimSpace(msg[i:])
	}
	if strings.Contains(strings.ToLower(msg), DuplicateMarker) {
		return MessageDuplicate, duplicateMessage
	}
	return MessageFailure, failureMessage
}
