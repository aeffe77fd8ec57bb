package domain

// FilePart is one attachment included in a submission payload.
type FilePart struct {
	FieldID     string
	Filename    string
	ContentType string
	Data        []byte
}

// SubmissionPayload is the assembled outbound form, built by the
// orchestrator after validation and destroyed with the attempt.
type SubmissionPayload struct {
	Fields map[string]string
	Files  []FilePart
}

// SubmissionAttempt tracks one in-flight submission through its retries.
type SubmissionAttempt struct {
	Payload       *SubmissionPayload
	AttemptNumber int
	LastError     error
}
