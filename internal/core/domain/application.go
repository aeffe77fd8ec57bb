package domain

import (
	"time"
)

type ApplicationStatus string

const (
	StatusReceived    ApplicationStatus = "received"
	StatusReviewing   ApplicationStatus = "reviewing"
	StatusShortlisted ApplicationStatus = "shortlisted"
	StatusRejected    ApplicationStatus = "rejected"
	StatusHired       ApplicationStatus = "hired"
)

// AllStatuses returns the review statuses in pipeline order.
func AllStatuses() []ApplicationStatus {
	return []ApplicationStatus{
		StatusReceived, StatusReviewing, StatusShortlisted, StatusRejected, StatusHired,
	}
}

// Application represents one candidate submission as stored by the server.
type Application struct {
	ID         string            `db:"id" json:"id"`
	FullName   string            `db:"full_name" json:"full_name"`
	Email      string            `db:"email" json:"email"`
	Phone      string            `db:"phone" json:"phone"`
	CountryISO string            `db:"country_iso" json:"country_iso"`
	Position   string            `db:"position" json:"position"`
	CoverNote  string            `db:"cover_note" json:"cover_note"`
	Channels   string            `db:"channels" json:"channels"`
	CVKey      string            `db:"cv_key" json:"cv_key"`
	Status     ApplicationStatus `db:"status" json:"status"`
	CreatedAt  time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time         `db:"updated_at" json:"updated_at"`
}

// statusTransitions lists the legal moves for each review status.
var statusTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusReceived:    {StatusReviewing, StatusRejected},
	StatusReviewing:   {StatusShortlisted, StatusRejected},
	StatusShortlisted: {StatusHired, StatusRejected},
	StatusRejected:    {StatusReviewing},
	StatusHired:       {},
}

// ValidStatus reports whether s is a known review status.
func ValidStatus(s ApplicationStatus) bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransition reports whether an application may move from one status to another.
func CanTransition(from, to ApplicationStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
