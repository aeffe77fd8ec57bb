package storage

import (
	"context"
	"errors"

	"github.com/candidhq/intake/internal/core/domain"
)

var (
	// ErrApplicationNotFound is returned when an application doesn't exist
	ErrApplicationNotFound = errors.New("application not found")

	// ErrDuplicateApplication is returned when a candidate already applied
	// for the same position
	ErrDuplicateApplication = errors.New("duplicate application")
)

// ListFilter narrows and pages admin application listings.
type ListFilter struct {
	Status   domain.ApplicationStatus
	Position string
	Search   string // matches name or email, case-insensitive
	Limit    int
	Offset   int
}

// ApplicationRepository handles application storage operations
type ApplicationRepository interface {
	// Save persists a new application; ErrDuplicateApplication when the
	// email already applied for the position
	Save(ctx context.Context, app *domain.Application) error

	// GetByID retrieves one application
	GetByID(ctx context.Context, id string) (*domain.Application, error)

	// List retrieves applications matching the filter, newest first
	List(ctx context.Context, filter ListFilter) ([]*domain.Application, error)

	// Count returns the total matching a filter, ignoring pagination
	Count(ctx context.Context, filter ListFilter) (int, error)

	// ExistsByEmailPosition reports whether a candidate already applied
	ExistsByEmailPosition(ctx context.Context, email, position string) (bool, error)

	// UpdateStatus moves an application to a new review status
	UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus) error

	// CountByStatus returns per-status totals
	CountByStatus(ctx context.Context) (map[domain.ApplicationStatus]int, error)
}
