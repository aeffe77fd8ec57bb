package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/candidhq/intake/internal/core/domain"
	"github.com/candidhq/intake/internal/infra/storage"
)

// ApplicationRepo implements storage.ApplicationRepository using PostgreSQL.
type ApplicationRepo struct {
	db *DB
}

// NewApplicationRepo creates a new PostgreSQL application repository.
func NewApplicationRepo(db *DB) *ApplicationRepo {
	return &ApplicationRepo{db: db}
}

// Save persists a new application. The unique (email, position) index maps
// onto ErrDuplicateApplication.
func (r *ApplicationRepo) Save(ctx context.Context, app *domain.Application) error {
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now
	if app.Status == "" {
		app.Status = domain.StatusReceived
	}

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO applications
			(id, full_name, email, phone, country_iso, position, cover_note, channels, cv_key, status, created_at, updated_at)
		VALUES
			(:id, :full_name, :email, :phone, :country_iso, :position, :cover_note, :channels, :cv_key, :status, :created_at, :updated_at)`,
		app)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return storage.ErrDuplicateApplication
		}
		return fmt.Errorf("failed to save application: %w", err)
	}
	return nil
}

// GetByID retrieves one application.
func (r *ApplicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	var app domain.Application
	err := r.db.GetContext(ctx, &app, `SELECT * FROM applications WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, storage.ErrApplicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return &app, nil
}

// List retrieves applications matching the filter, newest first.
func (r *ApplicationRepo) List(ctx context.Context, filter storage.ListFilter) ([]*domain.Application, error) {
	where, args := buildWhere(filter)

	query := `SELECT * FROM applications` + where + ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	var apps []*domain.Application
	if err := r.db.SelectContext(ctx, &apps, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// Count returns the total matching a filter, ignoring pagination.
func (r *ApplicationRepo) Count(ctx context.Context, filter storage.ListFilter) (int, error) {
	where, args := buildWhere(filter)

	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM applications`+where, args...); err != nil {
		return 0, fmt.Errorf("failed to count applications: %w", err)
	}
	return count, nil
}

// ExistsByEmailPosition reports whether a candidate already applied.
func (r *ApplicationRepo) ExistsByEmailPosition(ctx context.Context, email, position string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM applications WHERE lower(email) = lower($1) AND position = $2)`,
		email, position)
	if err != nil {
		return false, fmt.Errorf("failed to check duplicate: %w", err)
	}
	return exists, nil
}

// UpdateStatus moves an application to a new review status.
func (r *ApplicationRepo) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE applications SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrApplicationNotFound
	}
	return nil
}

// CountByStatus returns per-status totals.
func (r *ApplicationRepo) CountByStatus(ctx context.Context) (map[domain.ApplicationStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM applications GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.ApplicationStatus]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[domain.ApplicationStatus(status)] = count
	}
	return counts, rows.Err()
}

func buildWhere(filter storage.ListFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Position != "" {
		args = append(args, filter.Position)
		conds = append(conds, fmt.Sprintf("position = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		conds = append(conds, fmt.Sprintf("(lower(full_name) LIKE $%d OR lower(email) LIKE $%d)", len(args), len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
