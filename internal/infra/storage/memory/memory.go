package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/candidhq/intake/internal/core/domain"
	"github.com/candidhq/intake/internal/infra/storage"
)

// MemoryStorage keeps applications in process memory. Used by tests and
// databaseless runs.
type MemoryStorage struct {
	apps map[string]*domain.Application
	mu   sync.RWMutex
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		apps: make(map[string]*domain.Application),
	}
}

// -----------------------------------------------------------------------------
// Application Repository
// -----------------------------------------------------------------------------

type ApplicationRepo struct {
	store *MemoryStorage
}

func NewApplicationRepo(store *MemoryStorage) *ApplicationRepo {
	return &ApplicationRepo{store: store}
}

func (r *ApplicationRepo) Save(ctx context.Context, app *domain.Application) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.apps {
		if strings.EqualFold(existing.Email, app.Email) && existing.Position == app.Position {
			return storage.ErrDuplicateApplication
		}
	}

	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now
	if app.Status == "" {
		app.Status = domain.StatusReceived
	}

	c := *app
	r.store.apps[app.ID] = &c
	return nil
}

func (r *ApplicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	app, ok := r.store.apps[id]
	if !ok {
		return nil, storage.ErrApplicationNotFound
	}
	c := *app
	return &c, nil
}

func (r *ApplicationRepo) List(ctx context.Context, filter storage.ListFilter) ([]*domain.Application, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var apps []*domain.Application
	for _, app := range r.store.apps {
		if matches(app, filter) {
			c := *app
			apps = append(apps, &c)
		}
	}

	sort.Slice(apps, func(i, j int) bool { return apps[i].CreatedAt.After(apps[j].CreatedAt) })

	if filter.Offset > 0 {
		if filter.Offset >= len(apps) {
			return nil, nil
		}
		apps = apps[filter.Offset:]
	}
	if filter.Limit > 0 && len(apps) > filter.Limit {
		apps = apps[:filter.Limit]
	}
	return apps, nil
}

func (r *ApplicationRepo) Count(ctx context.Context, filter storage.ListFilter) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for _, app := range r.store.apps {
		if matches(app, filter) {
			count++
		}
	}
	return count, nil
}

func (r *ApplicationRepo) ExistsByEmailPosition(ctx context.Context, email, position string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, app := range r.store.apps {
		if strings.EqualFold(app.Email, email) && app.Position == position {
			return true, nil
		}
	}
	return false, nil
}

func (r *ApplicationRepo) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	app, ok := r.store.apps[id]
	if !ok {
		return storage.ErrApplicationNotFound
	}
	app.Status = status
	app.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *ApplicationRepo) CountByStatus(ctx context.Context) (map[domain.ApplicationStatus]int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	counts := make(map[domain.ApplicationStatus]int)
	for _, app := range r.store.apps {
		counts[app.Status]++
	}
	return counts, nil
}

func matches(app *domain.Application, filter storage.ListFilter) bool {
	if filter.Status != "" && app.Status != filter.Status {
		return false
	}
	if filter.Position != "" && app.Position != filter.Position {
		return false
	}
	if filter.Search != "" {
		q := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(app.FullName), q) &&
			!strings.Contains(strings.ToLower(app.Email), q) {
			return false
		}
	}
	return true
}
