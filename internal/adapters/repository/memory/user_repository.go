// Package memory implements the user store in process memory.
// It backs local runs without a database and application tests.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/jsamuelsen/user-sync-service/internal/domain"
	"github.com/jsamuelsen/user-sync-service/internal/ports"
)

var _ ports.UserRepository = (*UserRepository)(nil)

// UserRepository is a map-backed user store safe for concurrent use.
type UserRepository struct {
	mu     sync.RWMutex
	users  map[int64]domain.User
	nextID int64
}

// NewUserRepository returns an empty in-memory repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:  make(map[int64]domain.User),
		nextID: 1,
	}
}

// FindByID implements ports.UserFinder.
func (r *UserRepository) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.UserNotFound(id)
	}

	return &u, nil
}

// FindAll implements ports.UserRepository.
func (r *UserRepository) FindAll(_ context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, &u)
	}

	slices.SortFunc(users, func(a, b *domain.User) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})

	return users, nil
}

// Count implements ports.UserRepository.
func (r *UserRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.users)), nil
}

// Save implements ports.UserRepository.
func (r *UserRepository) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	saved := r.put(*user)

	return &saved, nil
}

// SaveAll implements ports.UserRepository.
func (r *UserRepository) SaveAll(_ context.Context, users []*domain.User) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range users {
		r.put(*u)
	}

	return len(users), nil
}

// DeleteByID implements ports.UserRepository.
func (r *UserRepository) DeleteByID(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return domain.UserNotFound(id)
	}

	delete(r.users, id)

	return nil
}

// DeleteAll implements ports.UserRepository.
func (r *UserRepository) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.users)

	return nil
}

// put stores u, assigning the next id when it has none. Callers hold mu.
func (r *UserRepository) put(u domain.User) domain.User {
	if u.ID == 0 {
		u.ID = r.nextID
	}

	if u.ID >= r.nextID {
		r.nextID = u.ID + 1
	}

	r.users[u.ID] = u

	return u
}
