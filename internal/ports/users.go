// Package ports declares what the user service needs from the outside
// world: a user store, a remote user source, feature flags and health
// checks. Adapters implement them; every method takes a context first and
// reports failures through the domain sentinels.
package ports

import (
	"context"

	"github.com/jsamuelsen/user-sync-service/internal/domain"
)

// UserFinder looks up a single stored user.
// It is the only capability the field validator needs.
type UserFinder interface {
	// FindByID returns domain.ErrNotFound (as *domain.NotFoundError) when no row matches.
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}

// UserRepository is the persistence port for users.
type UserRepository interface {
	UserFinder

	// FindAll returns every stored user ordered by id.
	FindAll(ctx context.Context) ([]*domain.User, error)

	// Count returns the number of stored users.
	Count(ctx context.Context) (int64, error)

	// Save inserts the user when its ID is zero, otherwise inserts or replaces
	// the row with that ID. The stored user is returned.
	Save(ctx context.Context, user *domain.User) (*domain.User, error)

	// SaveAll saves every user atomically and returns how many were written.
	SaveAll(ctx context.Context, users []*domain.User) (int, error)

	// DeleteByID removes a user. Returns domain.ErrNotFound if it does not exist.
	DeleteByID(ctx context.Context, id int64) error

	// DeleteAll removes every stored user.
	DeleteAll(ctx context.Context) error
}

// UserSource is the read-only remote directory users are imported from.
// Implementations translate remote payloads and failures into domain
// types before returning.
type UserSource interface {
	// FetchUser retrieves one user. Returns domain.ErrNotFound when the remote
	// has no such user or answers with an empty body.
	FetchUser(ctx context.Context, id int64) (*domain.User, error)

	// FetchAllUsers walks every remote page sequentially and returns the
	// concatenated users. A failure on any page fails the whole call.
	FetchAllUsers(ctx context.Context) ([]*domain.User, error)
}
