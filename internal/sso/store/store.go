package store

import (
	"context"
	"errors"
	"time"

	"github.com/signonhq/signon/internal/sso/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface, implemented by the sqlite and
// memory drivers. Sub-repositories keep the entity surfaces separate while
// every implementation routes them through the same underlying handle, so the
// atomicity guarantees of Tx hold across repositories.
type Store interface {
	Users() Users
	Tokens() Tokens
	Apps() Apps

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns
	// nil and rolling back otherwise. Multi-step sequences that must be
	// atomic (registration-token consumption in particular) go through here.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases the underlying handle.
	Close() error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error
}

// Tx is a transactional store scope.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetByEmail returns the user keyed by email, or ErrNotFound.
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// Create inserts a new user. A duplicate email yields ErrAlreadyExists;
	// callers are expected to have checked existence first, so hitting it
	// outside a lost race indicates a logic bug upstream.
	Create(ctx context.Context, u domain.User) error

	// List returns all users ordered by creation date.
	List(ctx context.Context) ([]domain.User, error)
}

type Tokens interface {
	// Get returns the token matching both value and kind, expired or not.
	// Validity is the caller's judgement; the store only keys rows.
	Get(ctx context.Context, value string, kind domain.TokenKind) (domain.Token, error)

	// Create inserts a new token row. Values carry enough entropy that
	// ErrAlreadyExists here means a collision or a generator bug, not a
	// user-facing condition.
	Create(ctx context.Context, t domain.Token) error

	// Invalidate clears the expiration, making the token permanently
	// invalid. ErrNotFound when no row matched.
	Invalidate(ctx context.Context, value string) error

	// DeleteExpiredBefore removes tokens whose expiration passed before
	// cutoff. Retention housekeeping only.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) error
}

type Apps interface {
	GetByID(ctx context.Context, id string) (domain.Application, error)
	GetByName(ctx context.Context, name string) (domain.Application, error)
	Create(ctx context.Context, a domain.Application) error
	List(ctx context.Context) ([]domain.Application, error)
	Delete(ctx context.Context, id string) error
}
