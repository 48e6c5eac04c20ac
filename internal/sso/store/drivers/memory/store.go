// Package memory implements the store contract with plain maps behind a
// single shared mutex. No durability; the guard serializes every operation
// exactly like the single database handle does for the sqlite driver.
package memory

import (
	"context"
	"errors"
	"maps"
	"sync"

	"github.com/signonhq/signon/internal/sso/domain"
	"github.com/signonhq/signon/internal/sso/store"
)

var errNestedTx = errors.New("memory: nested transactions not supported")

// tables is the shared state both the root store and transactions mutate.
// Users are keyed by email, tokens by value, applications by id.
type tables struct {
	users  map[string]domain.User
	tokens map[string]domain.Token
	apps   map[string]domain.Application
}

type Store struct {
	mu sync.Mutex // the one guard every repo routes through
	t  tables
}

func NewStore() *Store {
	return &Store{
		t: tables{
			users:  make(map[string]domain.User),
			tokens: make(map[string]domain.Token),
			apps:   make(map[string]domain.Application),
		},
	}
}

func (s *Store) Close() error                   { return nil }
func (s *Store) Ping(ctx context.Context) error { return nil }
func (s *Store) ApplyMigrations() error         { return nil }

func (s *Store) Users() store.Users   { return &usersRepo{s: s} }
func (s *Store) Tokens() store.Tokens { return &tokensRepo{s: s} }
func (s *Store) Apps() store.Apps     { return &appsRepo{s: s} }

// Tx acquires the guard and holds it until Commit or Rollback, so the whole
// callback in WithTx runs under one critical section. Rollback restores a
// snapshot taken at acquisition.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	s.mu.Lock()
	return &txStore{
		s: s,
		snapshot: tables{
			users:  maps.Clone(s.t.users),
			tokens: maps.Clone(s.t.tokens),
			apps:   maps.Clone(s.t.apps),
		},
	}, nil
}

func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

type txStore struct {
	s        *Store
	snapshot tables
	done     bool
}

func (t *txStore) Commit() error {
	if t.done {
		return errors.New("memory: transaction already finished")
	}
	t.done = true
	t.s.mu.Unlock()
	return nil
}

func (t *txStore) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	t.s.t = t.snapshot
	t.s.mu.Unlock()
	return nil
}

func (t *txStore) Close() error                   { return nil }
func (t *txStore) Ping(ctx context.Context) error { return nil }
func (t *txStore) ApplyMigrations() error         { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) { return nil, errNestedTx }
func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return errNestedTx
}

// Tx-scoped repos skip locking: the guard is already held.
func (t *txStore) Users() store.Users   { return &usersRepo{s: t.s, locked: true} }
func (t *txStore) Tokens() store.Tokens { return &tokensRepo{s: t.s, locked: true} }
func (t *txStore) Apps() store.Apps     { return &appsRepo{s: t.s, locked: true} }
