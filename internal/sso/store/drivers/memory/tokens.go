package memory

import (
	"context"
	"time"

	"github.com/signonhq/signon/internal/sso/domain"
	"github.com/signonhq/signon/internal/sso/store"
)

type tokensRepo struct {
	s      *Store
	locked bool
}

func (r *tokensRepo) lock() func() {
	if r.locked {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *tokensRepo) Get(ctx context.Context, value string, kind domain.TokenKind) (domain.Token, error) {
	defer r.lock()()

	t, ok := r.s.t.tokens[value]
	if !ok || t.Kind != kind {
		return domain.Token{}, store.ErrNotFound
	}
	return t, nil
}

func (r *tokensRepo) Create(ctx context.Context, t domain.Token) error {
	defer r.lock()()

	if _, ok := r.s.t.tokens[t.Value]; ok {
		return store.ErrAlreadyExists
	}
	r.s.t.tokens[t.Value] = t
	return nil
}

func (r *tokensRepo) Invalidate(ctx context.Context, value string) error {
	defer r.lock()()

	t, ok := r.s.t.tokens[value]
	if !ok {
		return store.ErrNotFound
	}
	t.Expiration = nil
	r.s.t.tokens[value] = t
	return nil
}

func (r *tokensRepo) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) error {
	defer r.lock()()

	for value, t := range r.s.t.tokens {
		if t.Expiration != nil && t.Expiration.Before(cutoff) {
			delete(r.s.t.tokens, value)
		}
	}
	return nil
}
