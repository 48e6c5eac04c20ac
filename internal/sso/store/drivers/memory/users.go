package memory

import (
	"context"
	"sort"

	"github.com/signonhq/signon/internal/sso/domain"
	"github.com/signonhq/signon/internal/sso/store"
)

type usersRepo struct {
	s      *Store
	locked bool
}

func (r *usersRepo) lock() func() {
	if r.locked {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	defer r.lock()()

	u, ok := r.s.t.users[email]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return u, nil
}

func (r *usersRepo) Create(ctx context.Context, u domain.User) error {
	defer r.lock()()

	if _, ok := r.s.t.users[u.Email]; ok {
		return store.ErrAlreadyExists
	}
	r.s.t.users[u.Email] = u
	return nil
}

func (r *usersRepo) List(ctx context.Context) ([]domain.User, error) {
	defer r.lock()()

	users := make([]domain.User, 0, len(r.s.t.users))
	for _, u := range r.s.t.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}
