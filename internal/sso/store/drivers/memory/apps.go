package memory

import (
	"context"
	"sort"

	"github.com/signonhq/signon/internal/sso/domain"
	"github.com/signonhq/signon/internal/sso/store"
)

type appsRepo struct {
	s      *Store
	locked bool
}

func (r *appsRepo) lock() func() {
	if r.locked {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *appsRepo) GetByID(ctx context.Context, id string) (domain.Application, error) {
	defer r.lock()()

	a, ok := r.s.t.apps[id]
	if !ok {
		return domain.Application{}, store.ErrNotFound
	}
	return a, nil
}

func (r *appsRepo) GetByName(ctx context.Context, name string) (domain.Application, error) {
	defer r.lock()()

	for _, a := range r.s.t.apps {
		if a.Name == name {
			return a, nil
		}
	}
	return domain.Application{}, store.ErrNotFound
}

func (r *appsRepo) Create(ctx context.Context, a domain.Application) error {
	defer r.lock()()

	if _, ok := r.s.t.apps[a.ID]; ok {
		return store.ErrAlreadyExists
	}
	for _, existing := range r.s.t.apps {
		if existing.Name == a.Name {
			return store.ErrAlreadyExists
		}
	}
	r.s.t.apps[a.ID] = a
	return nil
}

func (r *appsRepo) List(ctx context.Context) ([]domain.Application, error) {
	defer r.lock()()

	apps := make([]domain.Application, 0, len(r.s.t.apps))
	for _, a := range r.s.t.apps {
		apps = append(apps, a)
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].CreatedAt.Before(apps[j].CreatedAt) })
	return apps, nil
}

func (r *appsRepo) Delete(ctx context.Context, id string) error {
	defer r.lock()()

	if _, ok := r.s.t.apps[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.s.t.apps, id)
	return nil
}
