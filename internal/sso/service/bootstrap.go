package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/signonhq/signon/internal/sso/domain"
	"github.com/signonhq/signon/internal/sso/store"
	"github.com/signonhq/signon/pkg/cryptox"
	"github.com/signonhq/signon/pkg/slogx"
)

// BootstrapService seeds the configured administrator account on startup.
type BootstrapService struct {
	Store         store.Store
	AdminEmail    string
	AdminName     string
	AdminPassword string
}

// EnsureAdmin creates the admin user iff no user with the configured email
// exists. Idempotent: repeated construction against the same store yields
// exactly one admin. Returns whether a user was created.
func (s *BootstrapService) EnsureAdmin(ctx context.Context) (bool, error) {
	log := slogx.FromContext(ctx)

	// Cheap pre-check outside the lock; the Tx below re-checks.
	if _, err := s.Store.Users().GetByEmail(ctx, s.AdminEmail); err == nil {
		return false, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return false, err
	}

	passwordHash, err := cryptox.HashPassword(s.AdminPassword)
	if err != nil {
		return false, err
	}

	created := false
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Users().GetByEmail(ctx, s.AdminEmail)
		if err == nil {
			return nil // lost a startup race; someone else seeded it
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if err := tx.Users().Create(ctx, domain.User{
			Email:        s.AdminEmail,
			Name:         s.AdminName,
			PasswordHash: passwordHash,
			Admin:        true,
			CreatedAt:    time.Now().UTC(),
		}); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if created {
		log.Info("admin user seeded", slog.String("email", s.AdminEmail))
	}
	return created, nil
}
