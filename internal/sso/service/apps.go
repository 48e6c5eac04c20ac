package service

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"time"

	"github.com/signonhq/signon/internal/sso/domain"
	"github.com/signonhq/signon/internal/sso/store"
	"github.com/signonhq/signon/pkg/cryptox"
	"github.com/signonhq/signon/pkg/idx"
	"github.com/signonhq/signon/pkg/slogx"
)

var (
	ErrAppAlreadyExists = errors.New("apps: application name already registered")
	ErrAppNotFound      = errors.New("apps: application not found")
)

var (
	appNamePattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	baseURLPattern = regexp.MustCompile(`^https?://[a-z0-9-]+(\.[a-z0-9-]+)*(:[0-9]*)?/?$`)
)

// AppService manages the registry of client applications that delegate their
// logins here.
type AppService struct {
	Store store.Store
}

// Create registers an application and mints its client secret. The raw
// secret is returned exactly once; only its hash is stored.
func (s *AppService) Create(ctx context.Context, name, baseURL string) (domain.Application, string, error) {
	log := slogx.FromContext(ctx)

	if err := validateApp(name, baseURL); err != nil {
		return domain.Application{}, "", err
	}

	if _, err := s.Store.Apps().GetByName(ctx, name); err == nil {
		return domain.Application{}, "", ErrAppAlreadyExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.Application{}, "", err
	}

	secret, err := cryptox.GenerateOpaqueToken(cryptox.OpaqueTokenLength)
	if err != nil {
		return domain.Application{}, "", err
	}
	secretHash, err := cryptox.HashPassword(secret)
	if err != nil {
		return domain.Application{}, "", err
	}

	app := domain.Application{
		ID:               idx.New().String(),
		Name:             name,
		BaseURL:          baseURL,
		ClientSecretHash: secretHash,
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.Store.Apps().Create(ctx, app); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Application{}, "", ErrAppAlreadyExists
		}
		log.Error("failed to create application", slog.Any("error", err))
		return domain.Application{}, "", err
	}

	log.Info("application registered",
		slog.String("app_id", app.ID),
		slog.String("name", app.Name),
	)
	return app, secret, nil
}

func (s *AppService) List(ctx context.Context) ([]domain.Application, error) {
	return s.Store.Apps().List(ctx)
}

func (s *AppService) Delete(ctx context.Context, id string) error {
	if err := s.Store.Apps().Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAppNotFound
		}
		return err
	}
	slogx.FromContext(ctx).Info("application deleted", slog.String("app_id", id))
	return nil
}

func validateApp(name, baseURL string) error {
	if len(name) < 2 {
		return &ValidationError{Field: "name", Reason: "must be at least 2 characters"}
	}
	if !appNamePattern.MatchString(name) {
		return &ValidationError{Field: "name", Reason: "must be lowercase alphanumerics separated by single dashes"}
	}
	if !baseURLPattern.MatchString(baseURL) {
		return &ValidationError{Field: "base_url", Reason: "must be a plain http(s) origin"}
	}
	return nil
}
