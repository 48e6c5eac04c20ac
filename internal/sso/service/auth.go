package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/signonhq/signon/internal/sso/domain"
	"github.com/signonhq/signon/internal/sso/store"
	"github.com/signonhq/signon/pkg/cryptox"
	"github.com/signonhq/signon/pkg/slogx"
)

var (
	ErrInvalidEmail      = errors.New("auth: no user with that email")
	ErrInvalidPassword   = errors.New("auth: wrong password")
	ErrTokenNotExist     = errors.New("auth: token does not exist")
	ErrTokenExpired      = errors.New("auth: token expired")
	ErrEmailAlreadyExist = errors.New("auth: email already registered")
	ErrEmailMismatch     = errors.New("auth: token is bound to a different email")
	ErrUserNotExist      = errors.New("auth: user no longer exists")
)

// Both token kinds use the same fixed 10-day window.
const TokenTTL = 10 * 24 * time.Hour

// AuthService orchestrates login, registration, authentication and logout on
// top of the user and token stores. It holds no mutable state of its own;
// concurrency control lives entirely in the store.
type AuthService struct {
	Store store.Store
}

// RegisterRequest carries the fields of a signup attempt.
type RegisterRequest struct {
	Email    string
	Name     string
	Password string
}

// Login verifies the credentials and issues a fresh session token bound to
// the user. ErrInvalidEmail when no such user exists, ErrInvalidPassword on
// a mismatch; the distinction is part of the external contract.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.Token, error) {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Token{}, ErrInvalidEmail
		}
		log.Error("failed to fetch user", slog.Any("error", err))
		return domain.Token{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return domain.Token{}, ErrInvalidPassword
		}
		log.Error("failed to verify password", slog.Any("error", err))
		return domain.Token{}, err
	}

	token, err := s.issueToken(ctx, user.Email, domain.KindSession)
	if err != nil {
		return domain.Token{}, err
	}

	log.Debug("session token issued", slog.String("email", user.Email))
	return token, nil
}

// Register redeems a registration token and creates the user. The whole
// lookup/validate/create/consume sequence runs in one transaction so two
// callers racing on the same token cannot both succeed.
func (s *AuthService) Register(ctx context.Context, tokenValue string, req RegisterRequest) error {
	log := slogx.FromContext(ctx)

	// 1. Field validation, before touching the store.
	if err := validateRegistration(req); err != nil {
		return err
	}

	// Hash outside the critical section; argon2 is deliberately slow.
	passwordHash, err := cryptox.HashPassword(req.Password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// 2. Look up the registration token.
		token, err := tx.Tokens().Get(ctx, tokenValue, domain.KindRegistration)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrTokenNotExist
			}
			return err
		}
		if err := checkValidity(token); err != nil {
			return err
		}

		// 3. The token is single-recipient.
		if token.UserEmail != req.Email {
			return ErrEmailMismatch
		}

		// 4. The email must be free.
		_, err = tx.Users().GetByEmail(ctx, req.Email)
		if err == nil {
			return ErrEmailAlreadyExist
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		// 5. Create the user, then consume the token.
		user := domain.User{
			Email:        req.Email,
			Name:         req.Name,
			PasswordHash: passwordHash,
			CreatedAt:    time.Now().UTC(),
		}
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}
		return tx.Tokens().Invalidate(ctx, token.Value)
	})
	if err != nil {
		return err
	}

	log.Info("user registered", slog.String("email", req.Email))
	return nil
}

// Authenticate resolves a session token value to its user.
func (s *AuthService) Authenticate(ctx context.Context, tokenValue string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	token, err := s.Store.Tokens().Get(ctx, tokenValue, domain.KindSession)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrTokenNotExist
		}
		log.Error("failed to fetch session token", slog.Any("error", err))
		return domain.User{}, err
	}
	if err := checkValidity(token); err != nil {
		return domain.User{}, err
	}

	user, err := s.Store.Users().GetByEmail(ctx, token.UserEmail)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// User deleted after the token was issued.
			return domain.User{}, ErrUserNotExist
		}
		log.Error("failed to fetch user for token", slog.Any("error", err))
		return domain.User{}, err
	}

	return user, nil
}

// CreateRegistrationToken mints a single-use registration token bound to
// email. Authorization is the caller's concern.
func (s *AuthService) CreateRegistrationToken(ctx context.Context, email string) (domain.Token, error) {
	log := slogx.FromContext(ctx)

	token, err := s.issueToken(ctx, email, domain.KindRegistration)
	if err != nil {
		return domain.Token{}, err
	}

	log.Info("registration token created", slog.String("email", email))
	return token, nil
}

// InvalidateToken clears a token on logout. Best-effort: a token that is
// already gone or invalid is not an error.
func (s *AuthService) InvalidateToken(ctx context.Context, value string) error {
	err := s.Store.Tokens().Invalidate(ctx, value)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		slogx.FromContext(ctx).Error("failed to invalidate token", slog.Any("error", err))
		return err
	}
	return nil
}

func (s *AuthService) issueToken(ctx context.Context, email string, kind domain.TokenKind) (domain.Token, error) {
	value, err := cryptox.GenerateOpaqueToken(cryptox.OpaqueTokenLength)
	if err != nil {
		return domain.Token{}, err
	}

	expiration := time.Now().UTC().Add(TokenTTL)
	token := domain.Token{
		Value:      value,
		UserEmail:  email,
		Expiration: &expiration,
		Kind:       kind,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.Store.Tokens().Create(ctx, token); err != nil {
		// Values carry ~190 bits of entropy; a duplicate here is an
		// internal invariant violation, not a retryable condition.
		return domain.Token{}, fmt.Errorf("auth: failed to persist token: %w", err)
	}
	return token, nil
}

// checkValidity maps a token's row state to the user-facing error kinds.
// A consumed token (expiration cleared) reads as nonexistent; a past-dated
// one as expired.
func checkValidity(token domain.Token) error {
	if token.Consumed() {
		return ErrTokenNotExist
	}
	if !token.Valid(time.Now()) {
		return ErrTokenExpired
	}
	return nil
}
