package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/signonhq/signon/internal/sso/domain"
	"github.com/signonhq/signon/internal/sso/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestUsersRepo(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	user := domain.User{
		Email:        "alice@example.com",
		Name:         "Alice",
		PasswordHash: "$argon2id$fake",
		Admin:        true,
		CreatedAt:    time.Now().UTC(),
	}

	t.Run("get before create", func(t *testing.T) {
		_, err := st.Users().GetByEmail(ctx, user.Email)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("create and get", func(t *testing.T) {
		require.NoError(t, st.Users().Create(ctx, user))

		got, err := st.Users().GetByEmail(ctx, user.Email)
		require.NoError(t, err)
		require.Equal(t, user.Email, got.Email)
		require.Equal(t, user.Name, got.Name)
		require.Equal(t, user.PasswordHash, got.PasswordHash)
		require.True(t, got.Admin)
	})

	t.Run("duplicate email", func(t *testing.T) {
		err := st.Users().Create(ctx, user)
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("list orders by creation", func(t *testing.T) {
		second := domain.User{
			Email:        "bob@example.com",
			Name:         "Bob",
			PasswordHash: "$argon2id$fake",
			CreatedAt:    time.Now().UTC().Add(time.Second),
		}
		require.NoError(t, st.Users().Create(ctx, second))

		users, err := st.Users().List(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		require.Equal(t, "alice@example.com", users[0].Email)
		require.Equal(t, "bob@example.com", users[1].Email)
	})
}

func TestTokensRepo(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	exp := time.Now().UTC().Add(time.Hour)
	token := domain.Token{
		Value:      "tokenvalue0000000000000000000001",
		UserEmail:  "alice@example.com",
		Expiration: &exp,
		Kind:       domain.KindSession,
		CreatedAt:  time.Now().UTC(),
	}

	require.NoError(t, st.Tokens().Create(ctx, token))

	t.Run("get matches value and kind", func(t *testing.T) {
		got, err := st.Tokens().Get(ctx, token.Value, domain.KindSession)
		require.NoError(t, err)
		require.Equal(t, token.Value, got.Value)
		require.Equal(t, domain.KindSession, got.Kind)
		require.NotNil(t, got.Expiration)
		require.WithinDuration(t, exp, *got.Expiration, time.Second)

		_, err = st.Tokens().Get(ctx, token.Value, domain.KindRegistration)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("duplicate value", func(t *testing.T) {
		err := st.Tokens().Create(ctx, token)
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("invalidate clears expiration", func(t *testing.T) {
		require.NoError(t, st.Tokens().Invalidate(ctx, token.Value))

		got, err := st.Tokens().Get(ctx, token.Value, domain.KindSession)
		require.NoError(t, err)
		require.Nil(t, got.Expiration)
		require.True(t, got.Consumed())
	})

	t.Run("invalidate unknown value", func(t *testing.T) {
		err := st.Tokens().Invalidate(ctx, "no-such-token")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("delete expired before cutoff", func(t *testing.T) {
		old := time.Now().UTC().Add(-48 * time.Hour)
		stale := domain.Token{
			Value:      "stalevalue0000000000000000000001",
			UserEmail:  "alice@example.com",
			Expiration: &old,
			Kind:       domain.KindSession,
			CreatedAt:  time.Now().UTC(),
		}
		require.NoError(t, st.Tokens().Create(ctx, stale))

		require.NoError(t, st.Tokens().DeleteExpiredBefore(ctx, time.Now().UTC().Add(-24*time.Hour)))

		_, err := st.Tokens().Get(ctx, stale.Value, domain.KindSession)
		require.ErrorIs(t, err, store.ErrNotFound)

		// The consumed token from above has no expiration and survives.
		_, err = st.Tokens().Get(ctx, token.Value, domain.KindSession)
		require.NoError(t, err)
	})
}

func TestAppsRepo(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	app := domain.Application{
		ID:               "01J0000000000000000000000A",
		Name:             "wiki",
		BaseURL:          "https://wiki.example.com",
		ClientSecretHash: "$argon2id$fake",
		CreatedAt:        time.Now().UTC(),
	}

	require.NoError(t, st.Apps().Create(ctx, app))

	t.Run("get by id and name", func(t *testing.T) {
		byID, err := st.Apps().GetByID(ctx, app.ID)
		require.NoError(t, err)
		require.Equal(t, app.Name, byID.Name)

		byName, err := st.Apps().GetByName(ctx, app.Name)
		require.NoError(t, err)
		require.Equal(t, app.ID, byName.ID)
	})

	t.Run("duplicate name", func(t *testing.T) {
		dup := app
		dup.ID = "01J0000000000000000000000B"
		require.ErrorIs(t, st.Apps().Create(ctx, dup), store.ErrAlreadyExists)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, st.Apps().Delete(ctx, app.ID))
		require.ErrorIs(t, st.Apps().Delete(ctx, app.ID), store.ErrNotFound)

		apps, err := st.Apps().List(ctx)
		require.NoError(t, err)
		require.Empty(t, apps)
	})
}

func TestWithTx(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	user := domain.User{
		Email:        "carol@example.com",
		Name:         "Carol",
		PasswordHash: "$argon2id$fake",
		CreatedAt:    time.Now().UTC(),
	}

	t.Run("error rolls everything back", func(t *testing.T) {
		sentinel := context.Canceled
		err := st.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Users().Create(ctx, user); err != nil {
				return err
			}
			return sentinel
		})
		require.ErrorIs(t, err, sentinel)

		_, err = st.Users().GetByEmail(ctx, user.Email)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("nil commits", func(t *testing.T) {
		exp := time.Now().UTC().Add(time.Hour)
		err := st.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Users().Create(ctx, user); err != nil {
				return err
			}
			return tx.Tokens().Create(ctx, domain.Token{
				Value:      "txtokenvalue00000000000000000001",
				UserEmail:  user.Email,
				Expiration: &exp,
				Kind:       domain.KindRegistration,
				CreatedAt:  time.Now().UTC(),
			})
		})
		require.NoError(t, err)

		_, err = st.Users().GetByEmail(ctx, user.Email)
		require.NoError(t, err)
		_, err = st.Tokens().Get(ctx, "txtokenvalue00000000000000000001", domain.KindRegistration)
		require.NoError(t, err)
	})
}
