package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/signonhq/signon/internal/sso/domain"
	"github.com/signonhq/signon/internal/sso/store"
)

func TestRepos(t *testing.T) {
	st := NewStore()
	ctx := context.Background()

	user := domain.User{Email: "alice@example.com", Name: "Alice", CreatedAt: time.Now()}
	require.NoError(t, st.Users().Create(ctx, user))
	require.ErrorIs(t, st.Users().Create(ctx, user), store.ErrAlreadyExists)

	got, err := st.Users().GetByEmail(ctx, user.Email)
	require.NoError(t, err)
	require.Equal(t, "Alice", got.Name)

	exp := time.Now().Add(time.Hour)
	token := domain.Token{Value: "v1", UserEmail: user.Email, Expiration: &exp, Kind: domain.KindSession}
	require.NoError(t, st.Tokens().Create(ctx, token))

	_, err = st.Tokens().Get(ctx, "v1", domain.KindRegistration)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, st.Tokens().Invalidate(ctx, "v1"))
	after, err := st.Tokens().Get(ctx, "v1", domain.KindSession)
	require.NoError(t, err)
	require.True(t, after.Consumed())

	require.ErrorIs(t, st.Tokens().Invalidate(ctx, "missing"), store.ErrNotFound)
}

func TestTxRollbackRestoresSnapshot(t *testing.T) {
	st := NewStore()
	ctx := context.Background()

	exp := time.Now().Add(time.Hour)
	require.NoError(t, st.Tokens().Create(ctx, domain.Token{
		Value: "keep", UserEmail: "a@example.com", Expiration: &exp, Kind: domain.KindRegistration,
	}))

	sentinel := context.Canceled
	err := st.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Tokens().Invalidate(ctx, "keep"); err != nil {
			return err
		}
		if err := tx.Users().Create(ctx, domain.User{Email: "a@example.com"}); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	// Both mutations were undone.
	token, err := st.Tokens().Get(ctx, "keep", domain.KindRegistration)
	require.NoError(t, err)
	require.NotNil(t, token.Expiration)

	_, err = st.Users().GetByEmail(ctx, "a@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestTxCommitAppliesMutations(t *testing.T) {
	st := NewStore()
	ctx := context.Background()

	err := st.WithTx(ctx, func(tx store.Tx) error {
		return tx.Users().Create(ctx, domain.User{Email: "b@example.com", Name: "Bee"})
	})
	require.NoError(t, err)

	got, err := st.Users().GetByEmail(ctx, "b@example.com")
	require.NoError(t, err)
	require.Equal(t, "Bee", got.Name)
}

func TestNestedTxRejected(t *testing.T) {
	st := NewStore()
	ctx := context.Background()

	err := st.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Tx(ctx)
		require.Error(t, err)
		return tx.WithTx(ctx, func(store.Tx) error { return nil })
	})
	require.Error(t, err)
}

// The guard must serialize transactions: concurrent WithTx callbacks never
// observe each other's intermediate state.
func TestTxSerialization(t *testing.T) {
	st := NewStore()
	ctx := context.Background()

	const workers = 16

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = st.WithTx(ctx, func(tx store.Tx) error {
				users, err := tx.Users().List(ctx)
				if err != nil {
					return err
				}
				// Key by the count observed inside the critical section. If
				// two callbacks interleaved they would collide on the email.
				return tx.Users().Create(ctx, domain.User{
					Email: "user-" + string(rune('a'+len(users))) + "@example.com",
				})
			})
		}()
	}
	wg.Wait()

	users, err := st.Users().List(ctx)
	require.NoError(t, err)
	require.Len(t, users, workers)
}
