package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/signonhq/signon/internal/sso/store"
	"github.com/signonhq/signon/pkg/cryptox"
)

func TestAppCreate(t *testing.T) {
	withStores(t, func(t *testing.T, st store.Store) {
		ctx := context.Background()
		svc := &AppService{Store: st}

		t.Run("registers and returns the secret once", func(t *testing.T) {
			app, secret, err := svc.Create(ctx, "wiki", "https://wiki.example.com")
			require.NoError(t, err)
			require.NotEmpty(t, app.ID)
			require.Equal(t, "wiki", app.Name)
			require.NotEmpty(t, secret)

			// Only the hash is persisted, and it verifies against the secret.
			stored, err := st.Apps().GetByID(ctx, app.ID)
			require.NoError(t, err)
			require.NotEqual(t, secret, stored.ClientSecretHash)
			require.NoError(t, cryptox.VerifyPassword(secret, stored.ClientSecretHash))
		})

		t.Run("duplicate name rejected", func(t *testing.T) {
			_, _, err := svc.Create(ctx, "wiki", "https://wiki2.example.com")
			require.ErrorIs(t, err, ErrAppAlreadyExists)
		})

		t.Run("validation", func(t *testing.T) {
			cases := []struct {
				name    string
				appName string
				baseURL string
				field   string
			}{
				{"uppercase name", "Wiki", "https://wiki.example.com", "name"},
				{"trailing dash", "wiki-", "https://wiki.example.com", "name"},
				{"single character", "w", "https://wiki.example.com", "name"},
				{"bad scheme", "chat", "ftp://chat.example.com", "base_url"},
				{"url with path", "chat", "https://chat.example.com/app", "base_url"},
			}

			for _, tc := range cases {
				t.Run(tc.name, func(t *testing.T) {
					_, _, err := svc.Create(ctx, tc.appName, tc.baseURL)

					var vErr *ValidationError
					require.ErrorAs(t, err, &vErr)
					require.Equal(t, tc.field, vErr.Field)
				})
			}
		})

		t.Run("port and localhost origins accepted", func(t *testing.T) {
			_, _, err := svc.Create(ctx, "dev-portal", "http://localhost:8081")
			require.NoError(t, err)
		})
	})
}

func TestAppListAndDelete(t *testing.T) {
	withStores(t, func(t *testing.T, st store.Store) {
		ctx := context.Background()
		svc := &AppService{Store: st}

		app, _, err := svc.Create(ctx, "grafana", "https://grafana.example.com")
		require.NoError(t, err)
		_, _, err = svc.Create(ctx, "jenkins", "https://jenkins.example.com")
		require.NoError(t, err)

		apps, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, apps, 2)

		require.NoError(t, svc.Delete(ctx, app.ID))

		apps, err = svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, apps, 1)
		require.Equal(t, "jenkins", apps[0].Name)

		t.Run("deleting twice", func(t *testing.T) {
			require.ErrorIs(t, svc.Delete(ctx, app.ID), ErrAppNotFound)
		})
	})
}
