package sqlite

import (
	"context"
	"time"

	"github.com/signonhq/signon/internal/sso/domain"
	"github.com/signonhq/signon/internal/sso/store"
)

type tokensRepo struct {
	db dbtx
}

func (r *tokensRepo) Get(ctx context.Context, value string, kind domain.TokenKind) (domain.Token, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT value, user_email, expiration, token_type, created_at
		 FROM tokens WHERE value = ? AND token_type = ?`,
		value, string(kind),
	)
	return scanToken(row)
}

func (r *tokensRepo) Create(ctx context.Context, t domain.Token) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tokens (value, user_email, expiration, token_type, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		t.Value, t.UserEmail, mapOptionalTime(t.Expiration), string(t.Kind), t.CreatedAt,
	)
	return mapErr(err)
}

func (r *tokensRepo) Invalidate(ctx context.Context, value string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tokens SET expiration = NULL WHERE value = ?`,
		value,
	)
	if err != nil {
		return mapErr(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *tokensRepo) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM tokens WHERE expiration IS NOT NULL AND expiration < ?`,
		cutoff,
	)
	return mapErr(err)
}
