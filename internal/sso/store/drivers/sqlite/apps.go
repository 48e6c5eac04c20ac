package sqlite

import (
	"context"

	"github.com/signonhq/signon/internal/sso/domain"
	"github.com/signonhq/signon/internal/sso/store"
)

type appsRepo struct {
	db dbtx
}

const appColumns = `id, name, base_url, client_secret_hash, created_at`

func (r *appsRepo) GetByID(ctx context.Context, id string) (domain.Application, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+appColumns+` FROM applications WHERE id = ?`, id)
	return scanApp(row)
}

func (r *appsRepo) GetByName(ctx context.Context, name string) (domain.Application, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+appColumns+` FROM applications WHERE name = ?`, name)
	return scanApp(row)
}

func (r *appsRepo) Create(ctx context.Context, a domain.Application) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO applications (id, name, base_url, client_secret_hash, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.BaseURL, a.ClientSecretHash, a.CreatedAt,
	)
	return mapErr(err)
}

func (r *appsRepo) List(ctx context.Context) ([]domain.Application, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+appColumns+` FROM applications ORDER BY created_at`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var apps []domain.Application
	for rows.Next() {
		var a domain.Application
		if err := rows.Scan(&a.ID, &a.Name, &a.BaseURL, &a.ClientSecretHash, &a.CreatedAt); err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

func (r *appsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM applications WHERE id = ?`, id)
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

func scanApp(row interface{ Scan(...any) error }) (domain.Application, error) {
	var a domain.Application
	if err := row.Scan(&a.ID, &a.Name, &a.BaseURL, &a.ClientSecretHash, &a.CreatedAt); err != nil {
		return domain.Application{}, mapErr(err)
	}
	return a, nil
}
