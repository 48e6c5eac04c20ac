package sqlite

import (
	"context"

	"github.com/signonhq/signon/internal/sso/domain"
)

type usersRepo struct {
	db dbtx
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT email, name, password_hash, is_admin, created_at FROM users WHERE email = ?`,
		email,
	)

	var u domain.User
	if err := row.Scan(&u.Email, &u.Name, &u.PasswordHash, &u.Admin, &u.CreatedAt); err != nil {
		return domain.User{}, mapErr(err)
	}
	return u, nil
}

func (r *usersRepo) Create(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, name, password_hash, is_admin, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.Email, u.Name, u.PasswordHash, u.Admin, u.CreatedAt,
	)
	return mapErr(err)
}

func (r *usersRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT email, name, password_hash, is_admin, created_at FROM users ORDER BY created_at`,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.Email, &u.Name, &u.PasswordHash, &u.Admin, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
