package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/tokenauth/internal/auth/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, email, password_hash, access_level, email_confirmed, created_at, updated_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, u.AccessLevel, u.EmailConfirmed,
		unix(u.CreatedAt), unix(u.UpdatedAt),
	)
	return mapConstraint(err)
}

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u                domain.User
		created, updated int64
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.AccessLevel, &u.EmailConfirmed, &created, &updated)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.CreatedAt = fromUnix(created)
	u.UpdatedAt = fromUnix(updated)
	return u, nil
}
