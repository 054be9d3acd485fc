package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/domain"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// FindByEmail matches the email exactly as stored.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (domain.User, bool, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.User{}, false, nil
	}

	const q = `
SELECT id, name, email, password_hash
FROM users
WHERE email = $1
LIMIT 1;
`
	var u domain.User
	err := r.db.QueryRowContext(ctx, q, email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, domain.ErrStoreUnavailable(err)
	}
	return u, true, nil
}

// Create inserts a user. A unique violation is reported as a duplicate email;
// the users_email_key index is the only authority on that.
func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	if u.ID == "" || u.Email == "" || u.PasswordHash == "" {
		return domain.User{}, domain.ErrInternal(errors.New("user id, email and password hash are required"))
	}

	const q = `
INSERT INTO users (id, name, email, password_hash)
VALUES ($1, $2, $3, $4)
RETURNING id, name, email, password_hash;
`
	var out domain.User
	err := r.db.QueryRowContext(ctx, q, u.ID, u.Name, u.Email, u.PasswordHash).
		Scan(&out.ID, &out.Name, &out.Email, &out.PasswordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, domain.ErrDuplicateEmail(err)
		}
		return domain.User{}, mapWriteErr(err)
	}
	return out, nil
}
