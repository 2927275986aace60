package repositories

import (
	"context"
	"fmt"
	"strings"

	intdb "backoffice/internal/db"
	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
)

type UserRepository struct {
	DB intdb.DBTX
}

func (r UserRepository) Create(ctx context.Context, u *models.User) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, role) VALUES (?, ?, ?, ?)`,
		u.Name, strings.ToLower(u.Email), u.PasswordHash, u.Role)
	if err != nil {
		if intdb.IsDuplicate(err) {
			return domain.ConflictError{Resource: "user", Msg: "email already registered", Err: err}
		}
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID, err = res.LastInsertId()
	return err
}

func (r UserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, role FROM users WHERE email=?`,
		strings.ToLower(strings.TrimSpace(email)),
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role)
	if err != nil {
		return models.User{}, notFound(err, "user", 0)
	}
	return u, nil
}

func (r UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}
