package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"
	"github.com/testhr/llamagate/internal/core"
)

// Users persists registered accounts.
type Users struct {
	db *sql.DB
}

func NewUsers(db *sql.DB) *Users {
	return &Users{db: db}
}

func (u *Users) Create(ctx context.Context, user core.User) (core.User, error) {
	query := `INSERT INTO users (name, email, password) VALUES (?, ?, ?)`
	res, err := u.db.ExecContext(ctx, query, user.Name, user.Email, user.Password)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return core.User{}, core.ErrUserExists
		}
		return core.User{}, &core.StorageError{Op: "create user", Err: err}
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.User{}, &core.StorageError{Op: "create user", Err: err}
	}
	user.ID = id
	return user, nil
}

func (u *Users) ByEmail(ctx context.Context, email string) (core.User, error) {
	query := `SELECT id, name, email, password FROM users WHERE email = ?`

	var user core.User
	err := u.db.QueryRowContext(ctx, query, email).
		Scan(&user.ID, &user.Name, &user.Email, &user.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrUserNotFound
	}
	if err != nil {
		return core.User{}, &core.StorageError{Op: "query user", Err: err}
	}
	return user, nil
}

func (u *Users) UpdatePassword(ctx context.Context, email, encodedHash string) error {
	query := `UPDATE users SET password = ? WHERE email = ?`
	res, err := u.db.ExecContext(ctx, query, encodedHash, email)
	if err != nil {
		return &core.StorageError{Op: "update password", Err: err}
	}

	n, err := res.RowsAffected()
	if err != nil {
		return &core.StorageError{Op: "update password", Err: err}
	}
	if n == 0 {
		return core.ErrUserNotFound
	}
	return nil
}
