package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
)

const accountColumns = `id, first_name, last_name, email, username, password_hash, created_at, updated_at, last_login_at`

type accountsRepo struct {
	db *sql.DB
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, first_name, last_name, email, username, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.FirstName, a.LastName, a.Email, a.Username, a.PasswordHash,
		a.CreatedAt.UTC(), a.UpdatedAt.UTC(),
	)
	return mapUnique(err)
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM users WHERE id = ?`, id)
}

func (r *accountsRepo) GetAccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM users WHERE email = ?`, strings.ToLower(email))
}

func (r *accountsRepo) GetAccountByUsername(ctx context.Context, username string) (domain.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM users WHERE username = ?`, username)
}

func (r *accountsRepo) GetAccountByLogin(ctx context.Context, identifier string) (domain.Account, error) {
	return r.getOne(ctx,
		`SELECT `+accountColumns+` FROM users WHERE username = ? OR email = ? LIMIT 1`,
		identifier, strings.ToLower(identifier),
	)
}

func (r *accountsRepo) UpdateNames(ctx context.Context, id, firstName, lastName string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET first_name = ?, last_name = ?, updated_at = ? WHERE id = ?`,
		firstName, lastName, time.Now().UTC(), id,
	)
	if err != nil {
		return err
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

func (r *accountsRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = ? WHERE id = ?`, at.UTC(), id)
	return err
}

func (r *accountsRepo) getOne(ctx context.Context, query string, args ...any) (domain.Account, error) {
	var (
		a         domain.Account
		lastLogin sql.NullTime
	)

	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.Username, &a.PasswordHash,
		&a.CreatedAt, &a.UpdatedAt, &lastLogin,
	)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}

	a.LastLoginAt = mapNullTimePtr(lastLogin)
	return a, nil
}
