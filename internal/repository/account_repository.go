package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/joonhak/mm-auth-server/internal/model"
)

// AccountRepo persists accounts in the 'accounts' table. Email carries a
// unique constraint and is the lookup key used by the auth flows.
type AccountRepo struct{ DB *sql.DB }

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{DB: db} }

const accountColumns = "id,email,provider,password_hash,display_name,role,points,theme,failed_login_count,locked,last_login_date,created_at,updated_at"

// FindByEmail fetches an account by normalized email. Returns
// ErrAccountNotFound when no row matches.
func (r *AccountRepo) FindByEmail(ctx context.Context, email string) (model.Account, error) {
	email = normalizeEmail(email)
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE email=? LIMIT 1", email)
	return scanAccount(row)
}

// ExistsByEmail reports whether an account with the given email exists.
func (r *AccountRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM accounts WHERE email=?", normalizeEmail(email)).Scan(&n)
	return n > 0, err
}

// ExistsByDisplayName reports whether the display name is already taken.
func (r *AccountRepo) ExistsByDisplayName(ctx context.Context, displayName string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM accounts WHERE display_name=?", strings.TrimSpace(displayName)).Scan(&n)
	return n > 0, err
}

// Save upserts an account keyed by email and returns the stored value.
// A zero ID means insert; the unique email key turns a concurrent double
// insert into an update of the identity-merge fields.
func (r *AccountRepo) Save(ctx context.Context, a model.Account) (model.Account, error) {
	a.Email = normalizeEmail(a.Email)
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO accounts
		   (email, provider, password_hash, display_name, role, points, theme, failed_login_count, locked, last_login_date)
		 VALUES (?,?,?,?,?,?,?,?,?,?)
		 ON DUPLICATE KEY UPDATE
		   provider=VALUES(provider), password_hash=VALUES(password_hash),
		   display_name=VALUES(display_name), role=VALUES(role),
		   points=VALUES(points), theme=VALUES(theme),
		   failed_login_count=VALUES(failed_login_count), locked=VALUES(locked),
		   last_login_date=VALUES(last_login_date)`,
		a.Email, nullIfEmpty(a.Provider), nullIfEmpty(a.PasswordHash), a.DisplayName,
		a.Role, a.Points, a.Theme, a.FailedLoginCount, a.Locked, nullTime(a.LastLoginDate))
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.Account{}, ErrDuplicateEmail
		}
		return model.Account{}, err
	}
	if a.ID == 0 {
		if id, err := res.LastInsertId(); err == nil && id > 0 {
			a.ID = uint64(id)
		}
	}
	return a, nil
}

func scanAccount(row *sql.Row) (model.Account, error) {
	var (
		a         model.Account
		provider  sql.NullString
		pwHash    sql.NullString
		lastLogin sql.NullTime
	)
	err := row.Scan(&a.ID, &a.Email, &provider, &pwHash, &a.DisplayName, &a.Role,
		&a.Points, &a.Theme, &a.FailedLoginCount, &a.Locked, &lastLogin,
		&a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Account{}, ErrAccountNotFound
	}
	if err != nil {
		return model.Account{}, err
	}
	a.Provider = provider.String
	a.PasswordHash = pwHash.String
	if lastLogin.Valid {
		t := lastLogin.Time
		a.LastLoginDate = &t
	}
	return a, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
