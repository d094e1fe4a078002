package repository

import (
	"context"
	"database/sql"
	"time"
)

// TokenBlacklistRepo persists revoked token ids in the `token_blacklist`
// table. Rows are written once at logout and read on every authenticated
// request; nothing in the request path ever deletes them.
type TokenBlacklistRepo struct{ DB *sql.DB }

func NewTokenBlacklistRepo(db *sql.DB) *TokenBlacklistRepo { return &TokenBlacklistRepo{DB: db} }

// Add records a revoked jti. Adding the same jti twice is a harmless no-op:
// the unique key absorbs the duplicate instead of failing the logout.
func (r *TokenBlacklistRepo) Add(ctx context.Context, jti string, userID uint64, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO token_blacklist (jti, user_id, expires_at) VALUES (?,?,?) ON DUPLICATE KEY UPDATE jti=jti",
		jti, userID, expiresAt.UTC())
	return err
}

// IsRevoked reports whether a jti has been blacklisted. Expiry is ignored on
// purpose: a revoked token stays revoked for its whole natural lifetime,
// which the exp claim bounds anyway.
func (r *TokenBlacklistRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM token_blacklist WHERE jti=?)", jti).Scan(&exists)
	return exists, err
}
