package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/photo-share/internal/model"
)

// bootstrapLock names the MySQL advisory lock serializing the first-user
// check against the insert. Without it two concurrent registrations on an
// empty table could both observe zero users and both become admin.
const bootstrapLock = "photo_share.user_bootstrap"

// errBootstrapLock is surfaced when the advisory lock cannot be acquired
// within its timeout. Callers see it as an ordinary storage failure.
var errBootstrapLock = errors.New("bootstrap lock timeout")

const userColumns = "id,username,email,password_hash,role,is_active,created_at,updated_at"

// UserRepo persists user accounts in the `users` table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// CreateBootstrap inserts a new active user and decides its role inside a
// single transaction: while holding the advisory lock, the very first user
// ever inserted gets the admin role, everybody else the user role. Unique
// key violations are translated to ErrEmailExists / ErrUsernameExists.
func (r *UserRepo) CreateBootstrap(ctx context.Context, username, email, passwordHash string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)

	// The advisory lock is connection-scoped, so everything runs on one
	// pinned connection and the lock is released on that same connection
	// whether the transaction commits or rolls back.
	conn, err := r.DB.Conn(ctx)
	if err != nil {
		return model.User{}, err
	}
	defer conn.Close()

	var got sql.NullInt64
	if err := conn.QueryRowContext(ctx, "SELECT GET_LOCK(?, 5)", bootstrapLock).Scan(&got); err != nil {
		return model.User{}, err
	}
	if !got.Valid || got.Int64 != 1 {
		return model.User{}, errBootstrapLock
	}
	defer func() {
		_, _ = conn.ExecContext(context.Background(), "SELECT RELEASE_LOCK(?)", bootstrapLock)
	}()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return model.User{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	if err := tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM users)").Scan(&exists); err != nil {
		return model.User{}, err
	}
	role := model.RoleUser
	if !exists {
		role = model.RoleAdmin
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, role, is_active) VALUES (?,?,?,?,1)",
		username, email, passwordHash, role)
	if err != nil {
		return model.User{}, translateUserDuplicate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}

	var u model.User
	err = tx.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=?", id).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
}

// GetByUsername fetches a user by exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1", username)
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg any) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// ExistsAny reports whether at least one user row exists.
func (r *UserRepo) ExistsAny(ctx context.Context) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM users)").Scan(&exists)
	return exists, err
}

// SetActive flips the is_active flag and reports whether the row exists. The
// rows-affected count cannot be used alone because MySQL reports zero for a
// value that did not change.
func (r *UserRepo) SetActive(ctx context.Context, id uint64, active bool) (bool, error) {
	if _, err := r.DB.ExecContext(ctx, "UPDATE users SET is_active=? WHERE id=?", active, id); err != nil {
		return false, err
	}
	var exists bool
	err := r.DB.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE id=?)", id).Scan(&exists)
	return exists, err
}

// SetRole assigns a role and reports whether the row exists.
func (r *UserRepo) SetRole(ctx context.Context, id uint64, role string) (bool, error) {
	if _, err := r.DB.ExecContext(ctx, "UPDATE users SET role=? WHERE id=?", role, id); err != nil {
		return false, err
	}
	var exists bool
	err := r.DB.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE id=?)", id).Scan(&exists)
	return exists, err
}

// UpdateProfile changes username and/or email for a user. Empty strings keep
// the current value. Returns the updated row.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, username, email string) (model.User, error) {
	set := []string{}
	args := []any{}
	if username != "" {
		set = append(set, "username=?")
		args = append(args, strings.TrimSpace(username))
	}
	if email != "" {
		set = append(set, "email=?")
		args = append(args, strings.ToLower(strings.TrimSpace(email)))
	}
	if len(set) > 0 {
		args = append(args, id)
		if _, err := r.DB.ExecContext(ctx, "UPDATE users SET "+strings.Join(set, ", ")+" WHERE id=?", args...); err != nil {
			return model.User{}, translateUserDuplicate(err)
		}
	}
	return r.GetByID(ctx, id)
}

// translateUserDuplicate maps a duplicate-key failure to the sentinel for the
// violated key, inspecting the key name MySQL reports.
func translateUserDuplicate(err error) error {
	if !isDuplicateKey(err) {
		return err
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "uq_users_email"), strings.Contains(msg, "email"):
		return ErrEmailExists
	case strings.Contains(msg, "uq_users_username"), strings.Contains(msg, "username"):
		return ErrUsernameExists
	}
	return ErrDuplicate
}
