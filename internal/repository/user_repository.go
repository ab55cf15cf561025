package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/SHADOW-465/LockedIn-sub001/internal/model"
	"github.com/SHADOW-465/LockedIn-sub001/internal/utils"
)

// UserRepo is the profile store: it owns the users table, including
// the tier and onboarding flag the access gate and punishment engine
// read.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user with the given tier and returns its ID.  The
// onboarding flag starts false; the onboarding flow flips it later.
func (r *UserRepo) Create(ctx context.Context, email, password, tier string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, tier, onboarding_completed) VALUES (?,?,?,false)",
		email, hash, tier)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,tier,onboarding_completed,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		email))
}

// GetByID fetches a user by id.  Missing rows map to ErrUserNotFound
// so callers never compare against sql.ErrNoRows.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,tier,onboarding_completed,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id))
}

// CompleteOnboarding marks the user's onboarding as finished.  Zero
// affected rows means the user does not exist: the DSN sets
// clientFoundRows, so a repeat call that changes nothing still counts
// as one matched row.
func (r *UserRepo) CompleteOnboarding(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET onboarding_completed=true WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetTier updates the user's strictness tier.  Tier mutation is an
// onboarding/profile concern; the penalty path never calls this.
func (r *UserRepo) SetTier(ctx context.Context, id uint64, tier string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET tier=? WHERE id=?", tier, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Tier, &u.OnboardingCompleted, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}
