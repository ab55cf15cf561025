package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/SHADOW-465/LockedIn-sub001/internal/model"
)

// SessionRepo provides data access to enforcement sessions and their
// violation audit trail.  The sessions row is the only mutable shared
// resource in the system: every lockout update goes through
// ApplyPenaltyTx, a conditional write guarded by the row's version
// column, so concurrent applications against the same session are
// serialized.  Violations are append-only and written in the same
// transaction as the lockout update.  All timestamps are UTC.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo returns a new SessionRepo bound to the provided database.
func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

// Open creates a new ACTIVE enforcement session for the user after
// flipping any previous ACTIVE session to SUPERSEDED.  Sessions are
// never deleted, only superseded.
func (r *SessionRepo) Open(ctx context.Context, userID uint64) (model.Session, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Session{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx,
		"UPDATE sessions SET status=? WHERE user_id=? AND status=?",
		model.SessionSuperseded, userID, model.SessionActive); err != nil {
		return model.Session{}, err
	}

	id := uuid.NewString()
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO sessions (id, user_id, locked_until, status, version) VALUES (?,?,NULL,?,0)",
		id, userID, model.SessionActive); err != nil {
		return model.Session{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Session{}, err
	}
	committed = true
	return model.Session{ID: id, UserID: userID, Status: model.SessionActive}, nil
}

// Get fetches a session by id regardless of status.
func (r *SessionRepo) Get(ctx context.Context, id string) (model.Session, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		"SELECT id,user_id,locked_until,status,version,created_at,updated_at FROM sessions WHERE id=? LIMIT 1",
		id))
}

// GetActiveByUser fetches the user's current ACTIVE session.
func (r *SessionRepo) GetActiveByUser(ctx context.Context, userID uint64) (model.Session, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		"SELECT id,user_id,locked_until,status,version,created_at,updated_at FROM sessions WHERE user_id=? AND status=? LIMIT 1",
		userID, model.SessionActive))
}

// ApplyPenaltyTx writes the new lockout horizon and the violation
// audit row in one transaction.  The session update is conditional on
// the version the caller read: when another writer got there first the
// UPDATE matches zero rows, nothing is written, and ErrVersionConflict
// is returned so the caller can re-read and retry.  On success exactly
// one violation row has been appended.
func (r *SessionRepo) ApplyPenaltyTx(ctx context.Context, sess model.Session, lockedUntil time.Time, v model.Violation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		"UPDATE sessions SET locked_until=?, version=version+1 WHERE id=? AND version=?",
		lockedUntil.UTC(), sess.ID, sess.Version)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVersionConflict
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO violations (session_id, user_id, violation_type, tier_at_time, hours_applied, reason, applied_at) VALUES (?,?,?,?,?,?,?)",
		v.SessionID, v.UserID, v.ViolationType, v.TierAtTime, v.HoursApplied, v.Reason, v.AppliedAt.UTC()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ViolationsBySession returns the audit trail for a session in
// application order.
func (r *SessionRepo) ViolationsBySession(ctx context.Context, sessionID string) ([]model.Violation, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id,session_id,user_id,violation_type,tier_at_time,hours_applied,reason,applied_at FROM violations WHERE session_id=? ORDER BY id",
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Violation
	for rows.Next() {
		var v model.Violation
		var reason sql.NullString
		if err := rows.Scan(&v.ID, &v.SessionID, &v.UserID, &v.ViolationType, &v.TierAtTime, &v.HoursApplied, &reason, &v.AppliedAt); err != nil {
			return nil, err
		}
		if reason.Valid {
			v.Reason = &reason.String
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *SessionRepo) scanOne(row *sql.Row) (model.Session, error) {
	var s model.Session
	var locked sql.NullTime
	err := row.Scan(&s.ID, &s.UserID, &locked, &s.Status, &s.Version, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Session{}, ErrSessionNotFound
	}
	if err != nil {
		return model.Session{}, err
	}
	if locked.Valid {
		t := locked.Time
		s.LockedUntil = &t
	}
	return s, nil
}
