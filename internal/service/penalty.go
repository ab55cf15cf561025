// Package service holds the request-scoped application services: the
// penalty application service and the usage quota accountant.  Both
// accept their stores as narrow interfaces so they can be exercised
// against fakes.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SHADOW-465/LockedIn-sub001/internal/model"
	"github.com/SHADOW-465/LockedIn-sub001/internal/punishment"
	"github.com/SHADOW-465/LockedIn-sub001/internal/repository"
)

// ErrConflict is returned when the session update lost the race
// against concurrent writers on every retry.  The whole apply can be
// safely retried by the caller.
var ErrConflict = errors.New("concurrent session update, retry")

// ErrApplyFailed is returned when persistence failed after a valid
// penalty was computed.  Nothing was written: neither the lockout
// update nor the audit record.
var ErrApplyFailed = errors.New("penalty apply failed")

// applyAttempts bounds the optimistic-retry loop on version conflicts.
const applyAttempts = 3

// SessionStore is the slice of the session repository the penalty
// service needs.
type SessionStore interface {
	Get(ctx context.Context, id string) (model.Session, error)
	ApplyPenaltyTx(ctx context.Context, sess model.Session, lockedUntil time.Time, v model.Violation) error
}

// ApplyRequest carries one violation report.
type ApplyRequest struct {
	SessionID     string
	UserID        uint64
	ViolationType string
	Tier          string
	Reason        string // optional
}

// ApplyResult is the outcome of a successful application.
type ApplyResult struct {
	HoursApplied   int
	NewLockedUntil time.Time
}

// PenaltyService applies computed penalties to enforcement sessions.
// Exactly one violation audit row is appended per successful call and
// none on failure.  The lockout horizon only ever moves forward.
type PenaltyService struct {
	Sessions SessionStore
	Now      func() time.Time // defaults to time.Now; injectable for tests
}

// NewPenaltyService constructs a PenaltyService over the given store.
func NewPenaltyService(sessions SessionStore) *PenaltyService {
	return &PenaltyService{Sessions: sessions, Now: func() time.Time { return time.Now().UTC() }}
}

// Apply resolves the session, computes the penalty and commits the
// new lockout horizon together with the audit record.  Penalties
// stack: the new horizon is max(current horizon, now) + hours, so an
// existing lockout is extended, never shortened or restarted.
//
// The session row update is a conditional write on the version the
// service read; a lost race reloads the session and retries the whole
// computation, up to applyAttempts times, then reports ErrConflict.
// Any other persistence failure reports ErrApplyFailed.
func (s *PenaltyService) Apply(ctx context.Context, req ApplyRequest) (ApplyResult, error) {
	sess, err := s.Sessions.Get(ctx, req.SessionID)
	if err != nil {
		return ApplyResult{}, err
	}
	if sess.UserID != req.UserID || sess.Status != model.SessionActive {
		return ApplyResult{}, repository.ErrSessionNotFound
	}

	tier := punishment.ParseTier(req.Tier)
	hours := punishment.Compute(req.ViolationType, tier)

	for attempt := 0; attempt < applyAttempts; attempt++ {
		now := s.Now().UTC()
		base := now
		if sess.LockedUntil != nil && sess.LockedUntil.After(now) {
			base = sess.LockedUntil.UTC()
		}
		lockedUntil := base.Add(time.Duration(hours) * time.Hour)

		v := model.Violation{
			SessionID:     sess.ID,
			UserID:        sess.UserID,
			ViolationType: punishment.Normalize(req.ViolationType),
			TierAtTime:    tier.String(),
			HoursApplied:  hours,
			AppliedAt:     now,
		}
		if r := req.Reason; r != "" {
			v.Reason = &r
		}

		err = s.Sessions.ApplyPenaltyTx(ctx, sess, lockedUntil, v)
		if err == nil {
			return ApplyResult{HoursApplied: hours, NewLockedUntil: lockedUntil}, nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return ApplyResult{}, fmt.Errorf("%w: %v", ErrApplyFailed, err)
		}
		// Lost the race: re-read the latest horizon and recompute.
		sess, err = s.Sessions.Get(ctx, req.SessionID)
		if err != nil {
			return ApplyResult{}, err
		}
	}
	return ApplyResult{}, ErrConflict
}
