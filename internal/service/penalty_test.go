package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SHADOW-465/LockedIn-sub001/internal/model"
	"github.com/SHADOW-465/LockedIn-sub001/internal/repository"
)

// fakeSessionStore implements SessionStore in memory, with knobs to
// inject version conflicts and hard persistence failures.
type fakeSessionStore struct {
	sess       model.Session
	missing    bool
	violations []model.Violation
	conflicts  int   // number of ApplyPenaltyTx calls to reject with a version conflict
	failWith   error // non-nil makes every ApplyPenaltyTx fail hard
}

func (f *fakeSessionStore) Get(ctx context.Context, id string) (model.Session, error) {
	if f.missing || id != f.sess.ID {
		return model.Session{}, repository.ErrSessionNotFound
	}
	return f.sess, nil
}

func (f *fakeSessionStore) ApplyPenaltyTx(ctx context.Context, sess model.Session, lockedUntil time.Time, v model.Violation) error {
	if f.failWith != nil {
		return f.failWith
	}
	if f.conflicts > 0 || sess.Version != f.sess.Version {
		f.conflicts--
		// Simulate the concurrent writer that won the race.
		f.sess.Version++
		return repository.ErrVersionConflict
	}
	f.sess.LockedUntil = &lockedUntil
	f.sess.Version++
	f.violations = append(f.violations, v)
	return nil
}

func newFixedService(store *fakeSessionStore, now time.Time) *PenaltyService {
	svc := NewPenaltyService(store)
	svc.Now = func() time.Time { return now }
	return svc
}

func activeSession(userID uint64) model.Session {
	return model.Session{ID: "sess-1", UserID: userID, Status: model.SessionActive}
}

func TestApply_NoPriorLockout(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := &fakeSessionStore{sess: activeSession(7)}
	svc := newFixedService(store, now)

	res, err := svc.Apply(context.Background(), ApplyRequest{
		SessionID: "sess-1", UserID: 7, ViolationType: "task_failed", Tier: "NEWBIE",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.HoursApplied)
	assert.Equal(t, now.Add(2*time.Hour), res.NewLockedUntil)
	require.Len(t, store.violations, 1)
	assert.Equal(t, "task_failed", store.violations[0].ViolationType)
	assert.Equal(t, "NEWBIE", store.violations[0].TierAtTime)
}

func TestApply_PenaltiesStack(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := &fakeSessionStore{sess: activeSession(7)}
	svc := newFixedService(store, now)

	req := ApplyRequest{SessionID: "sess-1", UserID: 7, ViolationType: "task_failed", Tier: "NEWBIE"}

	first, err := svc.Apply(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Apply(context.Background(), req)
	require.NoError(t, err)

	// The second penalty extends the existing horizon, it does not
	// restart from now.
	assert.Equal(t, now.Add(2*time.Hour), first.NewLockedUntil)
	assert.Equal(t, now.Add(4*time.Hour), second.NewLockedUntil)
	assert.Len(t, store.violations, 2)
}

func TestApply_ExpiredLockoutStartsFromNow(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-3 * time.Hour)
	sess := activeSession(7)
	sess.LockedUntil = &past
	store := &fakeSessionStore{sess: sess}
	svc := newFixedService(store, now)

	res, err := svc.Apply(context.Background(), ApplyRequest{
		SessionID: "sess-1", UserID: 7, ViolationType: "task_failed", Tier: "NEWBIE",
	})
	require.NoError(t, err)
	assert.Equal(t, now.Add(2*time.Hour), res.NewLockedUntil)
}

func TestApply_SessionNotFound(t *testing.T) {
	t.Parallel()

	store := &fakeSessionStore{missing: true}
	svc := NewPenaltyService(store)

	_, err := svc.Apply(context.Background(), ApplyRequest{SessionID: "nope", UserID: 1, ViolationType: "task_failed"})
	require.ErrorIs(t, err, repository.ErrSessionNotFound)
	assert.Empty(t, store.violations)
}

func TestApply_WrongOwnerIsNotFound(t *testing.T) {
	t.Parallel()

	store := &fakeSessionStore{sess: activeSession(7)}
	svc := NewPenaltyService(store)

	_, err := svc.Apply(context.Background(), ApplyRequest{SessionID: "sess-1", UserID: 99, ViolationType: "task_failed"})
	require.ErrorIs(t, err, repository.ErrSessionNotFound)
}

func TestApply_SupersededSessionIsNotFound(t *testing.T) {
	t.Parallel()

	sess := activeSession(7)
	sess.Status = model.SessionSuperseded
	store := &fakeSessionStore{sess: sess}
	svc := NewPenaltyService(store)

	_, err := svc.Apply(context.Background(), ApplyRequest{SessionID: "sess-1", UserID: 7, ViolationType: "task_failed"})
	require.ErrorIs(t, err, repository.ErrSessionNotFound)
}

func TestApply_RetriesAfterVersionConflict(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := &fakeSessionStore{sess: activeSession(7), conflicts: 1}
	svc := newFixedService(store, now)

	res, err := svc.Apply(context.Background(), ApplyRequest{
		SessionID: "sess-1", UserID: 7, ViolationType: "task_failed", Tier: "NEWBIE",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.HoursApplied)
	// Exactly one audit row despite the retried attempt.
	assert.Len(t, store.violations, 1)
}

func TestApply_ConflictAfterAllRetries(t *testing.T) {
	t.Parallel()

	store := &fakeSessionStore{sess: activeSession(7), conflicts: applyAttempts + 1}
	svc := NewPenaltyService(store)

	_, err := svc.Apply(context.Background(), ApplyRequest{SessionID: "sess-1", UserID: 7, ViolationType: "task_failed"})
	require.ErrorIs(t, err, ErrConflict)
	assert.Empty(t, store.violations)
}

func TestApply_PersistenceFailure(t *testing.T) {
	t.Parallel()

	store := &fakeSessionStore{sess: activeSession(7), failWith: errors.New("disk on fire")}
	svc := NewPenaltyService(store)

	_, err := svc.Apply(context.Background(), ApplyRequest{SessionID: "sess-1", UserID: 7, ViolationType: "task_failed"})
	require.ErrorIs(t, err, ErrApplyFailed)
	// No partial state: failure appends nothing.
	assert.Empty(t, store.violations)
}

func TestApply_ReasonIsRecorded(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := &fakeSessionStore{sess: activeSession(7)}
	svc := newFixedService(store, now)

	_, err := svc.Apply(context.Background(), ApplyRequest{
		SessionID: "sess-1", UserID: 7, ViolationType: "deadline_missed", Tier: "ADVANCED", Reason: "missed Friday deadline",
	})
	require.NoError(t, err)
	require.Len(t, store.violations, 1)
	require.NotNil(t, store.violations[0].Reason)
	assert.Equal(t, "missed Friday deadline", *store.violations[0].Reason)
	assert.Equal(t, 4, store.violations[0].HoursApplied)
	assert.Equal(t, "ADVANCED", store.violations[0].TierAtTime)
}
