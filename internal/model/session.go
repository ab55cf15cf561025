package model

import "time"

// Session statuses.  A session is never deleted; opening a new
// enforcement period flips the previous row to SUPERSEDED.
const (
	SessionActive     = "ACTIVE"
	SessionSuperseded = "SUPERSEDED"
)

// Session represents one enforcement period for a user as stored in
// the `sessions` table.  The lockout horizon and the violation audit
// trail hang off this record.  LockedUntil is nullable: nil means the
// user is not locked.  Version is a counter bumped on every lockout
// update; it guards the read-modify-write against concurrent writers.
//
// Fields:
//  ID          – opaque session identifier (uuid).
//  UserID      – owner of the enforcement period.
//  LockedUntil – lockout horizon; nil when not locked.
//  Status      – ACTIVE or SUPERSEDED.
//  Version     – optimistic-concurrency counter.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Session struct {
	ID          string     // sessions.id
	UserID      uint64     // sessions.user_id
	LockedUntil *time.Time // sessions.locked_until (nullable)
	Status      string     // sessions.status
	Version     uint64     // sessions.version
	CreatedAt   time.Time  // sessions.created_at
	UpdatedAt   time.Time  // sessions.updated_at
}

// Locked reports whether the session's lockout horizon is still in
// the future at the given instant.
func (s Session) Locked(now time.Time) bool {
	return s.LockedUntil != nil && s.LockedUntil.After(now)
}

// Violation records a single applied penalty in the `violations`
// table.  Rows are append-only and immutable: together they form the
// audit trail of an enforcement period.  HoursApplied is always
// reproducible by re-running the punishment table with the same
// (ViolationType, TierAtTime) pair.
//
// Fields:
//  ID            – primary key identifier.
//  SessionID     – enforcement session this violation belongs to.
//  UserID        – user the penalty was applied to.
//  ViolationType – violation key (e.g. task_failed).
//  TierAtTime    – the user's tier when the penalty was applied.
//  HoursApplied  – penalty duration in hours.
//  Reason        – optional free-text note (nullable).
//  AppliedAt     – timestamp of application.
type Violation struct {
	ID            uint64    // violations.id
	SessionID     string    // violations.session_id
	UserID        uint64    // violations.user_id
	ViolationType string    // violations.violation_type
	TierAtTime    string    // violations.tier_at_time
	HoursApplied  int       // violations.hours_applied
	Reason        *string   // violations.reason (nullable)
	AppliedAt     time.Time // violations.applied_at
}
