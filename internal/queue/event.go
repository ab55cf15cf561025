// Package queue defines message payloads exchanged over the message
// broker, the publisher for domain events and the background consumer
// that turns them into audit log lines.
package queue

// ViolationAppliedEvent is published when a penalty has been durably
// applied to an enforcement session.  It carries enough information
// for downstream consumers to log, notify or trigger analytics
// without querying the primary database.
type ViolationAppliedEvent struct {
	SessionID      string `json:"session_id"`
	UserID         uint64 `json:"user_id"`
	ViolationType  string `json:"violation_type"`
	TierAtTime     string `json:"tier_at_time"`
	HoursApplied   int    `json:"hours_applied"`
	Reason         string `json:"reason,omitempty"`
	NewLockedUntil string `json:"new_locked_until"`
	AppliedAt      string `json:"applied_at"`
}
