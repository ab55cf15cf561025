// Package punishment implements the penalty table mapping a
// (violation type, tier) pair to a lockout duration in hours.  The
// computation is pure and total: every input resolves to a defined
// value, unknown inputs fall back to the documented defaults instead
// of failing, and for a fixed violation type the hours never decrease
// as the tier gets stricter.
package punishment

import "strings"

// Tier is an ordered strictness classification of a user.  Higher
// values mean stricter enforcement and therefore equal or longer
// penalties.
type Tier int

const (
	TierNewbie Tier = iota
	TierIntermediate
	TierAdvanced
	TierHardcore
)

// tierCount is the number of defined tiers; penalty rows carry one
// entry per tier in ascending strictness order.
const tierCount = 4

// Violation type keys.  DefaultViolation is the documented fallback
// used when a caller supplies an unrecognized key.
const (
	ViolationTaskFailed      = "task_failed"
	ViolationTaskAbandoned   = "task_abandoned"
	ViolationDeadlineMissed  = "deadline_missed"
	ViolationDishonestReport = "dishonest_report"

	DefaultViolation = ViolationTaskFailed
)

// tierNames maps tier values to their canonical names as stored in
// the users table.
var tierNames = [tierCount]string{"NEWBIE", "INTERMEDIATE", "ADVANCED", "HARDCORE"}

// penaltyHours holds the lockout hours per violation type, indexed by
// tier in ascending order.  Every row is non-decreasing left to right.
var penaltyHours = map[string][tierCount]int{
	ViolationTaskFailed:      {2, 4, 6, 12},
	ViolationTaskAbandoned:   {3, 6, 9, 16},
	ViolationDeadlineMissed:  {1, 2, 4, 8},
	ViolationDishonestReport: {6, 12, 18, 24},
}

// ParseTier normalizes a tier name to its ordered value.  Unknown or
// empty names resolve to TierNewbie, the lowest tier, mirroring the
// fallback rule for violation types.
func ParseTier(name string) Tier {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "INTERMEDIATE":
		return TierIntermediate
	case "ADVANCED":
		return TierAdvanced
	case "HARDCORE":
		return TierHardcore
	default:
		return TierNewbie
	}
}

// String returns the canonical tier name.
func (t Tier) String() string {
	if t < 0 || int(t) >= tierCount {
		return tierNames[TierNewbie]
	}
	return tierNames[t]
}

// Tiers returns all tiers in ascending strictness order.
func Tiers() []Tier {
	return []Tier{TierNewbie, TierIntermediate, TierAdvanced, TierHardcore}
}

// Violations returns every known violation type key.
func Violations() []string {
	return []string{ViolationTaskFailed, ViolationTaskAbandoned, ViolationDeadlineMissed, ViolationDishonestReport}
}

// Normalize resolves a raw violation type key to a key present in the
// penalty table.  Unrecognized keys map to DefaultViolation.
func Normalize(violationType string) string {
	key := strings.ToLower(strings.TrimSpace(violationType))
	if _, ok := penaltyHours[key]; !ok {
		return DefaultViolation
	}
	return key
}

// Compute returns the penalty in hours for a violation committed by a
// user of the given tier.  The result is always defined and
// non-negative: unknown violation types fall back to DefaultViolation
// and out-of-range tiers clamp to the nearest defined tier.
func Compute(violationType string, tier Tier) int {
	row := penaltyHours[Normalize(violationType)]
	if tier < TierNewbie {
		tier = TierNewbie
	}
	if int(tier) >= tierCount {
		tier = TierHardcore
	}
	return row[tier]
}

// Preview is the read-only inspection path.  It performs the exact
// computation Compute does and exists so callers can surface the
// would-be penalty without touching any session state.
func Preview(violationType string, tier Tier) int {
	return Compute(violationType, tier)
}
