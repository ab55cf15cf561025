package service

import (
	"context"
	"time"

	"github.com/SHADOW-465/LockedIn-sub001/internal/model"
)

// UsageStore is the slice of the usage repository the accountant
// needs: windowed sums over the append-only event log.
type UsageStore interface {
	SumRange(ctx context.Context, userID uint64, from, to time.Time) (model.UsageTotals, error)
}

// QuotaAccountant aggregates metered-resource consumption per user
// and reports the remaining monthly budget.  It only reports: whether
// to deny or throttle further metered calls once the budget hits zero
// is the caller's policy decision, not the accountant's.
type QuotaAccountant struct {
	Usage UsageStore
	Limit uint64         // monthly unit budget per user
	Loc   *time.Location // reference timezone for window boundaries
}

// NewQuotaAccountant constructs an accountant with the given monthly
// limit.  A nil location defaults to UTC.
func NewQuotaAccountant(usage UsageStore, limit uint64, loc *time.Location) *QuotaAccountant {
	if loc == nil {
		loc = time.UTC
	}
	return &QuotaAccountant{Usage: usage, Limit: limit, Loc: loc}
}

// Snapshot recomputes the user's usage picture from the event log.
// "Today" covers [start of day, now) and the month window covers
// [start of month, now), both in the reference timezone.  Empty
// windows yield zero totals.  Remaining is clamped at zero so an
// over-quota month is representable without underflow.
func (q *QuotaAccountant) Snapshot(ctx context.Context, userID uint64, now time.Time) (model.QuotaSnapshot, error) {
	local := now.In(q.Loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, q.Loc)
	monthStart := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, q.Loc)

	today, err := q.Usage.SumRange(ctx, userID, dayStart, now)
	if err != nil {
		return model.QuotaSnapshot{}, err
	}
	month, err := q.Usage.SumRange(ctx, userID, monthStart, now)
	if err != nil {
		return model.QuotaSnapshot{}, err
	}

	remaining := uint64(0)
	if month.Total < q.Limit {
		remaining = q.Limit - month.Total
	}
	return model.QuotaSnapshot{
		Today:      today,
		MonthTotal: month.Total,
		Limit:      q.Limit,
		Remaining:  remaining,
	}, nil
}
