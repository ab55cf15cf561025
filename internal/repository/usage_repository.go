package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/SHADOW-465/LockedIn-sub001/internal/model"
)

// UsageRepo provides access to the append-only usage_events log.
// Events are immutable once written; aggregation always happens
// against the log itself, never against a cached rollup.
type UsageRepo struct {
	db *sql.DB
}

// NewUsageRepo returns a new UsageRepo bound to the provided database.
func NewUsageRepo(db *sql.DB) *UsageRepo { return &UsageRepo{db: db} }

// Insert appends one usage event.  TotalUnits is derived here from
// prompt+completion so the invariant cannot drift even if callers
// pass an inconsistent struct.
func (r *UsageRepo) Insert(ctx context.Context, userID, promptUnits, completionUnits uint64, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO usage_events (user_id, prompt_units, completion_units, total_units, created_at) VALUES (?,?,?,?,?)",
		userID, promptUnits, completionUnits, promptUnits+completionUnits, at.UTC())
	return err
}

// SumRange aggregates events for a user in [from, to).  An empty
// range yields zero totals, not an error.
func (r *UsageRepo) SumRange(ctx context.Context, userID uint64, from, to time.Time) (model.UsageTotals, error) {
	var t model.UsageTotals
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(prompt_units),0), COALESCE(SUM(completion_units),0), COALESCE(SUM(total_units),0)
		 FROM usage_events WHERE user_id=? AND created_at >= ? AND created_at < ?`,
		userID, from.UTC(), to.UTC()).Scan(&t.Prompt, &t.Completion, &t.Total)
	return t, err
}
