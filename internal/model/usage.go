package model

import "time"

// UsageEvent records one metered call to the generative-text
// provider in the `usage_events` table.  Rows are append-only and
// immutable.  TotalUnits is always PromptUnits + CompletionUnits;
// the repository enforces the sum at insert time.
//
// Fields:
//  ID              – primary key identifier.
//  UserID          – user the consumption is attributed to.
//  PromptUnits     – units consumed by the prompt.
//  CompletionUnits – units consumed by the completion.
//  TotalUnits      – prompt + completion units.
//  CreatedAt       – timestamp of the call.
type UsageEvent struct {
	ID              uint64    // usage_events.id
	UserID          uint64    // usage_events.user_id
	PromptUnits     uint64    // usage_events.prompt_units
	CompletionUnits uint64    // usage_events.completion_units
	TotalUnits      uint64    // usage_events.total_units
	CreatedAt       time.Time // usage_events.created_at
}

// UsageTotals aggregates units over one window.
type UsageTotals struct {
	Prompt     uint64 `json:"prompt"`
	Completion uint64 `json:"completion"`
	Total      uint64 `json:"total"`
}

// QuotaSnapshot is the derived per-user usage picture for the
// current day and month.  It is recomputed from the usage_events log
// on every query and never stored.  Remaining is clamped at zero.
type QuotaSnapshot struct {
	Today      UsageTotals `json:"today"`
	MonthTotal uint64      `json:"month_total"`
	Limit      uint64      `json:"limit"`
	Remaining  uint64      `json:"remaining"`
}
