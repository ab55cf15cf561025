package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SHADOW-465/LockedIn-sub001/internal/model"
	"github.com/SHADOW-465/LockedIn-sub001/internal/service"
)

// staticUsageStore returns the same totals for every window.
type staticUsageStore struct {
	totals model.UsageTotals
}

func (s *staticUsageStore) SumRange(ctx context.Context, userID uint64, from, to time.Time) (model.UsageTotals, error) {
	return s.totals, nil
}

func getUsage(t *testing.T, h *UsageHandler, target string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Usage(e.NewContext(req, rec)))
	return rec
}

func TestUsage_MissingUserID(t *testing.T) {
	t.Parallel()

	h := NewUsageHandler(service.NewQuotaAccountant(&staticUsageStore{}, 1000, time.UTC))

	rec := getUsage(t, h, "/v1/usage")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = getUsage(t, h, "/v1/usage?userId=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUsage_Snapshot(t *testing.T) {
	t.Parallel()

	store := &staticUsageStore{totals: model.UsageTotals{Prompt: 5, Completion: 7, Total: 12}}
	h := NewUsageHandler(service.NewQuotaAccountant(store, 1000, time.UTC))

	rec := getUsage(t, h, "/v1/usage?userId=42")
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Today model.UsageTotals `json:"today"`
		Month struct {
			Total uint64 `json:"total"`
		} `json:"month"`
		Limit     uint64 `json:"limit"`
		Remaining uint64 `json:"remaining"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, model.UsageTotals{Prompt: 5, Completion: 7, Total: 12}, out.Today)
	assert.Equal(t, uint64(12), out.Month.Total)
	assert.Equal(t, uint64(1000), out.Limit)
	assert.Equal(t, uint64(988), out.Remaining)
}

func TestUsage_NoEventsYieldsZeros(t *testing.T) {
	t.Parallel()

	h := NewUsageHandler(service.NewQuotaAccountant(&staticUsageStore{}, 1000, time.UTC))

	rec := getUsage(t, h, "/v1/usage?userId=42")
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Today     model.UsageTotals `json:"today"`
		Remaining uint64            `json:"remaining"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, model.UsageTotals{}, out.Today)
	assert.Equal(t, uint64(1000), out.Remaining)
}
