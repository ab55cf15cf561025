package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/SHADOW-465/LockedIn-sub001/internal/service"
)

// UsageHandler exposes the quota accountant's per-user snapshot.
type UsageHandler struct {
	Quota *service.QuotaAccountant
}

func NewUsageHandler(q *service.QuotaAccountant) *UsageHandler {
	if q == nil {
		panic("nil accountant passed to NewUsageHandler")
	}
	return &UsageHandler{Quota: q}
}

// Usage handles GET /v1/usage?userId=.  The snapshot is recomputed
// from the usage event log on every call; a user with no events in
// range gets all-zero totals, not an error.
func (h *UsageHandler) Usage(c echo.Context) error {
	raw := c.QueryParam("userId")
	if raw == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "userId is required"})
	}
	userID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || userID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid userId"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	snap, err := h.Quota.Snapshot(ctx, userID, time.Now())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "usage query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"today":     snap.Today,
		"month":     echo.Map{"total": snap.MonthTotal},
		"limit":     snap.Limit,
		"remaining": snap.Remaining,
	})
}
