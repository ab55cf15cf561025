package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/SHADOW-465/LockedIn-sub001/internal/punishment"
	"github.com/SHADOW-465/LockedIn-sub001/internal/queue"
	"github.com/SHADOW-465/LockedIn-sub001/internal/repository"
	"github.com/SHADOW-465/LockedIn-sub001/internal/service"
)

// PunishHandler exposes the penalty application service and the
// read-only penalty preview.  Publish is called after a successful
// application; it defaults to the RabbitMQ publisher and is
// best-effort, since the penalty is already committed when it runs.
type PunishHandler struct {
	Svc     *service.PenaltyService
	Publish func(ctx context.Context, ev queue.ViolationAppliedEvent) error
}

// NewPunishHandler constructs a PunishHandler wired to the broker
// publisher.
func NewPunishHandler(svc *service.PenaltyService) *PunishHandler {
	if svc == nil {
		panic("nil service passed to NewPunishHandler")
	}
	return &PunishHandler{Svc: svc, Publish: queue.PublishViolationApplied}
}

type punishReq struct {
	UserID        uint64 `json:"userId"`
	SessionID     string `json:"sessionId"`
	ViolationType string `json:"violationType"`
	Tier          string `json:"tier"`
	Reason        string `json:"reason"`
}

type punishResp struct {
	HoursApplied   int       `json:"hours_applied"`
	NewLockedUntil time.Time `json:"new_locked_until"`
	Timestamp      time.Time `json:"timestamp"`
}

// Apply handles POST /v1/punish.  It validates the report, applies
// the penalty through the service and returns the new lockout
// horizon.  Validation failures are 400 and carry no side effects;
// unknown session/user is 404; a lost concurrency race after retries
// is 409 so the caller can resubmit; persistence failure is 500 and
// is never masked as success.
func (h *PunishHandler) Apply(c echo.Context) error {
	var req punishReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.UserID == 0 || req.SessionID == "" || req.ViolationType == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "userId, sessionId and violationType are required"})
	}
	if req.Tier == "" {
		// Reports usually carry the tier; fall back to the caller's
		// JWT tier claim when omitted.
		req.Tier = contextTier(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Svc.Apply(ctx, service.ApplyRequest{
		SessionID:     req.SessionID,
		UserID:        req.UserID,
		ViolationType: req.ViolationType,
		Tier:          req.Tier,
		Reason:        req.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSessionNotFound), errors.Is(err, repository.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session or user not found"})
		case errors.Is(err, service.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "concurrent update, retry"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "apply failed"})
		}
	}

	if h.Publish != nil {
		_ = h.Publish(ctx, queue.ViolationAppliedEvent{
			SessionID:      req.SessionID,
			UserID:         req.UserID,
			ViolationType:  punishment.Normalize(req.ViolationType),
			TierAtTime:     punishment.ParseTier(req.Tier).String(),
			HoursApplied:   res.HoursApplied,
			Reason:         req.Reason,
			NewLockedUntil: res.NewLockedUntil.UTC().Format(time.RFC3339),
			AppliedAt:      time.Now().UTC().Format(time.RFC3339),
		})
	}

	return c.JSON(http.StatusOK, punishResp{
		HoursApplied:   res.HoursApplied,
		NewLockedUntil: res.NewLockedUntil.UTC(),
		Timestamp:      time.Now().UTC(),
	})
}

// Preview handles GET /v1/punish?type=&tier=.  It runs the same
// penalty computation as Apply but commits nothing and appends no
// audit record; calling it any number of times changes no state.
// Missing parameters fall back to the documented defaults.
func (h *PunishHandler) Preview(c echo.Context) error {
	vt := punishment.Normalize(c.QueryParam("type"))
	tier := punishment.ParseTier(c.QueryParam("tier"))
	return c.JSON(http.StatusOK, echo.Map{
		"violationType": vt,
		"tier":          tier.String(),
		"hours":         punishment.Preview(vt, tier),
	})
}
