package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/SHADOW-465/LockedIn-sub001/internal/repository"
)

// SessionHandler exposes enforcement sessions: opening a new period
// and inspecting the current one with its violation audit trail.
type SessionHandler struct {
	Sessions *repository.SessionRepo
}

func NewSessionHandler(sessions *repository.SessionRepo) *SessionHandler {
	if sessions == nil {
		panic("nil repository passed to NewSessionHandler")
	}
	return &SessionHandler{Sessions: sessions}
}

type violationPart struct {
	ViolationType string    `json:"violation_type"`
	TierAtTime    string    `json:"tier_at_time"`
	HoursApplied  int       `json:"hours_applied"`
	Reason        *string   `json:"reason,omitempty"`
	AppliedAt     time.Time `json:"applied_at"`
}

// Open handles POST /v1/sessions.  A new ACTIVE enforcement session
// supersedes the previous one; prior sessions and their audit trails
// are kept forever.
func (h *SessionHandler) Open(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sess, err := h.Sessions.Open(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "open session failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"session_id": sess.ID, "status": sess.Status})
}

// Current handles GET /v1/sessions/current: the caller's active
// session, lockout state and full violation log in application order.
func (h *SessionHandler) Current(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sess, err := h.Sessions.GetActiveByUser(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no active session"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	violations, err := h.Sessions.ViolationsBySession(ctx, sess.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	parts := make([]violationPart, 0, len(violations))
	for _, v := range violations {
		parts = append(parts, violationPart{
			ViolationType: v.ViolationType,
			TierAtTime:    v.TierAtTime,
			HoursApplied:  v.HoursApplied,
			Reason:        v.Reason,
			AppliedAt:     v.AppliedAt,
		})
	}

	resp := echo.Map{
		"session_id": sess.ID,
		"status":     sess.Status,
		"locked":     sess.Locked(time.Now().UTC()),
		"violations": parts,
	}
	if sess.LockedUntil != nil {
		resp["locked_until"] = sess.LockedUntil.UTC()
	}
	return c.JSON(http.StatusOK, resp)
}
