package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/SHADOW-465/LockedIn-sub001/internal/model"
	"github.com/SHADOW-465/LockedIn-sub001/internal/repository"
)

// SessionLookup resolves the caller's active enforcement session.  It
// is satisfied by *repository.SessionRepo and by test fakes.
type SessionLookup interface {
	GetActiveByUser(ctx context.Context, userID uint64) (model.Session, error)
}

// RequireUnlocked returns a middleware that rejects requests from
// users whose active enforcement session has a lockout horizon in the
// future.  It assumes JWTAuth already ran and stored "user_id" in the
// context.  Users without an active session pass through: no
// enforcement period means nothing to enforce.  The response mirrors
// the gate's locked-screen redirect so clients can route on it.
func RequireUnlocked(sessions SessionLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, ok := contextUserID(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			sess, err := sessions.GetActiveByUser(c.Request().Context(), uid)
			if err != nil {
				if errors.Is(err, repository.ErrSessionNotFound) {
					return next(c)
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session lookup failed"})
			}
			if sess.Locked(time.Now().UTC()) {
				return c.JSON(http.StatusForbidden, echo.Map{
					"error":        "locked",
					"locked_until": sess.LockedUntil.UTC(),
					"redirect":     "locked-screen",
				})
			}
			return next(c)
		}
	}
}

// contextUserID extracts the authenticated user ID from the context,
// tolerating the numeric types JWT claim decoding can produce.
func contextUserID(c echo.Context) (uint64, bool) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, true
	case int64:
		return uint64(t), true
	case int:
		return uint64(t), true
	case float64:
		return uint64(t), true
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}
