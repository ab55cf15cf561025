package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/SHADOW-465/LockedIn-sub001/internal/gate"
	"github.com/SHADOW-465/LockedIn-sub001/internal/repository"
)

// GateHandler evaluates the access gate for the caller's current
// snapshot.  The route sits outside the JWT middleware on purpose:
// the gate must also answer for unauthenticated callers, so the
// bearer token is parsed leniently here: an absent or invalid token
// simply means an unauthenticated snapshot, not a 401.
type GateHandler struct {
	Secret   string
	Users    *repository.UserRepo
	Sessions *repository.SessionRepo
}

func NewGateHandler(secret string, users *repository.UserRepo, sessions *repository.SessionRepo) *GateHandler {
	return &GateHandler{Secret: secret, Users: users, Sessions: sessions}
}

// Evaluate handles GET /v1/gate?route=.  It assembles the snapshot
// (identity from the bearer token, profile and lockout from the
// stores) and returns the pure gate decision.  The decision itself
// never fails; only snapshot assembly can, and a store outage maps
// to 503 rather than a fabricated decision.
func (h *GateHandler) Evaluate(c echo.Context) error {
	route := gate.ParseRoute(c.QueryParam("route"))

	uid, authenticated := h.bearerSubject(c)
	snap := gate.Snapshot{Authenticated: authenticated, Route: route}

	if authenticated {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		u, err := h.Users.GetByID(ctx, uid)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
			}
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "profile store unavailable"})
		}
		snap.Profile = &gate.ProfileState{OnboardingCompleted: u.OnboardingCompleted}

		sess, err := h.Sessions.GetActiveByUser(ctx, uid)
		switch {
		case err == nil:
			snap.Locked = sess.Locked(time.Now().UTC())
		case errors.Is(err, repository.ErrSessionNotFound):
			// No enforcement period: not locked.
		default:
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "session store unavailable"})
		}
	}

	d := gate.Evaluate(snap)
	if d.Action == gate.Allow {
		return c.JSON(http.StatusOK, echo.Map{"decision": "allow"})
	}
	return c.JSON(http.StatusOK, echo.Map{"decision": "redirect", "target": d.Target})
}

// bearerSubject extracts the user ID from a valid bearer token and
// reports whether the caller is authenticated.
func (h *GateHandler) bearerSubject(c echo.Context) (uint64, bool) {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return 0, false
	}
	tok, err := jwt.Parse(strings.TrimPrefix(auth, "Bearer "), func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.ErrUnauthorized
		}
		return []byte(h.Secret), nil
	})
	if err != nil || !tok.Valid {
		return 0, false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	switch sub := claims["sub"].(type) {
	case float64:
		return uint64(sub), true
	case uint64:
		return sub, true
	}
	return 0, false
}
