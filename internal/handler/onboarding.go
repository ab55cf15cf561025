package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/SHADOW-465/LockedIn-sub001/internal/punishment"
	"github.com/SHADOW-465/LockedIn-sub001/internal/repository"
)

// OnboardingHandler mutates the profile fields the onboarding flow
// owns: the completion flag and the strictness tier.
type OnboardingHandler struct {
	Users *repository.UserRepo
}

func NewOnboardingHandler(users *repository.UserRepo) *OnboardingHandler {
	if users == nil {
		panic("nil repository passed to NewOnboardingHandler")
	}
	return &OnboardingHandler{Users: users}
}

// Complete handles POST /v1/onboarding/complete.  Completing twice is
// harmless; the flag just stays set.
func (h *OnboardingHandler) Complete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.CompleteOnboarding(ctx, uid); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"onboarding_completed": true})
}

// SetTier handles PUT /v1/profile/tier.  The tier name must be one of
// the defined tiers; this endpoint is a deliberate choice, not the
// fallback normalization the punishment table applies.
func (h *OnboardingHandler) SetTier(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req struct {
		Tier string `json:"tier"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Tier) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tier is required"})
	}
	name := strings.ToUpper(strings.TrimSpace(req.Tier))
	if punishment.ParseTier(name).String() != name {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown tier"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.SetTier(ctx, uid, name); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"tier": name})
}
