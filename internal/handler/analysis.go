package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/SHADOW-465/LockedIn-sub001/internal/service"
	"github.com/SHADOW-465/LockedIn-sub001/internal/textgen"
)

// Generator is the slice of the textgen client the analysis endpoint
// needs; satisfied by *textgen.Client and by test fakes.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, textgen.Usage, error)
}

// UsageRecorder appends one metered usage event after a successful
// provider call.
type UsageRecorder interface {
	Insert(ctx context.Context, userID, promptUnits, completionUnits uint64, at time.Time) error
}

// AnalysisHandler runs free-text analysis through the generative-text
// provider, metered against the caller's monthly quota.  This is the
// one caller that exercises the quota policy: once the accountant
// reports zero remaining units, further calls are denied.
type AnalysisHandler struct {
	Gen   Generator
	Quota *service.QuotaAccountant
	Usage UsageRecorder
}

func NewAnalysisHandler(gen Generator, quota *service.QuotaAccountant, usage UsageRecorder) *AnalysisHandler {
	if gen == nil || quota == nil || usage == nil {
		panic("nil dependency passed to NewAnalysisHandler")
	}
	return &AnalysisHandler{Gen: gen, Quota: quota, Usage: usage}
}

// Analyze handles POST /v1/analysis.  The quota is consulted before
// the metered call and the usage event is recorded after it.  A
// provider failure degrades to the documented placeholder text
// instead of aborting: the client still gets a usable response, and
// no usage is charged since nothing was consumed.
func (h *AnalysisHandler) Analyze(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Prompt) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "prompt is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	snap, err := h.Quota.Snapshot(ctx, uid, time.Now())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "usage query failed"})
	}
	if snap.Remaining == 0 {
		return c.JSON(http.StatusTooManyRequests, echo.Map{
			"error": "monthly quota exhausted",
			"limit": snap.Limit,
		})
	}

	text, usage, err := h.Gen.Generate(ctx, req.Prompt)
	if err != nil {
		log.Printf("analysis: generate failed for user %d: %v", uid, err)
		return c.JSON(http.StatusOK, echo.Map{
			"analysis": textgen.Placeholder,
			"degraded": true,
		})
	}

	if err := h.Usage.Insert(ctx, uid, usage.PromptUnits, usage.CompletionUnits, time.Now()); err != nil {
		// The provider call already happened; losing the event is an
		// accounting gap worth logging loudly, not a reason to throw
		// away the result the user paid for.
		log.Printf("analysis: record usage failed for user %d: %v", uid, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"analysis": text,
		"usage": echo.Map{
			"prompt":     usage.PromptUnits,
			"completion": usage.CompletionUnits,
			"total":      usage.PromptUnits + usage.CompletionUnits,
		},
	})
}
