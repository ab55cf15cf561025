package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SHADOW-465/LockedIn-sub001/internal/model"
	"github.com/SHADOW-465/LockedIn-sub001/internal/service"
	"github.com/SHADOW-465/LockedIn-sub001/internal/textgen"
)

type fakeGenerator struct {
	text  string
	usage textgen.Usage
	err   error
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, textgen.Usage, error) {
	return f.text, f.usage, f.err
}

type recordingUsage struct {
	staticUsageStore
	inserted int
}

func (r *recordingUsage) Insert(ctx context.Context, userID, promptUnits, completionUnits uint64, at time.Time) error {
	r.inserted++
	return nil
}

func postAnalysis(t *testing.T, h *AnalysisHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/analysis", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(7))
	require.NoError(t, h.Analyze(c))
	return rec
}

func TestAnalyze_Success(t *testing.T) {
	t.Parallel()

	usage := &recordingUsage{}
	gen := &fakeGenerator{text: "you are slipping", usage: textgen.Usage{PromptUnits: 11, CompletionUnits: 4}}
	h := NewAnalysisHandler(gen, service.NewQuotaAccountant(usage, 1000, time.UTC), usage)

	rec := postAnalysis(t, h, `{"prompt":"review my week"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Analysis string `json:"analysis"`
		Usage    struct {
			Prompt     uint64 `json:"prompt"`
			Completion uint64 `json:"completion"`
			Total      uint64 `json:"total"`
		} `json:"usage"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "you are slipping", out.Analysis)
	assert.Equal(t, uint64(15), out.Usage.Total)
	assert.Equal(t, 1, usage.inserted)
}

func TestAnalyze_ProviderFailureDegradesToPlaceholder(t *testing.T) {
	t.Parallel()

	usage := &recordingUsage{}
	gen := &fakeGenerator{err: textgen.ErrUnavailable}
	h := NewAnalysisHandler(gen, service.NewQuotaAccountant(usage, 1000, time.UTC), usage)

	rec := postAnalysis(t, h, `{"prompt":"review my week"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Analysis string `json:"analysis"`
		Degraded bool   `json:"degraded"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, textgen.Placeholder, out.Analysis)
	assert.True(t, out.Degraded)
	// Nothing was consumed, so nothing is charged.
	assert.Equal(t, 0, usage.inserted)
}

func TestAnalyze_QuotaExhausted(t *testing.T) {
	t.Parallel()

	usage := &recordingUsage{staticUsageStore: staticUsageStore{totals: model.UsageTotals{Total: 1000}}}
	gen := &fakeGenerator{text: "never called"}
	h := NewAnalysisHandler(gen, service.NewQuotaAccountant(usage, 1000, time.UTC), usage)

	rec := postAnalysis(t, h, `{"prompt":"review my week"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, 0, usage.inserted)
}

func TestAnalyze_MissingPrompt(t *testing.T) {
	t.Parallel()

	usage := &recordingUsage{}
	h := NewAnalysisHandler(&fakeGenerator{}, service.NewQuotaAccountant(usage, 1000, time.UTC), usage)

	rec := postAnalysis(t, h, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
