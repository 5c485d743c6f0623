package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/okian/skipcheck/internal/domain/types"
)

// AnalyzeDependencies defines the interface for analysis operations.
type AnalyzeDependencies interface {
	Analyze(ctx context.Context, rawHandle string) (types.Report, error)
}

// AnalyzeHandler handles analysis requests.
type AnalyzeHandler struct {
	deps AnalyzeDependencies
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(deps AnalyzeDependencies) *AnalyzeHandler {
	return &AnalyzeHandler{deps: deps}
}

// HandleAnalyze handles GET /analyze/{handle} requests.
// The response is all or nothing: a failed history fetch yields an error body
// even though the profile was fetched.
func (h *AnalyzeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	raw := strings.TrimPrefix(r.URL.EscapedPath(), "/analyze/")
	if strings.Contains(raw, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	handle, err := url.PathUnescape(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	// Blank handles reach the engine so they fail as invalid_input.
	report, err := h.deps.Analyze(r.Context(), handle)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
