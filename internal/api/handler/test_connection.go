package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mrtandempilot/ceyhun-sub000/internal/api/response"
	"github.com/mrtandempilot/ceyhun-sub000/internal/connectest"
)

// ConnectionTester is the interface the test handlers depend on.
type ConnectionTester interface {
	Test(ctx context.Context, platform string) connectest.Outcome
	CachedResult(ctx context.Context, platform string) (connectest.Outcome, bool)
}

// NewTestConnectionHandler returns the handler for POST /api/v1/credentials/test.
// Admin scope is enforced by the router; the handler only validates input and
// dispatches. Unknown platforms come back as a failed outcome, not an HTTP
// error.
func NewTestConnectionHandler(svc ConnectionTester) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Platform string `json:"platform"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		if req.Platform == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "platform is required", nil)
			return
		}

		outcome := svc.Test(r.Context(), req.Platform)
		response.JSON(w, outcome)
	}
}

// NewTestResultHandler returns the handler for
// GET /api/v1/credentials/{platform}/test. It serves the cached outcome of
// the most recent connection test without touching the platform; dashboards
// poll this instead of re-running live checks.
func NewTestResultHandler(svc ConnectionTester) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platform := chi.URLParam(r, "platform")
		if platform == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "platform is required", nil)
			return
		}

		outcome, ok := svc.CachedResult(r.Context(), platform)
		if !ok {
			response.Error(w, http.StatusNotFound, "NOT_FOUND", "No recent test result for platform", nil)
			return
		}
		response.JSON(w, outcome)
	}
}
