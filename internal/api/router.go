package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/mrtandempilot/ceyhun-sub000/internal/api/middleware"
	"github.com/mrtandempilot/ceyhun-sub000/internal/api/response"
)

// AdminDeniedMessage is returned to authenticated callers without the admin
// scope at privileged endpoints.
const AdminDeniedMessage = "Access denied. Admin only."

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	Auth      *mw.Auth
	RateLimit *mw.RateLimit

	HealthHandler         http.HandlerFunc
	SaveCredentials       http.HandlerFunc
	ListCredentials       http.HandlerFunc
	DeleteCredential      http.HandlerFunc
	TestConnectionHandler http.HandlerFunc
	TestResultHandler     http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	// Public health check
	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(deps.Auth.Authenticate)
		r.Use(deps.RateLimit.Limit)

		r.Get("/api/v1/credentials/{platform}", orNotImplemented(deps.ListCredentials))
		r.Put("/api/v1/credentials/{platform}", orNotImplemented(deps.SaveCredentials))
		r.Get("/api/v1/credentials/{platform}/test", orNotImplemented(deps.TestResultHandler))
		r.Delete("/api/v1/credentials/{platform}/{key}", orNotImplemented(deps.DeleteCredential))

		// Live connection tests reach out to third parties; admin only.
		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.RequireScope("admin", AdminDeniedMessage))

			r.Post("/api/v1/credentials/test", orNotImplemented(deps.TestConnectionHandler))
		})
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
