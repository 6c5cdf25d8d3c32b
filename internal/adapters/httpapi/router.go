package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs the API HTTP router.
//
// This is intentionally a thin adapter: it wires routes and middleware and
// delegates to the Server handlers, which in turn delegate to the
// application services.
func NewRouter(s *Server, authMiddleware func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	// Baseline production-safe middleware (minimal but useful).
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(authMiddleware)

	// Health endpoint is unauthenticated (used for infra checks).
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/sync/members", s.handleSyncMembers)
	r.Post("/notifications/fleet", s.handleFleetNotification)
	r.Post("/notifications/send", s.handleDirectNotification)
	r.Post("/notifications/crew", s.handleCrewNotification)
	r.Post("/scores", s.handleSubmitScore)
	r.Post("/scores/batch", s.handleSubmitScoreBatch)
	r.Post("/line-items/sync", s.handleLineItemSync)
	r.Post("/portal/sessions", s.handlePortalSession)

	return r
}
