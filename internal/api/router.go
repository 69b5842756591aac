package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestID)
	r.Use(s.recovery)
	r.Use(s.requestLogging)
	r.Use(s.cors)
	r.Use(s.bodySizeLimit)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Route("/templates", func(r chi.Router) {
				r.Get("/", s.handleListTemplates)
				r.Post("/", s.handleCreateTemplate)
				r.Delete("/", s.handleDeleteAllTemplates)

				r.Get("/{id}", s.handleGetTemplate)
				r.Put("/{id}", s.handleUpdateTemplate)
				r.Delete("/{id}", s.handleDeleteTemplate)
			})
		})

		// WebSocket authentication happens in the handler: browsers
		// cannot set an Authorization header on the upgrade request.
		r.Get("/ws/events", s.handleEventStream)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ok"
	checks := make(map[string]string, len(s.deps.HealthChecks))
	for name, check := range s.deps.HealthChecks {
		if err := check(ctx); err != nil {
			status = "degraded"
			checks[name] = err.Error()
		} else {
			checks[name] = "ok"
		}
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{
		"status": status,
		"checks": checks,
	})
}
