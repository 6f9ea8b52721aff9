package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// SetupRoutes mounts the API on router.
func SetupRoutes(router chi.Router, s *Server) {
	router.Use(
		middleware.RequestID,
		requestLogger(s.logger),
		middleware.Recoverer,
	)

	router.Get("/healthz", s.Health)

	router.Route("/api", func(r chi.Router) {
		r.Get("/policies", s.ListPolicies)
		r.Get("/sliders", s.ListSliders)
		r.Get("/simulation", s.ListSimulation)
		r.Get("/dilemmas", s.ListDilemmas)
		r.Get("/dilemmas/{id}", s.GetDilemma)
		r.Get("/report", s.Report)
		r.Get("/events", s.Events)

		r.Route("/mod", func(r chi.Router) {
			r.Get("/policies", s.ListModPolicies)
			r.Post("/policies", s.CreateModPolicy)
			r.Put("/policies/{name}", s.UpdateModPolicy)
			r.Delete("/policies/{name}", s.DeleteModPolicy)
			r.Get("/meta", s.GetMeta)
			r.Put("/meta", s.PutMeta)
			r.Post("/export", s.Export)
		})
	})
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
