package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Health reports liveness and the catalog version.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	cat, _, version := s.Catalog()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"version":   version,
		"loaded_at": cat.LoadedAt,
	})
}

// ListPolicies returns a page of official policies.
func (s *Server) ListPolicies(w http.ResponseWriter, r *http.Request) {
	cat, _, _ := s.Catalog()
	writeJSON(w, http.StatusOK, cat.QueryPolicies(parseQuery(r)))
}

// ListSliders returns a page of sliders.
func (s *Server) ListSliders(w http.ResponseWriter, r *http.Request) {
	cat, _, _ := s.Catalog()
	writeJSON(w, http.StatusOK, cat.QuerySliders(parseQuery(r)))
}

// ListSimulation returns a page of simulation variables.
func (s *Server) ListSimulation(w http.ResponseWriter, r *http.Request) {
	cat, _, _ := s.Catalog()
	writeJSON(w, http.StatusOK, cat.QuerySimulation(parseQuery(r)))
}

// ListDilemmas returns a page of dilemmas.
func (s *Server) ListDilemmas(w http.ResponseWriter, r *http.Request) {
	cat, _, _ := s.Catalog()
	writeJSON(w, http.StatusOK, cat.QueryDilemmas(parseQuery(r)))
}

// GetDilemma returns one dilemma by id.
func (s *Server) GetDilemma(w http.ResponseWriter, r *http.Request) {
	cat, _, _ := s.Catalog()
	id := chi.URLParam(r, "id")
	d, ok := cat.Dilemma(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("dilemma %q not found", id))
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Report returns the summary of the last load.
func (s *Server) Report(w http.ResponseWriter, r *http.Request) {
	_, report, _ := s.Catalog()
	if report == nil {
		writeError(w, http.StatusServiceUnavailable, "catalog not loaded")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Events streams a "reload" server-sent event each time the catalog is
// reloaded. The current version is sent first.
func (s *Server) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	ch := s.notifier.Subscribe()
	defer s.notifier.Unsubscribe(ch)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	_, _, version := s.Catalog()
	send := func(v uint64) {
		_, _ = fmt.Fprintf(w, "event: reload\ndata: {\"version\":%d}\n\n", v)
		flusher.Flush()
	}
	send(version)

	keepAlive := time.NewTicker(30 * time.Second)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case v, ok := <-ch:
			if !ok {
				return
			}
			send(v)
		case <-keepAlive.C:
			_, _ = fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		}
	}
}
