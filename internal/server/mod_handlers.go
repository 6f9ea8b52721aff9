package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Jocowski/democracy-mod-maker/internal/modpack"
	"github.com/Jocowski/democracy-mod-maker/internal/state"
	"github.com/Jocowski/democracy-mod-maker/pkg/core"
	"github.com/Jocowski/democracy-mod-maker/pkg/format"
	"github.com/go-chi/chi/v5"
)

// maxRequestBody caps JSON request bodies.
const maxRequestBody = 1 << 20

func (s *Server) storeError(w http.ResponseWriter, err error) {
	var fe *format.FieldError
	switch {
	case errors.Is(err, state.ErrPolicyNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, state.ErrDuplicatePolicy):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, format.ErrNothingToExport):
		writeError(w, http.StatusConflict, "nothing to export")
	case errors.As(err, &fe):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// decodePolicy reads a policy from the request body on top of the editor
// defaults.
func decodePolicy(w http.ResponseWriter, r *http.Request) (core.Policy, error) {
	p := core.DefaultPolicy("")
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return core.Policy{}, fmt.Errorf("invalid policy: %w", err)
	}
	if p.Name == "" {
		return core.Policy{}, errors.New("policy name is required")
	}
	return p, nil
}

// ListModPolicies returns the authored policies in creation order.
func (s *Server) ListModPolicies(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.ListPolicies(r.Context())
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": list, "total": len(list)})
}

// CreateModPolicy adds a policy to the workspace.
func (s *Server) CreateModPolicy(w http.ResponseWriter, r *http.Request) {
	p, err := decodePolicy(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := format.CheckPolicy(&p); err != nil {
		s.storeError(w, err)
		return
	}
	ap, err := s.store.AddPolicy(r.Context(), p)
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ap)
}

// UpdateModPolicy replaces the named policy, renaming it when the body
// carries a different name.
func (s *Server) UpdateModPolicy(w http.ResponseWriter, r *http.Request) {
	p, err := decodePolicy(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := format.CheckPolicy(&p); err != nil {
		s.storeError(w, err)
		return
	}
	ap, err := s.store.UpdatePolicy(r.Context(), chi.URLParam(r, "name"), p)
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ap)
}

// DeleteModPolicy removes the named policy.
func (s *Server) DeleteModPolicy(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeletePolicy(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetMeta returns the mod settings.
func (s *Server) GetMeta(w http.ResponseWriter, r *http.Request) {
	values, err := s.store.Meta(r.Context())
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, modpack.MetaFromMap(values))
}

// PutMeta replaces the mod settings.
func (s *Server) PutMeta(w http.ResponseWriter, r *http.Request) {
	var m modpack.Meta
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(&m); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid settings: %v", err))
		return
	}

	values := map[string]string{"name": "", "author": "", "description": "", "version": "", "guid": ""}
	for k, v := range m.Map() {
		values[k] = v
	}
	if err := s.store.SetMeta(r.Context(), values); err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// Export builds the mod archive from the workspace and returns it as a
// download.
func (s *Server) Export(w http.ResponseWriter, r *http.Request) {
	exp, err := modpack.BuildWorkspace(r.Context(), s.store)
	if err != nil {
		s.storeError(w, err)
		return
	}

	s.logger.Info("mod exported", "policies", exp.Policies, "size", exp.Size())
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", modpack.DefaultFilename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(exp.Data)
}
