package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Jocowski/democracy-mod-maker/internal/loader"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// parseQuery reads q, page, page_size and sort. Invalid numbers fall back
// to the defaults.
func parseQuery(r *http.Request) loader.Query {
	v := r.URL.Query()
	page, _ := strconv.Atoi(v.Get("page"))
	size, _ := strconv.Atoi(v.Get("page_size"))
	return loader.Query{
		Search:   v.Get("q"),
		Page:     page,
		PageSize: size,
		Sort:     v.Get("sort"),
	}
}
