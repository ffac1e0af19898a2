package httpapi

import (
	"net/http"

	"github.com/pocketfin/pocketfin/internal/dictionary"
	"github.com/pocketfin/pocketfin/internal/finance"
)

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready.Ready(r.Context()); err != nil {
			toJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "storage not ready"})
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}

// listCategories serves the built-in category dictionary, optionally filtered
// by ?type=income|expense.
func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	var filter *finance.TransactionType
	if raw := r.URL.Query().Get("type"); raw != "" {
		typ := finance.TransactionType(raw)
		if !typ.Valid() {
			badRequest(w, "type must be income or expense")
			return
		}
		filter = &typ
	}
	toJSON(w, http.StatusOK, dictionary.CategoriesFor(filter))
}
