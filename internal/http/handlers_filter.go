package http

import (
	"net/http"
	"strings"
)

// handleFilter lists an account's entries, optionally restricted to a month.
// Without an account it returns the selectable account names instead.
func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	account := strings.TrimSpace(r.URL.Query().Get("account"))
	if account == "" {
		suggestions, err := s.cachedSuggestions(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load accounts")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"accounts": suggestions.Accounts})
		return
	}
	month, ok := queryMonth(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "month must be between 1 and 12")
		return
	}

	rows, err := s.backend.Filter(r.Context(), month, account)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to filter entries")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": rows})
}
