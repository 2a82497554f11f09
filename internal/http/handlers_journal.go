package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/fahad9993/expense-tracker-gsheet/internal/core"
)

const suggestionsCacheKey = "suggestions"

// handleFetch returns the stored record for an exact (date, account) slot.
func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date := strings.TrimSpace(q.Get("date"))
	account := strings.TrimSpace(q.Get("account"))
	if date == "" || account == "" {
		writeError(w, http.StatusBadRequest, "date and account are required")
		return
	}

	record, err := s.journal.Fetch(r.Context(), date, account)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			writeError(w, http.StatusNotFound, "entry not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch entry")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

type appendRequest struct {
	Date    string `json:"date"`
	Account string `json:"account"`
	Amount  string `json:"amount"`
	Note    string `json:"note"`
}

// handleAppend upserts a journal slot. A new row answers 201, an overwrite 200.
func (s *Server) handleAppend(w http.ResponseWriter, r *http.Request) {
	var req appendRequest
	if !decodeBody(w, r, &req) {
		return
	}

	created, err := s.journal.Upsert(r.Context(), req.Date, req.Account, req.Amount, req.Note)
	if err != nil {
		var missing *core.MissingFieldError
		if errors.As(err, &missing) {
			writeError(w, http.StatusBadRequest, missing.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to save entry")
		return
	}

	status := http.StatusOK
	message := "Entry updated"
	if created {
		status = http.StatusCreated
		message = "Entry created"
	}
	writeJSON(w, status, map[string]any{"message": message, "created": created})
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := s.cachedSuggestions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load suggestions")
		return
	}
	writeJSON(w, http.StatusOK, suggestions)
}

func (s *Server) cachedSuggestions(ctx context.Context) (core.Suggestions, error) {
	if cached, ok := s.suggestionsCache.Get(suggestionsCacheKey); ok {
		return cached, nil
	}
	suggestions, err := s.backend.Suggestions(ctx)
	if err != nil {
		return core.Suggestions{}, err
	}
	s.suggestionsCache.Set(suggestionsCacheKey, suggestions)
	return suggestions, nil
}
