package http

import (
	"errors"
	"net/http"

	"github.com/fahad9993/expense-tracker-gsheet/internal/sheets"
)

// handleFetchQuantities returns the bank note denominations and their counts.
func (s *Server) handleFetchQuantities(w http.ResponseWriter, r *http.Request) {
	bankNotes, quantities, err := s.backend.FetchQuantities(r.Context())
	if err != nil {
		if errors.Is(err, sheets.ErrUnsupported) {
			writeError(w, http.StatusNotImplemented, "quantities are unavailable on this backend")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load quantities")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"bankNotes":  bankNotes,
		"quantities": quantities,
	})
}

type updateQuantitiesRequest struct {
	Quantities []int `json:"quantities"`
}

func (s *Server) handleUpdateQuantities(w http.ResponseWriter, r *http.Request) {
	var req updateQuantitiesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Quantities) == 0 {
		writeError(w, http.StatusBadRequest, "quantities are required")
		return
	}

	if err := s.backend.UpdateQuantities(r.Context(), req.Quantities); err != nil {
		if errors.Is(err, sheets.ErrUnsupported) {
			writeError(w, http.StatusNotImplemented, "quantities are unavailable on this backend")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update quantities")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Quantities updated"})
}
