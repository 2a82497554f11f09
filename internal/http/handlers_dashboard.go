package http

import (
	"errors"
	"net/http"

	"github.com/fahad9993/expense-tracker-gsheet/internal/sheets"
)

const dashboardCacheKey = "dashboard"

// handleDashboard returns the agent balances, variance and pie chart series.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if cached, ok := s.dashboardCache.Get(dashboardCacheKey); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	dashboard, err := s.backend.ReadDashboard(r.Context())
	if err != nil {
		if errors.Is(err, sheets.ErrUnsupported) {
			writeError(w, http.StatusNotImplemented, "dashboard is unavailable on this backend")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	s.dashboardCache.Set(dashboardCacheKey, dashboard)
	writeJSON(w, http.StatusOK, dashboard)
}

type updateAmountsRequest struct {
	Amounts []float64 `json:"amounts"`
}

// handleUpdateAmounts writes new agent balances and drops the cached snapshot.
func (s *Server) handleUpdateAmounts(w http.ResponseWriter, r *http.Request) {
	var req updateAmountsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Amounts) != 4 {
		writeError(w, http.StatusBadRequest, "invalid or missing amounts")
		return
	}

	// The fourth amount cell holds a sheet formula, only the first three are
	// written back.
	if err := s.backend.UpdateAmounts(r.Context(), req.Amounts[:3]); err != nil {
		if errors.Is(err, sheets.ErrUnsupported) {
			writeError(w, http.StatusNotImplemented, "dashboard is unavailable on this backend")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update amounts")
		return
	}
	s.dashboardCache.Delete(dashboardCacheKey)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Amounts updated"})
}
