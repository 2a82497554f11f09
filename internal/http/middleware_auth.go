package http

import (
	"net/http"
	"strings"
)

// requireAuth rejects requests that do not carry a valid bearer access token.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeError(w, http.StatusUnauthorized, "missing access token")
			return
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			writeError(w, http.StatusUnauthorized, "missing access token")
			return
		}
		if _, err := s.auth.VerifyAccess(strings.TrimSpace(token)); err != nil {
			writeError(w, http.StatusForbidden, "invalid or expired access token")
			return
		}
		next(w, r)
	}
}
