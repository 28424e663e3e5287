package http

import (
	"net/http"
	"strings"

	"librospese/internal/core"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	month := strings.TrimSpace(r.URL.Query().Get("month"))
	if month == "" {
		month = core.CurrentMonthKey()
	}

	if cached, ok := s.summaryCache.Get(month); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	sum, err := s.ledger.Summary(r.Context(), month)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.summaryCache.Set(month, sum)
	writeJSON(w, http.StatusOK, sum)
}
