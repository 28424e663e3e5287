package http

import (
	"net/http"
	"strings"
)

const icsContentType = "text/calendar; charset=utf-8"

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	var (
		feed string
		err  error
	)
	if isFlagSet(r.URL.Query().Get("upcoming")) {
		feed, err = s.ledger.CalendarUpcoming(r.Context())
	} else {
		feed, err = s.ledger.CalendarMonth(r.Context(), strings.TrimSpace(r.URL.Query().Get("month")))
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", icsContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="scadenze.ics"`)
	w.Write([]byte(feed))
}

func (s *Server) handleRecordCalendar(w http.ResponseWriter, r *http.Request) {
	feed, err := s.ledger.CalendarRecord(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", icsContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="scadenza.ics"`)
	w.Write([]byte(feed))
}
