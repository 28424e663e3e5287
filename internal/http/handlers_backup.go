package http

import (
	"net/http"
)

func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="librospese-backup.json"`)
	if err := s.ledger.ExportJSON(r.Context(), w); err != nil {
		writeServiceError(w, err)
	}
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="librospese.csv"`)
	if err := s.ledger.ExportCSV(r.Context(), w, parseFilter(r)); err != nil {
		writeServiceError(w, err)
	}
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	f, err := s.ledger.ExportXLSX(r.Context(), parseFilter(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="librospese.xlsx"`)
	if err := f.Write(w); err != nil {
		writeServiceError(w, err)
	}
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	res, err := s.ledger.Import(r.Context(), r.Body)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.invalidateSummaries()
	writeJSON(w, http.StatusOK, res)
}
