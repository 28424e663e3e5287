package http

import (
	"encoding/json"
	"net/http"
	"slices"

	"librospese/internal/core"
)

type listResponse struct {
	Records      []core.Record `json:"records"`
	WithReceipt  []string      `json:"withReceipt"`
	VisibleTotal core.Amount   `json:"visibleTotal"`
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	res, err := s.ledger.List(r.Context(), parseFilter(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	withReceipt := make([]string, 0, len(res.WithReceipt))
	for id := range res.WithReceipt {
		withReceipt = append(withReceipt, id)
	}
	slices.Sort(withReceipt)

	if res.Records == nil {
		res.Records = []core.Record{}
	}
	writeJSON(w, http.StatusOK, listResponse{
		Records:      res.Records,
		WithReceipt:  withReceipt,
		VisibleTotal: res.VisibleTotal,
	})
}

type createRecordRequest struct {
	Date       core.Date     `json:"date"`
	Category   core.Category `json:"category"`
	Amount     core.Amount   `json:"amount"`
	Note       string        `json:"note"`
	DueDate    core.Date     `json:"dueDate"`
	RemindDays int           `json:"remindDays"`
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var req createRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	rec := core.NewRecord(req.Date, req.Category, req.Amount, sanitizeInput(req.Note))
	rec.DueDate = req.DueDate
	rec.RemindDays = req.RemindDays

	if err := s.ledger.Add(r.Context(), rec); err != nil {
		writeServiceError(w, err)
		return
	}

	s.invalidateSummaries()
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}

	s.invalidateSummaries()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	rec, err := s.ledger.MarkPaid(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.invalidateSummaries()
	writeJSON(w, http.StatusOK, rec)
}
