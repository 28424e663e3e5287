package http

import (
	"io"
	"net/http"
	"strconv"
	"strings"
)

func (s *Server) handlePutAttachment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxAttachmentBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "attachment too large")
		return
	}

	name := sanitizeInput(r.URL.Query().Get("name"))
	mimeType := r.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	if err := s.ledger.PutAttachment(r.Context(), id, name, mimeType, data); err != nil {
		writeServiceError(w, err)
		return
	}

	s.invalidateSummaries()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetAttachment(w http.ResponseWriter, r *http.Request) {
	a, err := s.ledger.GetAttachment(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "no attachment")
		return
	}

	w.Header().Set("Content-Type", a.Type)
	w.Header().Set("Content-Length", strconv.FormatInt(a.Size, 10))
	if a.Name != "" {
		name := strings.ReplaceAll(a.Name, `"`, "")
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	}
	w.WriteHeader(http.StatusOK)
	w.Write(a.Data)
}

func (s *Server) handleDeleteAttachment(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteAttachment(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}

	s.invalidateSummaries()
	w.WriteHeader(http.StatusNoContent)
}
