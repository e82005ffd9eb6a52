package http

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"financas/internal/core"
	"financas/internal/storage"
)

type exportRequest struct {
	UserID int64  `json:"user_id"`
	Month  string `json:"month"`
	Months int    `json:"months"`
	File   string `json:"file"`
}

func (s *Server) handleExportMonth(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	req, month, ok := s.exportParams(w, r)
	if !ok {
		return
	}

	dest := s.exportDestination(req.File, fmt.Sprintf("report-%s.csv", month.Format("2006-01")))
	path, err := s.exporter.ExportMonth(r.Context(), req.UserID, month, dest)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "user not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "export failed")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"path": path})
}

func (s *Server) handleExportRange(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	req, month, ok := s.exportParams(w, r)
	if !ok {
		return
	}
	n := req.Months
	if n == 0 {
		n = 3
	}
	if n < 1 || n > 24 {
		respondError(w, http.StatusBadRequest, "months must be between 1 and 24")
		return
	}

	dest := s.exportDestination(req.File, fmt.Sprintf("report-range-%s.csv", month.Format("2006-01")))
	path, err := s.exporter.ExportRange(r.Context(), req.UserID, core.TrailingMonths(month, n), dest)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "user not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "export failed")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"path": path})
}

func (s *Server) exportParams(w http.ResponseWriter, r *http.Request) (exportRequest, core.Date, bool) {
	var req exportRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return req, core.Date{}, false
	}
	if req.UserID < 1 {
		respondError(w, http.StatusBadRequest, "missing user_id")
		return req, core.Date{}, false
	}
	month, err := parseMonth(strings.TrimSpace(req.Month))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid month")
		return req, core.Date{}, false
	}
	return req, month, true
}

// exportDestination keeps client-supplied filenames inside the export
// directory. Only the base name is honored.
func (s *Server) exportDestination(file, fallback string) string {
	name := filepath.Base(strings.TrimSpace(file))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = fallback
	}
	return filepath.Join(s.exportDir, name)
}
