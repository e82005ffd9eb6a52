package http

import (
	"errors"
	"net/http"

	"financas/internal/core"
	"financas/internal/storage"
)

type transactionRequest struct {
	UserID      int64  `json:"user_id"`
	Kind        string `json:"kind"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

type transactionResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Kind        string    `json:"kind"`
	AmountCents int64     `json:"amount_cents"`
	Category    string    `json:"category"`
	Date        core.Date `json:"date"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListTransactions(w, r)
	case http.MethodPost:
		s.handleCreateTransaction(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID < 1 {
		respondError(w, http.StatusBadRequest, "missing user_id")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid date")
		return
	}

	id, err := s.ledger.AddTransaction(r.Context(), req.UserID,
		core.TransactionKind(req.Kind), core.Money{Cents: cents},
		req.Category, date, req.Description)
	if err != nil {
		if isValidationError(err) {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to save transaction")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "user_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	month, err := parseMonthParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid month")
		return
	}

	transactions, err := s.ledger.ListTransactions(r.Context(), userID, month)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}

	out := make([]transactionResponse, 0, len(transactions))
	for _, t := range transactions {
		out = append(out, transactionResponse{
			ID:          t.ID,
			UserID:      t.UserID,
			Kind:        string(t.Kind),
			AmountCents: t.Amount.Cents,
			Category:    t.Category,
			Date:        t.OccurredAt,
			Description: t.Description,
			Status:      t.Status,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

type payableRequest struct {
	UserID  int64  `json:"user_id"`
	Title   string `json:"title"`
	Amount  string `json:"amount"`
	DueDate string `json:"due_date"`
}

type payableResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	AmountCents int64     `json:"amount_cents"`
	DueDate     core.Date `json:"due_date"`
	Status      string    `json:"status"`
}

func (s *Server) handlePayables(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListPayables(w, r)
	case http.MethodPost:
		s.handleCreatePayable(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleCreatePayable(w http.ResponseWriter, r *http.Request) {
	var req payableRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID < 1 {
		respondError(w, http.StatusBadRequest, "missing user_id")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}
	dueDate, err := core.ParseDate(req.DueDate)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid due_date")
		return
	}

	id, err := s.ledger.AddPayable(r.Context(), req.UserID, req.Title, core.Money{Cents: cents}, dueDate)
	if err != nil {
		if isValidationError(err) {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to save payable")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleListPayables(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "user_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	payables, err := s.ledger.ListPayables(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list payables")
		return
	}

	out := make([]payableResponse, 0, len(payables))
	for _, p := range payables {
		out = append(out, payableResponse{
			ID:          p.ID,
			UserID:      p.UserID,
			Title:       p.Title,
			AmountCents: p.Amount.Cents,
			DueDate:     p.DueDate,
			Status:      string(p.Status),
		})
	}
	respondJSON(w, http.StatusOK, out)
}

type payableStatusRequest struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

func (s *Server) handlePayableStatus(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req payableStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ID < 1 {
		respondError(w, http.StatusBadRequest, "missing id")
		return
	}

	err := s.ledger.UpdatePayableStatus(r.Context(), req.ID, core.PayableStatus(req.Status))
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, http.StatusNotFound, "payable not found")
	case isValidationError(err):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "failed to update payable")
	}
}
