package http

import (
	"net/http"
	"strconv"
	"strings"

	"financas/internal/core"
)

type summaryResponse struct {
	Month               string `json:"month"`
	OpeningBalanceCents int64  `json:"opening_balance_cents"`
	CurrentBalanceCents int64  `json:"current_balance_cents"`
	ForecastCents       int64  `json:"forecast_cents"`
	IncomeCents         int64  `json:"income_cents"`
	ExpensesCents       int64  `json:"expenses_cents"`
}

func (s *Server) handleMonthlySummary(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	userID, month, ok := s.reportParams(w, r)
	if !ok {
		return
	}

	summary, err := s.reports.MonthlySummary(r.Context(), userID, month)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to compute summary")
		return
	}

	respondJSON(w, http.StatusOK, summaryResponse{
		Month:               month.MonthStart().String(),
		OpeningBalanceCents: summary.OpeningBalance.Cents,
		CurrentBalanceCents: summary.CurrentBalance.Cents,
		ForecastCents:       summary.Forecast.Cents,
		IncomeCents:         summary.Income.Cents,
		ExpensesCents:       summary.Expenses.Cents,
	})
}

func (s *Server) handleCategoryBreakdown(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	userID, month, ok := s.reportParams(w, r)
	if !ok {
		return
	}

	breakdown, err := s.reports.CategoryBreakdown(r.Context(), userID, month)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to compute breakdown")
		return
	}

	out := make(map[string]int64, len(breakdown))
	for category, amount := range breakdown {
		out[category] = amount.Cents
	}
	respondJSON(w, http.StatusOK, out)
}

type balancePointResponse struct {
	Date         core.Date `json:"date"`
	BalanceCents int64     `json:"balance_cents"`
}

func (s *Server) handleBalanceProgression(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	userID, month, ok := s.reportParams(w, r)
	if !ok {
		return
	}

	points, err := s.reports.BalanceProgression(r.Context(), userID, month)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to compute progression")
		return
	}

	out := make([]balancePointResponse, 0, len(points))
	for _, p := range points {
		out = append(out, balancePointResponse{Date: p.Date, BalanceCents: p.Balance.Cents})
	}
	respondJSON(w, http.StatusOK, out)
}

type comparisonRowResponse struct {
	Label         string `json:"label"`
	IncomeCents   int64  `json:"income_cents"`
	ExpensesCents int64  `json:"expenses_cents"`
}

func (s *Server) handleMonthlyComparison(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	userID, month, ok := s.reportParams(w, r)
	if !ok {
		return
	}

	n := 3
	if v := strings.TrimSpace(r.URL.Query().Get("months")); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 24 {
			respondError(w, http.StatusBadRequest, "months must be between 1 and 24")
			return
		}
		n = parsed
	}

	rows, err := s.reports.MonthlyComparison(r.Context(), userID, core.TrailingMonths(month, n))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to compute comparison")
		return
	}

	out := make([]comparisonRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, comparisonRowResponse{
			Label:         row.Label,
			IncomeCents:   row.Income.Cents,
			ExpensesCents: row.Expenses.Cents,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

// reportParams extracts the user_id and month parameters shared by every
// report endpoint, writing the error response itself on failure.
func (s *Server) reportParams(w http.ResponseWriter, r *http.Request) (int64, core.Date, bool) {
	userID, err := parseIDParam(r, "user_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return 0, core.Date{}, false
	}
	month, err := parseMonthParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid month")
		return 0, core.Date{}, false
	}
	return userID, month, true
}
