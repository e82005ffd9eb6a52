package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"financas/internal/auth"
	"financas/internal/export"
	"financas/internal/ledger"
	"financas/internal/report"
	"financas/internal/storage"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	dir := t.TempDir()
	repo, err := storage.NewSQLiteRepository(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	reports := report.NewService(repo)
	exporter := export.NewExporter(repo, reports, export.DefaultFormat())

	s := NewServer("127.0.0.1:0",
		auth.NewService(repo),
		ledger.NewService(repo, nil),
		reports,
		exporter,
		filepath.Join(dir, "reports"))
	t.Cleanup(s.rateLimiter.stop)

	ts := httptest.NewServer(s.Server.Handler)
	t.Cleanup(ts.Close)
	return s, ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func registerUser(t *testing.T, baseURL string) int64 {
	t.Helper()
	resp := postJSON(t, baseURL+"/api/register", map[string]string{
		"name": "Maria", "email": "maria@example.com", "password": "s3cret",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postJSON(t, baseURL+"/api/login", map[string]string{
		"email": "maria@example.com", "password": "s3cret",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	var user struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, resp, &user)
	return user.ID
}

func TestRegisterAndLogin(t *testing.T) {
	_, ts := newTestServer(t)

	userID := registerUser(t, ts.URL)
	if userID < 1 {
		t.Fatalf("user id = %d", userID)
	}

	// Same email again is a conflict, not an error.
	resp := postJSON(t, ts.URL+"/api/register", map[string]string{
		"name": "Other", "email": "MARIA@example.com", "password": "other",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want 409", resp.StatusCode)
	}
	resp.Body.Close()

	// Wrong password is unauthorized.
	resp = postJSON(t, ts.URL+"/api/login", map[string]string{
		"email": "maria@example.com", "password": "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, want 401", resp.StatusCode)
	}
	resp.Body.Close()

	// Malformed email is a validation failure.
	resp = postJSON(t, ts.URL+"/api/register", map[string]string{
		"name": "X", "email": "not-an-email", "password": "pw",
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("invalid email status = %d, want 422", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestGetUser(t *testing.T) {
	_, ts := newTestServer(t)
	userID := registerUser(t, ts.URL)

	resp, err := http.Get(fmt.Sprintf("%s/api/users?id=%d", ts.URL, userID))
	if err != nil {
		t.Fatalf("GET user: %v", err)
	}
	var user struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	decodeBody(t, resp, &user)
	if user.Name != "Maria" || user.Email != "maria@example.com" {
		t.Errorf("unexpected user: %+v", user)
	}

	resp, err = http.Get(ts.URL + "/api/users?id=999")
	if err != nil {
		t.Fatalf("GET user: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown user status = %d, want 404", resp.StatusCode)
	}
}

func TestTransactionLifecycle(t *testing.T) {
	_, ts := newTestServer(t)
	userID := registerUser(t, ts.URL)

	resp := postJSON(t, ts.URL+"/api/transactions", map[string]any{
		"user_id": userID, "kind": "income", "amount": "4200,00",
		"category": "Salary", "date": "2026-08-05", "description": "Paycheck",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create transaction status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Blank category falls back to the default.
	resp = postJSON(t, ts.URL+"/api/transactions", map[string]any{
		"user_id": userID, "kind": "expense", "amount": "99.90", "date": "2026-08-20",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create transaction status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, err := http.Get(fmt.Sprintf("%s/api/transactions?user_id=%d&month=2026-08", ts.URL, userID))
	if err != nil {
		t.Fatalf("GET transactions: %v", err)
	}
	var list []transactionResponse
	decodeBody(t, resp, &list)
	if len(list) != 2 {
		t.Fatalf("got %d transactions, want 2", len(list))
	}
	if list[0].AmountCents != 420000 || list[0].Kind != "income" {
		t.Errorf("unexpected first transaction: %+v", list[0])
	}
	if list[1].Category != "Other" {
		t.Errorf("blank category = %q, want Other", list[1].Category)
	}

	// Unknown kind is rejected before storage.
	resp = postJSON(t, ts.URL+"/api/transactions", map[string]any{
		"user_id": userID, "kind": "transfer", "amount": "10,00", "date": "2026-08-01",
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("invalid kind status = %d, want 422", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestPayableLifecycle(t *testing.T) {
	_, ts := newTestServer(t)
	userID := registerUser(t, ts.URL)

	resp := postJSON(t, ts.URL+"/api/payables", map[string]any{
		"user_id": userID, "title": "Electricity bill", "amount": "280,00", "due_date": "2026-08-25",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create payable status = %d", resp.StatusCode)
	}
	var created struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, resp, &created)

	resp = postJSON(t, ts.URL+"/api/payables/status", map[string]any{
		"id": created.ID, "status": "paid",
	})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status update = %d, want 204", resp.StatusCode)
	}
	resp.Body.Close()

	resp, err := http.Get(fmt.Sprintf("%s/api/payables?user_id=%d", ts.URL, userID))
	if err != nil {
		t.Fatalf("GET payables: %v", err)
	}
	var list []payableResponse
	decodeBody(t, resp, &list)
	if len(list) != 1 || list[0].Status != "paid" {
		t.Fatalf("unexpected payables: %+v", list)
	}

	resp = postJSON(t, ts.URL+"/api/payables/status", map[string]any{"id": int64(999), "status": "paid"})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown payable status = %d, want 404", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postJSON(t, ts.URL+"/api/payables/status", map[string]any{"id": created.ID, "status": "overdue"})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("invalid status = %d, want 422", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestMonthlySummaryEndpoint(t *testing.T) {
	_, ts := newTestServer(t)
	userID := registerUser(t, ts.URL)

	for _, body := range []map[string]any{
		{"user_id": userID, "kind": "income", "amount": "4200,00", "date": "2026-08-05"},
		{"user_id": userID, "kind": "expense", "amount": "1200,00", "date": "2026-08-20"},
	} {
		resp := postJSON(t, ts.URL+"/api/transactions", body)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("seed transaction status = %d", resp.StatusCode)
		}
		resp.Body.Close()
	}
	resp := postJSON(t, ts.URL+"/api/payables", map[string]any{
		"user_id": userID, "title": "Internet", "amount": "120,00", "due_date": "2026-08-28",
	})
	resp.Body.Close()

	resp, err := http.Get(fmt.Sprintf("%s/api/reports/summary?user_id=%d&month=2026-08", ts.URL, userID))
	if err != nil {
		t.Fatalf("GET summary: %v", err)
	}
	var summary summaryResponse
	decodeBody(t, resp, &summary)

	if summary.Month != "2026-08-01" {
		t.Errorf("month = %q", summary.Month)
	}
	if summary.CurrentBalanceCents != 300000 {
		t.Errorf("current balance = %d, want 300000", summary.CurrentBalanceCents)
	}
	if summary.ForecastCents != 288000 {
		t.Errorf("forecast = %d, want 288000", summary.ForecastCents)
	}
}

func TestExportMonthEndpoint(t *testing.T) {
	s, ts := newTestServer(t)
	userID := registerUser(t, ts.URL)

	resp := postJSON(t, ts.URL+"/api/transactions", map[string]any{
		"user_id": userID, "kind": "income", "amount": "4200,00", "category": "Salary", "date": "2026-08-05",
	})
	resp.Body.Close()

	resp = postJSON(t, ts.URL+"/api/exports/month", map[string]any{
		"user_id": userID, "month": "2026-08", "file": "../escape.csv",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("export status = %d", resp.StatusCode)
	}
	var out struct {
		Path string `json:"path"`
	}
	decodeBody(t, resp, &out)

	// The traversal attempt must be confined to the export directory.
	if filepath.Dir(out.Path) != s.exportDir {
		t.Fatalf("export escaped directory: %q", out.Path)
	}
	content, err := os.ReadFile(out.Path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(content), "Income;R$ 4.200,00") {
		t.Errorf("export missing income line:\n%s", content)
	}

	resp = postJSON(t, ts.URL+"/api/exports/month", map[string]any{
		"user_id": int64(999), "month": "2026-08",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown user export status = %d, want 404", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestMethodNotAllowed(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/register")
	if err != nil {
		t.Fatalf("GET register: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
	if allow := resp.Header.Get("Allow"); allow != "POST" {
		t.Errorf("Allow = %q, want POST", allow)
	}
}
