package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"financas/internal/core"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON decodes a request body, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.Header().Set("Allow", method)
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	return true
}

// parseMonthParam reads the month query parameter, accepting "2006-01" or
// "2006-01-02". An empty parameter means the current month.
func parseMonthParam(r *http.Request) (core.Date, error) {
	v := strings.TrimSpace(r.URL.Query().Get("month"))
	return parseMonth(v)
}

func parseMonth(v string) (core.Date, error) {
	if v == "" {
		now := time.Now()
		return core.NewDate(now.Year(), int(now.Month()), 1), nil
	}
	if len(v) == len("2006-01") {
		v += "-01"
	}
	return core.ParseDate(v)
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return 0, fmt.Errorf("missing %s", name)
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// isValidationError reports whether err is a domain validation failure the
// client can correct, as opposed to an infrastructure fault.
func isValidationError(err error) bool {
	for _, v := range []error{
		core.ErrInvalidAmount,
		core.ErrInvalidKind,
		core.ErrInvalidStatus,
		core.ErrInvalidDate,
		core.ErrEmptyName,
		core.ErrEmptyTitle,
		core.ErrInvalidEmail,
		core.ErrEmptyPassword,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
