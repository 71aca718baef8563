package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	errMissingAmount = errors.New("amount is required")
	errInvalidAmount = errors.New("amount must be a number")
	errInvalidDate   = errors.New("date must be YYYY-MM-DD or RFC 3339")
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// parseAmount accepts the amount as a JSON number or a numeric string.
func parseAmount(raw json.Number) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw.String())
	if s == "" {
		return decimal.Decimal{}, errMissingAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, errInvalidAmount
	}
	return d, nil
}

// parseDate accepts a calendar date or a full timestamp. An empty value
// means now.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now(), nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, errInvalidDate
}
