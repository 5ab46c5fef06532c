package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"spese/internal/core"
)

const (
	// maxBodyBytes bounds JSON and CSV request bodies.
	maxBodyBytes = 5 << 20
	// defaultOwner is used when a request names no owner.
	defaultOwner int64 = 1
)

var errBadOwner = errors.New("owner must be a positive integer")

// MonthParams holds parsed year/month values from request parameters.
type MonthParams struct {
	Year  int
	Month int
}

// ParseMonthParams extracts year and month from query parameters, using the
// current date for missing or unparsable values.
func ParseMonthParams(query url.Values) MonthParams {
	now := time.Now()
	params := MonthParams{
		Year:  now.Year(),
		Month: int(now.Month()),
	}

	if v := strings.TrimSpace(query.Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			params.Year = y
		}
	}
	if v := strings.TrimSpace(query.Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m >= 1 && m <= 12 {
			params.Month = m
		}
	}
	return params
}

// parseOwner reads the owner from the "owner" query parameter or the
// X-Owner-ID header.
func parseOwner(r *http.Request) (int64, error) {
	v := strings.TrimSpace(r.URL.Query().Get("owner"))
	if v == "" {
		v = strings.TrimSpace(r.Header.Get("X-Owner-ID"))
	}
	if v == "" {
		return defaultOwner, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id < 1 {
		return 0, errBadOwner
	}
	return id, nil
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid record id %q", r.PathValue("id"))
	}
	return id, nil
}

func parseIntParam(query url.Values, key string, fallback int) int {
	if v := strings.TrimSpace(query.Get(key)); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

// recordRequest is the JSON body of record create and update calls. Amount
// may be a JSON number or a string such as "12,50".
type recordRequest struct {
	Date        string          `json:"date"`
	Name        string          `json:"name"`
	Amount      json.RawMessage `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
}

func decodeRecord(body io.Reader) (core.Record, error) {
	var req recordRequest
	dec := json.NewDecoder(io.LimitReader(body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return core.Record{}, fmt.Errorf("decode record: %w", err)
	}

	raw := strings.TrimSpace(string(req.Amount))
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(req.Amount, &s); err != nil {
			return core.Record{}, core.ErrInvalidAmount
		}
		raw = s
	}
	amount, err := core.ParseAmount(raw)
	if err != nil {
		return core.Record{}, err
	}

	return core.Record{
		Date:        strings.TrimSpace(req.Date),
		Name:        sanitizeInput(req.Name),
		Amount:      amount,
		Category:    sanitizeInput(req.Category),
		Description: sanitizeInput(req.Description),
	}, nil
}

// sanitizeInput drops control characters other than tab and newlines and
// trims whitespace.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}
