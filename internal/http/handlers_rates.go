package http

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"spese/internal/category"
	"spese/internal/core"
)

type rateEntry struct {
	Code string          `json:"code"`
	Rate decimal.Decimal `json:"rate"`
}

func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	table := s.rates.Table()
	codes := table.Codes()
	entries := make([]rateEntry, 0, len(codes))
	for _, code := range codes {
		rate, _ := table.Rate(code)
		entries = append(entries, rateEntry{Code: code, Rate: rate})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"base":    table.Base(),
		"version": s.rates.Version(),
		"live":    s.rates.Live(),
		"rates":   entries,
	})
}

// handleRefreshRates starts a refresh and returns without waiting for it.
func (s *Server) handleRefreshRates(w http.ResponseWriter, r *http.Request) {
	if !s.rates.Live() {
		writeError(w, http.StatusConflict, "live rates are not configured")
		return
	}
	s.rates.RefreshAsync()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "refresh started"})
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	amount, err := core.ParseAmount(q.Get("amount"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}
	from := strings.ToUpper(strings.TrimSpace(q.Get("from")))
	to := strings.ToUpper(strings.TrimSpace(q.Get("to")))
	if from == "" {
		from = s.records.BaseCurrency()
	}
	if to == "" {
		to = s.currency
	}

	converted := s.rates.Convert(amount, from, to)
	writeJSON(w, http.StatusOK, map[string]any{
		"amount":    amount,
		"from":      from,
		"to":        to,
		"converted": converted,
		"display":   core.FormatAmount(converted, to),
	})
}

func handleCategories(w http.ResponseWriter, r *http.Request) {
	cats := core.Categories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.String()
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": names})
}

type normalizeResponse struct {
	Input    string `json:"input"`
	Category string `json:"category"`
	Alias    string `json:"alias,omitempty"`
	Distance int    `json:"distance"`
	Exact    bool   `json:"exact"`
}

func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	m := s.records.Normalizer().Match(q)
	writeJSON(w, http.StatusOK, toNormalizeResponse(q, m))
}

func toNormalizeResponse(input string, m category.Match) normalizeResponse {
	return normalizeResponse{
		Input:    input,
		Category: m.Category.String(),
		Alias:    m.Alias,
		Distance: m.Distance,
		Exact:    m.Exact,
	}
}
