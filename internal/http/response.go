package http

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"spese/internal/core"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// recordResponse is the wire shape of a record. Amount is always the stored
// base currency value.
type recordResponse struct {
	ID          int64           `json:"id"`
	Date        string          `json:"date"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	Display     string          `json:"display,omitempty"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
}

func toRecordResponse(r core.Record) recordResponse {
	return recordResponse{
		ID:          r.IDValue(),
		Date:        r.Date,
		Name:        r.Name,
		Amount:      r.Amount,
		Category:    r.Category,
		Description: r.Description,
	}
}
