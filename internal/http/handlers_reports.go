package http

import (
	"bytes"
	"net/http"
	"strings"

	"spese/internal/core"
	"spese/internal/export"
	"spese/internal/log"
	"spese/internal/report"
)

func (s *Server) displayCurrency(r *http.Request) string {
	if c := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("currency"))); c != "" {
		return c
	}
	return s.currency
}

// handleSummary returns monthly, category and total views. year and month
// are optional; without them no calendar section is computed.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	owner, err := parseOwner(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	q := r.URL.Query()
	year, month := parseIntParam(q, "year", 0), parseIntParam(q, "month", 0)

	rep, err := s.records.Dashboard(r.Context(), owner, s.displayCurrency(r), year, month)
	if err != nil {
		s.storeFailure(w, r, "Summary failed", err, log.OpRead)
		return
	}
	writeJSON(w, http.StatusOK, export.Document(rep))
}

type calendarDay struct {
	Day   int    `json:"day"`
	Total string `json:"total"`
	Top   bool   `json:"top"`
}

// handleCalendar returns daily totals for one month and the top spending
// days. With day set it also lists that day's records.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	owner, err := parseOwner(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	params := ParseMonthParams(r.URL.Query())
	top := parseIntParam(r.URL.Query(), "top", report.DefaultTopN)
	currency := s.displayCurrency(r)

	views, err := s.records.Views(r.Context(), owner, currency)
	if err != nil {
		s.storeFailure(w, r, "Calendar failed", err, log.OpRead)
		return
	}
	daily := report.DailySpending(views, params.Year, params.Month)
	topDays := report.TopNDays(daily, top)

	isTop := make(map[int]bool, len(topDays))
	for _, d := range topDays {
		isTop[d] = true
	}
	days := make([]calendarDay, len(daily))
	for i, d := range daily {
		days[i] = calendarDay{Day: d.Day, Total: d.Total.StringFixed(2), Top: isTop[d.Day]}
	}

	body := map[string]any{
		"year":     params.Year,
		"month":    params.Month,
		"currency": currency,
		"days":     days,
		"top_days": topDays,
	}

	// day lists the records behind one cell of the calendar
	if day := parseIntParam(r.URL.Query(), "day", 0); day > 0 {
		if day > 31 {
			writeError(w, http.StatusBadRequest, "day must be between 1 and 31")
			return
		}
		dayViews := report.DayRecords(views, params.Year, params.Month, day)
		records := make([]recordResponse, len(dayViews))
		for i, v := range dayViews {
			records[i] = toRecordResponse(v.Record)
			records[i].Display = core.FormatAmount(v.DisplayAmount, currency)
		}
		body["day"] = day
		body["records"] = records
	}
	writeJSON(w, http.StatusOK, body)
}

// handleReport renders the full report in the requested export format.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	owner, err := parseOwner(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writer, err := export.ByName(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	q := r.URL.Query()

	rep, err := s.records.Dashboard(r.Context(), owner, s.displayCurrency(r), parseIntParam(q, "year", 0), parseIntParam(q, "month", 0))
	if err != nil {
		s.storeFailure(w, r, "Report failed", err, log.OpExport)
		return
	}

	var buf bytes.Buffer
	if err := writer.Write(&buf, rep); err != nil {
		s.storeFailure(w, r, "Report rendering failed", err, log.OpExport)
		return
	}
	w.Header().Set("Content-Type", writer.ContentType())
	_, _ = buf.WriteTo(w)
}
