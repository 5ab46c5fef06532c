package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"spese/internal/report"
)

// JSON writes the report as a single indented document.
type JSON struct{}

func (JSON) ContentType() string { return "application/json" }
func (JSON) Extension() string   { return ".json" }

type (
	jsonMonth struct {
		Month string          `json:"month"`
		Total decimal.Decimal `json:"total"`
	}
	jsonCategory struct {
		Category string          `json:"category"`
		Total    decimal.Decimal `json:"total"`
	}
	jsonMonthCategories struct {
		Month      string         `json:"month"`
		Categories []jsonCategory `json:"categories"`
	}
	jsonDay struct {
		Day   int             `json:"day"`
		Total decimal.Decimal `json:"total"`
	}
	jsonReport struct {
		Currency    string                `json:"currency"`
		Count       int                   `json:"count"`
		Monthly     []jsonMonth           `json:"monthly"`
		ByMonth     []jsonMonthCategories `json:"by_month"`
		Category    []jsonCategory        `json:"category"`
		Total       decimal.Decimal       `json:"total"`
		Average     decimal.Decimal       `json:"average"`
		TopCategory string                `json:"top_category"`
		Year        int                   `json:"year,omitempty"`
		Month       int                   `json:"month,omitempty"`
		Daily       []jsonDay             `json:"daily,omitempty"`
		TopDays     []int                 `json:"top_days,omitempty"`
	}
)

// Document converts r into the JSON wire shape shared with the HTTP API.
func Document(r report.Report) any {
	doc := jsonReport{
		Currency:    r.Currency,
		Count:       r.Count,
		Monthly:     make([]jsonMonth, len(r.Monthly)),
		Category:    make([]jsonCategory, len(r.Categories)),
		Total:       r.Total,
		Average:     r.Average.Round(2),
		TopCategory: r.TopCategory,
		Year:        r.Year,
		Month:       r.Month,
		TopDays:     r.TopDays,
	}
	for i, m := range r.Monthly {
		doc.Monthly[i] = jsonMonth{Month: m.Month, Total: m.Total}
	}
	doc.ByMonth = make([]jsonMonthCategories, len(r.ByMonth))
	for i, m := range r.ByMonth {
		cats := make([]jsonCategory, len(m.Categories))
		for j, c := range m.Categories {
			cats[j] = jsonCategory{Category: c.Category, Total: c.Total}
		}
		doc.ByMonth[i] = jsonMonthCategories{Month: m.Month, Categories: cats}
	}
	for i, c := range r.Categories {
		doc.Category[i] = jsonCategory{Category: c.Category, Total: c.Total}
	}
	for _, d := range r.Daily {
		doc.Daily = append(doc.Daily, jsonDay{Day: d.Day, Total: d.Total})
	}
	return doc
}

func (JSON) Write(w io.Writer, r report.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Document(r)); err != nil {
		return fmt.Errorf("write json report: %w", err)
	}
	return nil
}
