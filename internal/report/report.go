package report

import (
	"github.com/shopspring/decimal"

	"spese/internal/core"
)

// Report bundles every view of one snapshot, all in Currency.
type Report struct {
	Currency    string
	Count       int
	Monthly     []core.MonthTotal
	ByMonth     []core.MonthCategories
	Categories  []core.CategoryTotal
	Total       decimal.Decimal
	Average     decimal.Decimal
	TopCategory string

	// Year and Month select the calendar section; zero skips it.
	Year    int
	Month   int
	Daily   []core.DayTotal
	TopDays []int
}

// Build computes a full report. Passing year or month as zero leaves the
// daily breakdown empty.
func Build(views []View, currency string, year, month int) Report {
	r := Report{
		Currency:    currency,
		Count:       len(views),
		Monthly:     MonthlySummary(views),
		ByMonth:     MonthlyByCategory(views),
		Categories:  CategorySummary(views),
		Total:       TotalSummary(views),
		Average:     Average(views),
		TopCategory: TopCategory(views),
		Year:        year,
		Month:       month,
	}
	if year > 0 && month >= 1 && month <= 12 {
		r.Daily = DailySpending(views, year, month)
		r.TopDays = TopNDays(r.Daily, DefaultTopN)
	}
	return r
}
