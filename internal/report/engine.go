package report

import (
	"cmp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"spese/internal/core"
)

const (
	// DefaultTopN is the number of days TopNDays returns when n <= 0.
	DefaultTopN = 3
	// NoCategory is returned by TopCategory for an empty snapshot.
	NoCategory = "N/A"
)

// MonthlySummary totals views by the YYYY-MM prefix of their date, ascending
// by key. Dates are grouped by prefix, not validated.
func MonthlySummary(views []View) []core.MonthTotal {
	totals := make(map[string]decimal.Decimal)
	for _, v := range views {
		key := v.Record.MonthKey()
		totals[key] = totals[key].Add(v.DisplayAmount)
	}

	out := make([]core.MonthTotal, 0, len(totals))
	for month, total := range totals {
		out = append(out, core.MonthTotal{Month: month, Total: total})
	}
	slices.SortFunc(out, func(a, b core.MonthTotal) int {
		return strings.Compare(a.Month, b.Month)
	})
	return out
}

// CategorySummary totals views by category, descending by total. Equal
// totals keep the order in which their categories first appear.
func CategorySummary(views []View) []core.CategoryTotal {
	index := make(map[string]int)
	var out []core.CategoryTotal
	for _, v := range views {
		name := v.Record.Category
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, core.CategoryTotal{Category: name})
		}
		out[i].Total = out[i].Total.Add(v.DisplayAmount)
	}

	slices.SortStableFunc(out, func(a, b core.CategoryTotal) int {
		return b.Total.Cmp(a.Total)
	})
	return out
}

// MonthlyByCategory splits each month of MonthlySummary by category. Months
// ascend; within a month categories are ordered as in CategorySummary.
func MonthlyByCategory(views []View) []core.MonthCategories {
	byMonth := make(map[string][]View)
	for _, v := range views {
		key := v.Record.MonthKey()
		byMonth[key] = append(byMonth[key], v)
	}

	out := make([]core.MonthCategories, 0, len(byMonth))
	for month, vs := range byMonth {
		out = append(out, core.MonthCategories{Month: month, Categories: CategorySummary(vs)})
	}
	slices.SortFunc(out, func(a, b core.MonthCategories) int {
		return strings.Compare(a.Month, b.Month)
	})
	return out
}

// TotalSummary sums every display amount. An empty snapshot totals zero.
func TotalSummary(views []View) decimal.Decimal {
	total := decimal.Zero
	for _, v := range views {
		total = total.Add(v.DisplayAmount)
	}
	return total
}

// DailySpending totals the views dated in the given year and month by day,
// ascending. Views whose date does not parse are left out.
func DailySpending(views []View, year, month int) []core.DayTotal {
	totals := make(map[int]decimal.Decimal)
	for _, v := range views {
		t, ok := v.Record.ParseDate()
		if !ok || t.Year() != year || int(t.Month()) != month {
			continue
		}
		totals[t.Day()] = totals[t.Day()].Add(v.DisplayAmount)
	}

	out := make([]core.DayTotal, 0, len(totals))
	for day, total := range totals {
		out = append(out, core.DayTotal{Day: day, Total: total})
	}
	slices.SortFunc(out, func(a, b core.DayTotal) int {
		return cmp.Compare(a.Day, b.Day)
	})
	return out
}

// DayRecords returns the views dated on one calendar day, in snapshot order.
func DayRecords(views []View, year, month, day int) []View {
	var out []View
	for _, v := range views {
		t, ok := v.Record.ParseDate()
		if ok && t.Year() == year && int(t.Month()) == month && t.Day() == day {
			out = append(out, v)
		}
	}
	return out
}

// TopNDays returns the n days with the highest totals, highest first. Ties
// go to the earlier day. n <= 0 means DefaultTopN.
func TopNDays(daily []core.DayTotal, n int) []int {
	if n <= 0 {
		n = DefaultTopN
	}

	ranked := slices.Clone(daily)
	slices.SortFunc(ranked, func(a, b core.DayTotal) int {
		if c := b.Total.Cmp(a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Day, b.Day)
	})

	n = min(n, len(ranked))
	days := make([]int, n)
	for i := range days {
		days[i] = ranked[i].Day
	}
	return days
}

// TopCategory names the category with the highest total, or NoCategory when
// there is nothing to rank. Ties go to the category seen first.
func TopCategory(views []View) string {
	summary := CategorySummary(views)
	if len(summary) == 0 {
		return NoCategory
	}
	return summary[0].Category
}

// Average is the mean display amount, zero for an empty snapshot.
func Average(views []View) decimal.Decimal {
	if len(views) == 0 {
		return decimal.Zero
	}
	return TotalSummary(views).Div(decimal.NewFromInt(int64(len(views))))
}
