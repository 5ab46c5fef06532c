package core

import "github.com/shopspring/decimal"

// MonthTotal is the amount spent in one YYYY-MM bucket.
type MonthTotal struct {
	Month string
	Total decimal.Decimal
}

// CategoryTotal is an amount aggregated by category name.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// DayTotal is the amount spent on one day of a month (1-31).
type DayTotal struct {
	Day   int
	Total decimal.Decimal
}

// MonthCategories breaks one YYYY-MM bucket down by category.
type MonthCategories struct {
	Month      string
	Categories []CategoryTotal
}
