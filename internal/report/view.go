// Package report aggregates spending records into monthly, per-category and
// per-day views. Every function is a pure computation over the snapshot it is
// given; nothing is cached between calls.
package report

import (
	"strings"

	"github.com/shopspring/decimal"

	"spese/internal/core"
)

// Converter converts an amount between currency codes.
type Converter interface {
	Convert(amount decimal.Decimal, from, to string) decimal.Decimal
}

// View pairs a stored record with the amount shown to the user. BaseAmount is
// the persisted base currency value; DisplayAmount is what aggregations sum.
type View struct {
	Record        core.Record
	BaseAmount    decimal.Decimal
	DisplayAmount decimal.Decimal
	Currency      string
}

// ViewsOf wraps records without conversion: display equals base.
func ViewsOf(records []core.Record) []View {
	views := make([]View, len(records))
	for i, r := range records {
		views[i] = View{Record: r, BaseAmount: r.Amount, DisplayAmount: r.Amount}
	}
	return views
}

// BuildViews converts every record amount from base to currency. A nil
// converter or matching codes leave the amounts untouched.
func BuildViews(records []core.Record, conv Converter, base, currency string) []View {
	base = strings.ToUpper(strings.TrimSpace(base))
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = base
	}

	views := make([]View, len(records))
	for i, r := range records {
		display := r.Amount
		if conv != nil && currency != base {
			display = conv.Convert(r.Amount, base, currency)
		}
		views[i] = View{
			Record:        r,
			BaseAmount:    r.Amount,
			DisplayAmount: display,
			Currency:      currency,
		}
	}
	return views
}
