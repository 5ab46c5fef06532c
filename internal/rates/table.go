// Package rates converts amounts between currencies using a rate-to-base
// table that can be refreshed from a live endpoint without ever blocking or
// failing conversions.
package rates

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultBase is the reference currency of the static table.
const DefaultBase = "USD"

// Table is an immutable mapping from currency code to rate-to-base.
// The base currency always has rate 1.
type Table struct {
	base  string
	rates map[string]decimal.Decimal
}

// NewTable copies rates into a new table. Codes are upper-cased; entries
// with non-positive rates are dropped since they cannot be divided by.
func NewTable(base string, rates map[string]decimal.Decimal) *Table {
	base = normalizeCode(base)
	t := &Table{base: base, rates: make(map[string]decimal.Decimal, len(rates)+1)}
	for code, rate := range rates {
		code = normalizeCode(code)
		if code == "" || !rate.IsPositive() {
			continue
		}
		t.rates[code] = rate
	}
	t.rates[base] = decimal.NewFromInt(1)
	return t
}

// StaticTable returns the built-in fallback table, USD based.
func StaticTable() *Table {
	return NewTable(DefaultBase, map[string]decimal.Decimal{
		"EUR": decimal.RequireFromString("0.8635001386"),
		"VND": decimal.RequireFromString("26382.005183193"),
		"JPY": decimal.RequireFromString("155.5690267085"),
		"GBP": decimal.RequireFromString("0.7606401215"),
	})
}

// Base returns the reference currency code.
func (t *Table) Base() string {
	return t.base
}

// Rate returns the rate-to-base for code.
func (t *Table) Rate(code string) (decimal.Decimal, bool) {
	r, ok := t.rates[normalizeCode(code)]
	return r, ok
}

// Codes returns the known codes sorted alphabetically.
func (t *Table) Codes() []string {
	codes := make([]string, 0, len(t.rates))
	for code := range t.rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Len returns the number of known codes, base included.
func (t *Table) Len() int {
	return len(t.rates)
}

// Merge returns a new table holding t's rates overridden by other's. The
// base of t is kept; other must be expressed against the same base.
func (t *Table) Merge(other *Table) *Table {
	merged := make(map[string]decimal.Decimal, len(t.rates)+len(other.rates))
	for code, r := range t.rates {
		merged[code] = r
	}
	for code, r := range other.rates {
		merged[code] = r
	}
	return NewTable(t.base, merged)
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
