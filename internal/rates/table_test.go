package rates

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewTableNormalizesAndDropsInvalid(t *testing.T) {
	tbl := NewTable("usd", map[string]decimal.Decimal{
		" eur ": dec("0.9"),
		"ABC":   decimal.Zero,
		"DEF":   dec("-1"),
		"":      dec("1"),
		"USD":   dec("3"),
	})
	if tbl.Base() != "USD" {
		t.Fatalf("base = %q", tbl.Base())
	}
	if got := tbl.Codes(); len(got) != 2 || got[0] != "EUR" || got[1] != "USD" {
		t.Fatalf("codes = %v", got)
	}
	if r, _ := tbl.Rate("usd"); !r.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("base rate must be 1, got %s", r)
	}
}

func TestStaticTable(t *testing.T) {
	tbl := StaticTable()
	for _, code := range []string{"USD", "EUR", "VND", "JPY", "GBP"} {
		if _, ok := tbl.Rate(code); !ok {
			t.Fatalf("static table missing %s", code)
		}
	}
}

func TestMergeDoesNotMutate(t *testing.T) {
	a := NewTable("USD", map[string]decimal.Decimal{"EUR": dec("0.9")})
	b := NewTable("USD", map[string]decimal.Decimal{"EUR": dec("0.8"), "GBP": dec("0.7")})
	m := a.Merge(b)

	if r, _ := a.Rate("EUR"); !r.Equal(dec("0.9")) {
		t.Fatalf("merge mutated receiver")
	}
	if r, _ := m.Rate("EUR"); !r.Equal(dec("0.8")) || m.Len() != 3 {
		t.Fatalf("unexpected merged table: %v", m.Codes())
	}
}
