package core

import (
	"testing"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

func TestRecordValidate(t *testing.T) {
	good := Record{
		Date:   "2025-01-01",
		Name:   "ok",
		Amount: decimal.NewFromInt(1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Record{
		{Date: "2025-13-01", Name: "a"},
		{Date: "", Name: "a"},
		{Date: "2025-01-01", Name: "  "},
	}
	for i, r := range bads {
		if err := r.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestRecordMonthKey(t *testing.T) {
	cases := map[string]string{
		"2025-01-15": "2025-01",
		"2025-1-5":   "2025-1-",
		"2025":       "2025",
		"":           "",
		"２０２５-01-15": "２０２５-01",
		"été-2025":   "été-202",
	}
	for date, want := range cases {
		got := (Record{Date: date}).MonthKey()
		if got != want {
			t.Fatalf("MonthKey(%q) = %q, want %q", date, got, want)
		}
		if !utf8.ValidString(got) {
			t.Fatalf("MonthKey(%q) = %q is not valid UTF-8", date, got)
		}
	}
}

func TestRecordParseDate(t *testing.T) {
	if d, ok := (Record{Date: "2025-03-02"}).ParseDate(); !ok || d.Day() != 2 || d.Month() != 3 {
		t.Fatalf("unexpected parse: %v %v", d, ok)
	}
	if _, ok := (Record{Date: "03/02/2025"}).ParseDate(); ok {
		t.Fatalf("expected parse failure")
	}
}

func TestRecordWithCategoryCopies(t *testing.T) {
	r := Record{Category: "food"}
	n := r.WithCategory("Food & Drinks")
	if r.Category != "food" || n.Category != "Food & Drinks" {
		t.Fatalf("WithCategory mutated original: %q / %q", r.Category, n.Category)
	}
}

func TestCategoryRoundTrip(t *testing.T) {
	for _, c := range Categories() {
		got, ok := ParseCategory(c.String())
		if !ok || got != c {
			t.Fatalf("ParseCategory(%q) = %v, %v", c.String(), got, ok)
		}
	}
	if c, ok := ParseCategory("groceries"); ok || c != Other {
		t.Fatalf("expected Other for unknown name, got %v %v", c, ok)
	}
	if Category(99).String() != "Other" {
		t.Fatalf("out of range category should print as Other")
	}
}
