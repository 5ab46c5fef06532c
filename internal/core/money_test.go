package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"4.5", "4.5", true},
		{"1,23", "1.23", true},
		{" 2.50 ", "2.5", true},
		{"-3", "-3", true},
		{"0", "0", true},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"1,2,3", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(decimal.RequireFromString(tc.out)) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		amount string
		code   string
		want   string
	}{
		{"4.5", "USD", "$4.50"},
		{"4.505", "usd", "$4.51"},
		{"12", "XYZ", "12.00 XYZ"},
	}
	for _, tc := range cases {
		got := FormatAmount(decimal.RequireFromString(tc.amount), tc.code)
		if got != tc.want {
			t.Fatalf("FormatAmount(%s, %s) = %q, want %q", tc.amount, tc.code, got, tc.want)
		}
	}
}

func TestKnownCurrency(t *testing.T) {
	if !KnownCurrency("eur") {
		t.Fatalf("expected EUR to be known")
	}
	if KnownCurrency("ZZZ") {
		t.Fatalf("expected ZZZ to be unknown")
	}
}
