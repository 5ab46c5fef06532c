package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"spese/internal/core"
)

func TestParseMonthParams(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name  string
		query string
		year  int
		month int
	}{
		{"explicit", "year=2024&month=2", 2024, 2},
		{"missing", "", now.Year(), int(now.Month())},
		{"month out of range", "year=2024&month=13", 2024, int(now.Month())},
		{"garbage", "year=abc&month=x", now.Year(), int(now.Month())},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, _ := url.ParseQuery(tc.query)
			got := ParseMonthParams(q)
			if got.Year != tc.year || got.Month != tc.month {
				t.Fatalf("got %+v, want %d-%d", got, tc.year, tc.month)
			}
		})
	}
}

func TestParseOwner(t *testing.T) {
	cases := []struct {
		name    string
		target  string
		header  string
		want    int64
		wantErr bool
	}{
		{"default", "/", "", defaultOwner, false},
		{"query", "/?owner=42", "", 42, false},
		{"header", "/", "9", 9, false},
		{"query wins", "/?owner=3", "9", 3, false},
		{"zero", "/?owner=0", "", 0, true},
		{"text", "/?owner=me", "", 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.header != "" {
				r.Header.Set("X-Owner-ID", tc.header)
			}
			got, err := parseOwner(r)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if !tc.wantErr && got != tc.want {
				t.Fatalf("owner = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestDecodeRecord(t *testing.T) {
	rec, err := decodeRecord(strings.NewReader(`{"date":" 2025-03-01 ","name":" Coffee\u0007 ","amount":"12,30","category":"food"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Date != "2025-03-01" || rec.Name != "Coffee" || rec.Amount.String() != "12.3" {
		t.Fatalf("unexpected record: %+v", rec)
	}

	rec, err = decodeRecord(strings.NewReader(`{"date":"2025-03-01","name":"x","amount":7.25}`))
	if err != nil || rec.Amount.String() != "7.25" {
		t.Fatalf("numeric amount: %+v, %v", rec, err)
	}

	if _, err := decodeRecord(strings.NewReader(`{"date":"2025-03-01","name":"x","amount":"many"}`)); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}
	if _, err := decodeRecord(strings.NewReader(`{"nope":1}`)); err == nil || errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("unknown field err = %v", err)
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := sanitizeInput("  a\x00b\tc\n "); got != "ab\tc" {
		t.Fatalf("sanitizeInput = %q", got)
	}
}

func TestRequestID(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-ID", "abc")
	if got := requestID(r); got != "abc" {
		t.Fatalf("requestID = %q, want abc", got)
	}

	r.Header.Set("X-Request-ID", strings.Repeat("x", 65))
	if got := requestID(r); !strings.HasPrefix(got, "req_") {
		t.Fatalf("oversized id not replaced: %q", got)
	}
}
