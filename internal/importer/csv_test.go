package importer

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"spese/internal/core"
)

func TestReadCSV(t *testing.T) {
	input := `

Date,Name,Amount,Category,Description
2025-03-01, Coffee ,4.5,drink,
2025-03-02,Bus,2.0,transport
2025-03-03,Short,1
,,,,
2025-03-04,Lunch,"12,30",food,with friends
`
	records, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3: %+v", len(records), records)
	}

	want := []struct {
		date, name, amount, category, description string
	}{
		{"2025-03-01", "Coffee", "4.5", "drink", ""},
		{"2025-03-02", "Bus", "2", "transport", ""},
		{"2025-03-04", "Lunch", "12.3", "food", "with friends"},
	}
	for i, w := range want {
		r := records[i]
		if r.Date != w.date || r.Name != w.name || r.Category != w.category || r.Description != w.description {
			t.Errorf("record %d = %+v", i, r)
		}
		if !r.Amount.Equal(decimal.RequireFromString(w.amount)) {
			t.Errorf("record %d amount = %s, want %s", i, r.Amount, w.amount)
		}
		if r.HasID() {
			t.Errorf("imported record %d should not carry an id", i)
		}
	}
}

func TestReadCSVBadAmount(t *testing.T) {
	input := "Date,Name,Amount,Category\n2025-03-01,Coffee,4.5,drink\n2025-03-02,Bus,two,transport\n"
	_, err := ReadCSV(strings.NewReader(input))
	if err == nil {
		t.Fatalf("expected an error for a non-numeric amount")
	}
	if !errors.Is(err, ErrMalformed) || !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("error should be ErrMalformed wrapping ErrInvalidAmount: %v", err)
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("error should name the line: %v", err)
	}
}

func TestReadCSVHeaderOnly(t *testing.T) {
	records, err := ReadCSV(strings.NewReader("Date,Name,Amount,Category,Description\n"))
	if err != nil || len(records) != 0 {
		t.Fatalf("got %v, %v", records, err)
	}
}

func TestWriteThenRead(t *testing.T) {
	in := []core.Record{
		{Date: "2025-03-01", Name: "Coffee, large", Amount: decimal.RequireFromString("4.50"), Category: "Food & Drinks"},
		{Date: "2025-03-02", Name: "Bus", Amount: decimal.RequireFromString("2"), Category: "Transportation", Description: "line \"7\""},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, in); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "Date,Name,Amount,Category,Description\n") {
		t.Fatalf("missing header: %q", buf.String())
	}

	out, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("got %d records back", len(out))
	}
	for i := range in {
		if out[i].Name != in[i].Name || out[i].Description != in[i].Description || !out[i].Amount.Equal(in[i].Amount) {
			t.Errorf("record %d = %+v, want %+v", i, out[i], in[i])
		}
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestReadCSVSeparatesReadFailures(t *testing.T) {
	_, err := ReadCSV(failingReader{})
	if err == nil || errors.Is(err, ErrMalformed) {
		t.Fatalf("read failure must not be ErrMalformed: %v", err)
	}
}
