// Package importer reads and writes spending records as delimited text with
// the columns date,name,amount,category,description.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"spese/internal/core"
)

// Header is the column row written by WriteCSV and skipped by ReadCSV.
var Header = []string{"Date", "Name", "Amount", "Category", "Description"}

// ErrMalformed marks input that cannot be parsed as records, as opposed to
// a failure reading it.
var ErrMalformed = errors.New("malformed csv")

// minFields is the shortest row that still carries a category.
const minFields = 4

// ReadCSV parses records from r. The first non-blank row is the header and is
// skipped; rows with fewer than four fields are skipped too. A bad amount
// fails the whole import so that a half-read file is never persisted.
// Categories are returned as typed; callers normalize them.
func ReadCSV(r io.Reader) ([]core.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var records []core.Record
	header := true
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
			}
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if blank(fields) {
			continue
		}
		if header {
			header = false
			continue
		}
		if len(fields) < minFields {
			continue
		}

		line, _ := reader.FieldPos(0)
		amount, err := core.ParseAmount(fields[2])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: amount %q: %w", ErrMalformed, line, strings.TrimSpace(fields[2]), err)
		}

		record := core.Record{
			Date:     strings.TrimSpace(fields[0]),
			Name:     strings.TrimSpace(fields[1]),
			Amount:   amount,
			Category: strings.TrimSpace(fields[3]),
		}
		if len(fields) > minFields {
			record.Description = strings.TrimSpace(fields[4])
		}
		records = append(records, record)
	}
	return records, nil
}

// WriteCSV writes the header followed by one row per record. Amounts are
// written as plain decimals so ReadCSV can load the file back.
func WriteCSV(w io.Writer, records []core.Record) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		row := []string{r.Date, r.Name, r.Amount.String(), r.Category, r.Description}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func blank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
