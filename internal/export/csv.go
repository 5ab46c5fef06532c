package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"spese/internal/report"
)

// CSV writes Section,Key,Value rows. Values are plain decimals in the
// report currency so spreadsheets can sum them.
type CSV struct{}

func (CSV) ContentType() string { return "text/csv; charset=utf-8" }
func (CSV) Extension() string   { return ".csv" }

func (CSV) Write(w io.Writer, r report.Report) error {
	cw := csv.NewWriter(w)
	rows := [][]string{{"Section", "Key", "Value"}}
	for _, m := range r.Monthly {
		rows = append(rows, []string{"Monthly", m.Month, m.Total.StringFixed(2)})
	}
	for _, m := range r.ByMonth {
		for _, c := range m.Categories {
			rows = append(rows, []string{"MonthCategory", m.Month + " " + c.Category, c.Total.StringFixed(2)})
		}
	}
	for _, c := range r.Categories {
		rows = append(rows, []string{"Category", c.Category, c.Total.StringFixed(2)})
	}
	for _, d := range r.Daily {
		rows = append(rows, []string{"Daily", fmt.Sprintf("%02d", d.Day), d.Total.StringFixed(2)})
	}
	rows = append(rows,
		[]string{"Total", r.Currency, r.Total.StringFixed(2)},
		[]string{"Average", r.Currency, r.Average.StringFixed(2)},
	)

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv report: %w", err)
	}
	return nil
}
