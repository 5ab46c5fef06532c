package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"spese/internal/core"
	"spese/internal/report"
)

// Text writes a human readable report with amounts formatted for the
// report currency.
type Text struct{}

func (Text) ContentType() string { return "text/plain; charset=utf-8" }
func (Text) Extension() string   { return ".txt" }

func (Text) Write(w io.Writer, r report.Report) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "=== Monthly Summary ===")
	for _, m := range r.Monthly {
		fmt.Fprintf(bw, "%s: %s\n", m.Month, core.FormatAmount(m.Total, r.Currency))
	}

	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "=== Monthly by Category ===")
	for _, m := range r.ByMonth {
		for _, c := range m.Categories {
			fmt.Fprintf(bw, "%s %s: %s\n", m.Month, c.Category, core.FormatAmount(c.Total, r.Currency))
		}
	}

	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "=== Category Summary ===")
	for _, c := range r.Categories {
		fmt.Fprintf(bw, "%s: %s\n", c.Category, core.FormatAmount(c.Total, r.Currency))
	}

	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "Total: %s\n", core.FormatAmount(r.Total, r.Currency))
	fmt.Fprintf(bw, "Average: %s\n", core.FormatAmount(r.Average, r.Currency))
	fmt.Fprintf(bw, "Top category: %s\n", r.TopCategory)

	if r.Year > 0 && r.Month > 0 {
		fmt.Fprintln(bw)
		fmt.Fprintf(bw, "=== Daily Spending %04d-%02d ===\n", r.Year, r.Month)
		for _, d := range r.Daily {
			fmt.Fprintf(bw, "%02d: %s\n", d.Day, core.FormatAmount(d.Total, r.Currency))
		}
		days := make([]string, len(r.TopDays))
		for i, d := range r.TopDays {
			days[i] = fmt.Sprint(d)
		}
		fmt.Fprintf(bw, "Top days: %s\n", strings.Join(days, ", "))
	}

	return bw.Flush()
}
