package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"spese/internal/core"
	"spese/internal/export"
	"spese/internal/report"
)

func reportCmd(e *env) *cobra.Command {
	var format string
	var year, month int
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print monthly, category and total summaries",
		Long: fmt.Sprintf(`Print the spending report. Formats: %s.
With --year and --month the report also lists daily totals and the top days.`,
			strings.Join(export.Formats(), ", ")),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			writer, err := export.ByName(format)
			if err != nil {
				return err
			}
			r, err := e.app.Records.Dashboard(cmd.Context(), e.owner, e.currency, year, month)
			if err != nil {
				return err
			}
			return writer.Write(cmd.OutOrStdout(), r)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format")
	cmd.Flags().IntVar(&year, "year", 0, "calendar year for the daily section")
	cmd.Flags().IntVar(&month, "month", 0, "calendar month (1-12) for the daily section")
	return cmd
}

func calendarCmd(e *env) *cobra.Command {
	now := time.Now()
	var year, month, top, day int
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show daily totals for one month, marking the top days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if month < 1 || month > 12 {
				return fmt.Errorf("--month must be between 1 and 12")
			}
			if day < 0 || day > 31 {
				return fmt.Errorf("--day must be between 1 and 31")
			}
			views, err := e.app.Records.Views(cmd.Context(), e.owner, e.currency)
			if err != nil {
				return err
			}
			daily := report.DailySpending(views, year, month)
			topDays := report.TopNDays(daily, top)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%04d-%02d (%s)\n", year, month, strings.ToUpper(e.currency))
			if len(daily) == 0 {
				fmt.Fprintln(out, "No spending.")
				return nil
			}
			for _, d := range daily {
				mark := ""
				for _, t := range topDays {
					if t == d.Day {
						mark = " *"
						break
					}
				}
				fmt.Fprintf(out, "%2d  %s%s\n", d.Day, core.FormatAmount(d.Total, e.currency), mark)
			}

			if day > 0 {
				fmt.Fprintf(out, "\nRecords on %04d-%02d-%02d:\n", year, month, day)
				for _, v := range report.DayRecords(views, year, month, day) {
					fmt.Fprintf(out, "  %s  %s  %s\n", v.Record.Name, v.Record.Category, core.FormatAmount(v.DisplayAmount, e.currency))
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", now.Year(), "calendar year")
	cmd.Flags().IntVar(&month, "month", int(now.Month()), "calendar month (1-12)")
	cmd.Flags().IntVar(&top, "top", report.DefaultTopN, "number of top days to mark")
	cmd.Flags().IntVar(&day, "day", 0, "also list the records of this day")
	return cmd
}
