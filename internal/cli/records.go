package cli

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"spese/internal/core"
	"spese/internal/importer"
)

func addCmd(e *env) *cobra.Command {
	var rec core.Record
	var amount string
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add one record",
		Example: `  spese-cli add --date 2025-03-01 --name Coffee --amount 4,50 --category drink`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := core.ParseAmount(amount)
			if err != nil {
				return err
			}
			rec.Amount = a

			saved, err := e.app.Records.Add(cmd.Context(), e.owner, rec)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added record %d (%s, %s)\n",
				saved.IDValue(), saved.Category, core.FormatAmount(saved.Amount, e.app.Records.BaseCurrency()))
			return nil
		},
	}
	cmd.Flags().StringVar(&rec.Date, "date", "", "day of the expense, YYYY-MM-DD")
	cmd.Flags().StringVar(&rec.Name, "name", "", "what was bought")
	cmd.Flags().StringVar(&amount, "amount", "", "amount in the base currency")
	cmd.Flags().StringVar(&rec.Category, "category", "", "category, free text")
	cmd.Flags().StringVar(&rec.Description, "description", "", "optional note")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func listCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List records in the display currency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			views, err := e.app.Records.Views(cmd.Context(), e.owner, e.currency)
			if err != nil {
				return err
			}
			if len(views) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No records.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			defer w.Flush()
			fmt.Fprintln(w, "ID\tDATE\tNAME\tAMOUNT\tCATEGORY")
			for _, v := range views {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					v.Record.IDValue(), v.Record.Date, v.Record.Name,
					core.FormatAmount(v.DisplayAmount, v.Currency), v.Record.Category)
			}
			return nil
		},
	}
}

func importCmd(e *env) *cobra.Command {
	var replace bool
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import records from a CSV file (- for stdin)",
		Long: `Import records from CSV with columns date,name,amount,category,description.
The first row is a header. Categories are normalized on the way in. A
malformed file stores nothing and, with --replace, deletes nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, closeIn, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer closeIn()

			records, err := importer.ReadCSV(in)
			if err != nil {
				return err
			}
			if replace {
				if err := e.app.Records.Clear(cmd.Context(), e.owner); err != nil {
					return err
				}
			}
			n, err := e.app.Records.ImportRecords(cmd.Context(), e.owner, records)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d records\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "clear existing records first")
	return cmd
}

func exportCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "export [FILE]",
		Short: "Export records as CSV to FILE or stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || args[0] == "-" {
				return e.app.Records.Export(cmd.Context(), e.owner, cmd.OutOrStdout())
			}
			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("create %s: %w", args[0], err)
			}
			if err := e.app.Records.Export(cmd.Context(), e.owner, f); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
}

func clearCmd(e *env) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every record of the owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear records of owner %d without --yes", e.owner)
			}
			if err := e.app.Records.Clear(cmd.Context(), e.owner); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared records of owner %d\n", e.owner)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}

func openInput(cmd *cobra.Command, name string) (io.Reader, func(), error) {
	if name == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", name, err)
	}
	return f, func() { f.Close() }, nil
}
