package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"spese/internal/core"
)

func categoriesCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List canonical categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, c := range core.Categories() {
				fmt.Fprintln(cmd.OutOrStdout(), c.String())
			}
			return nil
		},
	}
}

func normalizeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize TEXT",
		Short: "Show which category free text maps to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := strings.Join(args, " ")
			m := e.app.Records.Normalizer().Match(raw)
			switch {
			case m.Exact:
				fmt.Fprintf(cmd.OutOrStdout(), "%s (exact alias %q)\n", m.Category, m.Alias)
			case m.Alias != "":
				fmt.Fprintf(cmd.OutOrStdout(), "%s (alias %q, distance %d)\n", m.Category, m.Alias, m.Distance)
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "%s (no match)\n", m.Category)
			}
			return nil
		},
	}
}

func convertCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "convert AMOUNT FROM TO",
		Short:   "Convert an amount between currencies",
		Example: "  spese-cli convert 100 USD EUR",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := core.ParseAmount(args[0])
			if err != nil {
				return err
			}
			to := strings.ToUpper(args[2])
			converted := e.app.Rates.Convert(amount, args[1], to)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s\n", amount, strings.ToUpper(args[1]), core.FormatAmount(converted, to))
			return nil
		},
	}
}

func ratesCmd(e *env) *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Show the exchange rate table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if refresh {
				if !e.app.Rates.Live() {
					return fmt.Errorf("no live rate endpoint configured (RATES_URL)")
				}
				if !e.app.Rates.Refresh(cmd.Context()) {
					fmt.Fprintln(cmd.ErrOrStderr(), "Refresh failed, showing last-known rates")
				}
			}

			table := e.app.Rates.Table()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			defer w.Flush()
			fmt.Fprintf(w, "1 %s =\n", table.Base())
			for _, code := range table.Codes() {
				rate, _ := table.Rate(code)
				fmt.Fprintf(w, "%s\t%s\n", code, rate)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "fetch live rates first")
	return cmd
}
