package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var filterMonth int

var filterCmd = &cobra.Command{
	Use:   "filter [account]",
	Short: "List an account's entries, optionally for one month",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newAPI()
		if err != nil {
			return err
		}
		if len(args) == 0 {
			accounts, err := api.Accounts(context.Background())
			if err != nil {
				return sessionErr(err)
			}
			for _, a := range accounts {
				fmt.Println(a)
			}
			return nil
		}
		rows, err := api.Filter(context.Background(), filterMonth, args[0])
		if err != nil {
			return sessionErr(err)
		}
		if len(rows) == 0 {
			logger.Info("no entries", "account", args[0], "month", filterMonth)
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tAMOUNT\tNOTES")
		var total float64
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%.2f\t%s\n", r.Date, r.Amount, r.Notes)
			total += r.Amount
		}
		fmt.Fprintf(w, "\t%.2f\ttotal\n", total)
		return w.Flush()
	},
}

var suggestionsCmd = &cobra.Command{
	Use:   "suggestions",
	Short: "Print the known account and item names",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newAPI()
		if err != nil {
			return err
		}
		s, err := api.Suggestions(context.Background())
		if err != nil {
			return sessionErr(err)
		}
		fmt.Println("Accounts:")
		for _, a := range s.Accounts {
			fmt.Println("  " + a)
		}
		fmt.Println("Food items:")
		for _, n := range s.FoodNames {
			fmt.Println("  " + n)
		}
		fmt.Println("Other items:")
		for _, o := range s.OtherItems {
			fmt.Println("  " + o)
		}
		return nil
	},
}

func init() {
	filterCmd.Flags().IntVarP(&filterMonth, "month", "m", 0, "Month 1-12 (0 means every month)")
	rootCmd.AddCommand(filterCmd, suggestionsCmd)
}
