package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/satheeshds/autodealer/reconcile"
	"github.com/satheeshds/autodealer/views"
	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the portfolio summary across all sales",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		store, closeDB, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer closeDB()

		records, err := store.SaleRecords(cmd.Context())
		if err != nil {
			return fmt.Errorf("load sales: %w", err)
		}
		p := reconcile.AggregatePortfolio(records)
		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		}
		printPortfolio(os.Stdout, p)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().Bool("json", false, "Print as JSON")
}

func printPortfolio(w io.Writer, p reconcile.Portfolio) {
	fmt.Fprintf(w, "Sales:               %d\n", p.SaleCount)
	fmt.Fprintf(w, "Total deal value:    %s\n", views.FormatINR(p.TotalDealValue))
	fmt.Fprintf(w, "Cash received:       %s\n", views.FormatINR(p.CashReceived))
	fmt.Fprintf(w, "Pending collection:  %s\n", views.FormatINR(p.PendingCollection))
	fmt.Fprintf(w, "Realised profit:     %s\n", views.FormatINR(p.RealizedProfit))
	fmt.Fprintf(w, "Unrealised loss:     %s\n", views.FormatINR(p.UnrealizedLoss))
	fmt.Fprintf(w, "Average margin:      %.2f%%\n", p.AvgMarginPct)
}
