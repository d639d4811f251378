package cmd

import (
	"fmt"

	"github.com/satheeshds/autodealer/export"
	"github.com/satheeshds/autodealer/logger"
	"github.com/satheeshds/autodealer/models"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the sales history to Parquet or CSV",
	Example: `  # All sales as Parquet
  autodealer export --out sales.parquet

  # Part-paid sales as CSV, with their payment ledger
  autodealer export --format csv --status PARTIAL --out sales.csv --payments-out payments.csv`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().String("format", "parquet", "Output format: parquet or csv")
	exportCmd.Flags().String("out", "", "Sales output file (required)")
	exportCmd.Flags().String("payments-out", "", "Also write the payment ledger to this file")
	exportCmd.Flags().String("status", "", "Only sales in this status: PENDING, PARTIAL or PAID")
	exportCmd.MarkFlagRequired("out")
}

func runExport(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("export")

	formatStr, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")
	paymentsOut, _ := cmd.Flags().GetString("payments-out")
	status, _ := cmd.Flags().GetString("status")

	format, err := export.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	store, closeDB, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeDB()

	sales, err := store.ListSales(cmd.Context(), models.SaleFilter{Status: status})
	if err != nil {
		return fmt.Errorf("load sales: %w", err)
	}

	n, err := export.Sales(cmd.Context(), sales, format, out)
	if err != nil {
		return err
	}
	log.Info().Int("rows", n).Str("file", out).Msg("sales exported")

	if paymentsOut != "" {
		n, err := export.Payments(cmd.Context(), sales, format, paymentsOut)
		if err != nil {
			return err
		}
		log.Info().Int("rows", n).Str("file", paymentsOut).Msg("payments exported")
	}
	return nil
}
