package commands

import (
	"mfg-assist/internal/erp"

	"github.com/spf13/cobra"
)

var (
	poQty      int
	poSupplier string
	poExpedite bool
)

var inventoryCmd = &cobra.Command{
	Use:   "inventory <sku>",
	Short: "Fetch the ERP inventory position for a SKU",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshot, err := erp.New(cfg.ERPKind).Inventory(args[0])
		if err != nil {
			return err
		}
		return writeJSON(snapshot)
	},
}

var poCmd = &cobra.Command{
	Use:   "po <sku>",
	Short: "Create a purchase order in the ERP",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		po, err := erp.New(cfg.ERPKind).CreatePO(args[0], poQty, poSupplier, poExpedite)
		if err != nil {
			return err
		}
		return writeJSON(po)
	},
}

func init() {
	rootCmd.AddCommand(inventoryCmd)

	poCmd.Flags().IntVar(&poQty, "qty", 500, "order quantity")
	poCmd.Flags().StringVar(&poSupplier, "supplier", "Supplier Z", "supplier name")
	poCmd.Flags().BoolVar(&poExpedite, "expedite", true, "expedite the order")
	rootCmd.AddCommand(poCmd)
}
