package commands

import (
	"time"

	"mfg-assist/internal/activity"
	"mfg-assist/internal/dataset"
	"mfg-assist/internal/nudges"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var nudgePersona string

var nudgesCmd = &cobra.Command{
	Use:   "nudges",
	Short: "Compute proactive suggestions for a persona",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider := dataset.NewFileProvider(cfg.DataPath)

		var (
			out []nudges.Nudge
			err error
		)
		switch nudgePersona {
		case nudges.PersonaSupplyChain:
			var inventory []dataset.InventoryItem
			inventory, err = provider.Inventory(cmd.Context())
			if err == nil {
				out = nudges.SupplyChain(inventory)
			}
		case nudges.PersonaPlant:
			var down []dataset.Downtime
			var inspections []dataset.Inspection
			down, err = provider.Downtime(cmd.Context())
			if err == nil {
				inspections, err = provider.Inspections(cmd.Context())
			}
			if err == nil {
				out = nudges.Plant(down, inspections)
			}
		case nudges.PersonaSales:
			out, err = nudges.Sales(activity.NewLog(cfg.DataPath), time.Now())
		default:
			return errors.Newf("unknown persona %q", nudgePersona)
		}
		if err != nil {
			return err
		}
		return writeJSON(out)
	},
}

func init() {
	nudgesCmd.Flags().StringVar(&nudgePersona, "persona", nudges.PersonaSupplyChain,
		"persona feed: sales, supply-chain, or plant")
	rootCmd.AddCommand(nudgesCmd)
}
