package commands

import (
	"mfg-assist/internal/dataset"
	"mfg-assist/internal/kpi"
	"mfg-assist/internal/scenario"

	"github.com/spf13/cobra"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Compute the current KPI record",
	Long: `Reads the four operational tables and the scenario state, folds the
applied what-if actions into the aggregates, and prints the KPI record.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := scenario.NewStore(cfg.DataPath)
		state, err := store.Get()
		if err != nil {
			return err
		}

		snap, err := dataset.LoadSnapshot(cmd.Context(), dataset.NewFileProvider(cfg.DataPath))
		if err != nil {
			return err
		}

		result, err := kpi.Compute(snap, state, kpi.Config{RiskSKU: cfg.RiskSKU})
		if err != nil {
			return err
		}
		return writeJSON(result)
	},
}

func init() {
	rootCmd.AddCommand(metricsCmd)
}
