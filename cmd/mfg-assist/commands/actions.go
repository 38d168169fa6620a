package commands

import (
	"fmt"

	"mfg-assist/internal/scenario"

	"github.com/spf13/cobra"
)

// actionResponse mirrors the record the UI layer consumes after a
// scenario mutation.
type actionResponse struct {
	State   scenario.State `json:"state"`
	Message string         `json:"message"`
}

var applyCmd = &cobra.Command{
	Use:   "apply <action-label>",
	Short: "Apply a what-if action to the scenario state",
	Long: `Matches the label against the action vocabulary (case-insensitive
substring, first rule wins) and persists the mutated state. Recognized
actions: expedite PO, alternate supplier, carrier upgrade, QA fast-track,
re-sequencing, batch changeovers.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := scenario.NewStore(cfg.DataPath)
		state, err := store.Apply(args[0])
		if err != nil {
			return err
		}
		return writeJSON(actionResponse{State: state, Message: fmt.Sprintf("Applied: %s", args[0])})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the scenario state to defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := scenario.NewStore(cfg.DataPath)
		state, err := store.Reset()
		if err != nil {
			return err
		}
		return writeJSON(actionResponse{State: state, Message: "Reset"})
	},
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the current scenario state",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := scenario.NewStore(cfg.DataPath)
		state, err := store.Get()
		if err != nil {
			return err
		}
		return writeJSON(state)
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(stateCmd)
}
