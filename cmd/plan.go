package cmd

import (
	"github.com/huangsam/debtsession/core"
	"github.com/huangsam/debtsession/internal/contract"
	"github.com/spf13/cobra"
)

// planCmd creates an extraction plan for one hotspot.
var planCmd = &cobra.Command{
	Use:   "plan <hotspot-id>",
	Short: "Create an extraction plan for one hotspot from the last triage.",
	Long: `Propose an ordered sequence of extraction steps for a single hotspot.

The hotspot must come from the most recent triage result. Steps are derived
from the unit's metrics: characterization tests first, then extraction,
deduplication or decoupling steps as the metrics warrant, and a final
verification pass. Each step carries an estimated cost and a risk tag.

The plan stays editable until execution starts, at which point it freezes;
changing course afterwards requires a new plan.

Examples:
  # Plan the top-ranked hotspot from the last triage
  debtsession plan sim/engine.py

  # Plan a specific symbol-level unit
  debtsession plan "sim/engine.py:Engine"`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupNoArgs,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecutePlan(rootCtx, cfg, sessionStore, args[0]); err != nil {
			contract.LogFatal("Cannot create plan", err)
		}
	},
}
