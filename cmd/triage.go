package cmd

import (
	"github.com/huangsam/debtsession/core"
	"github.com/huangsam/debtsession/internal/contract"
	"github.com/spf13/cobra"
)

// triageCmd measures the codebase and ranks its debt hotspots.
var triageCmd = &cobra.Command{
	Use:   "triage [repo-path]",
	Short: "Measure the codebase and rank its technical debt hotspots.",
	Long: `Collect structural metrics from a read-only codebase snapshot and rank the
measured units into a hotspot list.

Each unit is scored from its size, decision-point complexity, coupling and
internal duplication. Units that fail measurement are excluded from scoring
without aborting the run. The ranked list replaces any previous triage result
and the transition charges the triage cost against the session budget.

Examples:
  # Triage the current directory
  debtsession triage

  # Keep only the ten worst hotspots
  debtsession triage --top-n 10

  # Triage pre-measured units instead of walking the filesystem
  debtsession triage --units-file units.json

  # Export findings to CSV for tracking
  debtsession triage --output csv --output-file hotspots.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTriage(rootCtx, cfg, sessionStore); err != nil {
			contract.LogFatal("Cannot run triage", err)
		}
	},
}
