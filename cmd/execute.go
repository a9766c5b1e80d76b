package cmd

import (
	"github.com/huangsam/debtsession/core"
	"github.com/huangsam/debtsession/internal/contract"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// executeCmd records an execution pass over the frozen plan.
var executeCmd = &cobra.Command{
	Use:   "execute",
	Short: "Record an execution pass over the extraction plan.",
	Long: `Enter the execute phase, freezing the current plan, and record how many
plan steps were completed in this pass.

The engine never edits code itself; marking steps done is the operator's
confirmation that the corresponding refactoring work happened. Execution is
the most expensive phase, so this is typically where the budget runs out.
When it does, the session takes an automatic checkpoint instead of entering
the phase and reports budget exhaustion as a non-fatal outcome.

Examples:
  # Record one completed step (the default)
  debtsession execute

  # Record three completed steps in one pass
  debtsession execute --steps 3`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupNoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteWork(rootCtx, cfg, sessionStore, viper.GetInt("steps")); err != nil {
			contract.LogFatal("Cannot record execute pass", err)
		}
	},
}
