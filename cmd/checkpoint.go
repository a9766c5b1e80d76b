package cmd

import (
	"github.com/huangsam/debtsession/core"
	"github.com/huangsam/debtsession/internal/contract"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// checkpointCmd persists a voluntary checkpoint or closes the session.
var checkpointCmd = &cobra.Command{
	Use:   "checkpoint",
	Short: "Persist session state so it can be resumed losslessly.",
	Long: `Take a voluntary checkpoint of the session: the current phase, triage
results, plan progress, and the full budget ledger are persisted so the
session survives process restarts.

With --finish the session closes into its terminal state instead. Finishing
requires every plan step to be complete; the final snapshot is archived and
the ledger closed.

Examples:
  # Pause work and persist everything
  debtsession checkpoint

  # Close out a finished session
  debtsession checkpoint --finish`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupNoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCheckpoint(rootCtx, cfg, sessionStore, viper.GetBool("finish")); err != nil {
			contract.LogFatal("Cannot take checkpoint", err)
		}
	},
}
