package cmd

import (
	"github.com/huangsam/debtsession/core"
	"github.com/huangsam/debtsession/internal/contract"
	"github.com/spf13/cobra"
)

// resumeCmd re-enters the last persisted session.
var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Re-enter the last persisted session at its saved phase.",
	Long: `Reconstruct the session purely from its last persisted snapshot: phase,
hotspots, plan progress and remaining budget all carry over exactly as saved.

Resume performs no work and charges nothing, so resuming twice in a row
yields the identical state both times. A session that already reached its
terminal state cannot be resumed; start a new one instead.

Examples:
  # Pick up where the last checkpoint left off
  debtsession resume

  # Resume and inspect as JSON
  debtsession resume --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupNoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteResume(rootCtx, cfg, sessionStore); err != nil {
			contract.LogFatal("Cannot resume session", err)
		}
	},
}
