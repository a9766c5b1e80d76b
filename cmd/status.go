package cmd

import (
	"github.com/huangsam/debtsession/core"
	"github.com/huangsam/debtsession/internal/contract"
	"github.com/spf13/cobra"
)

// statusCmd shows the live session record.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session: phase, budget and plan progress.",
	Long: `Display the latest persisted session record without mutating anything.

Shows the current phase, remaining budget against capacity, the full charge
ledger, whether the last checkpoint was forced by exhaustion, and plan
progress when a plan exists. Works for completed sessions too.

Examples:
  # Human-readable overview
  debtsession status

  # Machine-readable record for scripting
  debtsession status --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupNoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteStatus(rootCtx, cfg, sessionStore); err != nil {
			contract.LogFatal("Cannot show status", err)
		}
	},
}
