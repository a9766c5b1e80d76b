package cmd

import (
	"github.com/huangsam/debtsession/core"
	"github.com/huangsam/debtsession/internal/contract"
	"github.com/spf13/cobra"
)

// newCmd starts a brand-new refactoring session.
var newCmd = &cobra.Command{
	Use:   "new [repo-path]",
	Short: "Start a brand-new refactoring session with a fresh budget.",
	Long: `Start a new session with a replenished budget and persist its initial state.

A session walks one refactoring effort through triage, planning and execution
under a hard budget. Starting a new session supersedes the previous one; its
snapshots stay archived in the store for auditing.

Examples:
  # Start a session with the default budget
  debtsession new

  # Start a session with a larger budget
  debtsession new --capacity 20

  # Start a session against a specific codebase
  debtsession new ~/src/legacy-sim`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteNewSession(rootCtx, cfg, sessionStore); err != nil {
			contract.LogFatal("Cannot start session", err)
		}
	},
}
