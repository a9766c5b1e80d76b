package cmd

import (
	"github.com/huangsam/debtsession/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the debtsession MCP server",
	Long:  `Launch an MCP server that allows AI agents to triage codebases and inspect session state via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Stdio carries the protocol, so setup must not write to stdout.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, sessionStore)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
