package cmd

import (
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Coach MCP server",
	Long:  `Launch an MCP server on stdio that lets AI agents project scores, recommend topics and generate study goals.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Headers are suppressed per request; stdio carries the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
