package cmd

import (
	"github.com/huangsam/shopcache/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Shopcache MCP server",
	Long:  `Launch an MCP server that lets AI agents browse the cached catalog and the pending action queue via standard tools.`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		// Suppress the normal header logs when running in MCP mode
		// to avoid polluting stdio which is used for the protocol.
		return storeSetup()
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, store)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
