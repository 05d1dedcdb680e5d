package main

import (
	fitmcp "github.com/claude/fitfeed/internal/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the workout catalog to MCP clients over stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := cli.home()
		if err != nil {
			return err
		}
		cli.log.Info("mcp stdio server starting")
		return server.ServeStdio(fitmcp.New(cli.loader, b, Version, cli.log))
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
