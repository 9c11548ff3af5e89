package cli

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpadapter "github.com/ordercraft/ordercraft/internal/adapters/inbound/mcp"
)

func newServeCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the OrderCraft MCP server (stdio)",
		Long: "Start the OrderCraft MCP (Model Context Protocol) server using stdio transport. " +
			"This lets AI assistants search the catalog and place orders through the engine.",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine(path)
			if err != nil {
				return err
			}
			defer eng.Close()

			s := mcpadapter.NewOrderCraftMCPServer(eng.orders, eng.catalog)
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&path, "path", ".", "Directory with .ordercraft.yaml, catalog and store")

	return cmd
}
