package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ordercraft/ordercraft/internal/application"
)

// NewOrderCraftMCPServer creates a new MCP server with all OrderCraft tools
// and resources registered. The Dialogue Policy talks to this server; every
// conversational outcome (created, clarification, rejection) comes back as
// a structured JSON payload, never as a protocol error.
func NewOrderCraftMCPServer(orders *application.OrderService, catalog *application.CatalogService) *server.MCPServer {
	s := server.NewMCPServer(
		"ordercraft",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, orders, catalog)
	registerResources(s, orders, catalog)

	return s
}
