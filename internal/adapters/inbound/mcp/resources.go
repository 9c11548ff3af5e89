package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ordercraft/ordercraft/internal/application"
	"github.com/ordercraft/ordercraft/internal/domain"
)

// registerResources registers all OrderCraft MCP resources on the given server.
func registerResources(s *server.MCPServer, orders *application.OrderService, catalog *application.CatalogService) {
	// 1. ordercraft://catalog - the full product catalog
	s.AddResource(
		mcplib.NewResource(
			"ordercraft://catalog",
			"Product Catalog",
			mcplib.WithResourceDescription("Every product available for ordering"),
			mcplib.WithMIMEType("application/json"),
		),
		handleCatalogResource(catalog),
	)

	// 2. ordercraft://orders/recent - the latest orders
	s.AddResource(
		mcplib.NewResource(
			"ordercraft://orders/recent",
			"Recent Orders",
			mcplib.WithResourceDescription("The most recently created orders, newest first"),
			mcplib.WithMIMEType("application/json"),
		),
		handleRecentOrdersResource(orders),
	)

	// 3. ordercraft://orders/{order_id} - one order (resource template)
	s.AddResourceTemplate(
		mcplib.NewResourceTemplate(
			"ordercraft://orders/{order_id}",
			"Order",
			mcplib.WithTemplateDescription("A single order by id"),
			mcplib.WithTemplateMIMEType("application/json"),
		),
		handleOrderResource(orders),
	)
}

func handleCatalogResource(catalog *application.CatalogService) server.ResourceHandlerFunc {
	return func(ctx context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		products, err := catalog.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing catalog: %w", err)
		}

		data, err := json.MarshalIndent(products, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling catalog: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      "ordercraft://catalog",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}

func handleRecentOrdersResource(orders *application.OrderService) server.ResourceHandlerFunc {
	return func(ctx context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		list, err := orders.ListOrders(ctx, "", 10)
		if err != nil {
			return nil, fmt.Errorf("listing orders: %w", err)
		}

		data, err := json.MarshalIndent(list, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling orders: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      "ordercraft://orders/recent",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}

func handleOrderResource(orders *application.OrderService) server.ResourceTemplateHandlerFunc {
	return func(ctx context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		// Extract the order id from the arguments (populated by template matching)
		orderID, ok := request.Params.Arguments["order_id"].(string)
		if !ok || orderID == "" {
			return nil, fmt.Errorf("order_id is required")
		}

		order, err := orders.GetOrder(ctx, orderID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("order %s not found", orderID)
			}
			return nil, fmt.Errorf("loading order: %w", err)
		}

		data, err := json.MarshalIndent(order, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling order: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      request.Params.URI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}
