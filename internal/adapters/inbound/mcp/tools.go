package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/shopspring/decimal"

	"github.com/ordercraft/ordercraft/internal/application"
	"github.com/ordercraft/ordercraft/internal/domain"
	"github.com/ordercraft/ordercraft/internal/domain/conversation"
)

// registerTools registers all OrderCraft MCP tools on the given server.
func registerTools(s *server.MCPServer, orders *application.OrderService, catalog *application.CatalogService) {
	// 1. search_products
	s.AddTool(
		mcplib.NewTool("search_products",
			mcplib.WithDescription("Search the product catalog. Use this for any product question including prices, availability or comparisons."),
			mcplib.WithString("query",
				mcplib.Required(),
				mcplib.Description("What the customer is looking for"),
			),
			mcplib.WithString("category", mcplib.Description("Optional category filter")),
			mcplib.WithNumber("max_price", mcplib.Description("Only return products at or below this price")),
			mcplib.WithNumber("max_results", mcplib.Description("Maximum number of results (default 5)")),
		),
		handleSearchProducts(catalog),
	)

	// 2. create_order
	s.AddTool(
		mcplib.NewTool("create_order",
			mcplib.WithDescription("Create an order when the customer confirms purchase intent. Omitted details are resolved from the conversation history; the result is the order, a clarification question, or a typed rejection."),
			mcplib.WithArray("products",
				mcplib.Description("Products to order; each entry carries product_id, product_name or query, plus quantity"),
			),
			mcplib.WithArray("history",
				mcplib.Description("Conversation turns, each with role, text and the products surfaced on that turn"),
			),
			mcplib.WithString("utterance", mcplib.Description("The user message that triggered this call")),
			mcplib.WithNumber("quantity", mcplib.Description("Quantity when it applies to the whole request")),
			mcplib.WithString("customer_name", mcplib.Description("Customer name if provided in conversation")),
			mcplib.WithString("customer_email", mcplib.Description("Customer email if provided in conversation")),
			mcplib.WithString("customer_phone", mcplib.Description("Customer phone if provided in conversation")),
			mcplib.WithString("customer_address", mcplib.Description("Customer address if provided in conversation")),
			mcplib.WithString("notes", mcplib.Description("Special notes or instructions")),
			mcplib.WithBoolean("clamp", mcplib.Description("Cap oversized quantities at the allowed maximum instead of rejecting")),
		),
		handleCreateOrder(orders),
	)

	// 3. get_order
	s.AddTool(
		mcplib.NewTool("get_order",
			mcplib.WithDescription("Fetch one order by its id"),
			mcplib.WithString("order_id",
				mcplib.Required(),
				mcplib.Description("The order id, e.g. ORD-20240315103000-1A2B3C4D"),
			),
		),
		handleGetOrder(orders),
	)

	// 4. list_recent_orders
	s.AddTool(
		mcplib.NewTool("list_recent_orders",
			mcplib.WithDescription("List the most recent orders, newest first"),
			mcplib.WithNumber("limit", mcplib.Description("Maximum number of orders (default 10)")),
		),
		handleListRecentOrders(orders),
	)
}

func handleSearchProducts(catalog *application.CatalogService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		args := request.GetArguments()
		q := domain.CatalogQuery{Text: query}
		if category, ok := args["category"].(string); ok {
			q.Category = category
		}
		if maxPrice, ok := args["max_price"].(float64); ok && maxPrice > 0 {
			q.MaxPrice = decimal.NewFromFloat(maxPrice)
		}
		if maxResults, ok := args["max_results"].(float64); ok {
			q.Limit = int(maxResults)
		}

		products, err := catalog.Search(ctx, q)
		if err != nil {
			return errorResult(fmt.Sprintf("search failed: %v", err)), nil
		}

		type searchResponse struct {
			Products   []domain.ProductReference `json:"products"`
			TotalFound int                       `json:"total_found"`
			Query      string                    `json:"query"`
		}
		return jsonResult(searchResponse{
			Products:   products,
			TotalFound: len(products),
			Query:      query,
		})
	}
}

// createOrderArgs is the raw argument shape of the create_order tool. It is
// decoded as a whole so nested products and history arrive typed.
type createOrderArgs struct {
	Products []struct {
		ProductID   string `json:"product_id"`
		ProductName string `json:"product_name"`
		Query       string `json:"query"`
		Quantity    int    `json:"quantity"`
	} `json:"products"`
	History         []conversation.Turn `json:"history"`
	Utterance       string              `json:"utterance"`
	Quantity        int                 `json:"quantity"`
	CustomerName    string              `json:"customer_name"`
	CustomerEmail   string              `json:"customer_email"`
	CustomerPhone   string              `json:"customer_phone"`
	CustomerAddress string              `json:"customer_address"`
	Notes           string              `json:"notes"`
	Clamp           bool                `json:"clamp"`
}

func handleCreateOrder(orders *application.OrderService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		var args createOrderArgs
		if err := decodeInto(request.GetArguments(), &args); err != nil {
			return errorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		in := application.CreateOrderInput{
			History:   args.History,
			Quantity:  args.Quantity,
			Utterance: args.Utterance,
			Notes:     args.Notes,
			Clamp:     args.Clamp,
		}
		for _, p := range args.Products {
			in.Items = append(in.Items, application.ItemInput{
				ProductID: p.ProductID,
				Name:      p.ProductName,
				Query:     p.Query,
				Quantity:  p.Quantity,
			})
		}
		customer := domain.CustomerInfo{
			Name:    args.CustomerName,
			Email:   args.CustomerEmail,
			Phone:   args.CustomerPhone,
			Address: args.CustomerAddress,
		}
		if !customer.Empty() {
			in.Customer = &customer
		}

		outcome, err := orders.CreateOrder(ctx, in)
		if err != nil {
			if errors.Is(err, domain.ErrExternalTimeout) {
				return errorResult("external service timeout, please try again"), nil
			}
			return errorResult(fmt.Sprintf("create order failed: %v", err)), nil
		}
		return jsonResult(outcome)
	}
}

func handleGetOrder(orders *application.OrderService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		orderID, err := request.RequireString("order_id")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		order, err := orders.GetOrder(ctx, orderID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return errorResult(fmt.Sprintf("order %s not found", orderID)), nil
			}
			return errorResult(fmt.Sprintf("get order failed: %v", err)), nil
		}
		return jsonResult(order)
	}
}

func handleListRecentOrders(orders *application.OrderService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		limit := 0
		if raw, ok := request.GetArguments()["limit"].(float64); ok {
			limit = int(raw)
		}

		list, err := orders.ListOrders(ctx, "", limit)
		if err != nil {
			return errorResult(fmt.Sprintf("list orders failed: %v", err)), nil
		}

		type listResponse struct {
			Orders []*domain.Order `json:"orders"`
			Count  int             `json:"count"`
		}
		return jsonResult(listResponse{Orders: list, Count: len(list)})
	}
}

// decodeInto round-trips a raw argument value through JSON into a typed
// struct, so nested arrays keep their shape and decimals parse exactly.
func decodeInto(raw any, out any) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
