package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ordercraft/ordercraft/internal/adapters/outbound/tui"
	"github.com/ordercraft/ordercraft/internal/domain"
)

func newOrdersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Inspect and manage persisted orders",
	}
	cmd.AddCommand(newOrdersListCmd())
	cmd.AddCommand(newOrdersShowCmd())
	cmd.AddCommand(newOrdersConfirmCmd())
	cmd.AddCommand(newOrdersRejectCmd())
	cmd.AddCommand(newOrdersStatsCmd())
	return cmd
}

func newOrdersListCmd() *cobra.Command {
	var (
		status     string
		limit      int
		jsonOutput bool
		path       string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine(path)
			if err != nil {
				return err
			}
			defer eng.Close()

			orders, err := eng.orders.ListOrders(cmd.Context(), domain.OrderStatus(status), limit)
			if err != nil {
				return err
			}

			if jsonOutput {
				return renderJSON(cmd, orders)
			}

			fmt.Fprint(cmd.OutOrStdout(), tui.RenderOrders(orders))
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Only show orders with this status (pending, confirmed, rejected)")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of orders to show")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output orders as JSON")
	cmd.Flags().StringVar(&path, "path", ".", "Directory with .ordercraft.yaml, catalog and store")

	return cmd
}

func newOrdersShowCmd() *cobra.Command {
	var (
		jsonOutput bool
		path       string
	)

	cmd := &cobra.Command{
		Use:   "show <order-id>",
		Short: "Show one order in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine(path)
			if err != nil {
				return err
			}
			defer eng.Close()

			order, err := eng.orders.GetOrder(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if jsonOutput {
				return renderJSON(cmd, order)
			}

			fmt.Fprint(cmd.OutOrStdout(), tui.RenderOrder(order))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the order as JSON")
	cmd.Flags().StringVar(&path, "path", ".", "Directory with .ordercraft.yaml, catalog and store")

	return cmd
}

func newOrdersConfirmCmd() *cobra.Command {
	return newStatusCmd("confirm <order-id>", "Confirm a pending order", domain.StatusConfirmed)
}

func newOrdersRejectCmd() *cobra.Command {
	return newStatusCmd("reject <order-id>", "Reject a pending order", domain.StatusRejected)
}

func newStatusCmd(use, short string, target domain.OrderStatus) *cobra.Command {
	var (
		jsonOutput bool
		path       string
	)

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine(path)
			if err != nil {
				return err
			}
			defer eng.Close()

			order, err := eng.orders.UpdateStatus(cmd.Context(), args[0], target)
			if err != nil {
				return err
			}

			if jsonOutput {
				return renderJSON(cmd, order)
			}

			fmt.Fprint(cmd.OutOrStdout(), tui.RenderOrder(order))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the order as JSON")
	cmd.Flags().StringVar(&path, "path", ".", "Directory with .ordercraft.yaml, catalog and store")

	return cmd
}

func newOrdersStatsCmd() *cobra.Command {
	var (
		jsonOutput bool
		path       string
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate order statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine(path)
			if err != nil {
				return err
			}
			defer eng.Close()

			stats, err := eng.orders.OrderStats(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput {
				return renderJSON(cmd, stats)
			}

			fmt.Fprint(cmd.OutOrStdout(), tui.RenderStats(stats))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output stats as JSON")
	cmd.Flags().StringVar(&path, "path", ".", "Directory with .ordercraft.yaml, catalog and store")

	return cmd
}
