package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ordercraft/ordercraft/internal/adapters/outbound/tui"
	"github.com/ordercraft/ordercraft/internal/application"
	"github.com/ordercraft/ordercraft/internal/domain"
)

func newPlaceCmd() *cobra.Command {
	var (
		products   []string
		quantities []int
		custName   string
		custEmail  string
		custPhone  string
		custAddr   string
		notes      string
		clamp      bool
		jsonOutput bool
		path       string
	)

	cmd := &cobra.Command{
		Use:   "place",
		Short: "Place an order",
		Long: "Build and persist an order from the given product references. " +
			"Each --product takes either an exact product id or free text that must match exactly one catalog product. " +
			"Quantities pair with products by position and default to 1.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(quantities) > len(products) {
				return fmt.Errorf("got %d quantities for %d products", len(quantities), len(products))
			}

			eng, err := buildEngine(path)
			if err != nil {
				return err
			}
			defer eng.Close()

			in := application.CreateOrderInput{Notes: notes, Clamp: clamp}
			for i, p := range products {
				item := application.ItemInput{Query: p, Quantity: 1}
				if i < len(quantities) {
					item.Quantity = quantities[i]
				}
				in.Items = append(in.Items, item)
			}

			customer := domain.CustomerInfo{
				Name:    custName,
				Email:   custEmail,
				Phone:   custPhone,
				Address: custAddr,
			}
			if !customer.Empty() {
				in.Customer = &customer
			}

			outcome, err := eng.orders.CreateOrder(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("placing order failed: %w", err)
			}

			if jsonOutput {
				return renderJSON(cmd, outcome)
			}

			fmt.Fprint(cmd.OutOrStdout(), tui.RenderOutcome(outcome))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&products, "product", nil, "Product id or search text (repeatable)")
	cmd.Flags().IntSliceVar(&quantities, "quantity", nil, "Quantity for the matching --product (repeatable)")
	cmd.Flags().StringVar(&custName, "customer-name", "", "Customer name")
	cmd.Flags().StringVar(&custEmail, "customer-email", "", "Customer email")
	cmd.Flags().StringVar(&custPhone, "customer-phone", "", "Customer phone")
	cmd.Flags().StringVar(&custAddr, "customer-address", "", "Customer address")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form order notes")
	cmd.Flags().BoolVar(&clamp, "clamp", false, "Cap oversized quantities at the per-line maximum instead of rejecting")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the outcome as JSON")
	cmd.Flags().StringVar(&path, "path", ".", "Directory with .ordercraft.yaml, catalog and store")

	return cmd
}
