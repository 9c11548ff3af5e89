package cli

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ordercraft/ordercraft/internal/adapters/outbound/tui"
	"github.com/ordercraft/ordercraft/internal/domain"
)

func newSearchCmd() *cobra.Command {
	var (
		jsonOutput bool
		category   string
		maxPrice   string
		limit      int
		path       string
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the product catalog",
		Long:  "Run a ranked catalog search and show how well each product matches.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine(path)
			if err != nil {
				return err
			}
			defer eng.Close()

			q := domain.CatalogQuery{Text: args[0], Category: category, Limit: limit}
			if maxPrice != "" {
				ceiling, err := decimal.NewFromString(maxPrice)
				if err != nil {
					return fmt.Errorf("invalid --max-price %q", maxPrice)
				}
				q.MaxPrice = ceiling
			}

			results, err := eng.catalog.Search(cmd.Context(), q)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}

			if jsonOutput {
				return renderJSON(cmd, results)
			}

			fmt.Fprint(cmd.OutOrStdout(), tui.RenderSearchResults(args[0], results))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	cmd.Flags().StringVar(&category, "category", "", "Filter by category")
	cmd.Flags().StringVar(&maxPrice, "max-price", "", "Only show products at or below this price")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results (default from config)")
	cmd.Flags().StringVar(&path, "path", ".", "Directory with .ordercraft.yaml, catalog and store")

	return cmd
}

func renderJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
