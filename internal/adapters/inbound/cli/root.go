package cli

import "github.com/spf13/cobra"

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ordercraft",
		Short: "Turn conversations into orders",
		Long: "OrderCraft is an order construction engine for conversational purchase flows. " +
			"It resolves what the customer is referring to from the dialogue history, then validates and assembles a priced order.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newPlaceCmd())
	cmd.AddCommand(newOrdersCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newAPICmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}
