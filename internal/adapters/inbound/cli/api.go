package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ordercraft/ordercraft/internal/adapters/inbound/rest"
)

func newAPICmd() *cobra.Command {
	var (
		path string
		addr string
	)

	cmd := &cobra.Command{
		Use:   "api",
		Short: "Start the OrderCraft REST API",
		Long:  "Start the HTTP API on the configured address. Swagger UI is served under /swagger/index.html.",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine(path)
			if err != nil {
				return err
			}
			defer eng.Close()

			listenAddr := eng.cfg.Server.Addr
			if addr != "" {
				listenAddr = addr
			}

			srv := rest.NewServer(eng.orders, eng.catalog)
			fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", listenAddr)
			return srv.Run(listenAddr)
		},
	}

	cmd.Flags().StringVar(&path, "path", ".", "Directory with .ordercraft.yaml, catalog and store")
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")

	return cmd
}
