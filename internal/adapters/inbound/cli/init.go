package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ordercraft/ordercraft/internal/domain"
)

const configFileName = ".ordercraft.yaml"

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Generate a .ordercraft.yaml configuration file",
		Long:  "Create a .ordercraft.yaml with the default engine settings.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			dest := filepath.Join(absPath, configFileName)

			if !force {
				if _, err := os.Stat(dest); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", configFileName)
				}
			}

			if err := os.WriteFile(dest, []byte(generateConfig()), 0644); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", configFileName)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing .ordercraft.yaml")

	return cmd
}

func generateConfig() string {
	cfg := domain.DefaultEngineConfig()

	return fmt.Sprintf(`# OrderCraft configuration
# See: https://github.com/ordercraft/ordercraft

catalog:
  path: %s
  score_threshold: %.1f
  ambiguity_margin: %.1f
  max_results: %d

store:
  path: %s

server:
  addr: %q
`,
		cfg.Catalog.Path,
		cfg.Catalog.ScoreThreshold,
		cfg.Catalog.AmbiguityMargin,
		cfg.Catalog.MaxResults,
		cfg.Store.Path,
		cfg.Server.Addr,
	)
}
