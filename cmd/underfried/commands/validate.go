package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/underfried/underfried/pkg/catalog"
	"github.com/underfried/underfried/pkg/config"
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <path>",
		Short: "Validate a configuration file",
		Long: `Parse and validate a YAML configuration file without running anything.

Beyond struct validation this also checks that every seeded ready dish
is actually on the menu, since the ledger would reject it at startup.`,
		Example: `  # Validate a config file
  underfried validate underfried.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}

			menu := catalog.NewMenu()
			for _, dish := range cfg.Restaurant.Plates.ReadyDishes {
				if !menu.Contains(dish) {
					return fmt.Errorf("seeded ready dish %q is not on the menu", dish)
				}
			}

			fmt.Printf("%s is valid\n", args[0])
			return nil
		},
	}

	return cmd
}
