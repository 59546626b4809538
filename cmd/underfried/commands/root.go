package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/underfried/underfried/pkg/config"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "underfried",
		Short: "Underfried - Restaurant Kitchen Simulation",
		Long: `Underfried simulates a short-staffed restaurant kitchen as a set of
concurrent actors passing messages over a shared ledger.

The order taker walks the tables, the cook prepares ingredients (and
occasionally burns them), the assembler plates completed dishes, and the
washer keeps the finite plate pool circulating. A hazard injector throws
fires and pests into the mix to keep everyone honest.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newMenuCommand())
	rootCmd.AddCommand(newValidateCommand())

	return rootCmd
}

// loadConfig resolves the effective configuration: the --config file when
// given, built-in defaults otherwise.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}
