package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/underfried/underfried/pkg/catalog"
)

func newMenuCommand() *cobra.Command {
	var showPrep bool

	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Print the menu",
		Long:  `Print every dish on the menu with its recipe, and optionally how each ingredient is prepared.`,
		Example: `  # List dishes and recipes
  underfried menu

  # Include per-ingredient preparation details
  underfried menu --prep`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			menu := catalog.NewMenu()
			knowledge := catalog.NewKnowledge()

			fmt.Printf("Menu (%d dishes):\n\n", menu.Size())
			for _, dish := range menu.Dishes() {
				recipe, _ := menu.Recipe(dish)
				fmt.Printf("  %-18s %s\n", dish, strings.Join(recipe, ", "))

				if !showPrep {
					continue
				}
				for _, ingredient := range recipe {
					var steps []string
					if d, ok := knowledge.CutDuration(ingredient); ok {
						steps = append(steps, fmt.Sprintf("cut %s", d))
					}
					if d, ok := knowledge.CookDuration(ingredient); ok {
						steps = append(steps, fmt.Sprintf("%s %s", knowledge.CookMethod(ingredient), d))
					}
					if len(steps) == 0 {
						steps = append(steps, "served as is")
					}
					fmt.Printf("      %-14s %s\n", ingredient, strings.Join(steps, ", "))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showPrep, "prep", false, "show per-ingredient preparation details")

	return cmd
}
