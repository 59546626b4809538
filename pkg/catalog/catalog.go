// Package catalog holds the restaurant's static domain knowledge: the menu
// with its recipes, and the chef's knowledge about how each ingredient is
// prepared. The data is fixed at construction and safe for concurrent reads.
package catalog

import (
	"sort"
	"strings"
)

// Menu maps dish names to their recipes. A recipe is the list of ingredients
// a dish requires, in no particular order.
type Menu struct {
	dishes map[string][]string
}

// NewMenu returns the standard menu.
func NewMenu() *Menu {
	return &Menu{
		dishes: map[string][]string{
			// Main dishes
			"super_meat_boy":    {"meat", "tomato", "onion"},
			"super_chicken_boy": {"chicken", "lettuce", "carrot"},
			"steak":             {"meat", "potato"},
			"fish":              {"fish", "carrot", "potato"},

			// Pasta dishes
			"pasta":     {"pasta", "tomato"},
			"carbonara": {"pasta", "meat", "onion"},

			// Salads
			"salad":  {"lettuce", "tomato", "onion"},
			"caesar": {"lettuce", "chicken", "tomato"},

			// Soups
			"soup":         {"carrot", "potato", "onion"},
			"chicken_soup": {"chicken", "carrot", "potato"},
		},
	}
}

// Recipe returns the ingredients for a dish. The second return value is false
// if the dish is not on the menu. The returned slice is a copy.
func (m *Menu) Recipe(dish string) ([]string, bool) {
	recipe, ok := m.dishes[normalize(dish)]
	if !ok {
		return nil, false
	}
	out := make([]string, len(recipe))
	copy(out, recipe)
	return out, true
}

// Contains reports whether the dish is on the menu.
func (m *Menu) Contains(dish string) bool {
	_, ok := m.dishes[normalize(dish)]
	return ok
}

// Dishes returns all dish names in sorted order.
func (m *Menu) Dishes() []string {
	out := make([]string, 0, len(m.dishes))
	for dish := range m.dishes {
		out = append(out, dish)
	}
	sort.Strings(out)
	return out
}

// Size returns the number of dishes on the menu.
func (m *Menu) Size() int {
	return len(m.dishes)
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
