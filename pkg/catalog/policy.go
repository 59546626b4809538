package catalog

import "strings"

// ServeRawPolicy decides whether a flexible ingredient (CutOrCook) should be
// served raw in the given dish. It is only consulted for CutOrCook
// ingredients.
type ServeRawPolicy func(ingredient, dish string) bool

// SaladsServeRaw is the default policy: salads get raw ingredients, every
// other dish gets them cooked.
func SaladsServeRaw(ingredient, dish string) bool {
	return strings.Contains(normalize(dish), "salad")
}

// ShouldCook decides whether the ingredient gets a cooking step when prepared
// for the given dish. Fixed requirements are answered from the knowledge
// tables; CutOrCook ingredients defer to the policy. Unknown ingredients are
// served raw.
func (k *Knowledge) ShouldCook(policy ServeRawPolicy, ingredient, dish string) bool {
	switch k.Requirement(ingredient) {
	case CookOnly, CutAndCook:
		return true
	case CutOnly:
		return false
	case CutOrCook:
		if policy == nil {
			policy = SaladsServeRaw
		}
		return !policy(ingredient, dish)
	default:
		return false
	}
}
