package catalog

import "time"

// Processing describes how an ingredient must be prepared before it can go
// into a dish.
type Processing int

const (
	// ProcessingUnknown means the chef has no preparation rule for the ingredient.
	ProcessingUnknown Processing = iota
	// CutOnly ingredients are cut and never cooked.
	CutOnly
	// CookOnly ingredients are cooked without cutting.
	CookOnly
	// CutAndCook ingredients must be both cut and cooked.
	CutAndCook
	// CutOrCook ingredients are always cut and may additionally be cooked
	// depending on the dish.
	CutOrCook
)

// String returns the processing requirement name.
func (p Processing) String() string {
	switch p {
	case CutOnly:
		return "CUT_ONLY"
	case CookOnly:
		return "COOK_ONLY"
	case CutAndCook:
		return "CUT_AND_COOK"
	case CutOrCook:
		return "CUT_OR_COOK"
	default:
		return "UNKNOWN"
	}
}

// Ingredient status values reported by the cook once preparation finishes.
const (
	StatusCutAndCooked = "CUT_AND_COOKED"
	StatusCut          = "CUT"
	StatusCooked       = "COOKED"
	StatusRaw          = "RAW"
)

// Status derives the reported ingredient status from the preparation steps
// that were actually applied.
func Status(cut, cooked bool) string {
	switch {
	case cut && cooked:
		return StatusCutAndCooked
	case cut:
		return StatusCut
	case cooked:
		return StatusCooked
	default:
		return StatusRaw
	}
}

// Knowledge holds the chef's preparation tables: how long each ingredient
// takes to cut and cook, which method cooks it, and what processing it
// requires.
type Knowledge struct {
	cookTimes    map[string]time.Duration
	cutTimes     map[string]time.Duration
	cookMethods  map[string]string
	requirements map[string]Processing
}

// NewKnowledge returns the standard chef knowledge tables.
func NewKnowledge() *Knowledge {
	return &Knowledge{
		cookTimes: map[string]time.Duration{
			"meat":    8 * time.Second,
			"chicken": 6 * time.Second,
			"fish":    4 * time.Second,
			"pasta":   5 * time.Second,
			"rice":    7 * time.Second,
		},
		cutTimes: map[string]time.Duration{
			"meat":    5 * time.Second,
			"chicken": 5 * time.Second,
			"fish":    15 * time.Second,
			"tomato":  2 * time.Second,
			"onion":   3 * time.Second,
			"lettuce": 1 * time.Second,
			"carrot":  3 * time.Second,
			"potato":  4 * time.Second,
		},
		cookMethods: map[string]string{
			"meat":    "grilling",
			"chicken": "pan-frying",
			"fish":    "steaming",
			"pasta":   "boiling",
			"rice":    "steaming",
		},
		requirements: map[string]Processing{
			"meat":    CutAndCook,
			"chicken": CutAndCook,
			"fish":    CutAndCook,
			"pasta":   CookOnly,
			"rice":    CookOnly,
			"lettuce": CutOnly,
			"tomato":  CutOrCook,
			"onion":   CutOrCook,
			"carrot":  CutAndCook,
			"potato":  CutAndCook,
		},
	}
}

// CookDuration returns how long the ingredient takes to cook. The second
// return value is false if the chef does not know how to cook it.
func (k *Knowledge) CookDuration(ingredient string) (time.Duration, bool) {
	d, ok := k.cookTimes[normalize(ingredient)]
	return d, ok
}

// CutDuration returns how long the ingredient takes to cut. The second
// return value is false if the chef does not know how to cut it.
func (k *Knowledge) CutDuration(ingredient string) (time.Duration, bool) {
	d, ok := k.cutTimes[normalize(ingredient)]
	return d, ok
}

// CookMethod returns the preferred cooking method for the ingredient, or
// "unknown" if none is recorded.
func (k *Knowledge) CookMethod(ingredient string) string {
	if method, ok := k.cookMethods[normalize(ingredient)]; ok {
		return method
	}
	return "unknown"
}

// CanCook reports whether the chef knows how to cook the ingredient.
func (k *Knowledge) CanCook(ingredient string) bool {
	_, ok := k.cookTimes[normalize(ingredient)]
	return ok
}

// CanCut reports whether the chef knows how to cut the ingredient.
func (k *Knowledge) CanCut(ingredient string) bool {
	_, ok := k.cutTimes[normalize(ingredient)]
	return ok
}

// Requirement returns the processing requirement for the ingredient.
func (k *Knowledge) Requirement(ingredient string) Processing {
	return k.requirements[normalize(ingredient)]
}

// RequiresCutting reports whether the ingredient's preparation includes a
// cutting step.
func (k *Knowledge) RequiresCutting(ingredient string) bool {
	switch k.Requirement(ingredient) {
	case CutOnly, CutAndCook, CutOrCook:
		return true
	default:
		return false
	}
}

// RequiresCooking reports whether the ingredient's preparation may include a
// cooking step.
func (k *Knowledge) RequiresCooking(ingredient string) bool {
	switch k.Requirement(ingredient) {
	case CookOnly, CutAndCook, CutOrCook:
		return true
	default:
		return false
	}
}
