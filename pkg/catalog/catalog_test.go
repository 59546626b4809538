package catalog

import (
	"testing"
	"time"
)

func TestMenuRecipe(t *testing.T) {
	menu := NewMenu()

	tests := []struct {
		name    string
		dish    string
		want    []string
		wantOK  bool
	}{
		{
			name:   "known dish",
			dish:   "steak",
			want:   []string{"meat", "potato"},
			wantOK: true,
		},
		{
			name:   "salad recipe",
			dish:   "salad",
			want:   []string{"lettuce", "tomato", "onion"},
			wantOK: true,
		},
		{
			name:   "case insensitive lookup",
			dish:   "  Caesar ",
			want:   []string{"lettuce", "chicken", "tomato"},
			wantOK: true,
		},
		{
			name:   "unknown dish",
			dish:   "sushi",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := menu.Recipe(tt.dish)
			if ok != tt.wantOK {
				t.Fatalf("Recipe(%q) ok = %v, want %v", tt.dish, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Recipe(%q) = %v, want %v", tt.dish, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Recipe(%q)[%d] = %q, want %q", tt.dish, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestMenuRecipeReturnsCopy(t *testing.T) {
	menu := NewMenu()

	first, _ := menu.Recipe("steak")
	first[0] = "tofu"

	second, _ := menu.Recipe("steak")
	if second[0] != "meat" {
		t.Errorf("Recipe returned shared slice, got %q after mutation", second[0])
	}
}

func TestMenuDishes(t *testing.T) {
	menu := NewMenu()

	dishes := menu.Dishes()
	if len(dishes) != menu.Size() {
		t.Fatalf("Dishes() returned %d entries, Size() = %d", len(dishes), menu.Size())
	}
	if menu.Size() != 10 {
		t.Errorf("Size() = %d, want 10", menu.Size())
	}
	for i := 1; i < len(dishes); i++ {
		if dishes[i-1] >= dishes[i] {
			t.Errorf("Dishes() not sorted: %q before %q", dishes[i-1], dishes[i])
		}
	}
	if !menu.Contains("carbonara") {
		t.Error("Contains(carbonara) = false, want true")
	}
	if menu.Contains("pizza") {
		t.Error("Contains(pizza) = true, want false")
	}
}

func TestKnowledgeDurations(t *testing.T) {
	k := NewKnowledge()

	tests := []struct {
		ingredient string
		cut        time.Duration
		cook       time.Duration
		canCut     bool
		canCook    bool
	}{
		{"meat", 5 * time.Second, 8 * time.Second, true, true},
		{"fish", 15 * time.Second, 4 * time.Second, true, true},
		{"pasta", 0, 5 * time.Second, false, true},
		{"lettuce", 1 * time.Second, 0, true, false},
		{"onion", 3 * time.Second, 0, true, false},
		{"gold", 0, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.ingredient, func(t *testing.T) {
			cut, ok := k.CutDuration(tt.ingredient)
			if ok != tt.canCut {
				t.Errorf("CutDuration ok = %v, want %v", ok, tt.canCut)
			}
			if ok && cut != tt.cut {
				t.Errorf("CutDuration = %v, want %v", cut, tt.cut)
			}

			cook, ok := k.CookDuration(tt.ingredient)
			if ok != tt.canCook {
				t.Errorf("CookDuration ok = %v, want %v", ok, tt.canCook)
			}
			if ok && cook != tt.cook {
				t.Errorf("CookDuration = %v, want %v", cook, tt.cook)
			}

			if k.CanCut(tt.ingredient) != tt.canCut {
				t.Errorf("CanCut = %v, want %v", k.CanCut(tt.ingredient), tt.canCut)
			}
			if k.CanCook(tt.ingredient) != tt.canCook {
				t.Errorf("CanCook = %v, want %v", k.CanCook(tt.ingredient), tt.canCook)
			}
		})
	}
}

func TestKnowledgeCookMethod(t *testing.T) {
	k := NewKnowledge()

	if got := k.CookMethod("meat"); got != "grilling" {
		t.Errorf("CookMethod(meat) = %q, want grilling", got)
	}
	if got := k.CookMethod("chicken"); got != "pan-frying" {
		t.Errorf("CookMethod(chicken) = %q, want pan-frying", got)
	}
	if got := k.CookMethod("lettuce"); got != "unknown" {
		t.Errorf("CookMethod(lettuce) = %q, want unknown", got)
	}
}

func TestKnowledgeRequirements(t *testing.T) {
	k := NewKnowledge()

	tests := []struct {
		ingredient  string
		requirement Processing
		needsCut    bool
		needsCook   bool
	}{
		{"meat", CutAndCook, true, true},
		{"potato", CutAndCook, true, true},
		{"pasta", CookOnly, false, true},
		{"rice", CookOnly, false, true},
		{"lettuce", CutOnly, true, false},
		{"tomato", CutOrCook, true, true},
		{"onion", CutOrCook, true, true},
		{"gold", ProcessingUnknown, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.ingredient, func(t *testing.T) {
			if got := k.Requirement(tt.ingredient); got != tt.requirement {
				t.Errorf("Requirement = %v, want %v", got, tt.requirement)
			}
			if got := k.RequiresCutting(tt.ingredient); got != tt.needsCut {
				t.Errorf("RequiresCutting = %v, want %v", got, tt.needsCut)
			}
			if got := k.RequiresCooking(tt.ingredient); got != tt.needsCook {
				t.Errorf("RequiresCooking = %v, want %v", got, tt.needsCook)
			}
		})
	}
}

func TestShouldCook(t *testing.T) {
	k := NewKnowledge()

	tests := []struct {
		name       string
		ingredient string
		dish       string
		policy     ServeRawPolicy
		want       bool
	}{
		{
			name:       "fixed cook requirement",
			ingredient: "meat",
			dish:       "steak",
			want:       true,
		},
		{
			name:       "cook only ignores dish",
			ingredient: "pasta",
			dish:       "salad",
			want:       true,
		},
		{
			name:       "cut only never cooks",
			ingredient: "lettuce",
			dish:       "caesar",
			want:       false,
		},
		{
			name:       "flexible ingredient raw in salad",
			ingredient: "tomato",
			dish:       "salad",
			want:       false,
		},
		{
			name:       "flexible ingredient cooked elsewhere",
			ingredient: "tomato",
			dish:       "pasta",
			want:       true,
		},
		{
			name:       "onion raw in salad",
			ingredient: "onion",
			dish:       "salad",
			want:       false,
		},
		{
			name:       "custom policy overrides default",
			ingredient: "tomato",
			dish:       "pasta",
			policy:     func(string, string) bool { return true },
			want:       false,
		},
		{
			name:       "unknown ingredient stays raw",
			ingredient: "gold",
			dish:       "soup",
			want:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := k.ShouldCook(tt.policy, tt.ingredient, tt.dish); got != tt.want {
				t.Errorf("ShouldCook(%q, %q) = %v, want %v", tt.ingredient, tt.dish, got, tt.want)
			}
		})
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		cut    bool
		cooked bool
		want   string
	}{
		{true, true, StatusCutAndCooked},
		{true, false, StatusCut},
		{false, true, StatusCooked},
		{false, false, StatusRaw},
	}

	for _, tt := range tests {
		if got := Status(tt.cut, tt.cooked); got != tt.want {
			t.Errorf("Status(%v, %v) = %q, want %q", tt.cut, tt.cooked, got, tt.want)
		}
	}
}
