package restaurant

import (
	"context"
	"errors"
	"testing"
)

func newTestCook(t *testing.T, ledger *Ledger, params Params) (*Cook, *MessageBus) {
	t.Helper()
	bus := NewMessageBus()
	cook := NewCook(bus, ledger, testMenu(), testKnowledge(), nil, params, testTelemetry(t), nil, testRNG())
	return cook, bus
}

// drainReadiness pops every pending assembler notification.
func drainReadiness(t *testing.T, bus *MessageBus) []IngredientReady {
	t.Helper()
	var out []IngredientReady
	for {
		msg, ok := bus.TryReceive(ActorAssembler)
		if !ok {
			return out
		}
		ready, err := msg.IngredientReady()
		if err != nil {
			t.Fatalf("invalid notification: %v", err)
		}
		out = append(out, ready)
	}
}

func TestCookSaladServedRaw(t *testing.T) {
	ledger := NewLedger(testMenu(), DefaultLedgerConfig())
	params := testParams()
	params.BurnProbability = 0
	cook, bus := newTestCook(t, ledger, params)

	if err := ledger.EnqueueOrder("salad"); err != nil {
		t.Fatal(err)
	}
	if err := cook.processOrder(context.Background(), "salad"); err != nil {
		t.Fatalf("processOrder: %v", err)
	}

	got := drainReadiness(t, bus)
	if len(got) != 3 {
		t.Fatalf("notifications = %d, want 3", len(got))
	}
	for _, r := range got {
		if r.Dish != "salad" {
			t.Errorf("notification for dish %q, want salad", r.Dish)
		}
		// Every salad ingredient is cut and served raw.
		if r.Status != "CUT" {
			t.Errorf("%s status = %s, want CUT", r.Ingredient, r.Status)
		}
	}
	if got := ledger.Snapshot().PendingOrders; got != 0 {
		t.Errorf("pending orders after processing = %d, want 0", got)
	}
}

func TestCookSteakStatuses(t *testing.T) {
	ledger := NewLedger(testMenu(), DefaultLedgerConfig())
	params := testParams()
	params.BurnProbability = 0
	cook, bus := newTestCook(t, ledger, params)

	if err := cook.processOrder(context.Background(), "steak"); err != nil {
		t.Fatalf("processOrder: %v", err)
	}

	byIngredient := make(map[string]string)
	for _, r := range drainReadiness(t, bus) {
		byIngredient[r.Ingredient] = r.Status
	}
	if byIngredient["meat"] != "CUT_AND_COOKED" {
		t.Errorf("meat status = %s, want CUT_AND_COOKED", byIngredient["meat"])
	}
	if byIngredient["potato"] != "CUT_AND_COOKED" {
		t.Errorf("potato status = %s, want CUT_AND_COOKED", byIngredient["potato"])
	}
}

func TestCookAtMostOneNotificationPerIngredient(t *testing.T) {
	ledger := NewLedger(testMenu(), DefaultLedgerConfig())
	params := testParams()
	params.BurnProbability = 0
	cook, bus := newTestCook(t, ledger, params)

	if err := cook.processOrder(context.Background(), "carbonara"); err != nil {
		t.Fatalf("processOrder: %v", err)
	}

	seen := make(map[string]int)
	for _, r := range drainReadiness(t, bus) {
		seen[r.Ingredient]++
	}
	for ingredient, n := range seen {
		if n != 1 {
			t.Errorf("ingredient %s notified %d times, want 1", ingredient, n)
		}
	}
	if len(seen) != 3 {
		t.Errorf("distinct ingredients notified = %d, want 3", len(seen))
	}
}

func TestCookBurnRegistersHazard(t *testing.T) {
	ledger := NewLedger(testMenu(), DefaultLedgerConfig())
	params := testParams()
	params.BurnProbability = 1.0 // every cook step burns
	cook, bus := newTestCook(t, ledger, params)

	err := cook.prepareIngredient(context.Background(), "meat", "steak")
	if err == nil {
		t.Fatal("prepareIngredient succeeded, want burn")
	}
	var kerr *KitchenError
	if !errors.As(err, &kerr) || kerr.Code != ErrCodeBurned {
		t.Errorf("error = %v, want code %s", err, ErrCodeBurned)
	}
	if !IsTransient(err) {
		t.Error("burn should be transient")
	}

	if got := len(drainReadiness(t, bus)); got != 0 {
		t.Errorf("burned ingredient produced %d notifications, want 0", got)
	}

	hazards := ledger.UnresolvedHazards(HazardBurnedFood)
	if len(hazards) != 1 {
		t.Fatalf("burned-food hazards = %d, want 1", len(hazards))
	}
	if hazards[0].Location.Name != LocCookingStation.Name {
		t.Errorf("hazard location = %s, want %s", hazards[0].Location.Name, LocCookingStation.Name)
	}
	if hazards[0].AffectedItem != "meat" {
		t.Errorf("hazard item = %s, want meat", hazards[0].AffectedItem)
	}
}

func TestCookBurnDoesNotAbortWholeDish(t *testing.T) {
	ledger := NewLedger(testMenu(), DefaultLedgerConfig())
	params := testParams()
	params.BurnProbability = 1.0
	cook, bus := newTestCook(t, ledger, params)

	// salad never cooks, steak's two ingredients both burn
	if err := cook.processOrder(context.Background(), "steak"); err != nil {
		t.Fatalf("processOrder: %v", err)
	}
	if got := len(drainReadiness(t, bus)); got != 0 {
		t.Errorf("notifications after all-burn steak = %d, want 0", got)
	}

	if err := cook.processOrder(context.Background(), "salad"); err != nil {
		t.Fatalf("processOrder(salad) after burns: %v", err)
	}
	if got := len(drainReadiness(t, bus)); got != 3 {
		t.Errorf("salad notifications = %d, want 3", got)
	}
}

func TestCookUnknownDish(t *testing.T) {
	ledger := NewLedger(testMenu(), DefaultLedgerConfig())
	cook, bus := newTestCook(t, ledger, testParams())

	err := cook.processOrder(context.Background(), "sushi")
	if err == nil {
		t.Fatal("processOrder(sushi) succeeded, want not-found")
	}
	var kerr *KitchenError
	if !errors.As(err, &kerr) || kerr.Code != ErrCodeNotFound {
		t.Errorf("error = %v, want code %s", err, ErrCodeNotFound)
	}
	if got := len(drainReadiness(t, bus)); got != 0 {
		t.Errorf("unknown dish produced %d notifications, want 0", got)
	}
}

func TestCookQueueMismatchProcessesMessageContent(t *testing.T) {
	ledger := NewLedger(testMenu(), DefaultLedgerConfig())
	params := testParams()
	params.BurnProbability = 0
	cook, bus := newTestCook(t, ledger, params)

	// Queue says pasta, the message says salad. Message content wins.
	if err := ledger.EnqueueOrder("pasta"); err != nil {
		t.Fatal(err)
	}
	if err := cook.processOrder(context.Background(), "salad"); err != nil {
		t.Fatalf("processOrder: %v", err)
	}

	got := drainReadiness(t, bus)
	if len(got) != 3 {
		t.Fatalf("notifications = %d, want 3", len(got))
	}
	for _, r := range got {
		if r.Dish != "salad" {
			t.Errorf("processed dish %q, want salad from the message", r.Dish)
		}
	}
}

func TestCookResolvesFiresBeforeWork(t *testing.T) {
	ledger := NewLedger(testMenu(), DefaultLedgerConfig())
	cook, _ := newTestCook(t, ledger, testParams())

	fire := ledger.AddHazard(HazardFire, LocCookingStation, "")
	remote := ledger.AddHazard(HazardFire, LocDiningArea, "")

	if err := cook.resolveFires(context.Background()); err != nil {
		t.Fatalf("resolveFires: %v", err)
	}

	if ledger.ResolveHazard(fire) {
		t.Error("station fire left unresolved")
	}
	if !ledger.ResolveHazard(remote) {
		t.Error("cook resolved a fire outside its stations")
	}
}
