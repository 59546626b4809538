package restaurant

import (
	"errors"
	"sync"
	"testing"
)

func conservation(s PlateSnapshot) int {
	return s.Clean + s.InUse + s.Dirty + s.Assembled
}

func TestLedgerInitialState(t *testing.T) {
	ledger := NewLedger(testMenu(), DefaultLedgerConfig())

	s := ledger.Snapshot()
	if s.Clean != 10 || s.InUse != 10 || s.Dirty != 0 {
		t.Errorf("initial plates = %d/%d/%d, want 10/10/0", s.Clean, s.InUse, s.Dirty)
	}
	if s.ReadyDishes != 3 || s.Assembled != 3 {
		t.Errorf("seeded ready dishes = %d (assembled %d), want 3", s.ReadyDishes, s.Assembled)
	}
	if got := ledger.TotalPlates(); got != 23 {
		t.Errorf("TotalPlates() = %d, want 23", got)
	}
	if conservation(s) != ledger.TotalPlates() {
		t.Errorf("conservation broken at start: %d != %d", conservation(s), ledger.TotalPlates())
	}
}

func TestLedgerPlateCirculation(t *testing.T) {
	ledger := NewLedger(testMenu(), DefaultLedgerConfig())
	total := ledger.TotalPlates()

	// Collect two plates from tables.
	if moved := ledger.CollectPlates(2); moved != 2 {
		t.Fatalf("CollectPlates(2) = %d, want 2", moved)
	}
	// Wash them.
	if claimed := ledger.ClaimDirtyPlates(5); claimed != 2 {
		t.Fatalf("ClaimDirtyPlates(5) = %d, want 2", claimed)
	}
	ledger.AddCleanPlates(2)
	// Assemble and deliver a dish.
	if err := ledger.ClaimCleanPlate(); err != nil {
		t.Fatalf("ClaimCleanPlate() error: %v", err)
	}
	ledger.EnqueueReadyDish("steak")
	if _, ok := ledger.DequeueReadyDish(); !ok {
		t.Fatal("DequeueReadyDish() empty after enqueue")
	}
	ledger.MarkDelivered()

	s := ledger.Snapshot()
	if conservation(s) != total {
		t.Errorf("conservation broken: clean=%d inUse=%d dirty=%d assembled=%d, sum %d want %d",
			s.Clean, s.InUse, s.Dirty, s.Assembled, conservation(s), total)
	}
}

func TestLedgerCollectPlatesBounded(t *testing.T) {
	ledger := NewLedger(testMenu(), LedgerConfig{CleanPlates: 0, InUsePlates: 3})

	if moved := ledger.CollectPlates(10); moved != 3 {
		t.Errorf("CollectPlates(10) = %d, want 3", moved)
	}
	s := ledger.Snapshot()
	if s.InUse != 0 || s.Dirty != 3 {
		t.Errorf("after collect: inUse=%d dirty=%d, want 0/3", s.InUse, s.Dirty)
	}
}

func TestLedgerClaimCleanPlateExhausted(t *testing.T) {
	ledger := NewLedger(testMenu(), LedgerConfig{CleanPlates: 1})

	if err := ledger.ClaimCleanPlate(); err != nil {
		t.Fatalf("first claim failed: %v", err)
	}
	err := ledger.ClaimCleanPlate()
	if err == nil {
		t.Fatal("second claim succeeded with empty stack")
	}
	var kerr *KitchenError
	if !errors.As(err, &kerr) || kerr.Code != ErrCodeNoCleanPlates {
		t.Errorf("claim error = %v, want code %s", err, ErrCodeNoCleanPlates)
	}
	if !IsTransient(err) {
		t.Error("plate exhaustion should be transient")
	}

	ledger.ReturnCleanPlate()
	if got := ledger.Snapshot().Clean; got != 1 {
		t.Errorf("clean after compensation = %d, want 1", got)
	}
}

func TestLedgerEnqueueOrderUnknownDish(t *testing.T) {
	ledger := NewLedger(testMenu(), DefaultLedgerConfig())
	before := ledger.Snapshot()

	err := ledger.EnqueueOrder("sushi")
	if err == nil {
		t.Fatal("EnqueueOrder(sushi) succeeded, want rejection")
	}
	var kerr *KitchenError
	if !errors.As(err, &kerr) || kerr.Code != ErrCodeNotFound {
		t.Errorf("error = %v, want code %s", err, ErrCodeNotFound)
	}
	if got := ledger.Snapshot(); got.PendingOrders != before.PendingOrders {
		t.Errorf("pending orders mutated on rejected dish: %d -> %d",
			before.PendingOrders, got.PendingOrders)
	}
}

func TestLedgerOrderQueueFIFO(t *testing.T) {
	ledger := NewLedger(testMenu(), DefaultLedgerConfig())

	for _, dish := range []string{"steak", "pasta", "salad"} {
		if err := ledger.EnqueueOrder(dish); err != nil {
			t.Fatalf("EnqueueOrder(%s): %v", dish, err)
		}
	}
	for _, want := range []string{"steak", "pasta", "salad"} {
		got, ok := ledger.DequeueOrder()
		if !ok || got != want {
			t.Errorf("DequeueOrder() = %q/%v, want %q", got, ok, want)
		}
	}
	if _, ok := ledger.DequeueOrder(); ok {
		t.Error("DequeueOrder() on empty queue reported a dish")
	}
}

func TestLedgerHazardResolutionIdempotent(t *testing.T) {
	ledger := NewLedger(testMenu(), DefaultLedgerConfig())

	ref := ledger.AddHazard(HazardFire, LocCookingStation, "")
	if got := len(ledger.UnresolvedHazards(HazardFire)); got != 1 {
		t.Fatalf("unresolved fires = %d, want 1", got)
	}

	if !ledger.ResolveHazard(ref) {
		t.Error("first ResolveHazard = false, want true")
	}
	if ledger.ResolveHazard(ref) {
		t.Error("second ResolveHazard = true, want false")
	}
	if ledger.ResolveHazard(HazardRef("nope")) {
		t.Error("resolving unknown hazard = true, want false")
	}
	if got := len(ledger.UnresolvedHazards()); got != 0 {
		t.Errorf("unresolved hazards after resolve = %d, want 0", got)
	}
}

func TestLedgerHazardFilterAndPurge(t *testing.T) {
	ledger := NewLedger(testMenu(), DefaultLedgerConfig())

	fire := ledger.AddHazard(HazardFire, LocCuttingStation, "")
	ledger.AddHazard(HazardPest, LocDiningArea, "")
	ledger.AddHazard(HazardBurnedFood, LocCookingStation, "meat")

	if got := len(ledger.UnresolvedHazards(HazardPest)); got != 1 {
		t.Errorf("unresolved pests = %d, want 1", got)
	}
	if got := len(ledger.UnresolvedHazards()); got != 3 {
		t.Errorf("unresolved total = %d, want 3", got)
	}

	ledger.ResolveHazard(fire)
	if purged := ledger.PurgeResolvedHazards(); purged != 1 {
		t.Errorf("PurgeResolvedHazards = %d, want 1", purged)
	}
	if got := len(ledger.UnresolvedHazards()); got != 2 {
		t.Errorf("unresolved after purge = %d, want 2", got)
	}
}

func TestLedgerConcurrentMutations(t *testing.T) {
	ledger := NewLedger(testMenu(), LedgerConfig{CleanPlates: 0, InUsePlates: 1000})
	total := ledger.TotalPlates()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				moved := ledger.CollectPlates(1)
				claimed := ledger.ClaimDirtyPlates(moved)
				ledger.AddCleanPlates(claimed)
			}
		}()
	}
	wg.Wait()

	s := ledger.Snapshot()
	if conservation(s) != total {
		t.Errorf("conservation broken under concurrency: sum %d, want %d", conservation(s), total)
	}
}
