package restaurant

import (
	"sync"
	"time"

	"github.com/underfried/underfried/pkg/catalog"
)

// PlateSnapshot is a consistent view of the ledger's counters and queue
// depths, taken under the ledger lock.
type PlateSnapshot struct {
	Clean         int
	InUse         int
	Dirty         int
	Assembled     int
	PendingOrders int
	ReadyDishes   int
	ActiveHazards int
}

// LedgerConfig seeds the ledger's initial state.
type LedgerConfig struct {
	// CleanPlates is the initial clean-plate stack.
	CleanPlates int
	// InUsePlates is the number of plates already at tables when the
	// restaurant opens.
	InUsePlates int
	// ReadyDishes pre-populates the ready-dish queue; each seeded dish sits
	// on an assembled plate.
	ReadyDishes []string
}

// DefaultLedgerConfig returns the standard opening state: ten clean plates,
// ten at tables, and three dishes already waiting at the counter.
func DefaultLedgerConfig() LedgerConfig {
	return LedgerConfig{
		CleanPlates: 10,
		InUsePlates: 10,
		ReadyDishes: []string{"steak", "pasta", "salad"},
	}
}

// Ledger is the single source of truth all actors share: plate counters, the
// pending-order queue, the ready-dish queue, and the active-hazard list.
// Every operation is atomic under one mutex; no caller ever observes a
// partially updated counter.
//
// Plates circulate clean -> (assembly) -> assembled -> (delivery) -> inUse ->
// (pickup) -> dirty -> (wash) -> clean. Plates claimed for an in-flight wash
// or assembly are temporarily outside the counters; the claim is either
// reported back or compensated.
type Ledger struct {
	mu sync.Mutex

	clean     int
	inUse     int
	dirty     int
	assembled int
	total     int

	pendingOrders []string
	readyDishes   []string
	hazards       []Hazard

	menu *catalog.Menu
}

// NewLedger creates a ledger seeded from cfg. Order validation uses the menu.
func NewLedger(menu *catalog.Menu, cfg LedgerConfig) *Ledger {
	ready := make([]string, len(cfg.ReadyDishes))
	copy(ready, cfg.ReadyDishes)
	return &Ledger{
		clean:       cfg.CleanPlates,
		inUse:       cfg.InUsePlates,
		assembled:   len(ready),
		total:       cfg.CleanPlates + cfg.InUsePlates + len(ready),
		readyDishes: ready,
		menu:        menu,
	}
}

// TotalPlates returns the number of plates ever introduced.
func (l *Ledger) TotalPlates() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total
}

// Snapshot returns a consistent view of the ledger.
func (l *Ledger) Snapshot() PlateSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	active := 0
	for _, h := range l.hazards {
		if !h.Resolved {
			active++
		}
	}
	return PlateSnapshot{
		Clean:         l.clean,
		InUse:         l.inUse,
		Dirty:         l.dirty,
		Assembled:     l.assembled,
		PendingOrders: len(l.pendingOrders),
		ReadyDishes:   len(l.readyDishes),
		ActiveHazards: active,
	}
}

// EnqueueOrder appends a pending order. Unknown dishes are rejected without
// mutating state.
func (l *Ledger) EnqueueOrder(dish string) error {
	if !l.menu.Contains(dish) {
		return NewPermanentError("dish not on the menu", nil).
			WithCode(ErrCodeNotFound).
			WithDish(dish).
			WithOperation("enqueue_order")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pendingOrders = append(l.pendingOrders, dish)
	return nil
}

// DequeueOrder pops the oldest pending order. The second return value is
// false if the queue is empty.
func (l *Ledger) DequeueOrder() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.pendingOrders) == 0 {
		return "", false
	}
	dish := l.pendingOrders[0]
	l.pendingOrders = l.pendingOrders[1:]
	return dish, true
}

// EnqueueReadyDish publishes an assembled dish. The plate claimed for the
// assembly moves to the assembled pool.
func (l *Ledger) EnqueueReadyDish(dish string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.readyDishes = append(l.readyDishes, dish)
	l.assembled++
}

// DequeueReadyDish pops the oldest ready dish for delivery. The plate stays
// in the assembled pool until MarkDelivered.
func (l *Ledger) DequeueReadyDish() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.readyDishes) == 0 {
		return "", false
	}
	dish := l.readyDishes[0]
	l.readyDishes = l.readyDishes[1:]
	return dish, true
}

// MarkDelivered moves one assembled plate to a table.
func (l *Ledger) MarkDelivered() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.assembled == 0 {
		return
	}
	l.assembled--
	l.inUse++
}

// ClaimCleanPlate removes one plate from the clean stack for an assembly.
// The caller must either complete the assembly with EnqueueReadyDish or
// compensate with ReturnCleanPlate.
func (l *Ledger) ClaimCleanPlate() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.clean == 0 {
		return NewTransientError("no clean plates available", nil).
			WithCode(ErrCodeNoCleanPlates).
			WithOperation("claim_clean_plate")
	}
	l.clean--
	return nil
}

// ReturnCleanPlate compensates an aborted assembly claim.
func (l *Ledger) ReturnCleanPlate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clean++
}

// AddCleanPlates credits washed plates back to the clean stack.
func (l *Ledger) AddCleanPlates(n int) {
	if n <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clean += n
}

// CollectPlates moves up to n plates from tables to the dirty pile and
// returns the number actually moved.
func (l *Ledger) CollectPlates(n int) int {
	if n <= 0 {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if n > l.inUse {
		n = l.inUse
	}
	l.inUse -= n
	l.dirty += n
	return n
}

// ClaimDirtyPlates removes up to max plates from the dirty pile for washing
// and returns the number claimed. Claiming before washing prevents a
// concurrent trigger from double-claiming the same plates. The caller must
// either report the batch washed with AddCleanPlates or compensate with
// RestoreDirtyPlates.
func (l *Ledger) ClaimDirtyPlates(max int) int {
	if max <= 0 {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	n := l.dirty
	if n > max {
		n = max
	}
	l.dirty -= n
	return n
}

// RestoreDirtyPlates compensates an interrupted wash batch.
func (l *Ledger) RestoreDirtyPlates(n int) {
	if n <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dirty += n
}

// AddHazard registers a new unresolved hazard and returns its reference.
func (l *Ledger) AddHazard(kind HazardKind, loc Location, affectedItem string) HazardRef {
	ref := newHazardRef()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hazards = append(l.hazards, Hazard{
		Ref:          ref,
		Kind:         kind,
		Location:     loc,
		AffectedItem: affectedItem,
		CreatedAt:    time.Now(),
	})
	return ref
}

// ResolveHazard marks a hazard resolved. It returns true only for the first
// resolution; resolving an already-resolved or unknown hazard is a no-op.
func (l *Ledger) ResolveHazard(ref HazardRef) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.hazards {
		if l.hazards[i].Ref == ref {
			if l.hazards[i].Resolved {
				return false
			}
			l.hazards[i].Resolved = true
			return true
		}
	}
	return false
}

// UnresolvedHazards returns a snapshot of active hazards. With no kinds
// given it returns all of them; otherwise only the listed kinds.
func (l *Ledger) UnresolvedHazards(kinds ...HazardKind) []Hazard {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Hazard
	for _, h := range l.hazards {
		if h.Resolved {
			continue
		}
		if len(kinds) == 0 {
			out = append(out, h)
			continue
		}
		for _, k := range kinds {
			if h.Kind == k {
				out = append(out, h)
				break
			}
		}
	}
	return out
}

// PurgeResolvedHazards removes resolved hazards and returns how many were
// dropped.
func (l *Ledger) PurgeResolvedHazards() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.hazards[:0]
	purged := 0
	for _, h := range l.hazards {
		if h.Resolved {
			purged++
			continue
		}
		kept = append(kept, h)
	}
	l.hazards = kept
	return purged
}
