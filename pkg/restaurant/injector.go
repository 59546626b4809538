package restaurant

import (
	"context"
	"math/rand"
	"time"

	"github.com/underfried/underfried/pkg/telemetry"
)

// fireLocations are the candidate spots for kitchen fires.
var fireLocations = []Location{LocCookingStation, LocCuttingStation}

// pestLocations are the candidate spots for pests in the serving area.
var pestLocations = []Location{LocCounter, LocDiningArea, LocAssemblyAvenue}

// HazardInjector runs independent fire and pest timers, each injecting a
// hazard with a fixed probability on every tick, plus a periodic purge pass
// that garbage-collects resolved hazards.
type HazardInjector struct {
	ledger *Ledger
	params Params
	tel    *telemetry.Telemetry
	log    *telemetry.Logger
	rng    *rand.Rand
}

// NewHazardInjector wires an injector to the ledger.
func NewHazardInjector(ledger *Ledger, params Params, tel *telemetry.Telemetry, rng *rand.Rand) *HazardInjector {
	return &HazardInjector{
		ledger: ledger,
		params: params,
		tel:    tel,
		log:    tel.Logger.NewActorLogger(ActorInjector),
		rng:    rng,
	}
}

// Run fires the hazard timers until the context is cancelled.
func (h *HazardInjector) Run(ctx context.Context) error {
	h.log.Info("Hazard injector armed")

	fireTicker := time.NewTicker(tickInterval(h.params.scale(h.params.FireCheckInterval)))
	defer fireTicker.Stop()
	pestTicker := time.NewTicker(tickInterval(h.params.scale(h.params.PestCheckInterval)))
	defer pestTicker.Stop()
	purgeTicker := time.NewTicker(tickInterval(h.params.scale(h.params.PurgeInterval)))
	defer purgeTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-fireTicker.C:
			if h.rng.Float64() < h.params.FireProbability {
				h.inject(HazardFire, fireLocations[h.rng.Intn(len(fireLocations))])
			}
		case <-pestTicker.C:
			if h.rng.Float64() < h.params.PestProbability {
				h.inject(HazardPest, pestLocations[h.rng.Intn(len(pestLocations))])
			}
		case <-purgeTicker.C:
			if purged := h.ledger.PurgeResolvedHazards(); purged > 0 {
				h.log.WithField("purged", purged).Debug("Cleared resolved hazards")
			}
		}
	}
}

// Inject registers one hazard of the given kind at the given location.
// Exposed for tests and manual injection.
func (h *HazardInjector) Inject(kind HazardKind, loc Location) HazardRef {
	return h.inject(kind, loc)
}

func (h *HazardInjector) inject(kind HazardKind, loc Location) HazardRef {
	ref := h.ledger.AddHazard(kind, loc, "")
	h.tel.Metrics.RecordHazardInjected(string(kind))
	_ = h.tel.Events.PublishHazardInjected(string(kind), string(ref), loc.Name)
	h.log.WithHazard(string(kind), string(ref)).
		WithField("location", loc.Name).Warn("Hazard injected")
	return ref
}
