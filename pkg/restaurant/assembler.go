package restaurant

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/underfried/underfried/pkg/catalog"
	"github.com/underfried/underfried/pkg/telemetry"
)

// Assembler accumulates per-dish readiness sets from cook notifications and
// assembles a dish once every recipe ingredient is ready and a clean plate
// can be claimed. Complete dishes without a plate stay pending and are
// re-tested whenever clean plates arrive.
type Assembler struct {
	bus       *MessageBus
	ledger    *Ledger
	menu      *catalog.Menu
	params    Params
	tel       *telemetry.Telemetry
	log       *telemetry.Logger
	presenter Presenter

	// ready tracks confirmed ingredients per in-progress dish. Owned by the
	// assembler goroutine, no lock needed.
	ready map[string]map[string]struct{}
}

// NewAssembler wires an assembler to the bus and ledger.
func NewAssembler(bus *MessageBus, ledger *Ledger, menu *catalog.Menu, params Params,
	tel *telemetry.Telemetry, presenter Presenter) *Assembler {
	if presenter == nil {
		presenter = NopPresenter{}
	}
	return &Assembler{
		bus:       bus,
		ledger:    ledger,
		menu:      menu,
		params:    params,
		tel:       tel,
		log:       tel.Logger.NewActorLogger(ActorAssembler),
		presenter: presenter,
		ready:     make(map[string]map[string]struct{}),
	}
}

// Run drains the assembler's mailbox until the context is cancelled.
func (a *Assembler) Run(ctx context.Context) error {
	a.log.Info("Assembler ready")
	a.presenter.ActorStatus(ActorAssembler, "idle")

	for {
		msg, err := a.bus.Receive(ctx, ActorAssembler)
		if err != nil {
			return stopReason(err)
		}

		switch msg.Kind {
		case MessageIngredientReady:
			if err := a.handleIngredientReady(ctx, msg); err != nil {
				if IsInterrupted(err) {
					return stopReason(err)
				}
				a.recordError(err)
				a.log.WithError(err).Warn("Ingredient notification dropped")
			}
		case MessageCleanPlates:
			if err := a.handleCleanPlates(ctx, msg); err != nil {
				if IsInterrupted(err) {
					return stopReason(err)
				}
				a.recordError(err)
				a.log.WithError(err).Warn("Clean-plate report dropped")
			}
		default:
			a.log.WithField("kind", string(msg.Kind)).Warn("Dropping unexpected message")
		}
	}
}

// handleIngredientReady records one ready ingredient and attempts assembly
// if the dish is now complete.
func (a *Assembler) handleIngredientReady(ctx context.Context, msg Message) error {
	report, err := msg.IngredientReady()
	if err != nil {
		return err
	}

	if !a.menu.Contains(report.Dish) {
		return NewPermanentError("notification for unknown dish", nil).
			WithCode(ErrCodeNotFound).
			WithDish(report.Dish).
			WithIngredient(report.Ingredient).
			WithOperation("ingredient_ready")
	}

	set, ok := a.ready[report.Dish]
	if !ok {
		set = make(map[string]struct{})
		a.ready[report.Dish] = set
	}
	set[report.Ingredient] = struct{}{}
	a.tel.Metrics.SetPendingDishes(float64(len(a.ready)))

	a.log.WithDish(report.Dish).WithIngredient(report.Ingredient).
		WithField("status", report.Status).Info("Ingredient received")

	if !a.isComplete(report.Dish) {
		a.log.WithDish(report.Dish).
			WithField("missing", a.missing(report.Dish)).Debug("Still waiting for ingredients")
		return nil
	}
	return a.tryAssemble(ctx, report.Dish)
}

// handleCleanPlates credits washed plates and re-tests every pending dish.
func (a *Assembler) handleCleanPlates(ctx context.Context, msg Message) error {
	report, err := msg.CleanPlates()
	if err != nil {
		return err
	}

	a.ledger.AddCleanPlates(report.Count)
	a.log.WithField("count", report.Count).Info("Clean plates received")

	return a.retestPending(ctx)
}

// retestPending assembles every complete pending dish until none can
// progress or plates run out.
func (a *Assembler) retestPending(ctx context.Context) error {
	// Sorted for deterministic retest order; completion does not depend on it.
	dishes := make([]string, 0, len(a.ready))
	for dish := range a.ready {
		dishes = append(dishes, dish)
	}
	sort.Strings(dishes)

	for _, dish := range dishes {
		if !a.isComplete(dish) {
			continue
		}
		if err := a.tryAssemble(ctx, dish); err != nil {
			if IsInterrupted(err) {
				return err
			}
			a.recordError(err)
			a.log.WithError(err).WithDish(dish).Warn("Pending dish retest failed")
		}
	}
	return nil
}

// tryAssemble claims a clean plate and assembles the dish. With no plate
// available the dish simply stays pending; an interrupted assembly returns
// the claimed plate.
func (a *Assembler) tryAssemble(ctx context.Context, dish string) error {
	recipe, ok := a.menu.Recipe(dish)
	if !ok {
		return NewPermanentError("unknown dish at assembly", nil).
			WithCode(ErrCodeNotFound).
			WithDish(dish).
			WithOperation("assemble")
	}

	if err := a.ledger.ClaimCleanPlate(); err != nil {
		var kerr *KitchenError
		if errors.As(err, &kerr) && kerr.Code == ErrCodeNoCleanPlates {
			a.log.WithDish(dish).Warn("No clean plates, dish stays pending")
			return nil
		}
		return err
	}

	a.presenter.ActorMove(ActorAssembler, LocAssemblyAvenue.X, LocAssemblyAvenue.Y)
	a.presenter.ActorStatus(ActorAssembler, "assembling "+dish)
	a.log.WithDish(dish).Info("Assembling dish")

	duration := a.params.scale(a.params.AssemblyPerIngredient * time.Duration(len(recipe)))
	timer := telemetry.NewTimer()
	if err := pause(ctx, "assemble", duration); err != nil {
		a.ledger.ReturnCleanPlate()
		return err
	}

	a.ledger.EnqueueReadyDish(dish)
	delete(a.ready, dish)
	a.tel.Metrics.SetPendingDishes(float64(len(a.ready)))

	snapshot := a.ledger.Snapshot()
	a.tel.Metrics.RecordDishAssembled(timer.Duration())
	a.tel.Metrics.SetPlates("clean", float64(snapshot.Clean))
	a.tel.Metrics.SetPlates("in_use", float64(snapshot.InUse))
	a.tel.Metrics.SetPlates("dirty", float64(snapshot.Dirty))
	_ = a.tel.Events.PublishDishAssembled(dish, snapshot.Clean)
	a.log.WithDish(dish).WithField("clean_plates", snapshot.Clean).Info("Dish ready for service")
	a.presenter.ActorStatus(ActorAssembler, "idle")
	return nil
}

// isComplete reports whether the dish's readiness set covers its recipe.
func (a *Assembler) isComplete(dish string) bool {
	recipe, ok := a.menu.Recipe(dish)
	if !ok {
		return false
	}
	set := a.ready[dish]
	for _, ingredient := range recipe {
		if _, ok := set[ingredient]; !ok {
			return false
		}
	}
	return true
}

// missing lists recipe ingredients not yet confirmed for the dish.
func (a *Assembler) missing(dish string) []string {
	recipe, _ := a.menu.Recipe(dish)
	set := a.ready[dish]
	var out []string
	for _, ingredient := range recipe {
		if _, ok := set[ingredient]; !ok {
			out = append(out, ingredient)
		}
	}
	return out
}

func (a *Assembler) recordError(err error) {
	a.tel.Metrics.RecordError(errClass(err), errCode(err))
}
