package restaurant

import (
	"context"
	"math/rand"

	"github.com/underfried/underfried/pkg/catalog"
	"github.com/underfried/underfried/pkg/telemetry"
)

// Cook consumes order messages and prepares each recipe ingredient in turn:
// cut if required, cook if required and selected for the dish, then notify
// the assembler. Cooking steps can burn; fires at the cook's stations take
// strict priority over order work.
type Cook struct {
	bus       *MessageBus
	ledger    *Ledger
	menu      *catalog.Menu
	knowledge *catalog.Knowledge
	policy    catalog.ServeRawPolicy
	params    Params
	tel       *telemetry.Telemetry
	log       *telemetry.Logger
	presenter Presenter
	rng       *rand.Rand
}

// NewCook wires a cook to the bus and ledger. A nil policy falls back to the
// default salads-serve-raw rule.
func NewCook(bus *MessageBus, ledger *Ledger, menu *catalog.Menu, knowledge *catalog.Knowledge,
	policy catalog.ServeRawPolicy, params Params, tel *telemetry.Telemetry, presenter Presenter,
	rng *rand.Rand) *Cook {
	if presenter == nil {
		presenter = NopPresenter{}
	}
	return &Cook{
		bus:       bus,
		ledger:    ledger,
		menu:      menu,
		knowledge: knowledge,
		policy:    policy,
		params:    params,
		tel:       tel,
		log:       tel.Logger.NewActorLogger(ActorCook),
		presenter: presenter,
		rng:       rng,
	}
}

// Run drains the cook's mailbox until the context is cancelled.
func (c *Cook) Run(ctx context.Context) error {
	c.log.Info("Cook ready")
	c.presenter.ActorStatus(ActorCook, "idle")

	for {
		// Fires take priority over queued order work.
		if err := c.resolveFires(ctx); err != nil {
			return stopReason(err)
		}

		msg, err := c.bus.Receive(ctx, ActorCook)
		if err != nil {
			return stopReason(err)
		}

		if msg.Kind != MessageOrder {
			c.log.WithField("kind", string(msg.Kind)).Warn("Dropping unexpected message")
			continue
		}

		batch, err := msg.OrderBatch()
		if err != nil {
			c.recordError(err)
			c.log.WithError(err).Warn("Dropping malformed order message")
			continue
		}

		for _, dish := range batch.Dishes {
			if err := c.processOrder(ctx, dish); err != nil {
				if IsInterrupted(err) {
					return stopReason(err)
				}
				c.recordError(err)
				c.log.WithError(err).WithDish(dish).Error("Order processing failed")
			}
		}
	}
}

// processOrder prepares every ingredient of one ordered dish.
func (c *Cook) processOrder(ctx context.Context, dish string) error {
	c.validateAgainstQueue(dish)

	log := c.log.WithDish(dish)
	log.Info("Preparing order")
	c.presenter.ActorStatus(ActorCook, "preparing "+dish)

	recipe, ok := c.menu.Recipe(dish)
	if !ok {
		return NewPermanentError("unknown meal", nil).
			WithCode(ErrCodeNotFound).
			WithDish(dish).
			WithOperation("process_order")
	}

	for _, ingredient := range recipe {
		if err := c.resolveFires(ctx); err != nil {
			return err
		}
		if err := c.prepareIngredient(ctx, ingredient, dish); err != nil {
			if IsInterrupted(err) {
				return err
			}
			c.recordError(err)
			log.WithError(err).WithIngredient(ingredient).Warn("Ingredient aborted")
		}
	}

	log.Info("Finished all ingredients")
	c.presenter.ActorStatus(ActorCook, "idle")
	return nil
}

// validateAgainstQueue compares the message content against the ledger's
// pending-order queue. The message is authoritative; the queue is advisory
// bookkeeping, so a mismatch only warns.
func (c *Cook) validateAgainstQueue(dish string) {
	queued, ok := c.ledger.DequeueOrder()
	switch {
	case !ok:
		c.log.WithDish(dish).Warn("No queued order found, processing from message")
	case queued != dish:
		c.log.WithDish(dish).WithField("queued", queued).
			Warn("Message order does not match queued order, processing message content")
	}
}

// prepareIngredient runs the cut and cook steps one ingredient needs and
// notifies the assembler on success. A failed step aborts the ingredient
// without a notification.
func (c *Cook) prepareIngredient(ctx context.Context, ingredient, dish string) error {
	needsCutting := c.knowledge.RequiresCutting(ingredient)
	shouldCook := c.knowledge.ShouldCook(c.policy, ingredient, dish)

	return telemetry.RecordIngredientStep(ctx, "prepare", ingredient, dish, func() error {
		if needsCutting {
			if err := c.cutIngredient(ctx, ingredient, dish); err != nil {
				return err
			}
		} else {
			c.log.WithIngredient(ingredient).Debug("No cutting needed")
		}

		if shouldCook {
			if err := c.cookIngredient(ctx, ingredient, dish); err != nil {
				return err
			}
		} else if c.knowledge.RequiresCooking(ingredient) {
			c.log.WithIngredient(ingredient).WithDish(dish).Debug("Serving raw for this dish")
		}

		status := catalog.Status(needsCutting, shouldCook)
		c.bus.Send(NewMessage(ActorCook, MessageIngredientReady, IngredientReady{
			Status:     status,
			Ingredient: ingredient,
			Dish:       dish,
		}), ActorAssembler)

		c.tel.Metrics.RecordIngredientProcessed(status)
		_ = c.tel.Events.PublishIngredientReady(dish, ingredient, status)
		c.log.WithIngredient(ingredient).WithDish(dish).
			WithField("status", status).Info("Ingredient ready")
		return nil
	})
}

func (c *Cook) cutIngredient(ctx context.Context, ingredient, dish string) error {
	d, ok := c.knowledge.CutDuration(ingredient)
	if !ok {
		return NewPermanentError("don't know how to cut ingredient", nil).
			WithCode(ErrCodeNotFound).
			WithIngredient(ingredient).
			WithOperation("cut")
	}

	c.presenter.ActorMove(ActorCook, LocCuttingStation.X, LocCuttingStation.Y)
	c.presenter.ActorStatus(ActorCook, "cutting "+ingredient)
	c.log.WithIngredient(ingredient).WithDish(dish).WithField("duration", d).Debug("Cutting")

	if err := pause(ctx, "cut", c.params.scale(d)); err != nil {
		return err
	}

	c.tel.Metrics.RecordIngredientStep("cut", d)
	return nil
}

func (c *Cook) cookIngredient(ctx context.Context, ingredient, dish string) error {
	d, ok := c.knowledge.CookDuration(ingredient)
	if !ok {
		return NewPermanentError("don't know how to cook ingredient", nil).
			WithCode(ErrCodeNotFound).
			WithIngredient(ingredient).
			WithOperation("cook")
	}
	method := c.knowledge.CookMethod(ingredient)

	c.presenter.ActorMove(ActorCook, LocCookingStation.X, LocCookingStation.Y)
	c.presenter.ActorStatus(ActorCook, "cooking "+ingredient)
	c.log.WithIngredient(ingredient).
		WithField("method", method).
		WithField("duration", d).Debug("Cooking")

	if err := pause(ctx, "cook", c.params.scale(d)); err != nil {
		return err
	}

	if c.rng.Float64() < c.params.BurnProbability {
		ref := c.ledger.AddHazard(HazardBurnedFood, LocCookingStation, ingredient)
		c.tel.Metrics.RecordIngredientBurnt()
		c.tel.Metrics.RecordHazardInjected(string(HazardBurnedFood))
		_ = c.tel.Events.PublishIngredientBurnt(dish, ingredient, string(ref))
		c.log.WithIngredient(ingredient).WithDish(dish).
			WithHazard(string(HazardBurnedFood), string(ref)).
			Warn("Ingredient burnt during cooking")
		return NewTransientError("ingredient burnt", nil).
			WithCode(ErrCodeBurned).
			WithIngredient(ingredient).
			WithDish(dish).
			WithOperation("cook")
	}

	c.tel.Metrics.RecordIngredientStep("cook", d)
	return nil
}

// resolveFires extinguishes every unresolved fire at the cook's stations
// before order work continues.
func (c *Cook) resolveFires(ctx context.Context) error {
	for _, h := range c.ledger.UnresolvedHazards(HazardFire) {
		if h.Location.Name != LocCuttingStation.Name && h.Location.Name != LocCookingStation.Name {
			continue
		}

		c.presenter.ActorMove(ActorCook, h.Location.X, h.Location.Y)
		c.presenter.ActorStatus(ActorCook, "extinguishing fire")
		c.log.WithHazard(string(h.Kind), string(h.Ref)).Warn("Fire at station, extinguishing")

		if err := pause(ctx, "extinguish", c.params.scale(c.params.Extinguish)); err != nil {
			return err
		}

		if c.ledger.ResolveHazard(h.Ref) {
			c.tel.Metrics.RecordHazardResolved(string(h.Kind), ActorCook)
			_ = c.tel.Events.PublishHazardResolved(string(h.Kind), string(h.Ref), ActorCook)
			c.log.WithHazard(string(h.Kind), string(h.Ref)).Info("Fire extinguished")
		}
	}
	return nil
}

func (c *Cook) recordError(err error) {
	c.tel.Metrics.RecordError(errClass(err), errCode(err))
}

// stopReason maps a cancellation-driven interruption to a clean shutdown.
func stopReason(err error) error {
	if IsInterrupted(err) {
		return nil
	}
	return err
}
