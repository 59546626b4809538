package restaurant

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/underfried/underfried/pkg/catalog"
	"github.com/underfried/underfried/pkg/telemetry"
)

// OrderTaker runs two independently scheduled activities: a periodic round
// over the tables (sampling new orders and empty-plate pickups) and a
// periodic delivery pass over the ready-dish queue. The two never overlap;
// pests in the serving area are dealt with before any orders are taken.
type OrderTaker struct {
	bus       *MessageBus
	ledger    *Ledger
	menu      *catalog.Menu
	params    Params
	tel       *telemetry.Telemetry
	log       *telemetry.Logger
	presenter Presenter
	rng       *rand.Rand

	// busy serializes the round and delivery activities.
	busy sync.Mutex
}

// NewOrderTaker wires an order taker to the bus and ledger.
func NewOrderTaker(bus *MessageBus, ledger *Ledger, menu *catalog.Menu, params Params,
	tel *telemetry.Telemetry, presenter Presenter, rng *rand.Rand) *OrderTaker {
	if presenter == nil {
		presenter = NopPresenter{}
	}
	return &OrderTaker{
		bus:       bus,
		ledger:    ledger,
		menu:      menu,
		params:    params,
		tel:       tel,
		log:       tel.Logger.NewActorLogger(ActorOrderTaker),
		presenter: presenter,
		rng:       rng,
	}
}

// Run fires rounds and deliveries on their own tickers until the context is
// cancelled.
func (o *OrderTaker) Run(ctx context.Context) error {
	o.log.Info("Order taker ready")
	o.presenter.ActorStatus(ActorOrderTaker, "idle")

	roundTicker := time.NewTicker(tickInterval(o.params.scale(o.params.RoundInterval)))
	defer roundTicker.Stop()
	deliveryTicker := time.NewTicker(tickInterval(o.params.scale(o.params.DeliveryInterval)))
	defer deliveryTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-roundTicker.C:
			if err := o.Round(ctx); err != nil {
				if IsInterrupted(err) {
					return nil
				}
				o.recordError(err)
				o.log.WithError(err).Error("Round failed")
			}
		case <-deliveryTicker.C:
			if err := o.Deliver(ctx); err != nil {
				if IsInterrupted(err) {
					return nil
				}
				o.recordError(err)
				o.log.WithError(err).Error("Delivery failed")
			}
		}
	}
}

// Round walks the tables once: handle pests, sample new orders, sample
// empty-plate pickups, and notify the cook and washer.
func (o *OrderTaker) Round(ctx context.Context) error {
	o.busy.Lock()
	defer o.busy.Unlock()

	if err := o.resolvePests(ctx); err != nil {
		return err
	}

	o.presenter.ActorMove(ActorOrderTaker, LocDiningArea.X, LocDiningArea.Y)
	o.presenter.ActorStatus(ActorOrderTaker, "taking orders")
	o.log.Debug("Looking at the tables")

	orders := o.takeOrders()
	if len(orders) > 0 {
		o.bus.Send(NewMessage(ActorOrderTaker, MessageOrder, OrderBatch{Dishes: orders}), ActorCook)
		o.log.WithField("orders", orders).Info("Orders forwarded to the cook")
	}

	collected := o.takeEmptyPlates()
	if collected > 0 {
		o.bus.Send(NewMessage(ActorOrderTaker, MessageDirtyPlates, DirtyPlates{Count: collected}), ActorWasher)
		_ = o.tel.Events.Publish(telemetry.Event{
			Type:    telemetry.EventTypePlatesCollected,
			Level:   telemetry.EventLevelInfo,
			Source:  ActorOrderTaker,
			Message: "empty plates collected from tables",
			Data:    map[string]interface{}{"count": collected},
		})
		o.log.WithField("count", collected).Info("Empty plates brought to the sink")
	}

	o.presenter.ActorStatus(ActorOrderTaker, "idle")
	return nil
}

// takeOrders samples a fixed number of potential orders and enqueues the
// successful ones. Dishes are picked uniformly from the menu.
func (o *OrderTaker) takeOrders() []string {
	dishes := o.menu.Dishes()
	var orders []string
	for i := 0; i < o.params.OrderSamples; i++ {
		if o.rng.Float64() >= o.params.OrderProbability {
			continue
		}
		dish := dishes[o.rng.Intn(len(dishes))]
		if err := o.ledger.EnqueueOrder(dish); err != nil {
			o.recordError(err)
			o.log.WithError(err).WithDish(dish).Error("Order rejected")
			o.tel.Metrics.RecordOrderRejected()
			continue
		}
		orders = append(orders, dish)
		o.tel.Metrics.RecordOrderCreated()
		_ = o.tel.Events.PublishOrderCreated(dish)
		o.log.WithDish(dish).Info("Got an order")
	}
	return orders
}

// takeEmptyPlates samples pickups from the occupied tables and moves the
// collected plates to the dirty pile.
func (o *OrderTaker) takeEmptyPlates() int {
	inUse := o.ledger.Snapshot().InUse
	samples := o.params.PickupSamples
	if inUse < samples {
		samples = inUse
	}

	wanted := 0
	for i := 0; i < samples; i++ {
		if o.rng.Float64() < o.params.PickupProbability {
			wanted++
		}
	}
	return o.ledger.CollectPlates(wanted)
}

// Deliver drains up to the delivery batch size from the ready-dish queue and
// brings the dishes out.
func (o *OrderTaker) Deliver(ctx context.Context) error {
	o.busy.Lock()
	defer o.busy.Unlock()

	delivered := 0
	for delivered < o.params.DeliveryBatch {
		dish, ok := o.ledger.DequeueReadyDish()
		if !ok {
			break
		}

		o.presenter.ActorMove(ActorOrderTaker, LocCounter.X, LocCounter.Y)
		o.presenter.ActorStatus(ActorOrderTaker, "delivering "+dish)

		o.ledger.MarkDelivered()
		delivered++

		o.tel.Metrics.RecordOrderDelivered()
		_ = o.tel.Events.PublishDishDelivered(dish)
		o.log.WithDish(dish).Info("Dish delivered")

		select {
		case <-ctx.Done():
			return interrupted("deliver", ctx.Err())
		default:
		}
	}

	if delivered > 0 {
		o.presenter.ActorStatus(ActorOrderTaker, "idle")
	}
	return nil
}

// resolvePests handles every unresolved pest in the serving area before
// orders are taken.
func (o *OrderTaker) resolvePests(ctx context.Context) error {
	for _, h := range o.ledger.UnresolvedHazards(HazardPest) {
		o.presenter.ActorMove(ActorOrderTaker, h.Location.X, h.Location.Y)
		o.presenter.ActorStatus(ActorOrderTaker, "chasing pest")
		o.log.WithHazard(string(h.Kind), string(h.Ref)).Warn("Pest in the serving area, handling")

		if err := pause(ctx, "handle_pest", o.params.scale(o.params.PestHandling)); err != nil {
			return err
		}

		if o.ledger.ResolveHazard(h.Ref) {
			o.tel.Metrics.RecordHazardResolved(string(h.Kind), ActorOrderTaker)
			_ = o.tel.Events.PublishHazardResolved(string(h.Kind), string(h.Ref), ActorOrderTaker)
			o.log.WithHazard(string(h.Kind), string(h.Ref)).Info("Pest handled")
		}
	}
	return nil
}

func (o *OrderTaker) recordError(err error) {
	o.tel.Metrics.RecordError(errClass(err), errCode(err))
}
