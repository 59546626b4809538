package restaurant

import (
	"context"
	"time"

	"github.com/underfried/underfried/pkg/telemetry"
)

// Washer batches dirty plates through the sink. A batch is claimed from the
// ledger before washing starts so a concurrent trigger cannot double-claim
// the same plates; an interrupted batch restores the claim.
type Washer struct {
	bus       *MessageBus
	ledger    *Ledger
	params    Params
	tel       *telemetry.Telemetry
	log       *telemetry.Logger
	presenter Presenter
}

// NewWasher wires a washer to the bus and ledger.
func NewWasher(bus *MessageBus, ledger *Ledger, params Params, tel *telemetry.Telemetry,
	presenter Presenter) *Washer {
	if presenter == nil {
		presenter = NopPresenter{}
	}
	return &Washer{
		bus:       bus,
		ledger:    ledger,
		params:    params,
		tel:       tel,
		log:       tel.Logger.NewActorLogger(ActorWasher),
		presenter: presenter,
	}
}

// Run waits for dirty-plate reports and washes until the pile is empty.
func (w *Washer) Run(ctx context.Context) error {
	w.log.Infof("Washer ready, capacity %d plates per batch", w.params.WasherCapacity)
	w.presenter.ActorStatus(ActorWasher, "idle")

	for {
		msg, err := w.bus.Receive(ctx, ActorWasher)
		if err != nil {
			return stopReason(err)
		}

		if msg.Kind != MessageDirtyPlates {
			w.log.WithField("kind", string(msg.Kind)).Warn("Dropping unexpected message")
			continue
		}

		report, err := msg.DirtyPlates()
		if err != nil {
			w.recordError(err)
			w.log.WithError(err).Warn("Dropping malformed dirty-plate report")
			continue
		}

		// The reported count is advisory; the ledger decides how much there
		// is to wash.
		w.log.WithField("reported", report.Count).Info("Dirty plates reported")

		if err := w.WashAll(ctx); err != nil {
			return stopReason(err)
		}
	}
}

// WashAll drains the ledger's dirty pile batch by batch.
func (w *Washer) WashAll(ctx context.Context) error {
	for {
		done, err := w.washBatch(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// washBatch claims and washes one batch. It reports done when no dirty
// plates remain.
func (w *Washer) washBatch(ctx context.Context) (bool, error) {
	claimed := w.ledger.ClaimDirtyPlates(w.params.WasherCapacity)
	if claimed == 0 {
		w.presenter.ActorStatus(ActorWasher, "idle")
		return true, nil
	}

	w.presenter.ActorMove(ActorWasher, LocSink.X, LocSink.Y)
	w.presenter.ActorStatus(ActorWasher, "washing plates")
	w.log.WithField("count", claimed).Info("Washing batch")

	duration := w.params.scale(w.params.PlateWash * time.Duration(claimed))
	timer := telemetry.NewTimer()
	if err := pause(ctx, "wash", duration); err != nil {
		// Put the claimed plates back so none are lost.
		w.ledger.RestoreDirtyPlates(claimed)
		w.tel.Metrics.RecordWashAborted()
		_ = w.tel.Events.Publish(telemetry.Event{
			Type:    telemetry.EventTypeWashAborted,
			Level:   telemetry.EventLevelWarning,
			Source:  ActorWasher,
			Message: "wash batch interrupted, dirty plates restored",
		})
		w.log.WithField("count", claimed).Warn("Wash interrupted, batch restored")
		return true, err
	}

	// The clean-plate credit goes through the assembler, which owns the
	// clean stack bookkeeping.
	w.bus.Send(NewMessage(ActorWasher, MessageCleanPlates, CleanPlates{Count: claimed}), ActorAssembler)

	w.tel.Metrics.RecordWashBatch(claimed)
	_ = w.tel.Events.PublishPlatesWashed(claimed, timer.Duration())
	w.log.WithField("count", claimed).Info("Batch washed, reported to assembler")
	return false, nil
}

func (w *Washer) recordError(err error) {
	w.tel.Metrics.RecordError(errClass(err), errCode(err))
}
