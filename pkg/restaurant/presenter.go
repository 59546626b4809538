package restaurant

import "github.com/underfried/underfried/pkg/telemetry"

// Presenter receives fire-and-forget status and position updates for the
// presentation layer. The core functions identically with a no-op presenter.
type Presenter interface {
	ActorStatus(actor, text string)
	ActorMove(actor string, x, y float64)
}

// NopPresenter discards all updates.
type NopPresenter struct{}

// ActorStatus implements Presenter.
func (NopPresenter) ActorStatus(string, string) {}

// ActorMove implements Presenter.
func (NopPresenter) ActorMove(string, float64, float64) {}

// EventPresenter forwards updates to the telemetry event stream, where
// display subscribers pick them up.
type EventPresenter struct {
	events *telemetry.EventPublisher
}

// NewEventPresenter wraps an event publisher as a presenter.
func NewEventPresenter(events *telemetry.EventPublisher) *EventPresenter {
	return &EventPresenter{events: events}
}

// ActorStatus implements Presenter.
func (p *EventPresenter) ActorStatus(actor, text string) {
	if p.events == nil {
		return
	}
	_ = p.events.PublishActorStatus(actor, text)
}

// ActorMove implements Presenter.
func (p *EventPresenter) ActorMove(actor string, x, y float64) {
	if p.events == nil {
		return
	}
	_ = p.events.PublishActorMoved(actor, x, y)
}
