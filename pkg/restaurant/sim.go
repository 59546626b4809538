package restaurant

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/underfried/underfried/pkg/catalog"
	"github.com/underfried/underfried/pkg/telemetry"
)

// Simulation owns the five concurrent units (four actors plus the hazard
// injector) and their shared bus and ledger.
type Simulation struct {
	Bus        *MessageBus
	Ledger     *Ledger
	OrderTaker *OrderTaker
	Cook       *Cook
	Assembler  *Assembler
	Washer     *Washer
	Injector   *HazardInjector

	tel    *telemetry.Telemetry
	log    *telemetry.Logger
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	started bool
}

// New builds a simulation over a pre-populated ledger and the static
// knowledge services. A nil presenter is replaced with a no-op one and a nil
// policy with the default salads-serve-raw rule.
func New(ledger *Ledger, menu *catalog.Menu, knowledge *catalog.Knowledge,
	policy catalog.ServeRawPolicy, params Params, tel *telemetry.Telemetry,
	presenter Presenter) *Simulation {
	if presenter == nil {
		presenter = NopPresenter{}
	}

	seed := params.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	// Independent streams per randomized component.
	cookRNG := rand.New(rand.NewSource(seed))
	takerRNG := rand.New(rand.NewSource(seed + 1))
	injectorRNG := rand.New(rand.NewSource(seed + 2))

	bus := NewMessageBus()

	return &Simulation{
		Bus:        bus,
		Ledger:     ledger,
		OrderTaker: NewOrderTaker(bus, ledger, menu, params, tel, presenter, takerRNG),
		Cook:       NewCook(bus, ledger, menu, knowledge, policy, params, tel, presenter, cookRNG),
		Assembler:  NewAssembler(bus, ledger, menu, params, tel, presenter),
		Washer:     NewWasher(bus, ledger, params, tel, presenter),
		Injector:   NewHazardInjector(ledger, params, tel, injectorRNG),
		tel:        tel,
		log:        tel.Logger.WithField("component", "simulation"),
	}
}

// Start launches every actor loop. It is an error-free no-op when already
// started.
func (s *Simulation) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	ctx, s.cancel = context.WithCancel(ctx)
	// Actors pick the telemetry stack up from their context, so ingredient
	// steps trace without each actor holding a tracer handle.
	ctx = s.tel.WithContext(ctx)
	s.log.Info("Opening the restaurant")

	runners := []struct {
		name string
		run  func(context.Context) error
	}{
		{ActorOrderTaker, s.OrderTaker.Run},
		{ActorCook, s.Cook.Run},
		{ActorAssembler, s.Assembler.Run},
		{ActorWasher, s.Washer.Run},
		{ActorInjector, s.Injector.Run},
	}

	for _, r := range runners {
		s.wg.Add(1)
		go func(name string, run func(context.Context) error) {
			defer s.wg.Done()
			if err := run(ctx); err != nil {
				s.tel.Metrics.RecordError(errClass(err), errCode(err))
				s.log.WithError(err).WithField("actor", name).Error("Actor stopped with error")
			}
		}(r.name, r.run)
	}
}

// Stop cancels every actor loop and waits for them to finish or for the
// context to expire, whichever comes first.
func (s *Simulation) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	cancel := s.cancel
	s.mu.Unlock()

	s.log.Info("Closing the restaurant")
	cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.log.Info("All actors stopped")
		return nil
	case <-ctx.Done():
		return NewTransientError("shutdown timed out waiting for actors", ctx.Err()).
			WithCode(ErrCodeInterrupted).
			WithOperation("stop")
	}
}
