package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event represents a telemetry event emitted by the simulation.
type Event struct {
	// ID is the unique identifier for this event.
	ID string `json:"id"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Type is the event type.
	Type string `json:"type"`

	// Source identifies the actor or component that emitted the event.
	Source string `json:"source"`

	// Dish is the associated dish name, if applicable.
	Dish string `json:"dish,omitempty"`

	// Ingredient is the associated ingredient name, if applicable.
	Ingredient string `json:"ingredient,omitempty"`

	// HazardRef is the associated hazard reference, if applicable.
	HazardRef string `json:"hazard_ref,omitempty"`

	// Message is a human-readable event message.
	Message string `json:"message"`

	// Level is the event severity level (info, warning, error).
	Level string `json:"level"`

	// Data contains additional event-specific data.
	Data map[string]interface{} `json:"data,omitempty"`
}

// EventType constants for common event types.
const (
	EventTypeOrderCreated    = "order.created"
	EventTypeOrderMismatch   = "order.mismatch"
	EventTypeIngredientReady = "ingredient.ready"
	EventTypeIngredientBurnt = "ingredient.burnt"
	EventTypeDishAssembled   = "dish.assembled"
	EventTypeDishDelivered   = "dish.delivered"
	EventTypePlatesCollected = "plates.collected"
	EventTypePlatesWashed    = "plates.washed"
	EventTypeWashAborted     = "wash.aborted"
	EventTypeHazardInjected  = "hazard.injected"
	EventTypeHazardResolved  = "hazard.resolved"
	EventTypeActorStatus     = "actor.status"
	EventTypeActorMoved      = "actor.moved"
	EventTypeError           = "error"
)

// EventLevel constants for event severity.
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// EventSubscriber is a function that handles events.
type EventSubscriber func(event Event)

// EventFilter determines if an event should be processed.
type EventFilter func(event Event) bool

// EventPublisher manages event publishing and subscriptions.
type EventPublisher struct {
	config      EventsConfig
	buffer      chan Event
	subscribers []subscriberEntry
	filters     []EventFilter
	wg          sync.WaitGroup
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
}

type subscriberEntry struct {
	subscriber EventSubscriber
	filter     EventFilter
}

// NewEventPublisher creates a new event publisher with the given configuration.
func NewEventPublisher(cfg EventsConfig) (*EventPublisher, error) {
	if !cfg.Enabled {
		return &EventPublisher{config: cfg}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())

	ep := &EventPublisher{
		config:      cfg,
		buffer:      make(chan Event, cfg.BufferSize),
		subscribers: make([]subscriberEntry, 0),
		filters:     make([]EventFilter, 0),
		ctx:         ctx,
		cancel:      cancel,
	}

	// Start the event processing goroutine
	if cfg.EnableAsync {
		ep.wg.Add(1)
		go ep.processEvents()
	}

	return ep, nil
}

// Publish publishes an event to all subscribers.
func (ep *EventPublisher) Publish(event Event) error {
	if !ep.config.Enabled {
		return nil
	}

	// Set ID and timestamp if not already set
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	// Apply global filters
	ep.mu.RLock()
	for _, filter := range ep.filters {
		if !filter(event) {
			ep.mu.RUnlock()
			return nil // Event filtered out
		}
	}
	ep.mu.RUnlock()

	// Send to buffer if async, otherwise process immediately
	if ep.config.EnableAsync {
		select {
		case ep.buffer <- event:
			return nil
		case <-ep.ctx.Done():
			return fmt.Errorf("event publisher stopped")
		default:
			// Buffer full, drop event
			return fmt.Errorf("event buffer full, event dropped")
		}
	}

	// Synchronous publishing
	ep.deliverEvent(event)
	return nil
}

// PublishOrderCreated publishes an order created event.
func (ep *EventPublisher) PublishOrderCreated(dish string) error {
	return ep.Publish(Event{
		Type:    EventTypeOrderCreated,
		Source:  "order_taker",
		Dish:    dish,
		Message: fmt.Sprintf("Order taken for %s", dish),
		Level:   EventLevelInfo,
	})
}

// PublishIngredientReady publishes an ingredient readiness event.
func (ep *EventPublisher) PublishIngredientReady(dish, ingredient, status string) error {
	return ep.Publish(Event{
		Type:       EventTypeIngredientReady,
		Source:     "cook",
		Dish:       dish,
		Ingredient: ingredient,
		Message:    fmt.Sprintf("Ingredient %s is %s for %s", ingredient, status, dish),
		Level:      EventLevelInfo,
		Data: map[string]interface{}{
			"status": status,
		},
	})
}

// PublishIngredientBurnt publishes a burnt ingredient event.
func (ep *EventPublisher) PublishIngredientBurnt(dish, ingredient, hazardRef string) error {
	return ep.Publish(Event{
		Type:       EventTypeIngredientBurnt,
		Source:     "cook",
		Dish:       dish,
		Ingredient: ingredient,
		HazardRef:  hazardRef,
		Message:    fmt.Sprintf("Ingredient %s burnt while cooking for %s", ingredient, dish),
		Level:      EventLevelWarning,
	})
}

// PublishDishAssembled publishes a dish assembled event.
func (ep *EventPublisher) PublishDishAssembled(dish string, cleanPlatesLeft int) error {
	return ep.Publish(Event{
		Type:    EventTypeDishAssembled,
		Source:  "assembler",
		Dish:    dish,
		Message: fmt.Sprintf("Dish %s assembled, %d clean plates left", dish, cleanPlatesLeft),
		Level:   EventLevelInfo,
		Data: map[string]interface{}{
			"clean_plates": cleanPlatesLeft,
		},
	})
}

// PublishDishDelivered publishes a dish delivered event.
func (ep *EventPublisher) PublishDishDelivered(dish string) error {
	return ep.Publish(Event{
		Type:    EventTypeDishDelivered,
		Source:  "order_taker",
		Dish:    dish,
		Message: fmt.Sprintf("Dish %s delivered", dish),
		Level:   EventLevelInfo,
	})
}

// PublishPlatesWashed publishes a wash batch completion event.
func (ep *EventPublisher) PublishPlatesWashed(count int, duration time.Duration) error {
	return ep.Publish(Event{
		Type:    EventTypePlatesWashed,
		Source:  "washer",
		Message: fmt.Sprintf("Washed %d plates", count),
		Level:   EventLevelInfo,
		Data: map[string]interface{}{
			"count":    count,
			"duration": duration.Seconds(),
		},
	})
}

// PublishHazardInjected publishes a hazard injection event.
func (ep *EventPublisher) PublishHazardInjected(kind, ref, location string) error {
	return ep.Publish(Event{
		Type:      EventTypeHazardInjected,
		Source:    "hazard_injector",
		HazardRef: ref,
		Message:   fmt.Sprintf("Hazard %s appeared at %s", kind, location),
		Level:     EventLevelWarning,
		Data: map[string]interface{}{
			"kind":     kind,
			"location": location,
		},
	})
}

// PublishHazardResolved publishes a hazard resolution event.
func (ep *EventPublisher) PublishHazardResolved(kind, ref, resolvedBy string) error {
	return ep.Publish(Event{
		Type:      EventTypeHazardResolved,
		Source:    resolvedBy,
		HazardRef: ref,
		Message:   fmt.Sprintf("Hazard %s resolved by %s", kind, resolvedBy),
		Level:     EventLevelInfo,
		Data: map[string]interface{}{
			"kind": kind,
		},
	})
}

// PublishActorStatus publishes an actor status update.
func (ep *EventPublisher) PublishActorStatus(actor, status string) error {
	return ep.Publish(Event{
		Type:    EventTypeActorStatus,
		Source:  actor,
		Message: status,
		Level:   EventLevelInfo,
	})
}

// PublishActorMoved publishes an actor position update.
func (ep *EventPublisher) PublishActorMoved(actor string, x, y float64) error {
	return ep.Publish(Event{
		Type:    EventTypeActorMoved,
		Source:  actor,
		Message: fmt.Sprintf("%s moved to (%.1f, %.1f)", actor, x, y),
		Level:   EventLevelInfo,
		Data: map[string]interface{}{
			"x": x,
			"y": y,
		},
	})
}

// Subscribe adds a new event subscriber.
func (ep *EventPublisher) Subscribe(subscriber EventSubscriber, filter EventFilter) {
	ep.mu.Lock()
	defer ep.mu.Unlock()

	ep.subscribers = append(ep.subscribers, subscriberEntry{
		subscriber: subscriber,
		filter:     filter,
	})
}

// AddFilter adds a global event filter.
func (ep *EventPublisher) AddFilter(filter EventFilter) {
	ep.mu.Lock()
	defer ep.mu.Unlock()

	ep.filters = append(ep.filters, filter)
}

// processEvents processes events from the buffer asynchronously.
func (ep *EventPublisher) processEvents() {
	defer ep.wg.Done()

	batch := make([]Event, 0, ep.config.MaxBatchSize)

	for {
		select {
		case event := <-ep.buffer:
			batch = append(batch, event)

			// Flush batch if it reaches max size
			if len(batch) >= ep.config.MaxBatchSize {
				ep.flushBatch(batch)
				batch = make([]Event, 0, ep.config.MaxBatchSize)
			}

			// Drain quickly when the buffer is empty again
			if len(ep.buffer) == 0 && len(batch) > 0 {
				ep.flushBatch(batch)
				batch = make([]Event, 0, ep.config.MaxBatchSize)
			}

		case <-ep.ctx.Done():
			// Flush remaining events before shutting down
			if len(batch) > 0 {
				ep.flushBatch(batch)
			}
			return
		}
	}
}

// flushBatch delivers a batch of events to subscribers.
func (ep *EventPublisher) flushBatch(events []Event) {
	for _, event := range events {
		ep.deliverEvent(event)
	}
}

// deliverEvent delivers an event to all subscribers.
func (ep *EventPublisher) deliverEvent(event Event) {
	ep.mu.RLock()
	defer ep.mu.RUnlock()

	for _, entry := range ep.subscribers {
		// Apply subscriber-specific filter
		if entry.filter != nil && !entry.filter(event) {
			continue
		}

		entry.subscriber(event)
	}
}

// Shutdown gracefully shuts down the event publisher.
func (ep *EventPublisher) Shutdown(ctx context.Context) error {
	if !ep.config.Enabled || ep.cancel == nil {
		return nil
	}

	// Signal shutdown
	ep.cancel()

	// Wait for processing to complete with timeout
	done := make(chan struct{})
	go func() {
		ep.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("event publisher shutdown timeout")
	}
}

// Common event filters.

// FilterByLevel creates a filter that only allows events of a specific level or higher.
func FilterByLevel(minLevel string) EventFilter {
	levels := map[string]int{
		EventLevelInfo:    0,
		EventLevelWarning: 1,
		EventLevelError:   2,
	}

	minLevelValue := levels[minLevel]

	return func(event Event) bool {
		return levels[event.Level] >= minLevelValue
	}
}

// FilterByType creates a filter that only allows events of specific types.
func FilterByType(types ...string) EventFilter {
	typeSet := make(map[string]bool)
	for _, t := range types {
		typeSet[t] = true
	}

	return func(event Event) bool {
		return typeSet[event.Type]
	}
}

// FilterByDish creates a filter that only allows events for a specific dish.
func FilterByDish(dish string) EventFilter {
	return func(event Event) bool {
		return event.Dish == dish
	}
}

// FilterBySource creates a filter that only allows events from a specific actor.
func FilterBySource(source string) EventFilter {
	return func(event Event) bool {
		return event.Source == source
	}
}
