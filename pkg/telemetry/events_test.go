package telemetry

import (
	"context"
	"testing"
	"time"
)

// syncPublisher returns a publisher that delivers on the Publish call, so
// tests need no draining.
func syncPublisher(t *testing.T) *EventPublisher {
	t.Helper()
	ep, err := NewEventPublisher(EventsConfig{
		Enabled:     true,
		BufferSize:  10,
		EnableAsync: false,
	})
	if err != nil {
		t.Fatalf("NewEventPublisher: %v", err)
	}
	return ep
}

func TestPublishDeliversToSubscriber(t *testing.T) {
	ep := syncPublisher(t)

	var got []Event
	ep.Subscribe(func(e Event) { got = append(got, e) }, nil)

	if err := ep.PublishOrderCreated("steak"); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := ep.PublishDishDelivered("steak"); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("delivered %d events, want 2", len(got))
	}
	if got[0].Type != EventTypeOrderCreated || got[1].Type != EventTypeDishDelivered {
		t.Errorf("event types = %s, %s", got[0].Type, got[1].Type)
	}
	if got[0].Dish != "steak" {
		t.Errorf("dish = %q, want steak", got[0].Dish)
	}
	if got[0].ID == "" || got[0].Timestamp.IsZero() {
		t.Error("event missing generated ID or timestamp")
	}
}

func TestSubscriberFilter(t *testing.T) {
	ep := syncPublisher(t)

	var burnt int
	ep.Subscribe(func(e Event) { burnt++ }, FilterByType(EventTypeIngredientBurnt))

	_ = ep.PublishIngredientReady("steak", "meat", "CUT_AND_COOKED")
	_ = ep.PublishIngredientBurnt("steak", "meat", "ref-1")
	_ = ep.PublishIngredientBurnt("pasta", "pasta", "ref-2")

	if burnt != 2 {
		t.Errorf("filtered subscriber saw %d events, want 2", burnt)
	}
}

func TestSourceFilterSpansHelperAndStatusEvents(t *testing.T) {
	ep := syncPublisher(t)

	// One actor's full stream: domain helpers and status updates must carry
	// the same source name so a single source filter catches both.
	var got []Event
	ep.Subscribe(func(e Event) { got = append(got, e) }, FilterBySource("order_taker"))

	_ = ep.PublishOrderCreated("steak")
	_ = ep.PublishDishDelivered("steak")
	_ = ep.PublishActorStatus("order_taker", "taking orders")
	_ = ep.PublishActorStatus("cook", "cooking meat")
	_ = ep.PublishPlatesWashed(5, time.Second)

	if len(got) != 3 {
		t.Fatalf("source filter saw %d events, want 3", len(got))
	}
	types := []string{got[0].Type, got[1].Type, got[2].Type}
	want := []string{EventTypeOrderCreated, EventTypeDishDelivered, EventTypeActorStatus}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("event %d type = %s, want %s", i, types[i], want[i])
		}
	}
	for _, e := range got {
		if e.Source != "order_taker" {
			t.Errorf("event %s source = %q, want order_taker", e.Type, e.Source)
		}
	}
}

func TestGlobalFilter(t *testing.T) {
	ep := syncPublisher(t)
	ep.AddFilter(FilterByLevel(EventLevelWarning))

	var got []Event
	ep.Subscribe(func(e Event) { got = append(got, e) }, nil)

	_ = ep.PublishOrderCreated("soup")                 // info, filtered out
	_ = ep.PublishIngredientBurnt("soup", "rice", "r") // warning

	if len(got) != 1 {
		t.Fatalf("delivered %d events, want 1", len(got))
	}
	if got[0].Level != EventLevelWarning {
		t.Errorf("level = %q, want warning", got[0].Level)
	}
}

func TestDisabledPublisherDropsEverything(t *testing.T) {
	ep, err := NewEventPublisher(EventsConfig{Enabled: false})
	if err != nil {
		t.Fatalf("NewEventPublisher: %v", err)
	}

	called := false
	ep.Subscribe(func(Event) { called = true }, nil)

	if err := ep.PublishOrderCreated("steak"); err != nil {
		t.Errorf("disabled Publish returned error: %v", err)
	}
	if called {
		t.Error("disabled publisher delivered an event")
	}
	if err := ep.Shutdown(context.Background()); err != nil {
		t.Errorf("disabled Shutdown: %v", err)
	}
}

func TestAsyncPublisherFlushesOnShutdown(t *testing.T) {
	ep, err := NewEventPublisher(EventsConfig{
		Enabled:      true,
		BufferSize:   100,
		MaxBatchSize: 10,
		EnableAsync:  true,
	})
	if err != nil {
		t.Fatalf("NewEventPublisher: %v", err)
	}

	done := make(chan struct{}, 10)
	ep.Subscribe(func(Event) { done <- struct{}{} }, nil)

	for i := 0; i < 3; i++ {
		if err := ep.PublishPlatesWashed(5, time.Second); err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := ep.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	delivered := len(done)
	if delivered != 3 {
		t.Errorf("delivered %d events, want 3", delivered)
	}
}
