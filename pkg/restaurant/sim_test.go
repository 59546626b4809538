package restaurant

import (
	"context"
	"strings"
	"testing"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/underfried/underfried/pkg/telemetry"
)

func newTestSimulation(t *testing.T, params Params) *Simulation {
	t.Helper()
	ledger := NewLedger(testMenu(), DefaultLedgerConfig())
	return New(ledger, testMenu(), testKnowledge(), nil, params, testTelemetry(t), nil)
}

func TestSimulationStartStop(t *testing.T) {
	sim := newTestSimulation(t, testParams())

	sim.Start(context.Background())
	// Second start is a no-op.
	sim.Start(context.Background())

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sim.Stop(stopCtx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	// Second stop is a no-op.
	if err := sim.Stop(stopCtx); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
}

func TestSimulationConservesPlates(t *testing.T) {
	params := testParams()
	params.OrderProbability = 1
	params.PickupProbability = 1
	params.BurnProbability = 0
	sim := newTestSimulation(t, params)

	total := sim.Ledger.TotalPlates()
	sim.Start(context.Background())
	// Let the pipeline churn through several rounds.
	time.Sleep(250 * time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sim.Stop(stopCtx); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	s := sim.Ledger.Snapshot()
	got := s.Clean + s.InUse + s.Dirty + s.Assembled
	if got != total {
		t.Errorf("plates after shutdown = %d (clean %d, in-use %d, dirty %d, assembled %d), want %d",
			got, s.Clean, s.InUse, s.Dirty, s.Assembled, total)
	}
}

func TestSimulationMakesProgress(t *testing.T) {
	params := testParams()
	params.OrderProbability = 1
	// No pickups, so every delivery raises the in-use count.
	params.PickupProbability = 0
	params.BurnProbability = 0
	sim := newTestSimulation(t, params)

	sim.Start(context.Background())

	// The seeded ready dishes alone guarantee deliveries once the delivery
	// ticker fires; orders flowing through the cook add more.
	deadline := time.After(3 * time.Second)
	for sim.Ledger.Snapshot().InUse <= 10 {
		select {
		case <-deadline:
			t.Fatal("no dish was ever delivered")
		case <-time.After(5 * time.Millisecond):
		}
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sim.Stop(stopCtx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestSimulationTracesIngredientSteps(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	tel := testTelemetry(t)
	tel.Tracer = telemetry.NewTracerWithProvider(provider, "underfried-test")

	params := testParams()
	params.OrderProbability = 1
	params.PickupProbability = 0
	params.BurnProbability = 0
	ledger := NewLedger(testMenu(), DefaultLedgerConfig())
	sim := New(ledger, testMenu(), testKnowledge(), nil, params, tel, nil)

	sim.Start(context.Background())

	// The cook wraps every prepared ingredient in a span, so a pipeline with
	// flowing orders must export ingredient spans.
	deadline := time.After(3 * time.Second)
	found := false
	for !found {
		for _, span := range recorder.Ended() {
			if strings.HasPrefix(span.Name(), "ingredient.") {
				found = true
				break
			}
		}
		if found {
			break
		}
		select {
		case <-deadline:
			t.Fatal("no ingredient span exported from a running pipeline")
		case <-time.After(5 * time.Millisecond):
		}
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sim.Stop(stopCtx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestSimulationStopUnblocksIdleActors(t *testing.T) {
	// No orders, no pickups: the cook, assembler and washer sit blocked on
	// their mailboxes and must still come down promptly.
	params := testParams()
	params.OrderProbability = 0
	params.PickupProbability = 0
	params.FireProbability = 0
	params.PestProbability = 0
	sim := newTestSimulation(t, params)

	sim.Start(context.Background())
	time.Sleep(20 * time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := sim.Stop(stopCtx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}
