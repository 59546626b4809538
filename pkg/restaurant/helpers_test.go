package restaurant

import (
	"math/rand"
	"testing"

	"github.com/underfried/underfried/pkg/catalog"
	"github.com/underfried/underfried/pkg/telemetry"
)

// testTelemetry returns a quiet telemetry stack for tests.
func testTelemetry(t *testing.T) *telemetry.Telemetry {
	t.Helper()
	cfg := telemetry.DefaultConfig()
	cfg.Logging.Level = "error"
	cfg.Events.Enabled = false
	tel, err := telemetry.NewTelemetry(cfg)
	if err != nil {
		t.Fatalf("failed to build test telemetry: %v", err)
	}
	return tel
}

// testParams returns params with all simulated durations collapsed to zero.
func testParams() Params {
	p := DefaultParams()
	p.Pacing = 0
	p.Seed = 1
	return p
}

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func testMenu() *catalog.Menu {
	return catalog.NewMenu()
}

func testKnowledge() *catalog.Knowledge {
	return catalog.NewKnowledge()
}
