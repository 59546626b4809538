package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestParseEmptyKeepsDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(empty): %v", err)
	}
	want := Default()
	if cfg.Restaurant.Plates.Clean != want.Restaurant.Plates.Clean {
		t.Errorf("clean plates = %d, want %d", cfg.Restaurant.Plates.Clean, want.Restaurant.Plates.Clean)
	}
	if cfg.Restaurant.Washing.Capacity != want.Restaurant.Washing.Capacity {
		t.Errorf("washer capacity = %d, want %d", cfg.Restaurant.Washing.Capacity, want.Restaurant.Washing.Capacity)
	}
	if cfg.Telemetry.Logging.Level != "info" {
		t.Errorf("log level = %q, want info", cfg.Telemetry.Logging.Level)
	}
}

func TestParseOverrides(t *testing.T) {
	cfg, err := Parse([]byte(`
restaurant:
  pacing: 0.5
  plates:
    clean: 4
    in_use: 2
    ready_dishes: [soup]
  orders:
    round_interval: 3s
    order_probability: 0.9
  washing:
    capacity: 2
    plate_wash: 500ms
telemetry:
  logging:
    level: debug
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.Restaurant.Pacing != 0.5 {
		t.Errorf("pacing = %v, want 0.5", cfg.Restaurant.Pacing)
	}
	params := cfg.Params()
	if params.RoundInterval != 3*time.Second {
		t.Errorf("round interval = %v, want 3s", params.RoundInterval)
	}
	if params.OrderProbability != 0.9 {
		t.Errorf("order probability = %v, want 0.9", params.OrderProbability)
	}
	if params.WasherCapacity != 2 || params.PlateWash != 500*time.Millisecond {
		t.Errorf("washing = %d/%v, want 2/500ms", params.WasherCapacity, params.PlateWash)
	}
	// Unset sections keep their defaults.
	if params.DeliveryBatch != 2 {
		t.Errorf("delivery batch = %d, want default 2", params.DeliveryBatch)
	}

	ledger := cfg.LedgerConfig()
	if ledger.CleanPlates != 4 || ledger.InUsePlates != 2 {
		t.Errorf("ledger = %d/%d, want 4/2", ledger.CleanPlates, ledger.InUsePlates)
	}
	if len(ledger.ReadyDishes) != 1 || ledger.ReadyDishes[0] != "soup" {
		t.Errorf("ready dishes = %v, want [soup]", ledger.ReadyDishes)
	}

	tel := cfg.TelemetryConfig()
	if tel.Logging.Level != "debug" {
		t.Errorf("telemetry log level = %q, want debug", tel.Logging.Level)
	}
	if tel.Logging.Format != "console" {
		t.Errorf("telemetry log format = %q, want default console", tel.Logging.Format)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "negative clean plates",
			yaml: "restaurant:\n  plates:\n    clean: -1\n",
		},
		{
			name: "probability above one",
			yaml: "restaurant:\n  orders:\n    order_probability: 1.5\n",
		},
		{
			name: "zero washer capacity",
			yaml: "restaurant:\n  washing:\n    capacity: 0\n",
		},
		{
			name: "zero delivery batch",
			yaml: "restaurant:\n  orders:\n    delivery_batch: 0\n",
		},
		{
			name: "bad log level",
			yaml: "telemetry:\n  logging:\n    level: verbose\n",
		},
		{
			name: "bad log format",
			yaml: "telemetry:\n  logging:\n    format: xml\n",
		},
		{
			name: "bad environment",
			yaml: "telemetry:\n  environment: testing\n",
		},
		{
			name: "bad duration",
			yaml: "restaurant:\n  orders:\n    round_interval: fast\n",
		},
		{
			name: "malformed yaml",
			yaml: "restaurant: [",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "underfried.yaml")
	content := "restaurant:\n  seed: 42\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Params().Seed != 42 {
		t.Errorf("seed = %d, want 42", cfg.Params().Seed)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDurationRoundTrip(t *testing.T) {
	d := Duration(1500 * time.Millisecond)
	out, err := d.MarshalYAML()
	if err != nil {
		t.Fatal(err)
	}
	if out != "1.5s" {
		t.Errorf("MarshalYAML = %v, want 1.5s", out)
	}
}
