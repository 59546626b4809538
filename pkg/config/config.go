package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/underfried/underfried/pkg/restaurant"
	"github.com/underfried/underfried/pkg/telemetry"
)

// Duration wraps time.Duration so YAML values can be written as strings like
// "2s" or "500ms".
type Duration time.Duration

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("duration must be a string like \"2s\": %w", err)
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration in time.Duration string form.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Config is the full simulation configuration.
type Config struct {
	Restaurant RestaurantConfig `yaml:"restaurant" validate:"required"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

// RestaurantConfig tunes the simulated restaurant.
type RestaurantConfig struct {
	// Plates seeds the circulating plate pool.
	Plates PlatesConfig `yaml:"plates"`

	// Pacing scales every simulated duration; 1.0 is real pace.
	Pacing float64 `yaml:"pacing" validate:"min=0"`

	// Seed initializes the random sources. Zero seeds from the clock.
	Seed int64 `yaml:"seed"`

	Orders  OrdersConfig  `yaml:"orders"`
	Kitchen KitchenConfig `yaml:"kitchen"`
	Washing WashingConfig `yaml:"washing"`
	Hazards HazardsConfig `yaml:"hazards"`
}

// PlatesConfig seeds plate counts and the dishes already waiting at the
// counter when the restaurant opens.
type PlatesConfig struct {
	Clean       int      `yaml:"clean" validate:"min=0"`
	InUse       int      `yaml:"in_use" validate:"min=0"`
	ReadyDishes []string `yaml:"ready_dishes" validate:"dive,required"`
}

// OrdersConfig tunes the order taker's rounds and deliveries.
type OrdersConfig struct {
	RoundInterval     Duration `yaml:"round_interval" validate:"min=0"`
	DeliveryInterval  Duration `yaml:"delivery_interval" validate:"min=0"`
	OrderSamples      int      `yaml:"order_samples" validate:"min=0"`
	OrderProbability  float64  `yaml:"order_probability" validate:"min=0,max=1"`
	PickupSamples     int      `yaml:"pickup_samples" validate:"min=0"`
	PickupProbability float64  `yaml:"pickup_probability" validate:"min=0,max=1"`
	DeliveryBatch     int      `yaml:"delivery_batch" validate:"min=1"`
	PestHandling      Duration `yaml:"pest_handling" validate:"min=0"`
}

// KitchenConfig tunes the cook and the assembler.
type KitchenConfig struct {
	BurnProbability       float64  `yaml:"burn_probability" validate:"min=0,max=1"`
	Extinguish            Duration `yaml:"extinguish" validate:"min=0"`
	AssemblyPerIngredient Duration `yaml:"assembly_per_ingredient" validate:"min=0"`
}

// WashingConfig tunes the washer.
type WashingConfig struct {
	Capacity  int      `yaml:"capacity" validate:"min=1"`
	PlateWash Duration `yaml:"plate_wash" validate:"min=0"`
}

// HazardsConfig tunes the hazard injector.
type HazardsConfig struct {
	FireCheckInterval Duration `yaml:"fire_check_interval" validate:"min=0"`
	FireProbability   float64  `yaml:"fire_probability" validate:"min=0,max=1"`
	PestCheckInterval Duration `yaml:"pest_check_interval" validate:"min=0"`
	PestProbability   float64  `yaml:"pest_probability" validate:"min=0,max=1"`
	PurgeInterval     Duration `yaml:"purge_interval" validate:"min=0"`
}

// TelemetryConfig is the YAML-facing subset of the telemetry stack.
type TelemetryConfig struct {
	Environment string        `yaml:"environment" validate:"omitempty,oneof=development staging production"`
	Logging     LoggingConfig `yaml:"logging"`
	Metrics     MetricsConfig `yaml:"metrics"`
	Tracing     TracingConfig `yaml:"tracing"`
	Events      EventsConfig  `yaml:"events"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=trace debug info warn error fatal"`
	Format string `yaml:"format" validate:"oneof=console json"`
	Output string `yaml:"output" validate:"required"`
	Caller bool   `yaml:"caller"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled       bool   `yaml:"enabled"`
	ListenAddress string `yaml:"listen_address" validate:"required_if=Enabled true"`
	Path          string `yaml:"path"`
}

// TracingConfig configures trace export.
type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter" validate:"omitempty,oneof=otlp stdout none"`
	Endpoint     string  `yaml:"endpoint"`
	SamplingRate float64 `yaml:"sampling_rate" validate:"min=0,max=1"`
	Insecure     bool    `yaml:"insecure"`
}

// EventsConfig configures the in-process event publisher.
type EventsConfig struct {
	Enabled    bool `yaml:"enabled"`
	BufferSize int  `yaml:"buffer_size" validate:"required_if=Enabled true"`
}

// Default returns the configuration matching the built-in simulation tuning.
func Default() *Config {
	params := restaurant.DefaultParams()
	ledger := restaurant.DefaultLedgerConfig()
	tel := telemetry.DefaultConfig()

	return &Config{
		Restaurant: RestaurantConfig{
			Plates: PlatesConfig{
				Clean:       ledger.CleanPlates,
				InUse:       ledger.InUsePlates,
				ReadyDishes: ledger.ReadyDishes,
			},
			Pacing: params.Pacing,
			Orders: OrdersConfig{
				RoundInterval:     Duration(params.RoundInterval),
				DeliveryInterval:  Duration(params.DeliveryInterval),
				OrderSamples:      params.OrderSamples,
				OrderProbability:  params.OrderProbability,
				PickupSamples:     params.PickupSamples,
				PickupProbability: params.PickupProbability,
				DeliveryBatch:     params.DeliveryBatch,
				PestHandling:      Duration(params.PestHandling),
			},
			Kitchen: KitchenConfig{
				BurnProbability:       params.BurnProbability,
				Extinguish:            Duration(params.Extinguish),
				AssemblyPerIngredient: Duration(params.AssemblyPerIngredient),
			},
			Washing: WashingConfig{
				Capacity:  params.WasherCapacity,
				PlateWash: Duration(params.PlateWash),
			},
			Hazards: HazardsConfig{
				FireCheckInterval: Duration(params.FireCheckInterval),
				FireProbability:   params.FireProbability,
				PestCheckInterval: Duration(params.PestCheckInterval),
				PestProbability:   params.PestProbability,
				PurgeInterval:     Duration(params.PurgeInterval),
			},
		},
		Telemetry: TelemetryConfig{
			Environment: tel.Environment,
			Logging: LoggingConfig{
				Level:  tel.Logging.Level,
				Format: tel.Logging.Format,
				Output: tel.Logging.Output,
				Caller: tel.Logging.EnableCaller,
			},
			Metrics: MetricsConfig{
				Enabled:       tel.Metrics.Enabled,
				ListenAddress: tel.Metrics.ListenAddress,
				Path:          tel.Metrics.Path,
			},
			Tracing: TracingConfig{
				Enabled:      tel.Tracing.Enabled,
				Exporter:     tel.Tracing.Exporter,
				Endpoint:     tel.Tracing.Endpoint,
				SamplingRate: tel.Tracing.SamplingRate,
				Insecure:     tel.Tracing.Insecure,
			},
			Events: EventsConfig{
				Enabled:    tel.Events.Enabled,
				BufferSize: tel.Events.BufferSize,
			},
		},
	}
}

// Load reads, parses, and validates a YAML configuration file. Unset fields
// keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Parse unmarshals YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Params converts the restaurant section into simulation parameters.
func (c *Config) Params() restaurant.Params {
	r := c.Restaurant
	return restaurant.Params{
		RoundInterval:     time.Duration(r.Orders.RoundInterval),
		DeliveryInterval:  time.Duration(r.Orders.DeliveryInterval),
		OrderSamples:      r.Orders.OrderSamples,
		OrderProbability:  r.Orders.OrderProbability,
		PickupSamples:     r.Orders.PickupSamples,
		PickupProbability: r.Orders.PickupProbability,
		DeliveryBatch:     r.Orders.DeliveryBatch,
		PestHandling:      time.Duration(r.Orders.PestHandling),

		BurnProbability: r.Kitchen.BurnProbability,
		Extinguish:      time.Duration(r.Kitchen.Extinguish),

		AssemblyPerIngredient: time.Duration(r.Kitchen.AssemblyPerIngredient),

		WasherCapacity: r.Washing.Capacity,
		PlateWash:      time.Duration(r.Washing.PlateWash),

		FireCheckInterval: time.Duration(r.Hazards.FireCheckInterval),
		FireProbability:   r.Hazards.FireProbability,
		PestCheckInterval: time.Duration(r.Hazards.PestCheckInterval),
		PestProbability:   r.Hazards.PestProbability,
		PurgeInterval:     time.Duration(r.Hazards.PurgeInterval),

		Pacing: r.Pacing,
		Seed:   r.Seed,
	}
}

// LedgerConfig converts the plates section into the ledger's opening state.
func (c *Config) LedgerConfig() restaurant.LedgerConfig {
	return restaurant.LedgerConfig{
		CleanPlates: c.Restaurant.Plates.Clean,
		InUsePlates: c.Restaurant.Plates.InUse,
		ReadyDishes: c.Restaurant.Plates.ReadyDishes,
	}
}

// TelemetryConfig converts the telemetry section into the stack's config,
// keeping defaults for fields the YAML surface does not expose.
func (c *Config) TelemetryConfig() *telemetry.Config {
	tel := telemetry.DefaultConfig()
	t := c.Telemetry

	if t.Environment != "" {
		tel.Environment = t.Environment
	}
	tel.Logging.Level = t.Logging.Level
	tel.Logging.Format = t.Logging.Format
	tel.Logging.Output = t.Logging.Output
	tel.Logging.EnableCaller = t.Logging.Caller

	tel.Metrics.Enabled = t.Metrics.Enabled
	tel.Metrics.ListenAddress = t.Metrics.ListenAddress
	if t.Metrics.Path != "" {
		tel.Metrics.Path = t.Metrics.Path
	}

	tel.Tracing.Enabled = t.Tracing.Enabled
	if t.Tracing.Exporter != "" {
		tel.Tracing.Exporter = t.Tracing.Exporter
	}
	tel.Tracing.Endpoint = t.Tracing.Endpoint
	tel.Tracing.SamplingRate = t.Tracing.SamplingRate
	tel.Tracing.Insecure = t.Tracing.Insecure

	tel.Events.Enabled = t.Events.Enabled
	tel.Events.BufferSize = t.Events.BufferSize

	return tel
}
