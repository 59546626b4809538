package telemetry

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides Prometheus metrics for the simulation.
type Metrics struct {
	config MetricsConfig

	// Order metrics
	ordersCreated   prometheus.Counter
	ordersDelivered prometheus.Counter
	ordersRejected  prometheus.Counter

	// Ingredient metrics
	ingredientsProcessed *prometheus.CounterVec
	ingredientsBurnt     prometheus.Counter
	ingredientDuration   *prometheus.HistogramVec

	// Dish metrics
	dishesAssembled  prometheus.Counter
	assemblyDuration prometheus.Histogram
	pendingDishes    prometheus.Gauge

	// Plate metrics
	plates      *prometheus.GaugeVec
	washBatches prometheus.Counter
	washAborted prometheus.Counter
	washedTotal prometheus.Counter

	// Hazard metrics
	hazardsInjected *prometheus.CounterVec
	hazardsResolved *prometheus.CounterVec

	// Error metrics
	errorsByClass *prometheus.CounterVec
	errorsByCode  *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector with the given configuration.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		// Return a no-op metrics instance
		return &Metrics{config: cfg}, nil
	}

	namespace := cfg.Namespace
	buckets := cfg.DefaultHistogramBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	// Create a new registry
	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		// Order metrics
		ordersCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "orders_created_total",
				Help:      "Total number of orders taken",
			},
		),
		ordersDelivered: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "orders_delivered_total",
				Help:      "Total number of dishes delivered to tables",
			},
		),
		ordersRejected: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "orders_rejected_total",
				Help:      "Total number of orders rejected (unknown dish)",
			},
		),

		// Ingredient metrics
		ingredientsProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ingredients_processed_total",
				Help:      "Total number of ingredients processed by terminal status",
			},
			[]string{"status"},
		),
		ingredientsBurnt: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ingredients_burnt_total",
				Help:      "Total number of ingredients lost to burns",
			},
		),
		ingredientDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "ingredient_step_duration_seconds",
				Help:      "Duration of cut/cook steps in seconds",
				Buckets:   buckets,
			},
			[]string{"step"},
		),

		// Dish metrics
		dishesAssembled: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dishes_assembled_total",
				Help:      "Total number of dishes assembled onto plates",
			},
		),
		assemblyDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "dish_assembly_duration_seconds",
				Help:      "Duration of dish assembly in seconds",
				Buckets:   buckets,
			},
		),
		pendingDishes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "pending_dishes",
				Help:      "Current number of dishes with an in-progress readiness set",
			},
		),

		// Plate metrics
		plates: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "plates",
				Help:      "Current number of plates by state",
			},
			[]string{"state"},
		),
		washBatches: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "wash_batches_total",
				Help:      "Total number of wash batches completed",
			},
		),
		washAborted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "wash_batches_aborted_total",
				Help:      "Total number of wash batches aborted mid-flight",
			},
		),
		washedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "plates_washed_total",
				Help:      "Total number of plates washed",
			},
		),

		// Hazard metrics
		hazardsInjected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "hazards_injected_total",
				Help:      "Total number of hazards injected",
			},
			[]string{"kind"},
		),
		hazardsResolved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "hazards_resolved_total",
				Help:      "Total number of hazards resolved",
			},
			[]string{"kind", "resolved_by"},
		),

		// Error metrics
		errorsByClass: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_by_class_total",
				Help:      "Total number of errors by error class",
			},
			[]string{"class"},
		),
		errorsByCode: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_by_code_total",
				Help:      "Total number of errors by error code",
			},
			[]string{"code"},
		),
	}

	// Register all metrics
	registry.MustRegister(
		m.ordersCreated,
		m.ordersDelivered,
		m.ordersRejected,
		m.ingredientsProcessed,
		m.ingredientsBurnt,
		m.ingredientDuration,
		m.dishesAssembled,
		m.assemblyDuration,
		m.pendingDishes,
		m.plates,
		m.washBatches,
		m.washAborted,
		m.washedTotal,
		m.hazardsInjected,
		m.hazardsResolved,
		m.errorsByClass,
		m.errorsByCode,
	)

	return m, nil
}

// Order Metrics

// RecordOrderCreated increments the counter for taken orders.
func (m *Metrics) RecordOrderCreated() {
	if m.ordersCreated == nil {
		return
	}
	m.ordersCreated.Inc()
}

// RecordOrderDelivered increments the counter for delivered dishes.
func (m *Metrics) RecordOrderDelivered() {
	if m.ordersDelivered == nil {
		return
	}
	m.ordersDelivered.Inc()
}

// RecordOrderRejected increments the counter for rejected orders.
func (m *Metrics) RecordOrderRejected() {
	if m.ordersRejected == nil {
		return
	}
	m.ordersRejected.Inc()
}

// Ingredient Metrics

// RecordIngredientProcessed records a successfully processed ingredient.
func (m *Metrics) RecordIngredientProcessed(status string) {
	if m.ingredientsProcessed == nil {
		return
	}
	m.ingredientsProcessed.WithLabelValues(status).Inc()
}

// RecordIngredientBurnt records an ingredient lost to a burn.
func (m *Metrics) RecordIngredientBurnt() {
	if m.ingredientsBurnt == nil {
		return
	}
	m.ingredientsBurnt.Inc()
}

// RecordIngredientStep records the duration of a cut or cook step.
func (m *Metrics) RecordIngredientStep(step string, duration time.Duration) {
	if m.ingredientDuration == nil {
		return
	}
	m.ingredientDuration.WithLabelValues(step).Observe(duration.Seconds())
}

// Dish Metrics

// RecordDishAssembled records an assembled dish and its assembly duration.
func (m *Metrics) RecordDishAssembled(duration time.Duration) {
	if m.dishesAssembled == nil {
		return
	}
	m.dishesAssembled.Inc()
	m.assemblyDuration.Observe(duration.Seconds())
}

// SetPendingDishes sets the current number of in-progress readiness sets.
func (m *Metrics) SetPendingDishes(count float64) {
	if m.pendingDishes == nil {
		return
	}
	m.pendingDishes.Set(count)
}

// Plate Metrics

// SetPlates sets the current plate count for a plate state.
func (m *Metrics) SetPlates(state string, count float64) {
	if m.plates == nil {
		return
	}
	m.plates.WithLabelValues(state).Set(count)
}

// RecordWashBatch records a completed wash batch.
func (m *Metrics) RecordWashBatch(count int) {
	if m.washBatches == nil {
		return
	}
	m.washBatches.Inc()
	m.washedTotal.Add(float64(count))
}

// RecordWashAborted records a wash batch aborted mid-flight.
func (m *Metrics) RecordWashAborted() {
	if m.washAborted == nil {
		return
	}
	m.washAborted.Inc()
}

// Hazard Metrics

// RecordHazardInjected records an injected hazard.
func (m *Metrics) RecordHazardInjected(kind string) {
	if m.hazardsInjected == nil {
		return
	}
	m.hazardsInjected.WithLabelValues(kind).Inc()
}

// RecordHazardResolved records a resolved hazard.
func (m *Metrics) RecordHazardResolved(kind, resolvedBy string) {
	if m.hazardsResolved == nil {
		return
	}
	m.hazardsResolved.WithLabelValues(kind, resolvedBy).Inc()
}

// Error Metrics

// RecordError records an error by class and optionally by code.
func (m *Metrics) RecordError(errorClass, errorCode string) {
	if m.errorsByClass == nil {
		return
	}
	m.errorsByClass.WithLabelValues(errorClass).Inc()
	if errorCode != "" && m.errorsByCode != nil {
		m.errorsByCode.WithLabelValues(errorCode).Inc()
	}
}

// Timer provides a convenient way to time operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was created.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// StartMetricsServer starts an HTTP server to expose metrics.
func (m *Metrics) StartMetricsServer() error {
	if !m.config.Enabled {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(m.config.Path, m.Handler())

	server := &http.Server{
		Addr:              m.config.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("metrics server error: %v\n", err)
		}
	}()

	return nil
}
