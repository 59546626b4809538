// Package telemetry provides observability instrumentation for the kitchen simulation.
//
// The telemetry package integrates structured logging (zerolog), distributed tracing
// (OpenTelemetry), metrics (Prometheus), and event publishing into a unified system
// for monitoring and debugging a running kitchen.
//
// # Architecture
//
// The telemetry system is built on four pillars:
//
//  1. Structured Logging - Context-aware logging with zerolog
//  2. Distributed Tracing - OpenTelemetry traces with multiple exporters
//  3. Metrics Collection - Prometheus metrics for operational insights
//  4. Event Publishing - Async event system feeding the presentation layer
//
// # Usage
//
// Initialize telemetry at application startup:
//
//	cfg := telemetry.DefaultConfig()
//	cfg.ServiceName = "underfried"
//	cfg.ServiceVersion = "1.0.0"
//
//	tel, err := telemetry.NewTelemetry(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tel.Shutdown(context.Background())
//
// Add telemetry to context:
//
//	ctx = tel.WithContext(ctx)
//
// # Structured Logging
//
// Each actor gets its own child logger with automatic context propagation:
//
//	logger := tel.Logger.NewActorLogger("cook")
//	logger = logger.WithDish("steak").WithIngredient("meat")
//	logger.Info("Cooking ingredient")
//	logger.WithError(err).Error("Step interrupted")
//
// Log levels: trace, debug, info, warn, error, fatal
//
// # Distributed Tracing
//
// Tracing provides visibility into order flow through the pipeline:
//
//	ctx, span := tel.Tracer.StartOrderSpan(ctx, "steak")
//	defer span.End()
//
//	if err != nil {
//	    telemetry.RecordError(span, err)
//	}
//
// Supported exporters: OTLP (production), Stdout (development), None (testing)
//
// # Metrics
//
// Prometheus metrics track kitchen throughput and hazards:
//
//	tel.Metrics.RecordOrderCreated()
//	tel.Metrics.RecordIngredientStep("cook", duration)
//	tel.Metrics.RecordDishAssembled(duration)
//	tel.Metrics.RecordHazardInjected("FIRE")
//	tel.Metrics.RecordError("transient", "INTERRUPTED")
//
// Metrics are exposed via HTTP at /metrics when the server is enabled.
//
// # Event Publishing
//
// The event system provides async publishing with buffering and filtering.
// The presentation layer subscribes to it to render kitchen activity:
//
//	tel.Events.Subscribe(func(event telemetry.Event) {
//	    fmt.Printf("%s: %s\n", event.Type, event.Message)
//	}, telemetry.FilterByLevel("info"))
//
// Event filters: FilterByLevel, FilterByType, FilterByDish, FilterBySource
//
// # Graceful Shutdown
//
// Always shut down telemetry gracefully to flush pending data:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
//	defer cancel()
//
//	if err := tel.Shutdown(ctx); err != nil {
//	    log.Printf("Telemetry shutdown error: %v", err)
//	}
package telemetry
