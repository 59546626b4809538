// Package config loads and validates the YAML simulation configuration.
//
// A config file tunes the restaurant (plate counts, actor pacing,
// probabilities, hazard timers) and the telemetry stack (logging, metrics,
// tracing, events). Every field has a default, so an empty file is a valid
// configuration. Struct-tag validation runs after defaults are applied.
//
// Example usage:
//
//	cfg, err := config.Load("underfried.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sim := restaurant.New(
//	    restaurant.NewLedger(menu, cfg.LedgerConfig()),
//	    menu, knowledge, nil, cfg.Params(), tel, nil,
//	)
package config
