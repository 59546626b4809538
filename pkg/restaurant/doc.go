// Package restaurant implements the kitchen simulation core: four actors
// (order taker, cook, assembler, washer) coordinating over an in-process
// message bus and a shared ledger of plates, orders, ready dishes, and
// hazards, plus a background hazard injector.
//
// Actors run as independent goroutines. The ledger is the only state shared
// outside the bus; every mutation goes through its mutex-guarded operations.
// Timed work (cutting, cooking, washing, assembling, hazard handling) is a
// cancellable cooperative delay; interrupting a step runs its compensation
// before the actor stops.
package restaurant
