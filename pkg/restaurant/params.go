package restaurant

import "time"

// Params tunes actor pacing and probabilities. Durations are the base values
// at Pacing 1.0; a smaller Pacing speeds the whole simulation up uniformly.
type Params struct {
	// OrderTaker
	RoundInterval     time.Duration
	DeliveryInterval  time.Duration
	OrderSamples      int
	OrderProbability  float64
	PickupSamples     int
	PickupProbability float64
	DeliveryBatch     int
	PestHandling      time.Duration

	// Cook
	BurnProbability float64
	Extinguish      time.Duration

	// Assembler
	AssemblyPerIngredient time.Duration

	// Washer
	WasherCapacity int
	PlateWash      time.Duration

	// HazardInjector
	FireCheckInterval time.Duration
	FireProbability   float64
	PestCheckInterval time.Duration
	PestProbability   float64
	PurgeInterval     time.Duration

	// Pacing scales every simulated duration. 1.0 is real pace; tests use
	// much smaller values.
	Pacing float64

	// Seed initializes the random sources. Zero means seed from the clock.
	Seed int64
}

// DefaultParams returns the standard simulation tuning.
func DefaultParams() Params {
	return Params{
		RoundInterval:     10 * time.Second,
		DeliveryInterval:  7 * time.Second,
		OrderSamples:      3,
		OrderProbability:  0.3,
		PickupSamples:     5,
		PickupProbability: 0.3,
		DeliveryBatch:     2,
		PestHandling:      4 * time.Second,

		BurnProbability: 0.10,
		Extinguish:      3 * time.Second,

		AssemblyPerIngredient: 2 * time.Second,

		WasherCapacity: 5,
		PlateWash:      2 * time.Second,

		FireCheckInterval: 15 * time.Second,
		FireProbability:   0.2,
		PestCheckInterval: 20 * time.Second,
		PestProbability:   0.15,
		PurgeInterval:     30 * time.Second,

		Pacing: 1.0,
	}
}

// scale applies the pacing factor to a base duration.
func (p Params) scale(d time.Duration) time.Duration {
	if p.Pacing <= 0 {
		return 0
	}
	return time.Duration(float64(d) * p.Pacing)
}
