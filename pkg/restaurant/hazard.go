package restaurant

import (
	"time"

	"github.com/google/uuid"
)

// HazardKind identifies the kind of hazard active in the restaurant.
type HazardKind string

const (
	// HazardFire is a kitchen fire at a cooking or cutting station.
	HazardFire HazardKind = "FIRE"
	// HazardPest is a pest somewhere in the serving area.
	HazardPest HazardKind = "PEST"
	// HazardBurnedFood is the residue of a failed cooking step.
	HazardBurnedFood HazardKind = "BURNED_FOOD"
)

// HazardRef uniquely identifies a hazard in the ledger.
type HazardRef string

// Location is a named position on the restaurant floor. Coordinates are
// presentation hints, not a source of truth.
type Location struct {
	Name string
	X    float64
	Y    float64
}

// Well-known restaurant locations.
var (
	LocCuttingStation = Location{Name: "cutting_station", X: 120, Y: 80}
	LocCookingStation = Location{Name: "cooking_station", X: 200, Y: 80}
	LocAssemblyAvenue = Location{Name: "assembly_avenue", X: 280, Y: 120}
	LocSink           = Location{Name: "sink", X: 360, Y: 80}
	LocCounter        = Location{Name: "counter", X: 160, Y: 220}
	LocDiningArea     = Location{Name: "dining_area", X: 240, Y: 300}
)

// Hazard is an active interrupt condition. Resolved hazards stay in the
// ledger until a purge pass removes them.
type Hazard struct {
	Ref          HazardRef
	Kind         HazardKind
	Location     Location
	AffectedItem string
	Resolved     bool
	CreatedAt    time.Time
}

func newHazardRef() HazardRef {
	return HazardRef(uuid.NewString())
}
