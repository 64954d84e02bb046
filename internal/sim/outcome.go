package sim

import (
	"time"

	"github.com/minebound/digsim/internal/tables"
)

// RunOutcome is one sampled run. Depth is fractional: partial progress
// through the final floor is included. Ephemeral; consumed by the driver
// that requested it.
type RunOutcome struct {
	Depth      float64
	Experience float64
	Fragments  map[tables.ArchetypeID]float64
	Duration   time.Duration
	Hits       int
	Crits      int
	Blocks     int
	// SafetyCapHit marks a run stopped by the iteration cap rather than
	// stamina exhaustion; callers should treat it as a broken or extreme
	// configuration, not a crash.
	SafetyCapHit bool
}

// FloorsCleared is depth gained relative to the starting depth.
func (o RunOutcome) FloorsCleared(startDepth float64) float64 {
	return o.Depth - startDepth
}

// PerHour scales a per-run quantity to an hourly rate using the run's
// simulated duration.
func (o RunOutcome) PerHour(quantity float64) float64 {
	sec := o.Duration.Seconds()
	if sec <= 0 {
		return 0
	}
	return quantity * 3600 / sec
}
