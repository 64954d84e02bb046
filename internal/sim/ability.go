package sim

import "github.com/minebound/digsim/internal/loadout"

// AbilityFlags toggles the three abilities for a run. A flag only matters if
// the bundle has the ability unlocked (non-zero interval).
type AbilityFlags struct {
	Frenzy    bool
	Surge     bool
	Shockwave bool
}

// Each ability is a small explicit state machine: an interval countdown plus
// either an active-window counter or a charge counter. State lives inside a
// single run; nothing is shared across runs.

// frenzyState tracks the periodic damage/crit buff.
type frenzyState struct {
	stats    loadout.FrenzyStats
	enabled  bool
	nextAt   float64 // sim-clock seconds of the next activation
	hitsLeft int     // hits remaining in the active window
}

func newFrenzyState(stats loadout.FrenzyStats, on bool) frenzyState {
	enabled := on && stats.IntervalSec > 0
	return frenzyState{stats: stats, enabled: enabled, nextAt: stats.IntervalSec}
}

func (f *frenzyState) tick(clock float64) {
	if !f.enabled {
		return
	}
	for clock >= f.nextAt {
		f.hitsLeft = f.stats.DurationHits
		f.nextAt += f.stats.IntervalSec
	}
}

func (f *frenzyState) active() bool { return f.hitsLeft > 0 }

func (f *frenzyState) consumeHit() {
	if f.hitsLeft > 0 {
		f.hitsLeft--
	}
}

// surgeState tracks the periodic stamina/speed buff. The speed window only
// compresses real time; stamina costs are untouched.
type surgeState struct {
	stats      loadout.SurgeStats
	enabled    bool
	nextAt     float64
	speedUntil float64
}

func newSurgeState(stats loadout.SurgeStats, on bool) surgeState {
	enabled := on && stats.IntervalSec > 0
	return surgeState{stats: stats, enabled: enabled, nextAt: stats.IntervalSec}
}

// tick reports the total stamina restored by activations due at clock.
func (s *surgeState) tick(clock float64) float64 {
	if !s.enabled {
		return 0
	}
	restored := 0.0
	for clock >= s.nextAt {
		restored += s.stats.StaminaRestore
		s.speedUntil = s.nextAt + s.stats.DurationSec
		s.nextAt += s.stats.IntervalSec
	}
	return restored
}

func (s *surgeState) speedMult(clock float64) float64 {
	if s.enabled && clock < s.speedUntil {
		return s.stats.SpeedMult
	}
	return 1
}

// shockwaveState tracks area-damage charges.
type shockwaveState struct {
	stats   loadout.ShockwaveStats
	enabled bool
	nextAt  float64
	charges int
}

func newShockwaveState(stats loadout.ShockwaveStats, on bool) shockwaveState {
	enabled := on && stats.IntervalSec > 0
	return shockwaveState{stats: stats, enabled: enabled, nextAt: stats.IntervalSec}
}

func (s *shockwaveState) tick(clock float64) {
	if !s.enabled {
		return
	}
	for clock >= s.nextAt {
		s.charges += s.stats.Charges
		s.nextAt += s.stats.IntervalSec
	}
}

// consume takes one charge if available. The charge is spent even when no
// splash target remains alive.
func (s *shockwaveState) consume() bool {
	if s.charges <= 0 {
		return false
	}
	s.charges--
	return true
}
