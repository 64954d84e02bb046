package optimizer

import (
	"github.com/minebound/digsim/internal/loadout"
	"github.com/minebound/digsim/internal/sim"
	"github.com/minebound/digsim/internal/stats"
)

// Budget is what remains to allocate, per currency.
type Budget struct {
	SkillPoints int `yaml:"skill_points"`
	Scrap       int `yaml:"scrap"`
	Gems        int `yaml:"gems"`
}

// CanAfford reports whether cost in the given currency fits the budget.
func (b Budget) CanAfford(c loadout.Currency, cost int) bool {
	switch c {
	case loadout.CurrencySkillPoint:
		return b.SkillPoints >= cost
	case loadout.CurrencyScrap:
		return b.Scrap >= cost
	case loadout.CurrencyGems:
		return b.Gems >= cost
	default:
		return false
	}
}

// Spend returns the budget after paying cost.
func (b Budget) Spend(c loadout.Currency, cost int) Budget {
	switch c {
	case loadout.CurrencySkillPoint:
		b.SkillPoints -= cost
	case loadout.CurrencyScrap:
		b.Scrap -= cost
	case loadout.CurrencyGems:
		b.Gems -= cost
	}
	return b
}

// Objective is the scalar a search maximizes and how it is evaluated.
// Analytic evaluation walks the tier bands with expected values; sampled
// evaluation calls the Monte Carlo driver and is for objectives where
// variance or ability timing matters.
type Objective struct {
	Metric     stats.Metric
	StartDepth float64
	Flags      sim.AbilityFlags
	// Sampled switches candidate evaluation to Monte Carlo.
	Sampled bool
	// Runs per candidate when sampled.
	Runs int
	// Seed is shared across candidate evaluations so candidates face the
	// same random stream (common random numbers).
	Seed uint64
}
