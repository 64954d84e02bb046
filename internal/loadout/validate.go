package loadout

import (
	"fmt"
	"strings"
)

// Level ceilings. Cap upgrades raise the ceiling of their target upgrade.
const (
	maxSkillPoints   = 50
	maxPickaxeBase   = 20
	maxDrillBit      = 20
	maxCanteenBase   = 10
	maxHelmetLamp    = 10
	maxSatchel       = 10
	maxPickaxeCap    = 5
	maxCanteenCap    = 5
	pickaxePerCap    = 5 // extra pickaxe levels per cap level
	canteenPerCap    = 4
	maxMight         = 25
	maxCritDamage    = 10
	maxPiercing      = 10
	maxScholar       = 5
	maxShatter       = 10
	maxAbilityRank   = 3
)

// CapError reports a level that exceeds its (possibly cap-raised) maximum.
// Allocations are rejected, never clamped: silent clamping would corrupt
// optimizer comparisons.
type CapError struct {
	Field string
	Level int
	Max   int
}

func (e *CapError) Error() string {
	return fmt.Sprintf("%s level %d exceeds maximum %d", e.Field, e.Level, e.Max)
}

// MaxPickaxe returns the pickaxe ceiling for this allocation's cap level.
func (a AllocationState) MaxPickaxe() int {
	return maxPickaxeBase + a.Upgrades.PickaxeCap*pickaxePerCap
}

// MaxCanteen returns the canteen ceiling for this allocation's cap level.
func (a AllocationState) MaxCanteen() int {
	return maxCanteenBase + a.Upgrades.CanteenCap*canteenPerCap
}

// Validate checks every counter against its maximum and rejects negatives.
// It returns the first violation as a *CapError so callers can tell a bad
// build apart from infrastructure failures.
func Validate(alloc AllocationState) error {
	checks := []struct {
		field string
		level int
		max   int
	}{
		{"skills.power", alloc.Skills.Power, maxSkillPoints},
		{"skills.endurance", alloc.Skills.Endurance, maxSkillPoints},
		{"skills.precision", alloc.Skills.Precision, maxSkillPoints},
		{"skills.tempo", alloc.Skills.Tempo, maxSkillPoints},
		{"skills.fortune", alloc.Skills.Fortune, maxSkillPoints},
		{"upgrades.pickaxe", alloc.Upgrades.Pickaxe, alloc.MaxPickaxe()},
		{"upgrades.drill_bit", alloc.Upgrades.DrillBit, maxDrillBit},
		{"upgrades.canteen", alloc.Upgrades.Canteen, alloc.MaxCanteen()},
		{"upgrades.helmet_lamp", alloc.Upgrades.HelmetLamp, maxHelmetLamp},
		{"upgrades.satchel", alloc.Upgrades.Satchel, maxSatchel},
		{"upgrades.pickaxe_cap", alloc.Upgrades.PickaxeCap, maxPickaxeCap},
		{"upgrades.canteen_cap", alloc.Upgrades.CanteenCap, maxCanteenCap},
		{"premium.might", alloc.Premium.Might, maxMight},
		{"premium.crit_damage", alloc.Premium.CritDamage, maxCritDamage},
		{"premium.piercing", alloc.Premium.Piercing, maxPiercing},
		{"premium.scholar", alloc.Premium.Scholar, maxScholar},
		{"premium.shatter", alloc.Premium.Shatter, maxShatter},
		{"premium.frenzy_rank", alloc.Premium.FrenzyRank, maxAbilityRank},
		{"premium.surge_rank", alloc.Premium.SurgeRank, maxAbilityRank},
		{"premium.shockwave_rank", alloc.Premium.ShockwaveRank, maxAbilityRank},
	}
	for _, c := range checks {
		if c.level < 0 {
			return &CapError{Field: c.field, Level: c.level, Max: c.max}
		}
		if c.level > c.max {
			return &CapError{Field: c.field, Level: c.level, Max: c.max}
		}
	}
	var errs []string
	for i, charm := range alloc.Charms {
		for _, p := range []float64{charm.Damage, charm.DamagePct, charm.ArmorPen, charm.Stamina, charm.CritDamagePct} {
			if p < 0 {
				errs = append(errs, fmt.Sprintf("charms[%d] stat payloads must be >= 0", i))
				break
			}
		}
		for _, p := range []float64{charm.XPModChance, charm.LootModChance, charm.SpeedModChance, charm.StaminaModChance} {
			if p < 0 || p > 1 {
				errs = append(errs, fmt.Sprintf("charms[%d] mod chance must be in [0,1]", i))
				break
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("allocation validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
