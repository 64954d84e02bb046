package loadout

// Currency identifies what an increment is paid with.
type Currency int

const (
	CurrencySkillPoint Currency = iota
	CurrencyScrap
	CurrencyGems
)

func (c Currency) String() string {
	switch c {
	case CurrencySkillPoint:
		return "skill points"
	case CurrencyScrap:
		return "scrap"
	case CurrencyGems:
		return "gems"
	default:
		return "unknown"
	}
}

// Field is one allocatable counter. The optimizer enumerates these to build
// its candidate set; the declaration order here is also the documented
// lexicographic tie-break priority.
type Field struct {
	Name     string
	Currency Currency
	Get      func(AllocationState) int
	Set      func(AllocationState, int) AllocationState
	// Cost of buying the given level (the level being moved to).
	Cost func(level int) int
}

// Fields lists every allocatable counter in tie-break priority order:
// skills first (power, endurance, precision, tempo, fortune), then flat
// upgrades, then premium upgrades.
func Fields() []Field {
	one := func(int) int { return 1 }
	scaling := func(base int) func(int) int {
		return func(level int) int { return base * level }
	}
	return []Field{
		{"skills.power", CurrencySkillPoint, func(a AllocationState) int { return a.Skills.Power },
			func(a AllocationState, v int) AllocationState { a.Skills.Power = v; return a }, one},
		{"skills.endurance", CurrencySkillPoint, func(a AllocationState) int { return a.Skills.Endurance },
			func(a AllocationState, v int) AllocationState { a.Skills.Endurance = v; return a }, one},
		{"skills.precision", CurrencySkillPoint, func(a AllocationState) int { return a.Skills.Precision },
			func(a AllocationState, v int) AllocationState { a.Skills.Precision = v; return a }, one},
		{"skills.tempo", CurrencySkillPoint, func(a AllocationState) int { return a.Skills.Tempo },
			func(a AllocationState, v int) AllocationState { a.Skills.Tempo = v; return a }, one},
		{"skills.fortune", CurrencySkillPoint, func(a AllocationState) int { return a.Skills.Fortune },
			func(a AllocationState, v int) AllocationState { a.Skills.Fortune = v; return a }, one},
		{"upgrades.pickaxe", CurrencyScrap, func(a AllocationState) int { return a.Upgrades.Pickaxe },
			func(a AllocationState, v int) AllocationState { a.Upgrades.Pickaxe = v; return a }, scaling(50)},
		{"upgrades.drill_bit", CurrencyScrap, func(a AllocationState) int { return a.Upgrades.DrillBit },
			func(a AllocationState, v int) AllocationState { a.Upgrades.DrillBit = v; return a }, scaling(75)},
		{"upgrades.canteen", CurrencyScrap, func(a AllocationState) int { return a.Upgrades.Canteen },
			func(a AllocationState, v int) AllocationState { a.Upgrades.Canteen = v; return a }, scaling(100)},
		{"upgrades.helmet_lamp", CurrencyScrap, func(a AllocationState) int { return a.Upgrades.HelmetLamp },
			func(a AllocationState, v int) AllocationState { a.Upgrades.HelmetLamp = v; return a }, scaling(60)},
		{"upgrades.satchel", CurrencyScrap, func(a AllocationState) int { return a.Upgrades.Satchel },
			func(a AllocationState, v int) AllocationState { a.Upgrades.Satchel = v; return a }, scaling(60)},
		{"upgrades.pickaxe_cap", CurrencyScrap, func(a AllocationState) int { return a.Upgrades.PickaxeCap },
			func(a AllocationState, v int) AllocationState { a.Upgrades.PickaxeCap = v; return a }, scaling(500)},
		{"upgrades.canteen_cap", CurrencyScrap, func(a AllocationState) int { return a.Upgrades.CanteenCap },
			func(a AllocationState, v int) AllocationState { a.Upgrades.CanteenCap = v; return a }, scaling(500)},
		{"premium.might", CurrencyGems, func(a AllocationState) int { return a.Premium.Might },
			func(a AllocationState, v int) AllocationState { a.Premium.Might = v; return a }, scaling(10)},
		{"premium.crit_damage", CurrencyGems, func(a AllocationState) int { return a.Premium.CritDamage },
			func(a AllocationState, v int) AllocationState { a.Premium.CritDamage = v; return a }, scaling(15)},
		{"premium.piercing", CurrencyGems, func(a AllocationState) int { return a.Premium.Piercing },
			func(a AllocationState, v int) AllocationState { a.Premium.Piercing = v; return a }, scaling(15)},
		{"premium.scholar", CurrencyGems, func(a AllocationState) int { return a.Premium.Scholar },
			func(a AllocationState, v int) AllocationState { a.Premium.Scholar = v; return a }, scaling(20)},
		{"premium.shatter", CurrencyGems, func(a AllocationState) int { return a.Premium.Shatter },
			func(a AllocationState, v int) AllocationState { a.Premium.Shatter = v; return a }, scaling(25)},
		{"premium.frenzy_rank", CurrencyGems, func(a AllocationState) int { return a.Premium.FrenzyRank },
			func(a AllocationState, v int) AllocationState { a.Premium.FrenzyRank = v; return a }, scaling(100)},
		{"premium.surge_rank", CurrencyGems, func(a AllocationState) int { return a.Premium.SurgeRank },
			func(a AllocationState, v int) AllocationState { a.Premium.SurgeRank = v; return a }, scaling(100)},
		{"premium.shockwave_rank", CurrencyGems, func(a AllocationState) int { return a.Premium.ShockwaveRank },
			func(a AllocationState, v int) AllocationState { a.Premium.ShockwaveRank = v; return a }, scaling(100)},
	}
}
