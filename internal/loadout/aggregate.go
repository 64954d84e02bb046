package loadout

import "math"

// Baseline stats before any allocation.
const (
	baseDamage        = 10.0
	baseStamina       = 100.0
	baseCritChance    = 0.0
	baseCritDamage    = 1.5
	baseHitsPerSecond = 2.0
	baseModPayoutXP   = 2.0
	baseModPayoutLoot = 2.0
	baseModPayoutSpd  = 1.5
	baseModPayoutStam = 5.0
)

// Per-level contributions.
const (
	powerDamagePerPoint     = 2.0
	endureStaminaPerPoint   = 10.0
	precisionCritPerPoint   = 0.01
	tempoCadencePerPoint    = 0.1
	fortuneChancePerPoint   = 0.005
	pickaxeDamagePerLevel   = 3.0
	drillBitPenPerLevel     = 1.5
	canteenStaminaPerLevel  = 25.0
	helmetXPPctPerLevel     = 0.05
	satchelChancePerLevel   = 0.01
	mightDamagePctPerLevel  = 0.02
	critDamagePctPerLevel   = 0.10
	piercingPenPctPerLevel  = 0.05
	scholarXPPctPerLevel    = 0.10
	shatterChancePerLevel   = 0.002
)

// Aggregate composes an AllocationState into a StatBundle. The composition
// order is fixed: flat-additive subtotals first, then the percentage scaling,
// with armor penetration rounded to an integer before its multiplier. The
// round step creates intentional integer breakpoints, so it must not be
// reassociated with the scaling.
func Aggregate(alloc AllocationState) StatBundle {
	var charmDamage, charmDamagePct, charmPen, charmStamina, charmCritPct float64
	var charmXPMod, charmLootMod, charmSpeedMod, charmStaminaMod float64
	for _, c := range alloc.Charms {
		charmDamage += c.Damage
		charmDamagePct += c.DamagePct
		charmPen += c.ArmorPen
		charmStamina += c.Stamina
		charmCritPct += c.CritDamagePct
		charmXPMod += c.XPModChance
		charmLootMod += c.LootModChance
		charmSpeedMod += c.SpeedModChance
		charmStaminaMod += c.StaminaModChance
	}

	// Subtotals are floored at zero: Validate rejects negative charm
	// payloads, but a bundle must never carry a negative multiplicative
	// field regardless of how it was built.
	damage := nonNegative(baseDamage +
		float64(alloc.Skills.Power)*powerDamagePerPoint +
		float64(alloc.Upgrades.Pickaxe)*pickaxeDamagePerLevel +
		charmDamage)

	// Flat subtotal rounded first, then scaled.
	penFlat := nonNegative(math.Round(float64(alloc.Upgrades.DrillBit)*drillBitPenPerLevel + charmPen))
	pen := penFlat * (1 + float64(alloc.Premium.Piercing)*piercingPenPctPerLevel)

	stamina := nonNegative(baseStamina +
		float64(alloc.Skills.Endurance)*endureStaminaPerPoint +
		float64(alloc.Upgrades.Canteen)*canteenStaminaPerLevel +
		charmStamina)

	// Multiple percentage sources add inside one multiplier.
	critDamage := nonNegative(baseCritDamage * (1 + float64(alloc.Premium.CritDamage)*critDamagePctPerLevel + charmCritPct))

	xpPct := float64(alloc.Upgrades.HelmetLamp)*helmetXPPctPerLevel +
		float64(alloc.Premium.Scholar)*scholarXPPctPerLevel

	fortune := float64(alloc.Skills.Fortune) * fortuneChancePerPoint

	bundle := StatBundle{
		Damage:        damage,
		DamagePct:     nonNegative(float64(alloc.Premium.Might)*mightDamagePctPerLevel + charmDamagePct),
		ArmorPen:      pen,
		MaxStamina:    stamina,
		CritChance:    clampChance(baseCritChance + float64(alloc.Skills.Precision)*precisionCritPerPoint),
		CritDamage:    critDamage,
		OneHitKill:    clampChance(float64(alloc.Premium.Shatter) * shatterChancePerLevel),
		XPMultiplier:  1.0 * (1 + xpPct),
		HitsPerSecond: baseHitsPerSecond + float64(alloc.Skills.Tempo)*tempoCadencePerPoint,
		Mods: Mods{
			Experience: Mod{Chance: clampChance(fortune + charmXPMod), Payout: baseModPayoutXP},
			Loot:       Mod{Chance: clampChance(fortune + float64(alloc.Upgrades.Satchel)*satchelChancePerLevel + charmLootMod), Payout: baseModPayoutLoot},
			Speed:      Mod{Chance: clampChance(fortune + charmSpeedMod), Payout: baseModPayoutSpd},
			Stamina:    Mod{Chance: clampChance(fortune + charmStaminaMod), Payout: baseModPayoutStam},
		},
		Abilities: Abilities{
			Frenzy:    frenzyForRank(alloc.Premium.FrenzyRank),
			Surge:     surgeForRank(alloc.Premium.SurgeRank),
			Shockwave: shockwaveForRank(alloc.Premium.ShockwaveRank),
		},
	}
	return bundle
}

// Baseline is the bundle for the empty allocation.
func Baseline() StatBundle {
	return Aggregate(AllocationState{})
}

func frenzyForRank(rank int) FrenzyStats {
	if rank <= 0 {
		return FrenzyStats{}
	}
	return FrenzyStats{
		IntervalSec:     30,
		DurationHits:    10,
		DamageMult:      1.25 + 0.25*float64(rank),
		CritDamageBonus: 0.25 * float64(rank),
	}
}

func surgeForRank(rank int) SurgeStats {
	if rank <= 0 {
		return SurgeStats{}
	}
	return SurgeStats{
		IntervalSec:    45,
		StaminaRestore: 10 * float64(rank),
		SpeedMult:      1.2 + 0.1*float64(rank),
		DurationSec:    15,
	}
}

func shockwaveForRank(rank int) ShockwaveStats {
	if rank <= 0 {
		return ShockwaveStats{}
	}
	return ShockwaveStats{
		IntervalSec: 60,
		Charges:     2 + rank,
		SplashPct:   0.20 + 0.05*float64(rank),
	}
}

// nonNegative floors a stat subtotal at zero.
func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// clampChance keeps a probability inside [0,1].
func clampChance(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
