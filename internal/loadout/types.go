package loadout

// AllocationState is one candidate stat build: skill points, upgrade levels
// and equipped charms. It mirrors the YAML schema used at the configuration
// boundary, so a saved build round-trips to an identical StatBundle.
type AllocationState struct {
	Skills   SkillPoints   `yaml:"skills"`
	Upgrades UpgradeLevels `yaml:"upgrades"`
	Premium  PremiumLevels `yaml:"premium"`
	Charms   []Charm       `yaml:"charms,omitempty"`
}

// SkillPoints are the five per-run skill counters.
type SkillPoints struct {
	Power     int `yaml:"power"`     // flat damage
	Endurance int `yaml:"endurance"` // max stamina
	Precision int `yaml:"precision"` // crit chance
	Tempo     int `yaml:"tempo"`     // attack cadence
	Fortune   int `yaml:"fortune"`   // mod trigger chances
}

// UpgradeLevels are the flat (scrap-bought) upgrade tiers. The two cap
// upgrades raise the level ceiling of their target upgrade.
type UpgradeLevels struct {
	Pickaxe    int `yaml:"pickaxe"`     // flat damage
	DrillBit   int `yaml:"drill_bit"`   // flat armor penetration
	Canteen    int `yaml:"canteen"`     // max stamina
	HelmetLamp int `yaml:"helmet_lamp"` // experience percentage
	Satchel    int `yaml:"satchel"`     // loot mod chance
	PickaxeCap int `yaml:"pickaxe_cap"`
	CanteenCap int `yaml:"canteen_cap"`
}

// PremiumLevels are the gem-bought upgrade tiers, including the rank of each
// of the three abilities. Rank 0 means the ability is locked.
type PremiumLevels struct {
	Might         int `yaml:"might"`       // percentage damage
	CritDamage    int `yaml:"crit_damage"` // percentage on the crit multiplier
	Piercing      int `yaml:"piercing"`    // percentage armor penetration
	Scholar       int `yaml:"scholar"`     // percentage experience
	Shatter       int `yaml:"shatter"`     // one-hit-kill chance
	FrenzyRank    int `yaml:"frenzy_rank"`
	SurgeRank     int `yaml:"surge_rank"`
	ShockwaveRank int `yaml:"shockwave_rank"`
}

// Charm is an equipped modifier contributing flat stats and mod chances.
type Charm struct {
	Name             string  `yaml:"name"`
	Damage           float64 `yaml:"damage,omitempty"`
	DamagePct        float64 `yaml:"damage_pct,omitempty"`
	ArmorPen         float64 `yaml:"armor_pen,omitempty"`
	Stamina          float64 `yaml:"stamina,omitempty"`
	CritDamagePct    float64 `yaml:"crit_damage_pct,omitempty"`
	XPModChance      float64 `yaml:"xp_mod_chance,omitempty"`
	LootModChance    float64 `yaml:"loot_mod_chance,omitempty"`
	SpeedModChance   float64 `yaml:"speed_mod_chance,omitempty"`
	StaminaModChance float64 `yaml:"stamina_mod_chance,omitempty"`
}

// Mod is one per-kill bonus trigger: a chance and the average payout
// multiplier applied when it fires. Payouts are averages on purpose; the
// simulator never samples a sub-range.
type Mod struct {
	Chance float64
	Payout float64
}

// Mods groups the four trigger categories.
type Mods struct {
	Experience Mod
	Loot       Mod
	Speed      Mod
	Stamina    Mod
}

// FrenzyStats is the periodic damage/crit buff.
type FrenzyStats struct {
	IntervalSec     float64 // 0 disables the ability
	DurationHits    int
	DamageMult      float64
	CritDamageBonus float64 // added onto the crit multiplier while active
}

// SurgeStats is the periodic stamina/speed buff. The speed multiplier
// shortens real-time duration only; it never changes stamina cost.
type SurgeStats struct {
	IntervalSec    float64
	StaminaRestore float64
	SpeedMult      float64
	DurationSec    float64
}

// ShockwaveStats is the periodic area-damage ability. Each charge makes one
// hit splash SplashPct of total damage, ignoring armor, onto every other
// live block on the floor.
type ShockwaveStats struct {
	IntervalSec float64
	Charges     int
	SplashPct   float64
}

// Abilities bundles the three ability configurations.
type Abilities struct {
	Frenzy    FrenzyStats
	Surge     SurgeStats
	Shockwave ShockwaveStats
}

// StatBundle is the immutable aggregated build a simulation batch consumes.
// Built once per candidate allocation by Aggregate and never mutated.
type StatBundle struct {
	Damage        float64 // flat subtotal
	DamagePct     float64
	ArmorPen      float64 // rounded, then percentage-scaled
	MaxStamina    float64
	CritChance    float64
	CritDamage    float64 // multiplier
	OneHitKill    float64
	XPMultiplier  float64
	HitsPerSecond float64
	Mods          Mods
	Abilities     Abilities
}

// TotalDamage is the damage figure the per-hit formula starts from.
func (b StatBundle) TotalDamage() float64 {
	return b.Damage * (1 + b.DamagePct)
}
