package sim

import (
	"math"
	"time"

	"github.com/minebound/digsim/internal/loadout"
	"github.com/minebound/digsim/internal/tables"
)

const (
	// DefaultBlocksPerFloor is the fixed block count per floor.
	DefaultBlocksPerFloor = 9
	// DefaultMaxHitsPerRun guards against non-terminating configurations
	// (for example zero effective damage grinding toward the floor-at-1
	// rule one point at a time).
	DefaultMaxHitsPerRun = 500_000
	// speedModHitWindow is how many hits a triggered speed mod lasts.
	speedModHitWindow = 20
)

// Simulator samples runs against one set of progression tables. It holds no
// per-run state; concurrent Run calls are safe as long as each call gets its
// own RandomSource.
type Simulator struct {
	Tables         *tables.Tables
	BlocksPerFloor int
	MaxHitsPerRun  int
}

// New returns a Simulator with the default floor size and safety cap.
func New(tbl *tables.Tables) *Simulator {
	return &Simulator{
		Tables:         tbl,
		BlocksPerFloor: DefaultBlocksPerFloor,
		MaxHitsPerRun:  DefaultMaxHitsPerRun,
	}
}

// EffectiveDamage is the per-hit damage formula. The floor and the max
// produce hard breakpoints: one extra point of damage can remove a whole
// hit from every future block of an archetype.
func EffectiveDamage(damage, armor, pen float64) float64 {
	eff := math.Floor(damage - armor + pen)
	if eff < 1 {
		return 1
	}
	return eff
}

type blockState struct {
	archetype tables.ArchetypeID
	stats     tables.BlockStats
	hp        float64
	credited  bool
}

type runState struct {
	sim    *Simulator
	bundle loadout.StatBundle
	rng    RandomSource

	stamina      float64
	clock        float64 // simulated seconds
	speedModHits int
	capHit       bool

	frenzy frenzyState
	surge  surgeState
	shock  shockwaveState

	out RunOutcome
}

// Run samples one run. Fully deterministic given the same rng stream: the
// draw order per hit is fixed (crit, one-hit-kill, splash crits in block
// order, then the four mod rolls per kill).
func (s *Simulator) Run(b loadout.StatBundle, startDepth float64, flags AbilityFlags, rng RandomSource) RunOutcome {
	if rng == nil {
		rng = DefaultRNG()
	}
	r := &runState{
		sim:     s,
		bundle:  b,
		rng:     rng,
		stamina: b.MaxStamina,
		frenzy:  newFrenzyState(b.Abilities.Frenzy, flags.Frenzy),
		surge:   newSurgeState(b.Abilities.Surge, flags.Surge),
		shock:   newShockwaveState(b.Abilities.Shockwave, flags.Shockwave),
		out:     RunOutcome{Fragments: make(map[tables.ArchetypeID]float64)},
	}

	depth := startDepth
	for r.stamina > 0 && !r.capHit {
		blocks := r.drawFloor(depth)
		hitsSpent, cleared := r.clearFloor(blocks)
		if !cleared {
			depth += r.partialProgress(blocks, hitsSpent)
			break
		}
		depth++
	}

	r.out.Depth = depth
	r.out.Duration = time.Duration(r.clock * float64(time.Second))
	r.out.SafetyCapHit = r.capHit
	return r.out
}

func (r *runState) drawFloor(depth float64) []blockState {
	spawn := r.sim.Tables.Spawn(depth)
	blocks := make([]blockState, r.sim.BlocksPerFloor)
	for i := range blocks {
		id := drawArchetype(spawn, r.rng)
		stats, _ := r.sim.Tables.Archetype(id, depth)
		blocks[i] = blockState{archetype: id, stats: stats, hp: stats.HP}
	}
	return blocks
}

func drawArchetype(spawn []tables.SpawnEntry, rng RandomSource) tables.ArchetypeID {
	roll := rng.Float64()
	acc := 0.0
	for _, e := range spawn {
		acc += e.Probability
		if roll < acc {
			return e.Archetype
		}
	}
	return spawn[len(spawn)-1].Archetype
}

// clearFloor resolves blocks in order until the floor is empty, stamina runs
// out, or the safety cap trips.
func (r *runState) clearFloor(blocks []blockState) (hitsSpent int, cleared bool) {
	for i := range blocks {
		for blocks[i].hp > 0 {
			if r.stamina <= 0 || r.capHit {
				return hitsSpent, false
			}
			r.hit(blocks, i)
			if r.capHit {
				return hitsSpent, false
			}
			hitsSpent++
		}
	}
	return hitsSpent, true
}

func (r *runState) hit(blocks []blockState, target int) {
	if r.out.Hits >= r.sim.MaxHitsPerRun {
		r.capHit = true
		return
	}
	b := r.bundle

	r.frenzy.tick(r.clock)
	if restored := r.surge.tick(r.clock); restored > 0 {
		r.stamina = math.Min(b.MaxStamina, r.stamina+restored)
	}
	r.shock.tick(r.clock)

	damage := b.TotalDamage()
	critMult := b.CritDamage
	frenzyActive := r.frenzy.active()
	if frenzyActive {
		damage *= r.frenzy.stats.DamageMult
		critMult += r.frenzy.stats.CritDamageBonus
	}
	if r.rng.Float64() < b.CritChance {
		damage *= critMult
		r.out.Crits++
	}
	oneHitKill := false
	if b.OneHitKill > 0 {
		oneHitKill = r.rng.Float64() < b.OneHitKill
	}

	tgt := &blocks[target]
	if oneHitKill {
		tgt.hp = 0
	} else {
		tgt.hp -= EffectiveDamage(damage, tgt.stats.Armor, b.ArmorPen)
	}

	r.stamina--
	r.out.Hits++

	// Attack-speed effects change real time only, never stamina cost.
	step := 1 / cadence(b)
	mult := r.surge.speedMult(r.clock)
	if r.speedModHits > 0 {
		mult *= b.Mods.Speed.Payout
		r.speedModHits--
	}
	r.clock += step / mult

	// The charge is spent even when no other block remains alive. The
	// frenzy buff applies to the primary target only, not to splash.
	if r.shock.consume() {
		r.splash(blocks, target)
	}

	if frenzyActive {
		r.frenzy.consumeHit()
	}
	if tgt.hp <= 0 {
		r.processKill(tgt)
	}
}

// splash hits every other live block for a reduced percentage of total
// damage, ignoring armor, with an independent crit check per target.
func (r *runState) splash(blocks []blockState, target int) {
	b := r.bundle
	base := b.TotalDamage() * r.shock.stats.SplashPct
	for i := range blocks {
		if i == target || blocks[i].hp <= 0 {
			continue
		}
		dmg := base
		if r.rng.Float64() < b.CritChance {
			dmg *= b.CritDamage
			r.out.Crits++
		}
		eff := math.Floor(dmg)
		if eff < 1 {
			eff = 1
		}
		blocks[i].hp -= eff
		if blocks[i].hp <= 0 {
			r.processKill(&blocks[i])
		}
	}
}

// processKill credits experience and fragments and rolls the four mod
// categories with their average payouts.
func (r *runState) processKill(bl *blockState) {
	if bl.credited {
		return
	}
	bl.credited = true
	b := r.bundle

	xp := bl.stats.XP * b.XPMultiplier
	frag := bl.stats.Fragments
	if r.rng.Float64() < b.Mods.Experience.Chance {
		xp *= b.Mods.Experience.Payout
	}
	if r.rng.Float64() < b.Mods.Loot.Chance {
		frag *= b.Mods.Loot.Payout
	}
	if r.rng.Float64() < b.Mods.Speed.Chance {
		r.speedModHits = speedModHitWindow
	}
	if r.rng.Float64() < b.Mods.Stamina.Chance {
		r.stamina = math.Min(b.MaxStamina, r.stamina+b.Mods.Stamina.Payout)
	}

	r.out.Experience += xp
	if frag > 0 {
		r.out.Fragments[bl.archetype] += frag
	}
	r.out.Blocks++
}

// partialProgress is consumed stamina over stamina required for the floor,
// with the requirement estimated from unbuffed effective damage.
func (r *runState) partialProgress(blocks []blockState, hitsSpent int) float64 {
	base := r.bundle.TotalDamage()
	remaining := 0.0
	for i := range blocks {
		if blocks[i].hp <= 0 {
			continue
		}
		eff := EffectiveDamage(base, blocks[i].stats.Armor, r.bundle.ArmorPen)
		remaining += math.Ceil(blocks[i].hp / eff)
	}
	if remaining <= 0 {
		return 0
	}
	return float64(hitsSpent) / (float64(hitsSpent) + remaining)
}

func cadence(b loadout.StatBundle) float64 {
	if b.HitsPerSecond <= 0 {
		return 1
	}
	return b.HitsPerSecond
}
