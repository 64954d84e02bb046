package optimizer

import (
	"context"
	"math"

	"github.com/minebound/digsim/internal/loadout"
	"github.com/minebound/digsim/internal/sim"
	"github.com/minebound/digsim/internal/stats"
	"github.com/minebound/digsim/internal/tables"
)

// score evaluates one bundle against the objective.
func (o *Optimizer) score(ctx context.Context, b loadout.StatBundle, obj Objective) (float64, error) {
	if !obj.Sampled {
		return o.analyticScore(b, obj), nil
	}
	runs := obj.Runs
	if runs <= 0 {
		runs = 500
	}
	batch, err := o.Driver.Sample(ctx, b, obj.StartDepth, obj.Flags, runs, obj.Seed)
	if err != nil {
		return 0, err
	}
	if batch.Partial {
		return 0, ctx.Err()
	}
	return stats.Describe(obj.Metric.Series(batch.Outcomes)).Mean, nil
}

// floorExpectation is the expected stamina, experience and fragments for one
// floor at the given depth. The expected effective damage keeps the floor
// inside each branch, so integer damage breakpoints survive into the
// expectation and the search can detect them.
type floorExpectation struct {
	hits      float64
	xp        float64
	fragments map[tables.ArchetypeID]float64
}

func expectFloor(tbl *tables.Tables, b loadout.StatBundle, depth float64, blocksPerFloor int) floorExpectation {
	exp := floorExpectation{fragments: make(map[tables.ArchetypeID]float64)}
	spawn := tbl.Spawn(depth)
	if len(spawn) == 0 {
		return exp
	}
	damage := b.TotalDamage()
	for _, e := range spawn {
		st, ok := tbl.Archetype(e.Archetype, depth)
		if !ok {
			continue
		}
		effBase := sim.EffectiveDamage(damage, st.Armor, b.ArmorPen)
		effCrit := sim.EffectiveDamage(damage*b.CritDamage, st.Armor, b.ArmorPen)
		effMean := effBase*(1-b.CritChance) + effCrit*b.CritChance
		hits := math.Ceil(st.HP / effMean)
		if b.OneHitKill > 0 {
			// A one-hit-kill truncates the remaining hits.
			hits = (1 - math.Pow(1-b.OneHitKill, hits)) / b.OneHitKill
		}
		n := float64(blocksPerFloor) * e.Probability
		exp.hits += n * hits
		exp.xp += n * st.XP * b.XPMultiplier * (1 + b.Mods.Experience.Chance*(b.Mods.Experience.Payout-1))
		if st.Fragments > 0 {
			exp.fragments[e.Archetype] += n * st.Fragments * (1 + b.Mods.Loot.Chance*(b.Mods.Loot.Payout-1))
		}
	}
	return exp
}

// analyticScore walks the tier bands with expected values: floors are bought
// with stamina at each band's expected hits-per-floor rate until stamina or
// the table runs out. Ability windows are ignored on this path; objectives
// sensitive to them should use sampled evaluation.
func (o *Optimizer) analyticScore(b loadout.StatBundle, obj Objective) float64 {
	tbl := o.Sim.Tables
	blocksPerFloor := o.Sim.BlocksPerFloor

	depth := obj.StartDepth
	stamina := b.MaxStamina
	totalHits := 0.0
	totalXP := 0.0
	fragments := make(map[tables.ArchetypeID]float64)

	for stamina > 0 {
		exp := expectFloor(tbl, b, depth, blocksPerFloor)
		if exp.hits <= 0 {
			break
		}
		affordable := stamina / exp.hits
		bandFloors := math.Inf(1)
		if next, ok := tbl.NextBandStart(depth); ok {
			bandFloors = float64(next) - depth
		}
		take := math.Min(affordable, bandFloors)
		depth += take
		totalHits += exp.hits * take
		totalXP += exp.xp * take
		for id, f := range exp.fragments {
			fragments[id] += f * take
		}
		stamina -= exp.hits * take
		if affordable <= bandFloors {
			break
		}
	}

	seconds := 0.0
	if b.HitsPerSecond > 0 {
		seconds = totalHits / b.HitsPerSecond
	}
	perHour := func(q float64) float64 {
		if seconds <= 0 {
			return 0
		}
		return q * 3600 / seconds
	}

	switch obj.Metric.Kind {
	case stats.MetricXPPerHour:
		return perHour(totalXP)
	case stats.MetricFragmentsPerHour:
		return perHour(fragments[obj.Metric.Fragment])
	default:
		return depth
	}
}
