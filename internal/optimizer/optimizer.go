package optimizer

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/minebound/digsim/internal/loadout"
	"github.com/minebound/digsim/internal/logger"
	"github.com/minebound/digsim/internal/montecarlo"
	"github.com/minebound/digsim/internal/sim"
)

// Candidates within this relative-improvement band of the best are tied and
// ordered by the fixed category priority (the declaration order of
// loadout.Fields) instead of raw score, so recommendations stay stable
// across runs with different seeds.
const tieBand = 0.03

// CandidateKind tags how a candidate was generated.
type CandidateKind string

const (
	CandidateGreedy      CandidateKind = "greedy"
	CandidateExploratory CandidateKind = "exploratory"
)

// Candidate is one evaluated next increment.
type Candidate struct {
	Field       string
	Label       string
	Kind        CandidateKind
	NextLevel   int
	Cost        int
	Currency    loadout.Currency
	Allocation  loadout.AllocationState
	Score       float64
	Improvement float64 // relative to the current allocation's score
}

// Step records one applied increment during Optimize.
type Step struct {
	Candidate Candidate
	Remaining Budget
}

// Optimizer searches the allocation space one increment at a time.
type Optimizer struct {
	Sim    *sim.Simulator
	Driver *montecarlo.Driver
	// ExplorationRate, when positive, makes Optimize occasionally take a
	// uniformly random affordable candidate instead of the best one. The
	// draw comes from Rng, which must then be set.
	ExplorationRate float64
	Rng             sim.RandomSource
}

// New returns a purely greedy optimizer.
func New(s *sim.Simulator, d *montecarlo.Driver) *Optimizer {
	return &Optimizer{Sim: s, Driver: d}
}

// RecommendNext evaluates every affordable, cap-legal single increment and
// returns them ranked by relative improvement, best first. A zero budget
// yields an empty list. The input allocation is validated first and rejected
// (never clamped) if any level exceeds its maximum.
func (o *Optimizer) RecommendNext(ctx context.Context, alloc loadout.AllocationState, budget Budget, obj Objective) ([]Candidate, error) {
	if err := loadout.Validate(alloc); err != nil {
		return nil, err
	}
	base, err := o.score(ctx, loadout.Aggregate(alloc), obj)
	if err != nil {
		return nil, err
	}

	var candidates []Candidate
	for _, f := range loadout.Fields() {
		next := f.Get(alloc) + 1
		cost := f.Cost(next)
		if !budget.CanAfford(f.Currency, cost) {
			continue
		}
		applied := f.Set(alloc, next)
		if loadout.Validate(applied) != nil {
			// Cap reached (or not yet raised by its cap upgrade).
			continue
		}
		score, err := o.score(ctx, loadout.Aggregate(applied), obj)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, Candidate{
			Field:       f.Name,
			Label:       fmt.Sprintf("%s -> level %d (%d %s)", f.Name, next, cost, f.Currency),
			Kind:        CandidateGreedy,
			NextLevel:   next,
			Cost:        cost,
			Currency:    f.Currency,
			Allocation:  applied,
			Score:       score,
			Improvement: relativeImprovement(base, score),
		})
	}
	rankCandidates(candidates)
	return candidates, nil
}

func relativeImprovement(base, score float64) float64 {
	denom := math.Abs(base)
	if denom < 1e-12 {
		denom = 1e-12
	}
	return (score - base) / denom
}

// rankCandidates sorts by improvement, then reorders the leading tie band by
// category priority.
func rankCandidates(candidates []Candidate) {
	priority := fieldPriority()
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Improvement > candidates[j].Improvement
	})
	if len(candidates) < 2 {
		return
	}
	best := candidates[0].Improvement
	if best <= 0 {
		return
	}
	threshold := best - tieBand*math.Abs(best)
	tied := 1
	for tied < len(candidates) && candidates[tied].Improvement >= threshold {
		tied++
	}
	sort.SliceStable(candidates[:tied], func(i, j int) bool {
		return priority[candidates[i].Field] < priority[candidates[j].Field]
	})
}

func fieldPriority() map[string]int {
	m := make(map[string]int)
	for i, f := range loadout.Fields() {
		m[f.Name] = i
	}
	return m
}

// Optimize applies recommendations greedily until the budget is exhausted or
// no candidate improves the objective. With a positive ExplorationRate it
// occasionally applies a random affordable candidate instead.
func (o *Optimizer) Optimize(ctx context.Context, alloc loadout.AllocationState, budget Budget, obj Objective) (loadout.AllocationState, []Step, error) {
	var steps []Step
	for {
		candidates, err := o.RecommendNext(ctx, alloc, budget, obj)
		if err != nil {
			return alloc, steps, err
		}
		if len(candidates) == 0 {
			return alloc, steps, nil
		}
		chosen := candidates[0]
		if chosen.Improvement <= 0 {
			return alloc, steps, nil
		}
		if o.ExplorationRate > 0 && o.Rng != nil && o.Rng.Float64() < o.ExplorationRate {
			pick := int(o.Rng.Float64() * float64(len(candidates)))
			if pick >= len(candidates) {
				pick = len(candidates) - 1
			}
			chosen = candidates[pick]
			chosen.Kind = CandidateExploratory
		}
		alloc = chosen.Allocation
		budget = budget.Spend(chosen.Currency, chosen.Cost)
		steps = append(steps, Step{Candidate: chosen, Remaining: budget})
		logger.Debug("optimizer step", "field", chosen.Field, "level", chosen.NextLevel,
			"improvement", chosen.Improvement, "kind", chosen.Kind)
	}
}
