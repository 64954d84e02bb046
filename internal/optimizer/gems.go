package optimizer

import (
	"github.com/minebound/digsim/internal/loadout"
)

// GemPurchase is one line of a gem spending plan.
type GemPurchase struct {
	Field  string
	Levels int // levels bought on top of the current allocation
	Cost   int
	Value  float64 // estimated objective gain
}

// GemPlan is the best premium spend found for a gem budget.
type GemPlan struct {
	Purchases  []GemPurchase
	TotalCost  int
	TotalValue float64
	Allocation loadout.AllocationState
}

// PlanGems finds the premium-upgrade mix maximizing estimated objective gain
// under a gem budget, with a grouped knapsack over per-field level prefixes
// (levels must be bought in order, so each field contributes one prefix).
// Values come from the analytic evaluator; the plan is a starting point, not
// a sampled comparison.
func (o *Optimizer) PlanGems(alloc loadout.AllocationState, gems int, obj Objective) (GemPlan, error) {
	if err := loadout.Validate(alloc); err != nil {
		return GemPlan{}, err
	}
	plan := GemPlan{Allocation: alloc}
	if gems <= 0 {
		return plan, nil
	}

	base := o.analyticScore(loadout.Aggregate(alloc), obj)

	type option struct {
		levels int
		cost   int
		value  float64
	}
	type group struct {
		field   loadout.Field
		options []option
	}

	var groups []group
	for _, f := range loadout.Fields() {
		if f.Currency != loadout.CurrencyGems {
			continue
		}
		g := group{field: f}
		cost := 0
		applied := alloc
		for k := 1; ; k++ {
			next := f.Get(alloc) + k
			cost += f.Cost(next)
			if cost > gems {
				break
			}
			applied = f.Set(applied, next)
			if loadout.Validate(applied) != nil {
				break
			}
			value := o.analyticScore(loadout.Aggregate(applied), obj) - base
			g.options = append(g.options, option{levels: k, cost: cost, value: value})
		}
		if len(g.options) > 0 {
			groups = append(groups, g)
		}
	}
	if len(groups) == 0 {
		return plan, nil
	}

	// dp[g] = best total value at gem cost <= g; one prefix per group.
	dp := make([]float64, gems+1)
	choice := make([][]int, len(groups))
	for gi, grp := range groups {
		choice[gi] = make([]int, gems+1)
		next := append([]float64(nil), dp...)
		for g := 0; g <= gems; g++ {
			for _, opt := range grp.options {
				if opt.cost > g || opt.value <= 0 {
					continue
				}
				if v := dp[g-opt.cost] + opt.value; v > next[g] {
					next[g] = v
					choice[gi][g] = opt.levels
				}
			}
		}
		dp = next
	}

	bestG := 0
	for g := 0; g <= gems; g++ {
		if dp[g] > dp[bestG] {
			bestG = g
		}
	}

	// Reconstruct purchases walking groups backward.
	g := bestG
	result := alloc
	for gi := len(groups) - 1; gi >= 0; gi-- {
		k := choice[gi][g]
		if k == 0 {
			continue
		}
		var opt option
		for _, candidate := range groups[gi].options {
			if candidate.levels == k {
				opt = candidate
				break
			}
		}
		f := groups[gi].field
		result = f.Set(result, f.Get(result)+k)
		plan.Purchases = append(plan.Purchases, GemPurchase{
			Field:  f.Name,
			Levels: k,
			Cost:   opt.cost,
			Value:  opt.value,
		})
		plan.TotalCost += opt.cost
		plan.TotalValue += opt.value
		g -= opt.cost
	}
	plan.Allocation = result
	return plan, nil
}
