package montecarlo

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/minebound/digsim/internal/loadout"
	"github.com/minebound/digsim/internal/sim"
	"github.com/minebound/digsim/internal/stats"
	"github.com/minebound/digsim/internal/tables"
)

func testDriver(t *testing.T) *Driver {
	t.Helper()
	tbl, err := tables.Default()
	if err != nil {
		t.Fatal(err)
	}
	return New(sim.New(tbl))
}

func testBundle() loadout.StatBundle {
	return loadout.Aggregate(loadout.AllocationState{
		Skills:   loadout.SkillPoints{Power: 10, Precision: 15, Fortune: 10},
		Upgrades: loadout.UpgradeLevels{Pickaxe: 6, DrillBit: 4, Canteen: 3},
	})
}

func depths(outcomes []sim.RunOutcome) []float64 {
	out := make([]float64, len(outcomes))
	for i, o := range outcomes {
		out[i] = o.Depth
	}
	sort.Float64s(out)
	return out
}

func TestSampleProducesRequestedRuns(t *testing.T) {
	d := testDriver(t)
	d.Workers = 4
	batch, err := d.Sample(context.Background(), testBundle(), 0, sim.AbilityFlags{}, 50, 7)
	if err != nil {
		t.Fatal(err)
	}
	if batch.Partial {
		t.Fatal("uncancelled batch marked partial")
	}
	if len(batch.Outcomes) != 50 {
		t.Fatalf("outcomes = %d, want 50", len(batch.Outcomes))
	}
	if batch.ID == "" || batch.Seed != 7 {
		t.Errorf("batch metadata: id %q seed %d", batch.ID, batch.Seed)
	}
	for _, o := range batch.Outcomes {
		if o.Depth <= 0 {
			t.Fatalf("run produced non-positive depth %v", o.Depth)
		}
	}
}

func TestSampleRejectsBadRunCount(t *testing.T) {
	d := testDriver(t)
	if _, err := d.Sample(context.Background(), testBundle(), 0, sim.AbilityFlags{}, 0, 1); !errors.Is(err, ErrInvalidRunCount) {
		t.Fatalf("got %v, want ErrInvalidRunCount", err)
	}
}

func TestSampleReproducibleSingleWorker(t *testing.T) {
	d := testDriver(t)
	d.Workers = 1
	a, err := d.Sample(context.Background(), testBundle(), 0, sim.AbilityFlags{}, 40, 99)
	if err != nil {
		t.Fatal(err)
	}
	b, err := d.Sample(context.Background(), testBundle(), 0, sim.AbilityFlags{}, 40, 99)
	if err != nil {
		t.Fatal(err)
	}
	da, db := depths(a.Outcomes), depths(b.Outcomes)
	for i := range da {
		if da[i] != db[i] {
			t.Fatalf("same seed diverged at %d: %v vs %v", i, da[i], db[i])
		}
	}

	c, err := d.Sample(context.Background(), testBundle(), 0, sim.AbilityFlags{}, 40, 100)
	if err != nil {
		t.Fatal(err)
	}
	same := true
	for i, v := range depths(c.Outcomes) {
		if v != da[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced identical batches")
	}
}

func TestSampleCancelledReturnsPartial(t *testing.T) {
	d := testDriver(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	batch, err := d.Sample(ctx, testBundle(), 0, sim.AbilityFlags{}, 1000, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !batch.Partial {
		t.Fatal("cancelled batch not marked partial")
	}
	if len(batch.Outcomes) >= 1000 {
		t.Fatalf("cancelled batch completed all %d runs", len(batch.Outcomes))
	}
}

func TestSampleReportsProgress(t *testing.T) {
	d := testDriver(t)
	d.Workers = 3
	var calls, maxDone int64
	d.OnProgress = func(done, total int) {
		atomic.AddInt64(&calls, 1)
		for {
			cur := atomic.LoadInt64(&maxDone)
			if int64(done) <= cur || atomic.CompareAndSwapInt64(&maxDone, cur, int64(done)) {
				break
			}
		}
		if total != 30 {
			t.Errorf("total = %d, want 30", total)
		}
	}
	if _, err := d.Sample(context.Background(), testBundle(), 0, sim.AbilityFlags{}, 30, 5); err != nil {
		t.Fatal(err)
	}
	if calls != 30 {
		t.Errorf("progress calls = %d, want 30", calls)
	}
	if maxDone != 30 {
		t.Errorf("max reported done = %d, want 30", maxDone)
	}
}

func TestSamplePaired(t *testing.T) {
	d := testDriver(t)
	bundleA := testBundle()
	allocB := loadout.AllocationState{
		Skills:   loadout.SkillPoints{Power: 10, Precision: 35, Fortune: 10},
		Upgrades: loadout.UpgradeLevels{Pickaxe: 6, DrillBit: 4, Canteen: 3},
	}
	bundleB := loadout.Aggregate(allocB)

	a, b, err := d.SamplePaired(context.Background(), bundleA, bundleB, 0, sim.AbilityFlags{}, 60, 11)
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Outcomes) != 60 || len(b.Outcomes) != 60 {
		t.Fatalf("paired sizes %d/%d, want 60/60", len(a.Outcomes), len(b.Outcomes))
	}
	if a.ID == b.ID {
		t.Error("paired batches share an ID")
	}
	if a.Seed != b.Seed {
		t.Error("paired batches should record the same seed")
	}
}

// A +20% crit chance build must show up as a significant depth improvement
// over a thousand paired runs.
func TestCritBuildSignificantlyDeeper(t *testing.T) {
	d := testDriver(t)
	base := loadout.AllocationState{
		Skills:   loadout.SkillPoints{Power: 10},
		Upgrades: loadout.UpgradeLevels{Pickaxe: 6, DrillBit: 4},
	}
	crit := base
	crit.Skills.Precision = 20

	a, b, err := d.SamplePaired(context.Background(), loadout.Aggregate(base), loadout.Aggregate(crit), 0, sim.AbilityFlags{}, 1000, 21)
	if err != nil {
		t.Fatal(err)
	}
	report, err := stats.Compare(depths(a.Outcomes), depths(b.Outcomes))
	if err != nil {
		t.Fatal(err)
	}
	if report.MeanDiff <= 0 {
		t.Fatalf("crit build mean depth not higher: diff %v", report.MeanDiff)
	}
	if report.P >= 0.05 {
		t.Fatalf("p = %v, want < 0.05", report.P)
	}
}

// One extra point of flat damage must never reduce expected depth.
func TestFlatDamageMonotonic(t *testing.T) {
	d := testDriver(t)
	for _, power := range []int{0, 5, 17} {
		lo := loadout.Aggregate(loadout.AllocationState{Skills: loadout.SkillPoints{Power: power}})
		hi := loadout.Aggregate(loadout.AllocationState{Skills: loadout.SkillPoints{Power: power + 1}})

		a, b, err := d.SamplePaired(context.Background(), lo, hi, 0, sim.AbilityFlags{}, 600, uint64(31+power))
		if err != nil {
			t.Fatal(err)
		}
		ra, rb := stats.Describe(depths(a.Outcomes)), stats.Describe(depths(b.Outcomes))
		// Allow sampling noise, but no real regression.
		if rb.Mean < ra.Mean-0.05*ra.Mean {
			t.Errorf("power %d -> %d mean depth fell from %v to %v", power, power+1, ra.Mean, rb.Mean)
		}
	}
}
