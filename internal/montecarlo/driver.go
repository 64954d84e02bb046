package montecarlo

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/minebound/digsim/internal/loadout"
	"github.com/minebound/digsim/internal/logger"
	"github.com/minebound/digsim/internal/sim"
)

var ErrInvalidRunCount = errors.New("run count must be > 0")

// Stream namespaces keep paired arms on disjoint PCG streams.
const pairedArmOffset uint64 = 1 << 32

// Driver fans simulation batches out across workers. Runs share no mutable
// state; each worker owns a private random stream derived from the batch
// seed, advanced (never reset) between runs.
type Driver struct {
	Sim     *sim.Simulator
	Workers int
	// OnProgress, if set, is called from worker goroutines after every
	// completed run. It must be fast and safe for concurrent use.
	OnProgress func(done, total int)
}

// New returns a Driver sized to the machine.
func New(s *sim.Simulator) *Driver {
	return &Driver{Sim: s, Workers: runtime.NumCPU()}
}

// Batch is one empirical outcome distribution. Outcomes carry no ordering
// guarantee; only the aggregate is meaningful.
type Batch struct {
	ID       string
	Seed     uint64
	Outcomes []sim.RunOutcome
	// Partial marks a batch cut short by cancellation. Comparators refuse
	// to claim significance on samples that are too small.
	Partial bool
	Elapsed time.Duration
}

// Sample runs n independent simulations of one bundle. Cancellation is
// cooperative between runs: the returned batch holds whatever completed and
// is tagged partial.
func (d *Driver) Sample(ctx context.Context, b loadout.StatBundle, startDepth float64, flags sim.AbilityFlags, n int, seed uint64) (Batch, error) {
	return d.sample(ctx, b, startDepth, flags, n, seed, 0)
}

// SamplePaired runs two bundles under identical starting conditions with the
// same n, on disjoint random streams, for apples-to-apples comparison.
func (d *Driver) SamplePaired(ctx context.Context, a, b loadout.StatBundle, startDepth float64, flags sim.AbilityFlags, n int, seed uint64) (Batch, Batch, error) {
	batchA, err := d.sample(ctx, a, startDepth, flags, n, seed, 0)
	if err != nil {
		return Batch{}, Batch{}, err
	}
	batchB, err := d.sample(ctx, b, startDepth, flags, n, seed, pairedArmOffset)
	if err != nil {
		return Batch{}, Batch{}, err
	}
	return batchA, batchB, nil
}

func (d *Driver) sample(ctx context.Context, b loadout.StatBundle, startDepth float64, flags sim.AbilityFlags, n int, seed, streamOffset uint64) (Batch, error) {
	if n <= 0 {
		return Batch{}, ErrInvalidRunCount
	}
	workers := d.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}

	start := time.Now()
	var (
		next int64 = -1
		done int64
		wg   sync.WaitGroup
	)
	results := make([][]sim.RunOutcome, workers)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			rng := sim.NewStream(seed, streamOffset+uint64(w)+1)
			var local []sim.RunOutcome
			for {
				if ctx.Err() != nil {
					break
				}
				i := atomic.AddInt64(&next, 1)
				if i >= int64(n) {
					break
				}
				local = append(local, d.Sim.Run(b, startDepth, flags, rng))
				completed := int(atomic.AddInt64(&done, 1))
				if d.OnProgress != nil {
					d.OnProgress(completed, n)
				}
			}
			results[w] = local
		}(w)
	}
	wg.Wait()

	// Order-independent reduction: concatenation only.
	batch := Batch{
		ID:      uuid.NewString(),
		Seed:    seed,
		Partial: ctx.Err() != nil,
		Elapsed: time.Since(start),
	}
	for _, local := range results {
		batch.Outcomes = append(batch.Outcomes, local...)
	}
	if batch.Partial {
		logger.Warn("batch cancelled", "batch_id", batch.ID, "completed", len(batch.Outcomes), "requested", n)
	} else {
		logger.Debug("batch complete", "batch_id", batch.ID, "runs", n, "elapsed", batch.Elapsed)
	}
	return batch, nil
}
