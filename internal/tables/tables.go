package tables

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/minebound/digsim/internal/logger"
)

const probabilityTolerance = 1e-9

var ErrNoBands = errors.New("progression tables define no bands")

// Tables is the read-only progression data a simulation consumes: per-band
// archetype stats and spawn vectors, keyed by depth.
type Tables struct {
	bands []Band

	mu     sync.Mutex
	warned map[string]bool
}

// New validates and normalizes raw bands into Tables.
func New(bands []Band) (*Tables, error) {
	if len(bands) == 0 {
		return nil, ErrNoBands
	}
	sorted := append([]Band(nil), bands...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinDepth < sorted[j].MinDepth })

	var errs []string
	if len(sorted[0].Spawn) == 0 {
		errs = append(errs, fmt.Sprintf("first band (depth %d) must define a spawn vector", sorted[0].MinDepth))
	}
	for i := range sorted {
		if i > 0 && sorted[i].MinDepth == sorted[i-1].MinDepth {
			errs = append(errs, fmt.Sprintf("duplicate band at depth %d", sorted[i].MinDepth))
		}
		if err := validateBand(&sorted[i]); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validateUnlocks(sorted); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("progression table validation failed: %s", strings.Join(errs, "; "))
	}
	return &Tables{bands: sorted, warned: make(map[string]bool)}, nil
}

func validateBand(b *Band) error {
	if len(b.Spawn) == 0 {
		// Sparse band; spawn vector resolved from the nearest lower band.
		return nil
	}
	sum := 0.0
	for _, e := range b.Spawn {
		if e.Probability < 0 {
			return fmt.Errorf("band %d: negative spawn probability for %s", b.MinDepth, e.Archetype)
		}
		if _, ok := b.Blocks[e.Archetype]; !ok {
			return fmt.Errorf("band %d: spawn entry %s has no block stats", b.MinDepth, e.Archetype)
		}
		sum += e.Probability
	}
	if math.Abs(sum-1) > probabilityTolerance {
		return fmt.Errorf("band %d: spawn probabilities sum to %v, want 1", b.MinDepth, sum)
	}
	return nil
}

// validateUnlocks enforces monotonic unlocks: an archetype spawning in one
// band may only vanish in a later band that introduces a new archetype
// (tier replacement).
func validateUnlocks(bands []Band) error {
	prev := map[ArchetypeID]bool{}
	for i, b := range bands {
		if len(b.Spawn) == 0 {
			continue
		}
		cur := map[ArchetypeID]bool{}
		for _, e := range b.Spawn {
			if e.Probability > 0 {
				cur[e.Archetype] = true
			}
		}
		if i > 0 {
			introduced := false
			for id := range cur {
				if !prev[id] {
					introduced = true
				}
			}
			for id := range prev {
				if !cur[id] && !introduced {
					return fmt.Errorf("band %d: archetype %s disappears without tier replacement", b.MinDepth, id)
				}
			}
		}
		prev = cur
	}
	return nil
}

// Band returns the band covering depth, falling back to the nearest lower
// defined band. A depth below the first band resolves to the first band and
// logs a data-completeness warning once.
func (t *Tables) Band(depth float64) *Band {
	idx := sort.Search(len(t.bands), func(i int) bool {
		return float64(t.bands[i].MinDepth) > depth
	}) - 1
	if idx < 0 {
		t.warnOnce(fmt.Sprintf("below:%d", t.bands[0].MinDepth),
			"depth below first defined band, using nearest band", "depth", depth, "band", t.bands[0].MinDepth)
		idx = 0
	}
	return &t.bands[idx]
}

// NextBandStart reports the starting depth of the band after the one
// covering depth, if any.
func (t *Tables) NextBandStart(depth float64) (int, bool) {
	idx := sort.Search(len(t.bands), func(i int) bool {
		return float64(t.bands[i].MinDepth) > depth
	})
	if idx >= len(t.bands) {
		return 0, false
	}
	return t.bands[idx].MinDepth, true
}

// Spawn returns the normalized spawn vector at depth. Bands without their
// own vector resolve to the nearest lower band that defines one.
func (t *Tables) Spawn(depth float64) []SpawnEntry {
	b := t.Band(depth)
	if len(b.Spawn) > 0 {
		return b.Spawn
	}
	for i := len(t.bands) - 1; i >= 0; i-- {
		if t.bands[i].MinDepth <= b.MinDepth && len(t.bands[i].Spawn) > 0 {
			t.warnOnce(fmt.Sprintf("sparse:%d", b.MinDepth),
				"band has no spawn vector, using nearest lower band", "band", b.MinDepth, "fallback", t.bands[i].MinDepth)
			return t.bands[i].Spawn
		}
	}
	return nil
}

// Archetype returns the stats of an archetype at depth, searching lower
// bands when the covering band does not define it.
func (t *Tables) Archetype(id ArchetypeID, depth float64) (BlockStats, bool) {
	b := t.Band(depth)
	if s, ok := b.Blocks[id]; ok {
		return s, true
	}
	for i := len(t.bands) - 1; i >= 0; i-- {
		if t.bands[i].MinDepth < b.MinDepth {
			if s, ok := t.bands[i].Blocks[id]; ok {
				return s, true
			}
		}
	}
	return BlockStats{}, false
}

func (t *Tables) warnOnce(key, msg string, args ...any) {
	t.mu.Lock()
	seen := t.warned[key]
	if !seen {
		t.warned[key] = true
	}
	t.mu.Unlock()
	if !seen {
		logger.Warn(msg, args...)
	}
}

// normalizeSpawn converts weights into a probability vector in ArchetypeOrder.
func normalizeSpawn(weights map[ArchetypeID]float64) ([]SpawnEntry, error) {
	if len(weights) == 0 {
		return nil, nil
	}
	total := 0.0
	for id, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("negative spawn weight for %s", id)
		}
		total += w
	}
	if total <= 0 {
		return nil, errors.New("spawn weights sum to zero")
	}
	out := make([]SpawnEntry, 0, len(weights))
	for _, id := range ArchetypeOrder {
		w, ok := weights[id]
		if !ok || w == 0 {
			continue
		}
		out = append(out, SpawnEntry{Archetype: id, Probability: w / total})
	}
	return out, nil
}
