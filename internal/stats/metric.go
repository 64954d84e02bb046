package stats

import (
	"fmt"

	"github.com/minebound/digsim/internal/sim"
	"github.com/minebound/digsim/internal/tables"
)

// MetricKind selects what scalar a run outcome is reduced to.
type MetricKind int

const (
	MetricDepth MetricKind = iota
	MetricXPPerHour
	MetricFragmentsPerHour
)

// Metric extracts a float series from run outcomes for comparison and
// optimization objectives.
type Metric struct {
	Kind     MetricKind
	Fragment tables.ArchetypeID // only for MetricFragmentsPerHour
}

func (m Metric) String() string {
	switch m.Kind {
	case MetricDepth:
		return "depth reached"
	case MetricXPPerHour:
		return "experience per hour"
	case MetricFragmentsPerHour:
		return fmt.Sprintf("%s fragments per hour", m.Fragment)
	default:
		return "unknown metric"
	}
}

// Value reduces one outcome.
func (m Metric) Value(o sim.RunOutcome) float64 {
	switch m.Kind {
	case MetricDepth:
		return o.Depth
	case MetricXPPerHour:
		return o.PerHour(o.Experience)
	case MetricFragmentsPerHour:
		return o.PerHour(o.Fragments[m.Fragment])
	default:
		return 0
	}
}

// Series reduces a batch of outcomes.
func (m Metric) Series(outcomes []sim.RunOutcome) []float64 {
	out := make([]float64, len(outcomes))
	for i, o := range outcomes {
		out[i] = m.Value(o)
	}
	return out
}
