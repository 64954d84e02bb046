package storage

import (
	"context"

	"github.com/minebound/digsim/internal/stats"
)

// BatchSummary is what survives of a simulation batch: enough to compare
// against later, never the raw outcomes.
type BatchSummary struct {
	ID           string        `json:"id"`
	Label        string        `json:"label"`
	Seed         uint64        `json:"seed"`
	Runs         int           `json:"runs"`
	Partial      bool          `json:"partial"`
	Metric       string        `json:"metric"`
	Summary      stats.Summary `json:"summary"`
	CreatedAtUTC string        `json:"created_at_utc"`
}

// ComparisonRecord is a stored comparison between two builds.
type ComparisonRecord struct {
	ID           string       `json:"id"`
	LabelA       string       `json:"label_a"`
	LabelB       string       `json:"label_b"`
	Metric       string       `json:"metric"`
	Report       stats.Report `json:"report"`
	CreatedAtUTC string       `json:"created_at_utc"`
}

// Store persists batch summaries and comparison reports.
type Store interface {
	Init(ctx context.Context) error
	SaveBatchSummary(ctx context.Context, summary BatchSummary) error
	GetBatchSummary(ctx context.Context, id string) (BatchSummary, bool, error)
	SaveComparison(ctx context.Context, record ComparisonRecord) error
	GetComparison(ctx context.Context, id string) (ComparisonRecord, bool, error)
	ListComparisons(ctx context.Context) ([]ComparisonRecord, error)
}
