package storage

import (
	"context"
	"sort"
	"sync"
)

type MemoryStore struct {
	mu          sync.RWMutex
	summaries   map[string]BatchSummary
	comparisons map[string]ComparisonRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.summaries = make(map[string]BatchSummary)
	s.comparisons = make(map[string]ComparisonRecord)
	return nil
}

func (s *MemoryStore) SaveBatchSummary(_ context.Context, summary BatchSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.summaries[summary.ID] = summary
	return nil
}

func (s *MemoryStore) GetBatchSummary(_ context.Context, id string) (BatchSummary, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary, ok := s.summaries[id]
	return summary, ok, nil
}

func (s *MemoryStore) SaveComparison(_ context.Context, record ComparisonRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.comparisons[record.ID] = record
	return nil
}

func (s *MemoryStore) GetComparison(_ context.Context, id string) (ComparisonRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.comparisons[id]
	return record, ok, nil
}

func (s *MemoryStore) ListComparisons(_ context.Context) ([]ComparisonRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ComparisonRecord, 0, len(s.comparisons))
	for _, r := range s.comparisons {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAtUTC < out[j].CreatedAtUTC })
	return out, nil
}
