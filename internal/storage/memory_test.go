package storage

import (
	"context"
	"reflect"
	"testing"

	"github.com/minebound/digsim/internal/stats"
)

func testComparison(id, created string) ComparisonRecord {
	return ComparisonRecord{
		ID:     id,
		LabelA: "base",
		LabelB: "crit",
		Metric: "depth reached",
		Report: stats.Report{
			A:            stats.Summary{N: 100, Mean: 12.4},
			B:            stats.Summary{N: 100, Mean: 14.1},
			MeanDiff:     1.7,
			P:            0.003,
			Significance: stats.VerySignificant,
		},
		CreatedAtUTC: created,
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.Init(ctx); err != nil {
		t.Fatal(err)
	}

	summary := BatchSummary{
		ID:      "b-1",
		Label:   "baseline",
		Seed:    42,
		Runs:    2000,
		Metric:  "depth reached",
		Summary: stats.Summary{N: 2000, Mean: 12.4, StdDev: 1.1},
	}
	if err := s.SaveBatchSummary(ctx, summary); err != nil {
		t.Fatal(err)
	}
	got, ok, err := s.GetBatchSummary(ctx, "b-1")
	if err != nil || !ok {
		t.Fatalf("get: %v %v", ok, err)
	}
	if !reflect.DeepEqual(got, summary) {
		t.Fatalf("summary round trip:\n%+v\n%+v", got, summary)
	}
	if _, ok, err := s.GetBatchSummary(ctx, "absent"); err != nil || ok {
		t.Fatalf("absent id: %v %v", ok, err)
	}

	record := testComparison("c-1", "2026-08-31T10:00:00Z")
	if err := s.SaveComparison(ctx, record); err != nil {
		t.Fatal(err)
	}
	gotRec, ok, err := s.GetComparison(ctx, "c-1")
	if err != nil || !ok {
		t.Fatalf("get comparison: %v %v", ok, err)
	}
	if !reflect.DeepEqual(gotRec, record) {
		t.Fatal("comparison round trip mismatch")
	}
}

func TestMemoryStoreListSorted(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.Init(ctx); err != nil {
		t.Fatal(err)
	}
	for _, r := range []ComparisonRecord{
		testComparison("c-2", "2026-08-31T12:00:00Z"),
		testComparison("c-1", "2026-08-31T10:00:00Z"),
		testComparison("c-3", "2026-08-31T14:00:00Z"),
	} {
		if err := s.SaveComparison(ctx, r); err != nil {
			t.Fatal(err)
		}
	}
	list, err := s.ListComparisons(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"c-1", "c-2", "c-3"}
	if len(list) != len(want) {
		t.Fatalf("list length = %d", len(list))
	}
	for i, w := range want {
		if list[i].ID != w {
			t.Errorf("list[%d] = %s, want %s", i, list[i].ID, w)
		}
	}
}

func TestSaveOverwritesByID(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.Init(ctx); err != nil {
		t.Fatal(err)
	}
	a := testComparison("c-1", "2026-08-31T10:00:00Z")
	b := a
	b.LabelB = "tempo"
	if err := s.SaveComparison(ctx, a); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveComparison(ctx, b); err != nil {
		t.Fatal(err)
	}
	got, _, err := s.GetComparison(ctx, "c-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.LabelB != "tempo" {
		t.Fatalf("overwrite lost: %+v", got)
	}
}

func TestCodecRoundTrip(t *testing.T) {
	record := testComparison("c-9", "2026-08-31T09:00:00Z")
	payload, err := encodeComparison(record)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := decodeComparison(payload)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(decoded, record) {
		t.Fatal("comparison codec mismatch")
	}
}

func TestFactory(t *testing.T) {
	s, err := NewStore("memory", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Fatalf("kind memory gave %T", s)
	}
	if err := CloseIfSupported(s); err != nil {
		t.Errorf("close memory store: %v", err)
	}
	if _, err := NewStore("bogus", ""); err == nil {
		t.Fatal("unknown backend accepted")
	}
}
