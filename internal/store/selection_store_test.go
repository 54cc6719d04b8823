package store_test

import (
	"context"
	"testing"

	"stocktree/internal/model"
	"stocktree/tests/testutil"
)

func TestSelectedPartsRoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	entries := []model.SelectedPart{
		{PartID: 1, StockItemID: 10, Timestamp: 1000},
		{PartID: 2, Timestamp: 2000},
	}
	for _, e := range entries {
		if err := s.AddSelectedPart(ctx, e); err != nil {
			t.Fatalf("adding %+v: %v", e, err)
		}
	}

	got, err := s.SelectedParts(ctx)
	if err != nil {
		t.Fatalf("reading selection: %v", err)
	}
	if len(got) != len(entries) {
		t.Fatalf("got %d entries, want %d", len(got), len(entries))
	}
	for i := range entries {
		if got[i] != entries[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], entries[i])
		}
	}
}

func TestAddSelectedPartDedupes(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	first := model.SelectedPart{PartID: 5, StockItemID: 50, Timestamp: 1000}
	if err := s.AddSelectedPart(ctx, first); err != nil {
		t.Fatalf("adding entry: %v", err)
	}

	// Re-picking the same part/stock pair keeps the original entry.
	dup := model.SelectedPart{PartID: 5, StockItemID: 50, Timestamp: 9999}
	if err := s.AddSelectedPart(ctx, dup); err != nil {
		t.Fatalf("re-adding entry: %v", err)
	}

	got, err := s.SelectedParts(ctx)
	if err != nil {
		t.Fatalf("reading selection: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d entries, want 1", len(got))
	}
	if got[0].Timestamp != 1000 {
		t.Errorf("timestamp = %d, want the original 1000", got[0].Timestamp)
	}

	// The same part at a different stock record is a new entry.
	if err := s.AddSelectedPart(ctx, model.SelectedPart{PartID: 5, StockItemID: 51}); err != nil {
		t.Fatalf("adding entry: %v", err)
	}
	got, _ = s.SelectedParts(ctx)
	if len(got) != 2 {
		t.Errorf("got %d entries, want 2", len(got))
	}
}

func TestRemoveAndClearSelection(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	for _, e := range []model.SelectedPart{
		{PartID: 1, StockItemID: 10},
		{PartID: 1, StockItemID: 11},
		{PartID: 2, StockItemID: 20},
	} {
		if err := s.AddSelectedPart(ctx, e); err != nil {
			t.Fatalf("adding entry: %v", err)
		}
	}

	// Removal by part drops every entry for that part.
	if err := s.RemoveSelectedPart(ctx, 1); err != nil {
		t.Fatalf("removing part: %v", err)
	}
	got, err := s.SelectedParts(ctx)
	if err != nil {
		t.Fatalf("reading selection: %v", err)
	}
	if len(got) != 1 || got[0].PartID != 2 {
		t.Errorf("after removal got %+v, want only part 2", got)
	}

	if err := s.ClearSelectedParts(ctx); err != nil {
		t.Fatalf("clearing selection: %v", err)
	}
	got, _ = s.SelectedParts(ctx)
	if len(got) != 0 {
		t.Errorf("got %d entries after clear, want 0", len(got))
	}
}

func TestCorruptSelectionTreatedAsEmpty(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	if err := s.SetSetting(ctx, "selected_parts", "[{broken"); err != nil {
		t.Fatalf("writing corrupt value: %v", err)
	}

	got, err := s.SelectedParts(ctx)
	if err != nil {
		t.Fatalf("reading selection: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d entries from corrupt data, want 0", len(got))
	}
}
