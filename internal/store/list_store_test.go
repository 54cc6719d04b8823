package store_test

import (
	"context"
	"errors"
	"testing"

	"stocktree/internal/model"
	"stocktree/internal/store"
	"stocktree/tests/testutil"
)

func TestCreateListValidation(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateList(ctx, "   "); !errors.Is(err, store.ErrEmptyName) {
		t.Errorf("blank name: got %v, want ErrEmptyName", err)
	}

	if _, err := s.CreateList(ctx, "Workbench"); err != nil {
		t.Fatalf("creating list: %v", err)
	}

	// Duplicate detection is case-insensitive.
	if _, err := s.CreateList(ctx, "workBENCH"); !errors.Is(err, store.ErrDuplicateName) {
		t.Errorf("duplicate name: got %v, want ErrDuplicateName", err)
	}

	// The stored name is the trimmed form.
	l, err := s.CreateList(ctx, "  Spares  ")
	if err != nil {
		t.Fatalf("creating list: %v", err)
	}
	if l.Name != "Spares" {
		t.Errorf("stored name = %q, want %q", l.Name, "Spares")
	}
	if l.ID == "" {
		t.Error("created list has empty ID")
	}
}

func TestListRoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	created, err := s.CreateList(ctx, "Repairs")
	if err != nil {
		t.Fatalf("creating list: %v", err)
	}

	items := []model.ListItem{
		{PartID: 10, StockItemID: 100},
		{PartID: 11, StockItemID: 101},
		{PartID: 10, StockItemID: 102},
	}
	for _, it := range items {
		if _, err := s.AddListItem(ctx, created.ID, it); err != nil {
			t.Fatalf("adding item %+v: %v", it, err)
		}
	}

	got, err := s.ListByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("reading list back: %v", err)
	}
	if got.Name != "Repairs" {
		t.Errorf("name = %q, want %q", got.Name, "Repairs")
	}
	if len(got.Items) != len(items) {
		t.Fatalf("got %d items, want %d", len(got.Items), len(items))
	}
	for i, it := range items {
		if got.Items[i] != it {
			t.Errorf("item %d = %+v, want %+v", i, got.Items[i], it)
		}
	}
}

func TestAddListItemDuplicate(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	l, err := s.CreateList(ctx, "Bench")
	if err != nil {
		t.Fatalf("creating list: %v", err)
	}

	item := model.ListItem{PartID: 7, StockItemID: 70}
	if _, err := s.AddListItem(ctx, l.ID, item); err != nil {
		t.Fatalf("adding item: %v", err)
	}
	if _, err := s.AddListItem(ctx, l.ID, item); !errors.Is(err, store.ErrDuplicateItem) {
		t.Errorf("duplicate item: got %v, want ErrDuplicateItem", err)
	}

	// Same part with a different stock record is a distinct entry.
	if _, err := s.AddListItem(ctx, l.ID, model.ListItem{PartID: 7, StockItemID: 71}); err != nil {
		t.Errorf("same part, different stock: %v", err)
	}
}

func TestRemoveItemsPreservesOrder(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	l, err := s.CreateList(ctx, "Picking")
	if err != nil {
		t.Fatalf("creating list: %v", err)
	}

	all := []model.ListItem{
		{PartID: 1, StockItemID: 10},
		{PartID: 2, StockItemID: 20},
		{PartID: 3, StockItemID: 30},
		{PartID: 4, StockItemID: 40},
	}
	for _, it := range all {
		if _, err := s.AddListItem(ctx, l.ID, it); err != nil {
			t.Fatalf("adding item: %v", err)
		}
	}

	updated, err := s.RemoveItems(ctx, l.ID, []model.ListItem{all[0], all[2]})
	if err != nil {
		t.Fatalf("removing items: %v", err)
	}

	want := []model.ListItem{all[1], all[3]}
	if len(updated.Items) != len(want) {
		t.Fatalf("got %d items, want %d", len(updated.Items), len(want))
	}
	for i := range want {
		if updated.Items[i] != want[i] {
			t.Errorf("item %d = %+v, want %+v", i, updated.Items[i], want[i])
		}
	}

	// Removing an item that is not on the list is a no-op.
	updated, err = s.RemoveItems(ctx, l.ID, []model.ListItem{{PartID: 99, StockItemID: 990}})
	if err != nil {
		t.Fatalf("removing absent item: %v", err)
	}
	if len(updated.Items) != 2 {
		t.Errorf("got %d items after no-op removal, want 2", len(updated.Items))
	}
}

func TestRenameList(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	a, err := s.CreateList(ctx, "Alpha")
	if err != nil {
		t.Fatalf("creating list: %v", err)
	}
	if _, err := s.CreateList(ctx, "Beta"); err != nil {
		t.Fatalf("creating list: %v", err)
	}

	// Renaming to a name held by another list fails.
	if _, err := s.RenameList(ctx, a.ID, "beta"); !errors.Is(err, store.ErrDuplicateName) {
		t.Errorf("rename collision: got %v, want ErrDuplicateName", err)
	}

	// Renaming a list to its own name is allowed.
	if _, err := s.RenameList(ctx, a.ID, "ALPHA"); err != nil {
		t.Errorf("rename to own name: %v", err)
	}

	if _, err := s.RenameList(ctx, "no-such-id", "Gamma"); !errors.Is(err, store.ErrListNotFound) {
		t.Errorf("rename missing list: got %v, want ErrListNotFound", err)
	}
}

func TestDeleteList(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	l, err := s.CreateList(ctx, "Doomed")
	if err != nil {
		t.Fatalf("creating list: %v", err)
	}

	if err := s.DeleteList(ctx, l.ID); err != nil {
		t.Fatalf("deleting list: %v", err)
	}
	if _, err := s.ListByID(ctx, l.ID); !errors.Is(err, store.ErrListNotFound) {
		t.Errorf("reading deleted list: got %v, want ErrListNotFound", err)
	}
	if err := s.DeleteList(ctx, l.ID); !errors.Is(err, store.ErrListNotFound) {
		t.Errorf("deleting twice: got %v, want ErrListNotFound", err)
	}
}

func TestCorruptListsTreatedAsEmpty(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	if err := s.SetSetting(ctx, "MY_LISTS", "{not json"); err != nil {
		t.Fatalf("writing corrupt value: %v", err)
	}

	lists, err := s.Lists(ctx)
	if err != nil {
		t.Fatalf("reading lists: %v", err)
	}
	if len(lists) != 0 {
		t.Errorf("got %d lists from corrupt data, want 0", len(lists))
	}

	// The store recovers: new writes replace the corrupt value.
	if _, err := s.CreateList(ctx, "Fresh"); err != nil {
		t.Fatalf("creating list over corrupt data: %v", err)
	}
	lists, err = s.Lists(ctx)
	if err != nil {
		t.Fatalf("reading lists: %v", err)
	}
	if len(lists) != 1 {
		t.Errorf("got %d lists, want 1", len(lists))
	}
}
