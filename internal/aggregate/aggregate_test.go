package aggregate_test

import (
	"context"
	"testing"

	"stocktree/internal/aggregate"
	"stocktree/internal/model"
)

type fakeParts map[int]model.Part

func (f fakeParts) FetchParts(_ context.Context, ids []int) map[int]model.Part {
	out := make(map[int]model.Part)
	for _, id := range ids {
		if p, ok := f[id]; ok {
			out[id] = p
		}
	}
	return out
}

type fakeStock map[int]model.StockItem

func (f fakeStock) FetchStockItems(_ context.Context, ids []int) map[int]model.StockItem {
	out := make(map[int]model.StockItem)
	for _, id := range ids {
		if s, ok := f[id]; ok {
			out[id] = s
		}
	}
	return out
}

func TestResolveFullMerge(t *testing.T) {
	parts := fakeParts{
		1: {ID: 1, Name: "Resistor 10k", InStock: 500},
		2: {ID: 2, Name: "Capacitor 100n", InStock: 80},
	}
	stock := fakeStock{
		10: {ID: 10, PartID: 1, Quantity: 120, LocationName: "Drawer A"},
		20: {ID: 20, PartID: 2, Quantity: 80, LocationName: "Drawer B"},
	}
	list := model.List{
		Name: "Build",
		Items: []model.ListItem{
			{PartID: 1, StockItemID: 10},
			{PartID: 2, StockItemID: 20},
		},
	}

	rows := aggregate.Resolve(context.Background(), list, parts, stock)

	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Part.Name != "Resistor 10k" || rows[0].StockName != "Drawer A" {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[0].AvailableStock != 120 {
		t.Errorf("row 0 available = %g, want 120", rows[0].AvailableStock)
	}
	if rows[0].Incomplete() || rows[1].Incomplete() {
		t.Error("fully resolved rows flagged incomplete")
	}
}

func TestResolveKeepsCardinalityAndOrder(t *testing.T) {
	// Only part 2 and stock 10 resolve; every input item must still
	// produce exactly one output row, in input order.
	parts := fakeParts{2: {ID: 2, Name: "Screw M3"}}
	stock := fakeStock{10: {ID: 10, PartID: 1, Quantity: 5, LocationName: "Bin 4"}}
	list := model.List{
		Items: []model.ListItem{
			{PartID: 1, StockItemID: 10},
			{PartID: 2, StockItemID: 20},
			{PartID: 3, StockItemID: 30},
		},
	}

	rows := aggregate.Resolve(context.Background(), list, parts, stock)

	if len(rows) != len(list.Items) {
		t.Fatalf("got %d rows, want %d", len(rows), len(list.Items))
	}
	for i, item := range list.Items {
		if rows[i].Part.ID != item.PartID {
			t.Errorf("row %d part ID = %d, want %d", i, rows[i].Part.ID, item.PartID)
		}
		if rows[i].StockItemID != item.StockItemID {
			t.Errorf("row %d stock ID = %d, want %d", i, rows[i].StockItemID, item.StockItemID)
		}
	}

	// Row 0: part missing, stock resolved.
	if !rows[0].PartMissing || rows[0].StockMissing {
		t.Errorf("row 0 flags = %+v", rows[0])
	}
	if rows[0].Part.Name != model.UnknownPartName {
		t.Errorf("row 0 part name = %q, want %q", rows[0].Part.Name, model.UnknownPartName)
	}
	if rows[0].StockName != "Bin 4" || rows[0].AvailableStock != 5 {
		t.Errorf("row 0 stock side = %+v", rows[0])
	}

	// Row 1: part resolved, stock missing.
	if rows[1].PartMissing || !rows[1].StockMissing {
		t.Errorf("row 1 flags = %+v", rows[1])
	}
	if rows[1].StockName != model.UnknownLocation {
		t.Errorf("row 1 stock name = %q, want %q", rows[1].StockName, model.UnknownLocation)
	}
	if rows[1].AvailableStock != 0 {
		t.Errorf("row 1 available = %g, want 0", rows[1].AvailableStock)
	}

	// Row 2: both sides missing.
	if !rows[2].Incomplete() || !rows[2].PartMissing || !rows[2].StockMissing {
		t.Errorf("row 2 flags = %+v", rows[2])
	}
}

func TestResolveEmptyList(t *testing.T) {
	rows := aggregate.Resolve(context.Background(), model.List{}, fakeParts{}, fakeStock{})
	if rows == nil {
		t.Fatal("got nil, want empty slice")
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows, want 0", len(rows))
	}
}

func TestResolveDuplicateIDs(t *testing.T) {
	// Two items referencing the same part resolve independently.
	parts := fakeParts{1: {ID: 1, Name: "Washer"}}
	stock := fakeStock{
		10: {ID: 10, PartID: 1, Quantity: 3, LocationName: "Shelf 1"},
		11: {ID: 11, PartID: 1, Quantity: 7, LocationName: "Shelf 2"},
	}
	list := model.List{
		Items: []model.ListItem{
			{PartID: 1, StockItemID: 10},
			{PartID: 1, StockItemID: 11},
		},
	}

	rows := aggregate.Resolve(context.Background(), list, parts, stock)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].AvailableStock != 3 || rows[1].AvailableStock != 7 {
		t.Errorf("quantities = %g, %g, want 3, 7", rows[0].AvailableStock, rows[1].AvailableStock)
	}
}
