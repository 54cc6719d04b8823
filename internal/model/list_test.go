package model

import (
	"encoding/json"
	"testing"
)

func TestListContains(t *testing.T) {
	l := List{Items: []ListItem{
		{PartID: 1, StockItemID: 10},
		{PartID: 1, StockItemID: 11},
	}}

	if !l.Contains(ListItem{PartID: 1, StockItemID: 10}) {
		t.Error("existing pair not found")
	}
	if l.Contains(ListItem{PartID: 1, StockItemID: 12}) {
		t.Error("absent pair reported present")
	}
	if l.Contains(ListItem{PartID: 2, StockItemID: 10}) {
		t.Error("pair matching only the stock side reported present")
	}
}

// The stock reference keeps its historical JSON key so data written by
// earlier versions still loads.
func TestListItemJSONKey(t *testing.T) {
	data, err := json.Marshal(ListItem{PartID: 3, StockItemID: 30})
	if err != nil {
		t.Fatalf("marshaling: %v", err)
	}
	want := `{"partId":3,"stockLocationId":30}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}

	var item ListItem
	if err := json.Unmarshal([]byte(`{"partId":4,"stockLocationId":40}`), &item); err != nil {
		t.Fatalf("unmarshaling: %v", err)
	}
	if item.PartID != 4 || item.StockItemID != 40 {
		t.Errorf("got %+v", item)
	}
}

func TestMergedPartIncomplete(t *testing.T) {
	if (MergedPart{}).Incomplete() {
		t.Error("zero value reported incomplete")
	}
	if !(MergedPart{PartMissing: true}).Incomplete() {
		t.Error("missing part not reported")
	}
	if !(MergedPart{StockMissing: true}).Incomplete() {
		t.Error("missing stock not reported")
	}
}
