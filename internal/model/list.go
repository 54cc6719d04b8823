package model

// ListItem associates a part with a specific stock record inside a list.
//
// The stored JSON key for the stock reference is "stockLocationId" for
// compatibility with previously saved data, but the value has always been
// a stock record primary key, not a location ID. The Go field name
// reflects the actual semantic.
type ListItem struct {
	// PartID references a remote part. The reference is not validated
	// against the server; it is re-resolved on every read.
	PartID int `json:"partId"`

	// StockItemID references a remote stock record.
	StockItemID int `json:"stockLocationId"`
}

// List is a user-defined, locally persisted named collection of
// part/stock associations.
type List struct {
	// ID is an opaque unique identifier assigned at creation.
	ID string `json:"id"`

	// Name is the user-chosen list name, unique case-insensitively
	// among the user's lists.
	Name string `json:"name"`

	// Items is the ordered collection of associations. The
	// (PartID, StockItemID) pair is unique within one list.
	Items []ListItem `json:"items"`
}

// Contains reports whether the list already holds the given association.
func (l List) Contains(item ListItem) bool {
	for _, it := range l.Items {
		if it == item {
			return true
		}
	}
	return false
}

// SelectedPart is one entry of the flat personal parts selection, a
// simpler companion to named lists. StockItemID may be zero when the
// selection was made from a context without a specific stock record.
type SelectedPart struct {
	PartID int `json:"partId"`

	StockItemID int `json:"stockLocationId,omitempty"`

	// Timestamp is the selection time in Unix milliseconds.
	Timestamp int64 `json:"timestamp"`
}
