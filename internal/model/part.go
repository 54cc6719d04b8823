package model

// Category is a part category node in the remote category tree.
type Category struct {
	// ID is the remote primary key of the category.
	ID int `json:"id"`

	// Name is the category display name.
	Name string `json:"name"`

	// Description is the optional category description.
	Description string `json:"description"`

	// PartCount is the number of parts filed under this category.
	PartCount int `json:"part_count"`

	// Icon is the optional icon identifier configured on the server.
	Icon string `json:"icon"`
}

// StorageLocation is a node in the remote storage location tree.
type StorageLocation struct {
	// ID is the remote primary key of the location.
	ID int `json:"id"`

	// Name is the location display name.
	Name string `json:"name"`

	// Description is the optional location description.
	Description string `json:"description"`

	// ItemCount is the number of stock items held at this location.
	ItemCount int `json:"items"`

	// SublocationCount is the number of child locations.
	SublocationCount int `json:"sublocations"`
}

// Part is a remote catalog entity describing a type of inventory item.
type Part struct {
	// ID is the remote primary key of the part.
	ID int `json:"id"`

	// Name is the part display name ("Unknown" when the server omits it).
	Name string `json:"name"`

	// Description is the part description text.
	Description string `json:"description"`

	// InStock is the total quantity currently in stock across locations.
	InStock float64 `json:"in_stock"`

	// ImageURL is the absolute URL of the part image, already joined
	// with the API base URL. Empty when the part has no image.
	ImageURL string `json:"image_url"`
}

// StockItem is a quantity of one part held at a specific location.
type StockItem struct {
	// ID is the remote primary key of the stock record.
	ID int `json:"id"`

	// PartID references the part this stock belongs to.
	PartID int `json:"part_id"`

	// Quantity is the amount currently available in this record.
	Quantity float64 `json:"quantity"`

	// Serial is the serial number, or "N/A" when not tracked.
	Serial string `json:"serial"`

	// Batch is the batch code, or "N/A" when not tracked.
	Batch string `json:"batch"`

	// LocationID references the storage location holding this stock.
	LocationID int `json:"location_id"`

	// LocationName is the location display name, or "Unknown Location"
	// when the server does not report one.
	LocationName string `json:"location_name"`
}

// Placeholder values applied when optional stock fields are absent.
const (
	UnknownSerial   = "N/A"
	UnknownBatch    = "N/A"
	UnknownLocation = "Unknown Location"
	UnknownPartName = "Unknown"
)

// MergedPart is one row of an aggregated list view: a list item joined
// against live remote part and stock data. It is rebuilt on every
// aggregation pass and never persisted.
type MergedPart struct {
	// Part holds the resolved part fields, or a placeholder when
	// PartMissing is true.
	Part Part

	// StockItemID is the stock record this row refers to.
	StockItemID int

	// StockName is the resolved stock location display name, or
	// UnknownLocation when StockMissing is true.
	StockName string

	// AvailableStock is the resolved available quantity, or 0 when
	// StockMissing is true.
	AvailableStock float64

	// PartMissing is true exactly when the part lookup for this row
	// failed or the ID was absent from the response.
	PartMissing bool

	// StockMissing is the same flag for the stock lookup side.
	StockMissing bool
}

// Incomplete reports whether either side of the merge failed to resolve.
func (m MergedPart) Incomplete() bool {
	return m.PartMissing || m.StockMissing
}
