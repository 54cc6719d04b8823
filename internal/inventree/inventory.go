package inventree

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"sync"

	"stocktree/internal/model"
)

// PartQuery selects and pages a part listing. Zero values mean "not set".
type PartQuery struct {
	// Category filters parts to one category when > 0.
	Category int

	// Search is a free-text search term.
	Search string

	Limit  int
	Offset int
}

// PartPage is one page of parts plus a continuation flag derived from
// the server's next-page link.
type PartPage struct {
	Parts   []model.Part
	HasMore bool
}

// StockQuery selects and pages a stock listing. Zero values mean "not set".
type StockQuery struct {
	// Part filters stock records to one part when > 0.
	Part int

	// Location filters stock records to one location when > 0.
	Location int

	Limit  int
	Offset int
}

// StockPage is one page of stock records plus a continuation flag.
type StockPage struct {
	Items   []model.StockItem
	HasMore bool
}

// Categories lists the top-level part categories, ordered by name.
func (c *Client) Categories(ctx context.Context) ([]model.Category, error) {
	return c.categories(ctx, nil)
}

// Subcategories lists the direct children of one category.
func (c *Client) Subcategories(ctx context.Context, parentID int) ([]model.Category, error) {
	q := url.Values{}
	q.Set("parent", strconv.Itoa(parentID))
	return c.categories(ctx, q)
}

func (c *Client) categories(ctx context.Context, extra url.Values) ([]model.Category, error) {
	q := url.Values{}
	q.Set("cascade", boolParam(false))
	q.Set("ordering", "name")
	for k, vs := range extra {
		for _, v := range vs {
			q.Set(k, v)
		}
	}

	body, err := c.get(ctx, "/api/part/category/", q)
	if err != nil {
		return nil, fmt.Errorf("fetching categories: %w", err)
	}

	payload, err := decodeList[apiCategory](body)
	if err != nil {
		return nil, err
	}

	categories := make([]model.Category, 0, len(payload.Results))
	for _, raw := range payload.Results {
		categories = append(categories, toCategory(raw))
	}
	return categories, nil
}

// Locations lists the top-level storage locations, ordered by name.
func (c *Client) Locations(ctx context.Context) ([]model.StorageLocation, error) {
	return c.locations(ctx, nil)
}

// Sublocations lists the direct children of one storage location.
func (c *Client) Sublocations(ctx context.Context, parentID int) ([]model.StorageLocation, error) {
	q := url.Values{}
	q.Set("parent", strconv.Itoa(parentID))
	return c.locations(ctx, q)
}

func (c *Client) locations(ctx context.Context, extra url.Values) ([]model.StorageLocation, error) {
	q := url.Values{}
	q.Set("cascade", boolParam(false))
	q.Set("ordering", "name")
	for k, vs := range extra {
		for _, v := range vs {
			q.Set(k, v)
		}
	}

	body, err := c.get(ctx, "/api/stock/location/", q)
	if err != nil {
		return nil, fmt.Errorf("fetching locations: %w", err)
	}

	payload, err := decodeList[apiLocation](body)
	if err != nil {
		return nil, err
	}

	locations := make([]model.StorageLocation, 0, len(payload.Results))
	for _, raw := range payload.Results {
		locations = append(locations, toLocation(raw))
	}
	return locations, nil
}

// Parts lists or searches parts with offset/limit pagination.
func (c *Client) Parts(ctx context.Context, query PartQuery) (PartPage, error) {
	q := url.Values{}
	if query.Category > 0 {
		q.Set("category", strconv.Itoa(query.Category))
	}
	if query.Search != "" {
		q.Set("search", query.Search)
	}
	if query.Limit > 0 {
		q.Set("limit", strconv.Itoa(query.Limit))
	}
	if query.Offset > 0 {
		q.Set("offset", strconv.Itoa(query.Offset))
	}

	body, err := c.get(ctx, "/api/part/", q)
	if err != nil {
		return PartPage{}, fmt.Errorf("fetching parts: %w", err)
	}

	payload, err := decodeList[apiPart](body)
	if err != nil {
		return PartPage{}, err
	}

	page := PartPage{
		Parts:   make([]model.Part, 0, len(payload.Results)),
		HasMore: payload.Next != "",
	}
	for _, raw := range payload.Results {
		page.Parts = append(page.Parts, toPart(raw, c.baseURL))
	}
	return page, nil
}

// Part fetches a single part by ID.
func (c *Client) Part(ctx context.Context, id int) (model.Part, error) {
	body, err := c.get(ctx, fmt.Sprintf("/api/part/%d/", id), nil)
	if err != nil {
		return model.Part{}, fmt.Errorf("fetching part %d: %w", id, err)
	}

	var raw apiPart
	if err := decodeObject(body, &raw); err != nil {
		return model.Part{}, err
	}
	return toPart(raw, c.baseURL), nil
}

// Stock lists stock records for a part or location with offset/limit
// pagination.
func (c *Client) Stock(ctx context.Context, query StockQuery) (StockPage, error) {
	q := url.Values{}
	if query.Part > 0 {
		q.Set("part", strconv.Itoa(query.Part))
	}
	if query.Location > 0 {
		q.Set("location", strconv.Itoa(query.Location))
	}
	if query.Limit > 0 {
		q.Set("limit", strconv.Itoa(query.Limit))
	}
	if query.Offset > 0 {
		q.Set("offset", strconv.Itoa(query.Offset))
	}

	body, err := c.get(ctx, "/api/stock/", q)
	if err != nil {
		return StockPage{}, fmt.Errorf("fetching stock: %w", err)
	}

	payload, err := decodeList[apiStockItem](body)
	if err != nil {
		return StockPage{}, err
	}

	page := StockPage{
		Items:   make([]model.StockItem, 0, len(payload.Results)),
		HasMore: payload.Next != "",
	}
	for _, raw := range payload.Results {
		page.Items = append(page.Items, toStockItem(raw))
	}
	return page, nil
}

// StockItem fetches a single stock record by ID.
func (c *Client) StockItem(ctx context.Context, id int) (model.StockItem, error) {
	body, err := c.get(ctx, fmt.Sprintf("/api/stock/%d/", id), nil)
	if err != nil {
		return model.StockItem{}, fmt.Errorf("fetching stock item %d: %w", id, err)
	}

	var raw apiStockItem
	if err := decodeObject(body, &raw); err != nil {
		return model.StockItem{}, err
	}
	return toStockItem(raw), nil
}

// RemoveStock decrements one stock record by quantity. Callers clamp the
// quantity to [0, current] first (see ClampRemoval); a negative quantity
// is rejected here as a guard.
func (c *Client) RemoveStock(ctx context.Context, stockItemID int, quantity float64) error {
	if quantity < 0 {
		return fmt.Errorf("removing stock %d: negative quantity %v", stockItemID, quantity)
	}

	req := removeStockRequest{
		Items: []removeStockItem{{PK: stockItemID, Quantity: quantity}},
	}
	if _, err := c.post(ctx, "/api/stock/remove/", req); err != nil {
		return fmt.Errorf("removing stock %d: %w", stockItemID, err)
	}
	return nil
}

// ClampRemoval bounds a requested removal quantity to [0, current] so
// the request can never drive the remaining quantity negative.
func ClampRemoval(requested, current float64) float64 {
	if requested < 0 {
		return 0
	}
	if requested > current {
		return current
	}
	return requested
}

// FetchParts resolves a set of part IDs with one request per ID. Each
// lookup fails independently: failures are logged and dropped, and only
// successes appear in the returned map.
func (c *Client) FetchParts(ctx context.Context, ids []int) map[int]model.Part {
	results := make(map[int]model.Part, len(ids))

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			part, err := c.Part(ctx, id)
			if err != nil {
				slog.Warn("part lookup failed", "part_id", id, "error", err)
				return
			}
			mu.Lock()
			results[id] = part
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	return results
}

// FetchStockItems resolves a set of stock record IDs with the same
// best-effort, per-ID contract as FetchParts.
func (c *Client) FetchStockItems(ctx context.Context, ids []int) map[int]model.StockItem {
	results := make(map[int]model.StockItem, len(ids))

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			item, err := c.StockItem(ctx, id)
			if err != nil {
				slog.Warn("stock lookup failed", "stock_item_id", id, "error", err)
				return
			}
			mu.Lock()
			results[id] = item
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	return results
}

// toCategory converts a wire category into the model type.
func toCategory(raw apiCategory) model.Category {
	return model.Category{
		ID:          raw.PK,
		Name:        raw.Name,
		Description: raw.Description,
		PartCount:   raw.PartCount,
		Icon:        raw.Icon,
	}
}

// toLocation converts a wire location into the model type.
func toLocation(raw apiLocation) model.StorageLocation {
	return model.StorageLocation{
		ID:               raw.PK,
		Name:             raw.Name,
		Description:      raw.Description,
		ItemCount:        raw.Items,
		SublocationCount: raw.Sublocations,
	}
}

// toPart converts a wire part into the model type. The image path is
// relative on the wire and joined with the API base URL here.
func toPart(raw apiPart, baseURL string) model.Part {
	name := raw.Name
	if name == "" {
		name = model.UnknownPartName
	}

	imageURL := ""
	if raw.Image != "" {
		imageURL = baseURL + raw.Image
	}

	return model.Part{
		ID:          raw.PK,
		Name:        name,
		Description: raw.Description,
		InStock:     raw.InStock,
		ImageURL:    imageURL,
	}
}

// toStockItem converts a wire stock record into the model type,
// applying the display fallbacks for untracked fields.
func toStockItem(raw apiStockItem) model.StockItem {
	serial := raw.Serial
	if serial == "" {
		serial = model.UnknownSerial
	}
	batch := raw.Batch
	if batch == "" {
		batch = model.UnknownBatch
	}
	locationName := raw.LocationName
	if locationName == "" {
		locationName = model.UnknownLocation
	}

	return model.StockItem{
		ID:           raw.PK,
		PartID:       raw.Part,
		Quantity:     raw.Quantity,
		Serial:       serial,
		Batch:        batch,
		LocationID:   raw.Location,
		LocationName: locationName,
	}
}
