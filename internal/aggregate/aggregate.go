// Package aggregate joins locally stored list items against live remote
// part and stock data, tolerating partial failure per item.
package aggregate

import (
	"context"
	"sync"

	"stocktree/internal/model"
)

// PartLookup resolves part IDs best-effort: one lookup per ID, failures
// dropped, successes keyed by ID.
type PartLookup interface {
	FetchParts(ctx context.Context, ids []int) map[int]model.Part
}

// StockLookup resolves stock record IDs under the same contract.
type StockLookup interface {
	FetchStockItems(ctx context.Context, ids []int) map[int]model.StockItem
}

// Resolve produces one MergedPart per list item, in the list's item
// order. Both lookups run concurrently and the join waits for both to
// settle; an ID missing from either result degrades that side of its
// row to a placeholder with the corresponding missing flag set, so the
// output cardinality always equals the input cardinality.
func Resolve(ctx context.Context, list model.List, parts PartLookup, stock StockLookup) []model.MergedPart {
	if len(list.Items) == 0 {
		return []model.MergedPart{}
	}

	partIDs := make([]int, len(list.Items))
	stockIDs := make([]int, len(list.Items))
	for i, item := range list.Items {
		partIDs[i] = item.PartID
		stockIDs[i] = item.StockItemID
	}

	var (
		wg       sync.WaitGroup
		partMap  map[int]model.Part
		stockMap map[int]model.StockItem
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		partMap = parts.FetchParts(ctx, partIDs)
	}()
	go func() {
		defer wg.Done()
		stockMap = stock.FetchStockItems(ctx, stockIDs)
	}()
	wg.Wait()

	// Join by walking the original item sequence, not the lookup
	// results, so no item disappears when its remote data is gone.
	merged := make([]model.MergedPart, 0, len(list.Items))
	for _, item := range list.Items {
		row := model.MergedPart{
			StockItemID: item.StockItemID,
			StockName:   model.UnknownLocation,
		}

		if part, ok := partMap[item.PartID]; ok {
			row.Part = part
		} else {
			row.Part = model.Part{ID: item.PartID, Name: model.UnknownPartName}
			row.PartMissing = true
		}

		if st, ok := stockMap[item.StockItemID]; ok {
			row.StockName = st.LocationName
			row.AvailableStock = st.Quantity
		} else {
			row.StockMissing = true
		}

		merged = append(merged, row)
	}
	return merged
}
