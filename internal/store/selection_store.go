package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"stocktree/internal/model"
)

// selectedPartsKey is the settings key holding the flat parts selection.
const selectedPartsKey = "selected_parts"

// loadSelection decodes the stored selection. Absent or corrupt values
// are treated as empty.
func (s *SQLiteStore) loadSelection(ctx context.Context) ([]model.SelectedPart, error) {
	raw, ok, err := s.Setting(ctx, selectedPartsKey)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return []model.SelectedPart{}, nil
	}

	var parts []model.SelectedPart
	if err := json.Unmarshal([]byte(raw), &parts); err != nil {
		slog.Warn("stored selection is corrupt, treating as empty", "error", err)
		return []model.SelectedPart{}, nil
	}
	return parts, nil
}

// saveSelection encodes and writes back the full selection.
func (s *SQLiteStore) saveSelection(ctx context.Context, parts []model.SelectedPart) error {
	data, err := json.Marshal(parts)
	if err != nil {
		return fmt.Errorf("encoding selection: %w", err)
	}
	return s.SetSetting(ctx, selectedPartsKey, string(data))
}

// SelectedParts returns the flat personal selection in insertion order.
func (s *SQLiteStore) SelectedParts(ctx context.Context) ([]model.SelectedPart, error) {
	return s.loadSelection(ctx)
}

// AddSelectedPart appends an entry to the selection. A part already
// selected keeps its original entry.
func (s *SQLiteStore) AddSelectedPart(ctx context.Context, p model.SelectedPart) error {
	parts, err := s.loadSelection(ctx)
	if err != nil {
		return err
	}

	for _, existing := range parts {
		if existing.PartID == p.PartID && existing.StockItemID == p.StockItemID {
			return nil
		}
	}

	parts = append(parts, p)
	return s.saveSelection(ctx, parts)
}

// RemoveSelectedPart drops every selection entry for the given part.
func (s *SQLiteStore) RemoveSelectedPart(ctx context.Context, partID int) error {
	parts, err := s.loadSelection(ctx)
	if err != nil {
		return err
	}

	kept := make([]model.SelectedPart, 0, len(parts))
	for _, p := range parts {
		if p.PartID != partID {
			kept = append(kept, p)
		}
	}
	return s.saveSelection(ctx, kept)
}

// ClearSelectedParts empties the selection.
func (s *SQLiteStore) ClearSelectedParts(ctx context.Context) error {
	return s.saveSelection(ctx, []model.SelectedPart{})
}
