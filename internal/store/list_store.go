package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"stocktree/internal/model"
)

// listsKey is the settings key holding the JSON array of lists.
const listsKey = "MY_LISTS"

// loadLists reads and decodes the full list collection. An absent or
// corrupt value is treated as empty, never as a failure.
func (s *SQLiteStore) loadLists(ctx context.Context) ([]model.List, error) {
	raw, ok, err := s.Setting(ctx, listsKey)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return []model.List{}, nil
	}

	var lists []model.List
	if err := json.Unmarshal([]byte(raw), &lists); err != nil {
		slog.Warn("stored lists are corrupt, treating as empty", "error", err)
		return []model.List{}, nil
	}
	return lists, nil
}

// saveLists encodes and writes back the full list collection.
func (s *SQLiteStore) saveLists(ctx context.Context, lists []model.List) error {
	data, err := json.Marshal(lists)
	if err != nil {
		return fmt.Errorf("encoding lists: %w", err)
	}
	return s.SetSetting(ctx, listsKey, string(data))
}

// validateName trims the candidate name and checks it against the
// existing collection, ignoring the list with skipID (used on rename).
func validateName(lists []model.List, name, skipID string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ErrEmptyName
	}
	for _, l := range lists {
		if l.ID != skipID && strings.EqualFold(l.Name, trimmed) {
			return "", ErrDuplicateName
		}
	}
	return trimmed, nil
}

// CreateList appends a new empty list with the given name. The name must
// be non-empty after trimming and unique case-insensitively.
func (s *SQLiteStore) CreateList(ctx context.Context, name string) (model.List, error) {
	lists, err := s.loadLists(ctx)
	if err != nil {
		return model.List{}, err
	}

	trimmed, err := validateName(lists, name, "")
	if err != nil {
		return model.List{}, err
	}

	list := model.List{
		ID:    uuid.New().String(),
		Name:  trimmed,
		Items: []model.ListItem{},
	}

	lists = append(lists, list)
	if err := s.saveLists(ctx, lists); err != nil {
		return model.List{}, err
	}
	return list, nil
}

// RenameList changes a list's name, applying the same validation as
// CreateList.
func (s *SQLiteStore) RenameList(ctx context.Context, id, name string) (model.List, error) {
	lists, err := s.loadLists(ctx)
	if err != nil {
		return model.List{}, err
	}

	trimmed, err := validateName(lists, name, id)
	if err != nil {
		return model.List{}, err
	}

	for i := range lists {
		if lists[i].ID == id {
			lists[i].Name = trimmed
			if err := s.saveLists(ctx, lists); err != nil {
				return model.List{}, err
			}
			return lists[i], nil
		}
	}
	return model.List{}, ErrListNotFound
}

// Lists returns the full collection in insertion order.
func (s *SQLiteStore) Lists(ctx context.Context) ([]model.List, error) {
	return s.loadLists(ctx)
}

// ListByID finds a list by its ID.
func (s *SQLiteStore) ListByID(ctx context.Context, id string) (model.List, error) {
	lists, err := s.loadLists(ctx)
	if err != nil {
		return model.List{}, err
	}
	for _, l := range lists {
		if l.ID == id {
			return l, nil
		}
	}
	return model.List{}, ErrListNotFound
}

// DeleteList removes a list and all its items.
func (s *SQLiteStore) DeleteList(ctx context.Context, id string) error {
	lists, err := s.loadLists(ctx)
	if err != nil {
		return err
	}

	for i := range lists {
		if lists[i].ID == id {
			lists = append(lists[:i], lists[i+1:]...)
			return s.saveLists(ctx, lists)
		}
	}
	return ErrListNotFound
}

// AddListItem appends a part/stock association to a list. The
// (PartID, StockItemID) pair must not already be present.
func (s *SQLiteStore) AddListItem(ctx context.Context, listID string, item model.ListItem) (model.List, error) {
	lists, err := s.loadLists(ctx)
	if err != nil {
		return model.List{}, err
	}

	for i := range lists {
		if lists[i].ID != listID {
			continue
		}
		if lists[i].Contains(item) {
			return model.List{}, ErrDuplicateItem
		}
		lists[i].Items = append(lists[i].Items, item)
		if err := s.saveLists(ctx, lists); err != nil {
			return model.List{}, err
		}
		return lists[i], nil
	}
	return model.List{}, ErrListNotFound
}

// RemoveItems replaces a list's items with the subset whose
// (PartID, StockItemID) pair is not in the selection, preserving the
// order of the remaining items, and returns the updated list.
func (s *SQLiteStore) RemoveItems(ctx context.Context, listID string, selected []model.ListItem) (model.List, error) {
	lists, err := s.loadLists(ctx)
	if err != nil {
		return model.List{}, err
	}

	removal := make(map[model.ListItem]bool, len(selected))
	for _, it := range selected {
		removal[it] = true
	}

	for i := range lists {
		if lists[i].ID != listID {
			continue
		}
		kept := make([]model.ListItem, 0, len(lists[i].Items))
		for _, it := range lists[i].Items {
			if !removal[it] {
				kept = append(kept, it)
			}
		}
		lists[i].Items = kept
		if err := s.saveLists(ctx, lists); err != nil {
			return model.List{}, err
		}
		return lists[i], nil
	}
	return model.List{}, ErrListNotFound
}
