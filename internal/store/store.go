package store

import (
	"context"
	"errors"

	"stocktree/internal/model"
)

// Validation and lookup errors surfaced to the UI as blocking alerts.
var (
	// ErrEmptyName is returned when a list name trims to the empty string.
	ErrEmptyName = errors.New("list name required")

	// ErrDuplicateName is returned when a list name collides
	// case-insensitively with an existing list.
	ErrDuplicateName = errors.New("list with that name already exists")

	// ErrListNotFound is returned when no list has the requested ID.
	ErrListNotFound = errors.New("list not found")

	// ErrDuplicateItem is returned when a part/stock association is
	// already present in the target list.
	ErrDuplicateItem = errors.New("item already in list")
)

// Store defines the persistence interface for locally stored lists,
// the flat parts selection, and plain settings values.
type Store interface {
	// === Settings ===

	Setting(ctx context.Context, key string) (string, bool, error)
	SetSetting(ctx context.Context, key, value string) error

	// === Lists ===

	CreateList(ctx context.Context, name string) (model.List, error)
	RenameList(ctx context.Context, id, name string) (model.List, error)
	Lists(ctx context.Context) ([]model.List, error)
	ListByID(ctx context.Context, id string) (model.List, error)
	DeleteList(ctx context.Context, id string) error
	AddListItem(ctx context.Context, listID string, item model.ListItem) (model.List, error)
	RemoveItems(ctx context.Context, listID string, selected []model.ListItem) (model.List, error)

	// === Selected parts ===

	SelectedParts(ctx context.Context) ([]model.SelectedPart, error)
	AddSelectedPart(ctx context.Context, p model.SelectedPart) error
	RemoveSelectedPart(ctx context.Context, partID int) error
	ClearSelectedParts(ctx context.Context) error
}
