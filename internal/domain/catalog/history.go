package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// HistoryAction is the kind of product mutation an entry describes
type HistoryAction string

const (
	HistoryActionCreated  HistoryAction = "created"
	HistoryActionUpdated  HistoryAction = "updated"
	HistoryActionDeleted  HistoryAction = "deleted"
	HistoryActionRestored HistoryAction = "restored"
)

// IsValid checks if the action is a known value
func (a HistoryAction) IsValid() bool {
	switch a {
	case HistoryActionCreated, HistoryActionUpdated, HistoryActionDeleted, HistoryActionRestored:
		return true
	}
	return false
}

// HistoryMeta carries request context stored alongside an entry.
type HistoryMeta struct {
	Description   string
	ClientIP      string
	SourceEntryID *uuid.UUID
}

// HistoryEntry is an append-only audit record of one product mutation.
type HistoryEntry struct {
	ID            uuid.UUID
	ProductID     uuid.UUID
	Action        HistoryAction
	ActorID       *uuid.UUID
	ChangedFields []string
	OldValues     map[string]any
	NewValues     map[string]any
	Description   string
	ClientIP      string
	SourceEntryID *uuid.UUID
	CreatedAt     time.Time
}

// NewHistoryEntry diffs before against after and builds the entry.
// before is nil for a created product.
func NewHistoryEntry(productID uuid.UUID, action HistoryAction, actorID *uuid.UUID, before, after Snapshot, meta HistoryMeta) (*HistoryEntry, error) {
	if !action.IsValid() {
		return nil, shared.NewValidationError("Unknown history action %q", action)
	}
	fields, oldValues, newValues := Diff(before, after)
	if len(fields) == 0 {
		fields = []string{}
	}

	description := meta.Description
	if description == "" {
		description = defaultDescription(action, len(fields))
	}

	return &HistoryEntry{
		ID:            uuid.New(),
		ProductID:     productID,
		Action:        action,
		ActorID:       actorID,
		ChangedFields: fields,
		OldValues:     oldValues,
		NewValues:     newValues,
		Description:   description,
		ClientIP:      meta.ClientIP,
		SourceEntryID: meta.SourceEntryID,
		CreatedAt:     time.Now(),
	}, nil
}

// CanRestore rejects anything but an update entry.
func (e *HistoryEntry) CanRestore() error {
	if e.Action != HistoryActionUpdated {
		return shared.ErrUnsupportedRestore.WithDetails(map[string]any{
			"entry_id": e.ID.String(),
			"action":   string(e.Action),
		})
	}
	return nil
}

func defaultDescription(action HistoryAction, changed int) string {
	switch action {
	case HistoryActionCreated:
		return "Product created"
	case HistoryActionDeleted:
		return "Product deleted"
	case HistoryActionRestored:
		return "Product restored from history"
	}
	if changed == 1 {
		return "Updated 1 field"
	}
	return fmt.Sprintf("Updated %d fields", changed)
}

// HistoryRepository stores product history entries
type HistoryRepository interface {
	// Append stores a new entry. Entries are never updated.
	Append(ctx context.Context, entry *HistoryEntry) error

	// FindByID finds an entry by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*HistoryEntry, error)

	// ListByProduct lists entries for a product, newest first
	ListByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]HistoryEntry, error)
}
