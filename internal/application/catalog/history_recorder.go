package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
)

// HistoryRecorder writes the audit entry for a product mutation. It must be
// called with the history repository of the transaction that performs the
// mutation, so that the entry and the change commit or roll back together.
type HistoryRecorder struct{}

// Record diffs before against after and appends one entry.
func (HistoryRecorder) Record(
	ctx context.Context,
	repo catalog.HistoryRepository,
	productID uuid.UUID,
	action catalog.HistoryAction,
	actor Actor,
	before, after catalog.Snapshot,
	meta catalog.HistoryMeta,
) (*catalog.HistoryEntry, error) {
	if meta.ClientIP == "" {
		meta.ClientIP = actor.ClientIP
	}
	entry, err := catalog.NewHistoryEntry(productID, action, actor.UserID, before, after, meta)
	if err != nil {
		return nil, err
	}
	if err := repo.Append(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}
