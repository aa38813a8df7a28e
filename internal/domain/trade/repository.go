package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// Create inserts the order and its items
	Create(ctx context.Context, order *Order) error

	// SaveWithLock persists status fields if the stored version is
	// order.Version-1, otherwise it returns shared.ErrConcurrencyConflict
	SaveWithLock(ctx context.Context, order *Order) error

	// FindExpiredPending lists orders still awaiting payment whose deadline
	// is before now, oldest first
	FindExpiredPending(ctx context.Context, now time.Time, limit int) ([]Order, error)
}
