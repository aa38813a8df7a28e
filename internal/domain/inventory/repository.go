package inventory

import (
	"context"

	"github.com/google/uuid"
)

// StockLevel is the denormalized stock of a product.
type StockLevel struct {
	ProductID         uuid.UUID
	Stock             int
	LowStockThreshold *int
}

// StockRepository mutates the denormalized stock column with atomic
// conditional writes.
type StockRepository interface {
	// Get returns the current stored stock level
	Get(ctx context.Context, productID uuid.UUID) (*StockLevel, error)

	// Increase adds quantity and returns the new stock
	Increase(ctx context.Context, productID uuid.UUID, quantity int) (int, error)

	// Decrease subtracts quantity only if stock >= quantity and returns the new
	// stock. It fails with an insufficient stock error carrying the available
	// amount otherwise.
	Decrease(ctx context.Context, productID uuid.UUID, quantity int) (int, error)

	// Reset overwrites the stored stock, used by reconciliation only
	Reset(ctx context.Context, productID uuid.UUID, stock int) error
}

// MovementRepository stores stock movements. Movements are append-only.
type MovementRepository interface {
	// Append stores a new movement
	Append(ctx context.Context, movement *StockMovement) error

	// ListByProduct returns all movements of a product in replay order
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]StockMovement, error)

	// ListByReference returns movements linked to a document, e.g. an order
	ListByReference(ctx context.Context, referenceID uuid.UUID) ([]StockMovement, error)

	// ProductIDs returns the distinct products that have movements
	ProductIDs(ctx context.Context) ([]uuid.UUID, error)
}
