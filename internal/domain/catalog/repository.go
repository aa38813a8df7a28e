package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID. Deleted products are not found.
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDIncludingDeleted also finds soft-deleted products, for the
	// audit trail
	FindByIDIncludingDeleted(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs finds the products with the given IDs; missing IDs are skipped
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindAll lists products that are not deleted
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Create inserts a new product
	Create(ctx context.Context, product *Product) error

	// SaveWithLock persists the editable fields only if the stored version is
	// product.Version-1. A concurrent write yields shared.ErrConcurrencyConflict.
	SaveWithLock(ctx context.Context, product *Product) error
}
