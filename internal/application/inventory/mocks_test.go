package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/stretchr/testify/mock"
)

// MockStockRepository is a mock implementation of inventory.StockRepository
type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) Get(ctx context.Context, productID uuid.UUID) (*inventory.StockLevel, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockLevel), args.Error(1)
}

func (m *MockStockRepository) Increase(ctx context.Context, productID uuid.UUID, quantity int) (int, error) {
	args := m.Called(ctx, productID, quantity)
	return args.Int(0), args.Error(1)
}

func (m *MockStockRepository) Decrease(ctx context.Context, productID uuid.UUID, quantity int) (int, error) {
	args := m.Called(ctx, productID, quantity)
	return args.Int(0), args.Error(1)
}

func (m *MockStockRepository) Reset(ctx context.Context, productID uuid.UUID, stock int) error {
	return m.Called(ctx, productID, stock).Error(0)
}

// MockMovementRepository is a mock implementation of inventory.MovementRepository
type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) Append(ctx context.Context, movement *inventory.StockMovement) error {
	return m.Called(ctx, movement).Error(0)
}

func (m *MockMovementRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]inventory.StockMovement, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.StockMovement), args.Error(1)
}

func (m *MockMovementRepository) ListByReference(ctx context.Context, referenceID uuid.UUID) ([]inventory.StockMovement, error) {
	args := m.Called(ctx, referenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.StockMovement), args.Error(1)
}

func (m *MockMovementRepository) ProductIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func movements(productID uuid.UUID, deltas ...int) []inventory.StockMovement {
	out := make([]inventory.StockMovement, 0, len(deltas))
	for _, d := range deltas {
		m := inventory.StockMovement{ID: uuid.New(), ProductID: productID, Direction: inventory.DirectionImport, Quantity: d}
		if d < 0 {
			m.Direction = inventory.DirectionExport
			m.Quantity = -d
		}
		out = append(out, m)
	}
	return out
}
