package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/application/uow"
	"github.com/storefront/backend/internal/domain/inventory"
	"go.uber.org/zap"
)

// MovementMetrics records stock movement counters
type MovementMetrics interface {
	RecordStockMovement(ctx context.Context, direction string, quantity int)
}

// StockLedgerService records stock movements and keeps the denormalized
// product stock in step with them.
type StockLedgerService struct {
	scope            uow.TransactionScope
	defaultThreshold int
	metrics          MovementMetrics
	logger           *zap.Logger
}

// NewStockLedgerService creates a new StockLedgerService
func NewStockLedgerService(scope uow.TransactionScope, defaultThreshold int, logger *zap.Logger) *StockLedgerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockLedgerService{
		scope:            scope,
		defaultThreshold: defaultThreshold,
		logger:           logger,
	}
}

// SetMetrics sets the metrics recorder
func (s *StockLedgerService) SetMetrics(m MovementMetrics) {
	s.metrics = m
}

// DefaultThreshold is the low stock threshold used when a product has none
func (s *StockLedgerService) DefaultThreshold() int {
	return s.defaultThreshold
}

// RecordMovement appends a movement and updates the product stock in one
// transaction.
func (s *StockLedgerService) RecordMovement(ctx context.Context, in RecordMovementInput) (*StockSnapshot, error) {
	var snapshot *StockSnapshot
	err := s.scope.Execute(ctx, func(repos uow.Repositories) error {
		m, err := s.Record(ctx, repos, in)
		if err != nil {
			return err
		}
		level, err := repos.Stock().Get(ctx, in.ProductID)
		if err != nil {
			return err
		}
		snapshot = &StockSnapshot{
			ProductID:   m.ProductID,
			Stock:       m.BalanceAfter,
			StockStatus: inventory.DeriveStatus(m.BalanceAfter, level.LowStockThreshold, s.defaultThreshold),
			MovementID:  m.ID,
			Direction:   m.Direction,
			Quantity:    m.Quantity,
			RecordedAt:  m.CreatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordStockMovement(ctx, snapshot.Direction.String(), snapshot.Quantity)
	}
	s.logger.Info("Stock movement recorded",
		zap.String("product_id", snapshot.ProductID.String()),
		zap.String("direction", snapshot.Direction.String()),
		zap.Int("quantity", snapshot.Quantity),
		zap.Int("stock", snapshot.Stock),
	)
	return snapshot, nil
}

// Record performs a movement inside a caller-owned unit of work. Exports use
// a conditional decrement so concurrent exports can never take stock below
// zero; the loser gets an insufficient stock error.
func (s *StockLedgerService) Record(ctx context.Context, repos uow.Repositories, in RecordMovementInput) (*inventory.StockMovement, error) {
	m, err := inventory.NewStockMovement(in.ProductID, in.Direction, in.Quantity, in.Note, in.ActorID)
	if err != nil {
		return nil, err
	}
	if in.ReferenceID != nil {
		m.WithReference(*in.ReferenceID)
	}

	var after int
	if m.Direction == inventory.DirectionExport {
		after, err = repos.Stock().Decrease(ctx, m.ProductID, m.Quantity)
	} else {
		after, err = repos.Stock().Increase(ctx, m.ProductID, m.Quantity)
	}
	if err != nil {
		return nil, err
	}

	// Appended while the row lock is held, so the ledger sequence follows the
	// order in which movements were applied.
	m.BalanceAfter = after
	m.CreatedAt = time.Now()

	if err := repos.Movements().Append(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// CurrentStock derives a product's stock by replaying its movements.
func (s *StockLedgerService) CurrentStock(ctx context.Context, productID uuid.UUID) (int, error) {
	var stock int
	err := s.scope.Execute(ctx, func(repos uow.Repositories) error {
		movements, err := repos.Movements().ListByProduct(ctx, productID)
		if err != nil {
			return err
		}
		stock, err = inventory.Replay(movements)
		return err
	})
	return stock, err
}

// Report compares stored and replayed stock for one product.
func (s *StockLedgerService) Report(ctx context.Context, productID uuid.UUID) (*StockReport, error) {
	var report *StockReport
	err := s.scope.Execute(ctx, func(repos uow.Repositories) error {
		level, err := repos.Stock().Get(ctx, productID)
		if err != nil {
			return err
		}
		movements, err := repos.Movements().ListByProduct(ctx, productID)
		if err != nil {
			return err
		}
		replayed, err := inventory.Replay(movements)
		if err != nil {
			return err
		}
		report = &StockReport{
			ProductID:   productID,
			Stored:      level.Stock,
			Replayed:    replayed,
			InSync:      level.Stock == replayed,
			StockStatus: inventory.DeriveStatus(level.Stock, level.LowStockThreshold, s.defaultThreshold),
			Movements:   len(movements),
		}
		return nil
	})
	return report, err
}

// ListMovements returns a product's movements in replay order
func (s *StockLedgerService) ListMovements(ctx context.Context, productID uuid.UUID) ([]MovementResponse, error) {
	var out []MovementResponse
	err := s.scope.Execute(ctx, func(repos uow.Repositories) error {
		if _, err := repos.Stock().Get(ctx, productID); err != nil {
			return err
		}
		movements, err := repos.Movements().ListByProduct(ctx, productID)
		if err != nil {
			return err
		}
		out = make([]MovementResponse, 0, len(movements))
		for i := range movements {
			out = append(out, ToMovementResponse(&movements[i]))
		}
		return nil
	})
	return out, err
}
