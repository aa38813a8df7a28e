package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/application/uow"
	"github.com/storefront/backend/internal/domain/inventory"
	"go.uber.org/zap"
)

// StockAuditStats summarizes one audit run
type StockAuditStats struct {
	Checked     int       `json:"checked"`
	Drifted     int       `json:"drifted"`
	Repaired    int       `json:"repaired"`
	Failed      int       `json:"failed"`
	ProcessedAt time.Time `json:"processed_at"`
}

// StockAuditService compares every product's stored stock with the replay of
// its movements and optionally rewrites drifted values.
type StockAuditService struct {
	scope  uow.TransactionScope
	repair bool
	logger *zap.Logger
}

// NewStockAuditService creates a new StockAuditService
func NewStockAuditService(scope uow.TransactionScope, repair bool, logger *zap.Logger) *StockAuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockAuditService{scope: scope, repair: repair, logger: logger}
}

// Audit runs one reconciliation pass.
func (s *StockAuditService) Audit(ctx context.Context) (*StockAuditStats, error) {
	stats := &StockAuditStats{ProcessedAt: time.Now()}

	var productIDs []uuid.UUID
	err := s.scope.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		productIDs, err = repos.Movements().ProductIDs(ctx)
		return err
	})
	if err != nil {
		s.logger.Error("Failed to list products for stock audit", zap.Error(err))
		return nil, err
	}

	for _, productID := range productIDs {
		stats.Checked++
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
			if replayed == level.Stock {
				return nil
			}

			stats.Drifted++
			s.logger.Warn("Stock drift detected",
				zap.String("product_id", productID.String()),
				zap.Int("stored", level.Stock),
				zap.Int("replayed", replayed),
			)
			if !s.repair {
				return nil
			}
			if err := repos.Stock().Reset(ctx, productID, replayed); err != nil {
				return err
			}
			stats.Repaired++
			return nil
		})
		if err != nil {
			stats.Failed++
			s.logger.Error("Stock audit failed for product",
				zap.String("product_id", productID.String()),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("Completed stock audit",
		zap.Int("checked", stats.Checked),
		zap.Int("drifted", stats.Drifted),
		zap.Int("repaired", stats.Repaired),
		zap.Int("failed", stats.Failed),
	)
	return stats, nil
}
