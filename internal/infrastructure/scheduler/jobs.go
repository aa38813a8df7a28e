package scheduler

import (
	"context"

	inventoryapp "github.com/storefront/backend/internal/application/inventory"
	tradeapp "github.com/storefront/backend/internal/application/trade"
	"go.uber.org/zap"
)

// Job names
const (
	JobPendingOrderReaper = "pending-order-reaper"
	JobStockAudit         = "stock-audit"
)

// OrderReaper cancels unpaid orders past their deadline
type OrderReaper interface {
	Run(ctx context.Context) (*tradeapp.ReaperStats, error)
}

// StockAuditor reconciles stored stock against movement replay
type StockAuditor interface {
	Audit(ctx context.Context) (*inventoryapp.StockAuditStats, error)
}

// ReaperJobFunc adapts a reaper to a JobFunc that logs each run's stats
func ReaperJobFunc(reaper OrderReaper, logger *zap.Logger) JobFunc {
	return func(ctx context.Context) error {
		stats, err := reaper.Run(ctx)
		if err != nil {
			return err
		}
		if stats.TotalExpired > 0 {
			logger.Info("Expired pending orders processed",
				zap.Int("total_expired", stats.TotalExpired),
				zap.Int("cancelled", stats.Cancelled),
				zap.Int("skipped", stats.Skipped),
				zap.Int("failed", stats.Failed),
			)
		}
		return nil
	}
}

// StockAuditJobFunc adapts a stock auditor to a JobFunc that logs drift
func StockAuditJobFunc(auditor StockAuditor, logger *zap.Logger) JobFunc {
	return func(ctx context.Context) error {
		stats, err := auditor.Audit(ctx)
		if err != nil {
			return err
		}
		fields := []zap.Field{
			zap.Int("checked", stats.Checked),
			zap.Int("drifted", stats.Drifted),
			zap.Int("repaired", stats.Repaired),
			zap.Int("failed", stats.Failed),
		}
		if stats.Drifted > 0 || stats.Failed > 0 {
			logger.Warn("Stock audit found drift", fields...)
			return nil
		}
		logger.Info("Stock audit completed", fields...)
		return nil
	}
}
