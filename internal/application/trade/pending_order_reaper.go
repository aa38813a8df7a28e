package trade

import (
	"context"
	"time"

	"github.com/storefront/backend/internal/application/uow"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// ExpiredPaymentReason is the cancel reason of orders the reaper cancels
const ExpiredPaymentReason = "Payment not received before deadline"

// ReaperStats summarizes one reaper run
type ReaperStats struct {
	TotalExpired int       `json:"total_expired"`
	Cancelled    int       `json:"cancelled"`
	Skipped      int       `json:"skipped"`
	Failed       int       `json:"failed"`
	ProcessedAt  time.Time `json:"processed_at"`
}

// ReaperMetrics records reaper results
type ReaperMetrics interface {
	RecordReaperRun(ctx context.Context, cancelled, failed int)
}

// PendingOrderReaper cancels orders that stayed unpaid past their payment
// deadline and returns their stock.
type PendingOrderReaper struct {
	scope     uow.TransactionScope
	orders    *OrderService
	clock     shared.Clock
	batchSize int
	metrics   ReaperMetrics
	logger    *zap.Logger
}

// NewPendingOrderReaper creates a new PendingOrderReaper
func NewPendingOrderReaper(scope uow.TransactionScope, orders *OrderService, clock shared.Clock, batchSize int, logger *zap.Logger) *PendingOrderReaper {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PendingOrderReaper{
		scope:     scope,
		orders:    orders,
		clock:     clock,
		batchSize: batchSize,
		logger:    logger,
	}
}

// SetMetrics sets the metrics recorder
func (r *PendingOrderReaper) SetMetrics(m ReaperMetrics) {
	r.metrics = m
}

// Run cancels one batch of expired pending orders. Each order is cancelled in
// its own transaction so one failure does not hold back the rest.
func (r *PendingOrderReaper) Run(ctx context.Context) (*ReaperStats, error) {
	now := r.clock.Now()
	stats := &ReaperStats{ProcessedAt: now}

	var expired []trade.Order
	err := r.scope.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		expired, err = repos.Orders().FindExpiredPending(ctx, now, r.batchSize)
		return err
	})
	if err != nil {
		return nil, err
	}
	stats.TotalExpired = len(expired)

	for i := range expired {
		if ctx.Err() != nil {
			break
		}
		order := &expired[i]
		cancelled, err := r.orders.CancelIfPaymentExpired(ctx, order.ID, ExpiredPaymentReason)
		switch {
		case err != nil:
			stats.Failed++
			r.logger.Warn("Failed to cancel expired order",
				zap.String("order_id", order.ID.String()),
				zap.String("order_number", order.OrderNumber),
				zap.Error(err),
			)
		case cancelled:
			stats.Cancelled++
		default:
			stats.Skipped++
		}
	}

	if r.metrics != nil {
		r.metrics.RecordReaperRun(ctx, stats.Cancelled, stats.Failed)
	}
	if stats.TotalExpired > 0 {
		r.logger.Info("Expired pending orders reaped",
			zap.Int("total_expired", stats.TotalExpired),
			zap.Int("cancelled", stats.Cancelled),
			zap.Int("skipped", stats.Skipped),
			zap.Int("failed", stats.Failed),
		)
	}
	return stats, nil
}
