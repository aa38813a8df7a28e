package trade

import (
	"context"
	"errors"
	"testing"
	"time"

	inventoryapp "github.com/storefront/backend/internal/application/inventory"
	"github.com/storefront/backend/internal/application/uow"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingReaperMetrics struct {
	cancelled, failed int
	runs              int
}

func (m *recordingReaperMetrics) RecordReaperRun(_ context.Context, cancelled, failed int) {
	m.runs++
	m.cancelled += cancelled
	m.failed += failed
}

func TestPendingOrderReaper_Run(t *testing.T) {
	svc, orders, stock, clock := newTestOrderService()
	stock.On("Record", mock.Anything, mock.Anything, mock.Anything).
		Return(func(_ context.Context, _ uow.Repositories, in inventoryapp.RecordMovementInput) (*inventory.StockMovement, error) {
			return movementFor(in, 1), nil
		})

	expired := newTestOrder(t, trade.PaymentMethodBanking)
	paid := newTestOrder(t, trade.PaymentMethodBanking)
	broken := newTestOrder(t, trade.PaymentMethodWallet)
	clock.Advance(30 * time.Minute)

	// The listing is a snapshot; paid was confirmed after it was taken.
	listed := []trade.Order{*expired, *paid, *broken}
	_, err := paid.ConfirmPayment()
	require.NoError(t, err)

	orders.On("FindExpiredPending", mock.Anything, clock.T, 50).Return(listed, nil)
	orders.On("FindByID", mock.Anything, expired.ID).Return(expired, nil)
	orders.On("FindByID", mock.Anything, paid.ID).Return(paid, nil)
	orders.On("FindByID", mock.Anything, broken.ID).Return(nil, errors.New("connection reset"))
	orders.On("SaveWithLock", mock.Anything, expired).Return(nil)

	scope := uow.NewNoOpTransactionScope(&uow.RepositorySet{OrderRepo: orders})
	reaper := NewPendingOrderReaper(scope, svc, clock, 50, zap.NewNop())
	metrics := &recordingReaperMetrics{}
	reaper.SetMetrics(metrics)

	stats, err := reaper.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalExpired)
	assert.Equal(t, 1, stats.Cancelled)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, clock.T, stats.ProcessedAt)

	assert.Equal(t, trade.OrderStatusCancelled, expired.Status)
	assert.Equal(t, ExpiredPaymentReason, expired.CancelReason)
	assert.Equal(t, trade.OrderStatusProcessing, paid.Status)
	stock.AssertNumberOfCalls(t, "Record", len(expired.Items))

	assert.Equal(t, 1, metrics.runs)
	assert.Equal(t, 1, metrics.cancelled)
	assert.Equal(t, 1, metrics.failed)
}

func TestPendingOrderReaper_ListingFails(t *testing.T) {
	svc, orders, _, clock := newTestOrderService()
	orders.On("FindExpiredPending", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	scope := uow.NewNoOpTransactionScope(&uow.RepositorySet{OrderRepo: orders})
	reaper := NewPendingOrderReaper(scope, svc, clock, 0, nil)

	_, err := reaper.Run(context.Background())
	assert.EqualError(t, err, "db down")
}

func TestPendingOrderReaper_StopsOnCancelledContext(t *testing.T) {
	svc, orders, _, clock := newTestOrderService()
	order := newTestOrder(t, trade.PaymentMethodBanking)
	orders.On("FindExpiredPending", mock.Anything, mock.Anything, 100).Return([]trade.Order{*order}, nil)

	scope := uow.NewNoOpTransactionScope(&uow.RepositorySet{OrderRepo: orders})
	reaper := NewPendingOrderReaper(scope, svc, clock, 0, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := reaper.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalExpired)
	assert.Zero(t, stats.Cancelled+stats.Skipped+stats.Failed)
	orders.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}
