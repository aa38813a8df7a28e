package trade

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	inventoryapp "github.com/storefront/backend/internal/application/inventory"
	"github.com/storefront/backend/internal/application/uow"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// StockRecorder records a stock movement inside a caller-owned unit of work
type StockRecorder interface {
	Record(ctx context.Context, repos uow.Repositories, in inventoryapp.RecordMovementInput) (*inventory.StockMovement, error)
}

// OrderService drives orders through their lifecycle after checkout
type OrderService struct {
	scope          uow.TransactionScope
	stock          StockRecorder
	clock          shared.Clock
	idempotency    shared.IdempotencyStore
	webhookTTL     time.Duration
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(scope uow.TransactionScope, stock StockRecorder, clock shared.Clock, logger *zap.Logger) *OrderService {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		scope:      scope,
		stock:      stock,
		clock:      clock,
		webhookTTL: shared.DefaultIdempotencyConfig().TTL,
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetIdempotencyStore enables payment webhook event deduplication
func (s *OrderService) SetIdempotencyStore(store shared.IdempotencyStore, ttl time.Duration) {
	s.idempotency = store
	if ttl > 0 {
		s.webhookTTL = ttl
	}
}

// GetByID returns an order with its items
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// GetStatus returns the polling view of an order. Orders still awaiting
// payment past their deadline are reported as expired.
func (s *OrderService) GetStatus(ctx context.Context, id uuid.UUID) (*OrderStatusResponse, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderStatusResponse(order, s.clock.Now())
	return &resp, nil
}

// ConfirmPayment moves a pending order to processing. Confirming an order
// that is already processing succeeds without changing it.
func (s *OrderService) ConfirmPayment(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.transition(ctx, id, func(_ uow.Repositories, o *trade.Order) (bool, error) {
		return o.ConfirmPayment()
	})
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// Ship moves a processing order to shipping
func (s *OrderService) Ship(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.transition(ctx, id, func(_ uow.Repositories, o *trade.Order) (bool, error) {
		return true, o.Ship()
	})
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// Complete moves a shipping order to completed
func (s *OrderService) Complete(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.transition(ctx, id, func(_ uow.Repositories, o *trade.Order) (bool, error) {
		return true, o.Complete()
	})
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// Cancel cancels a non-terminal order and returns its items to stock in the
// same transaction. Coupon usage is not given back.
func (s *OrderService) Cancel(ctx context.Context, id uuid.UUID, req CancelOrderRequest, actorID *uuid.UUID) (*OrderResponse, error) {
	order, err := s.transition(ctx, id, func(repos uow.Repositories, o *trade.Order) (bool, error) {
		if err := o.Cancel(req.Reason); err != nil {
			return false, err
		}
		return true, s.releaseStock(ctx, repos, o, actorID)
	})
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// HandlePaymentWebhook confirms payment for the order named by a provider
// event. Redelivered events are acknowledged without confirming again.
func (s *OrderService) HandlePaymentWebhook(ctx context.Context, req PaymentWebhookRequest) (*PaymentWebhookResult, error) {
	key := "payment-event:" + req.EventID
	if s.idempotency != nil {
		claimed, _, err := s.idempotency.Reserve(ctx, key, req.OrderID.String(), s.webhookTTL)
		if err != nil {
			return nil, fmt.Errorf("reserve payment event: %w", err)
		}
		if !claimed {
			status, err := s.GetStatus(ctx, req.OrderID)
			if err != nil {
				return nil, err
			}
			s.logger.Info("Duplicate payment event ignored",
				zap.String("event_id", req.EventID),
				zap.String("order_id", req.OrderID.String()),
			)
			return &PaymentWebhookResult{Order: *status, Duplicate: true}, nil
		}
	}

	order, err := s.transition(ctx, req.OrderID, func(_ uow.Repositories, o *trade.Order) (bool, error) {
		return o.ConfirmPayment()
	})
	if err != nil {
		if s.idempotency != nil {
			// Let the provider's retry through.
			if rerr := s.idempotency.Release(ctx, key); rerr != nil {
				s.logger.Warn("Failed to release payment event key", zap.String("event_id", req.EventID), zap.Error(rerr))
			}
		}
		return nil, err
	}
	return &PaymentWebhookResult{Order: ToOrderStatusResponse(order, s.clock.Now())}, nil
}

// CancelIfPaymentExpired cancels an order that is still awaiting payment past
// its deadline. It reports false when the order was paid or cancelled in the
// meantime.
func (s *OrderService) CancelIfPaymentExpired(ctx context.Context, id uuid.UUID, reason string) (bool, error) {
	var cancelled bool
	_, err := s.transition(ctx, id, func(repos uow.Repositories, o *trade.Order) (bool, error) {
		if !o.IsPaymentExpired(s.clock.Now()) {
			return false, nil
		}
		if err := o.Cancel(reason); err != nil {
			return false, err
		}
		cancelled = true
		return true, s.releaseStock(ctx, repos, o, nil)
	})
	return cancelled, err
}

// transition loads the order, applies mutate and saves it with the version
// it was loaded at, so two concurrent transitions cannot both win.
func (s *OrderService) transition(
	ctx context.Context,
	id uuid.UUID,
	mutate func(repos uow.Repositories, o *trade.Order) (bool, error),
) (*trade.Order, error) {
	var order *trade.Order
	var changed bool

	err := s.scope.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		order, err = repos.Orders().FindByID(ctx, id)
		if err != nil {
			return err
		}
		changed, err = mutate(repos, order)
		if err != nil || !changed {
			return err
		}
		return repos.Orders().SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.logger.Info("Order status changed",
			zap.String("order_id", order.ID.String()),
			zap.String("order_number", order.OrderNumber),
			zap.String("status", order.Status.String()),
		)
		s.publish(ctx, order)
	}
	return order, nil
}

func (s *OrderService) releaseStock(ctx context.Context, repos uow.Repositories, o *trade.Order, actorID *uuid.UUID) error {
	orderID := o.ID
	for _, item := range o.Items {
		_, err := s.stock.Record(ctx, repos, inventoryapp.RecordMovementInput{
			ProductID:   item.ProductID,
			Direction:   inventory.DirectionImport,
			Quantity:    item.Quantity,
			Note:        "Order cancelled: " + o.OrderNumber,
			ActorID:     actorID,
			ReferenceID: &orderID,
		})
		if err != nil {
			return fmt.Errorf("release stock for product %s: %w", item.ProductID, err)
		}
	}
	return nil
}

func (s *OrderService) load(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var order *trade.Order
	err := s.scope.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		order, err = repos.Orders().FindByID(ctx, id)
		return err
	})
	return order, err
}

func (s *OrderService) publish(ctx context.Context, order *trade.Order) {
	events := order.GetDomainEvents()
	order.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish order events",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}
}
