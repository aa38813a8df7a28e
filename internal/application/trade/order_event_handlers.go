package trade

import (
	"context"
	"fmt"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// OrderMetrics records order counters
type OrderMetrics interface {
	RecordOrderPlaced(ctx context.Context, paymentMethod string, amount float64, withCoupon bool)
	RecordOrderStatusChange(ctx context.Context, from, to string)
}

// OrderMetricsHandler turns order events into metrics
type OrderMetricsHandler struct {
	metrics OrderMetrics
}

// NewOrderMetricsHandler creates a new OrderMetricsHandler
func NewOrderMetricsHandler(metrics OrderMetrics) *OrderMetricsHandler {
	return &OrderMetricsHandler{metrics: metrics}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderMetricsHandler) EventTypes() []string {
	return orderEventTypes()
}

// Handle records the event
func (h *OrderMetricsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *trade.OrderPlacedEvent:
		amount, _ := e.FinalAmount.Float64()
		h.metrics.RecordOrderPlaced(ctx, string(e.PaymentMethod), amount, e.CouponCode != nil)
	case *trade.OrderStatusChangedEvent:
		h.metrics.RecordOrderStatusChange(ctx, string(e.From), string(e.To))
	default:
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
	return nil
}

// OrderAuditLogHandler writes one structured log line per order event
type OrderAuditLogHandler struct {
	logger *zap.Logger
}

// NewOrderAuditLogHandler creates a new OrderAuditLogHandler
func NewOrderAuditLogHandler(logger *zap.Logger) *OrderAuditLogHandler {
	return &OrderAuditLogHandler{logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderAuditLogHandler) EventTypes() []string {
	return orderEventTypes()
}

// Handle logs the event
func (h *OrderAuditLogHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("order_id", event.AggregateID().String()),
	}
	switch e := event.(type) {
	case *trade.OrderPlacedEvent:
		fields = append(fields,
			zap.String("order_number", e.OrderNumber),
			zap.String("status", string(e.Status)),
			zap.String("final_amount", e.FinalAmount.StringFixed(2)),
			zap.Int("item_count", e.ItemCount),
		)
	case *trade.OrderStatusChangedEvent:
		fields = append(fields,
			zap.String("order_number", e.OrderNumber),
			zap.String("from", string(e.From)),
			zap.String("to", string(e.To)),
		)
		if e.Reason != "" {
			fields = append(fields, zap.String("reason", e.Reason))
		}
	}
	h.logger.Info("order event", fields...)
	return nil
}

func orderEventTypes() []string {
	return []string{
		trade.EventTypeOrderPlaced,
		trade.EventTypeOrderPaymentConfirmed,
		trade.EventTypeOrderShipped,
		trade.EventTypeOrderCompleted,
		trade.EventTypeOrderCancelled,
	}
}
