package trade

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// AggregateTypeOrder is the aggregate type of order events
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderPlaced           = "OrderPlaced"
	EventTypeOrderPaymentConfirmed = "OrderPaymentConfirmed"
	EventTypeOrderShipped          = "OrderShipped"
	EventTypeOrderCompleted        = "OrderCompleted"
	EventTypeOrderCancelled        = "OrderCancelled"
)

// OrderPlacedEvent is published when checkout commits an order
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID       `json:"order_id"`
	OrderNumber    string          `json:"order_number"`
	Status         OrderStatus     `json:"status"`
	PaymentMethod  PaymentMethod   `json:"payment_method"`
	FinalAmount    decimal.Decimal `json:"final_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	CouponCode     *string         `json:"coupon_code,omitempty"`
	ItemCount      int             `json:"item_count"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		Status:          o.Status,
		PaymentMethod:   o.PaymentMethod,
		FinalAmount:     o.FinalAmount,
		DiscountAmount:  o.DiscountAmount,
		CouponCode:      o.CouponCode,
		ItemCount:       len(o.Items),
	}
}

// OrderStatusChangedEvent is published for every transition after creation
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID   `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	From        OrderStatus `json:"from"`
	To          OrderStatus `json:"to"`
	Reason      string      `json:"reason,omitempty"`
}

// NewOrderStatusChangedEvent creates a transition event of the given type
func NewOrderStatusChangedEvent(eventType string, o *Order, from OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		From:            from,
		To:              o.Status,
		Reason:          o.CancelReason,
	}
}
