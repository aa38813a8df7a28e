package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/trade"
)

// OrderItemInput is one cart line. Prices are never taken from the client.
type OrderItemInput struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// ShippingInput is the delivery address of an order
type ShippingInput struct {
	RecipientName string `json:"recipient_name" binding:"required,max=100"`
	Phone         string `json:"phone" binding:"required,max=20"`
	Address       string `json:"address" binding:"required,max=500"`
	Note          string `json:"note" binding:"max=500"`
}

// PlaceOrderRequest represents a checkout request
type PlaceOrderRequest struct {
	CustomerID    *uuid.UUID          `json:"customer_id"`
	Items         []OrderItemInput    `json:"items" binding:"required,min=1,dive"`
	CouponCode    *string             `json:"coupon_code" binding:"omitempty,max=50"`
	Shipping      ShippingInput       `json:"shipping" binding:"required"`
	PaymentMethod trade.PaymentMethod `json:"payment_method" binding:"required,payment_method"`
}

// PlaceOrderResult is the outcome of a checkout. Replayed is true when an
// earlier request with the same idempotency key already created the order.
type PlaceOrderResult struct {
	Order    OrderResponse
	Replayed bool
}

// CancelOrderRequest represents a request to cancel an order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// PaymentWebhookRequest is a payment confirmation sent by the payment provider
type PaymentWebhookRequest struct {
	EventID string    `json:"event_id" binding:"required,max=100"`
	OrderID uuid.UUID `json:"order_id" binding:"required"`
}

// PaymentWebhookResult reports whether the event was already handled
type PaymentWebhookResult struct {
	Order     OrderStatusResponse `json:"order"`
	Duplicate bool                `json:"duplicate"`
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// ShippingResponse represents shipping info in API responses
type ShippingResponse struct {
	RecipientName string `json:"recipient_name"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	Note          string `json:"note,omitempty"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"order_number"`
	CustomerID      *uuid.UUID          `json:"customer_id,omitempty"`
	Status          trade.OrderStatus   `json:"status"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	DiscountAmount  decimal.Decimal     `json:"discount_amount"`
	FinalAmount     decimal.Decimal     `json:"final_amount"`
	CouponCode      *string             `json:"coupon_code,omitempty"`
	PaymentMethod   trade.PaymentMethod `json:"payment_method"`
	Shipping        ShippingResponse    `json:"shipping"`
	PaymentDeadline *time.Time          `json:"payment_deadline,omitempty"`
	PaidAt          *time.Time          `json:"paid_at,omitempty"`
	ShippedAt       *time.Time          `json:"shipped_at,omitempty"`
	CompletedAt     *time.Time          `json:"completed_at,omitempty"`
	CancelledAt     *time.Time          `json:"cancelled_at,omitempty"`
	CancelReason    string              `json:"cancel_reason,omitempty"`
	Items           []OrderItemResponse `json:"items"`
	Version         int                 `json:"version"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// OrderStatusResponse is the polling view of an order
type OrderStatusResponse struct {
	ID              uuid.UUID         `json:"id"`
	Status          trade.OrderStatus `json:"status"`
	Expired         bool              `json:"expired"`
	PaymentDeadline *time.Time        `json:"payment_deadline,omitempty"`
	Version         int               `json:"version"`
}

// ToOrderResponse converts a domain order to a response
func ToOrderResponse(o *trade.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal,
		})
	}
	return OrderResponse{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		CustomerID:     o.CustomerID,
		Status:         o.Status,
		Subtotal:       o.Subtotal,
		DiscountAmount: o.DiscountAmount,
		FinalAmount:    o.FinalAmount,
		CouponCode:     o.CouponCode,
		PaymentMethod:  o.PaymentMethod,
		Shipping: ShippingResponse{
			RecipientName: o.Shipping.RecipientName,
			Phone:         o.Shipping.Phone,
			Address:       o.Shipping.Address,
			Note:          o.Shipping.Note,
		},
		PaymentDeadline: o.PaymentDeadline,
		PaidAt:          o.PaidAt,
		ShippedAt:       o.ShippedAt,
		CompletedAt:     o.CompletedAt,
		CancelledAt:     o.CancelledAt,
		CancelReason:    o.CancelReason,
		Items:           items,
		Version:         o.Version,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// ToOrderStatusResponse converts a domain order to its polling view
func ToOrderStatusResponse(o *trade.Order, now time.Time) OrderStatusResponse {
	return OrderStatusResponse{
		ID:              o.ID,
		Status:          o.Status,
		Expired:         o.IsPaymentExpired(now),
		PaymentDeadline: o.PaymentDeadline,
		Version:         o.Version,
	}
}
