package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// OrderStatus represents the status of a storefront order
type OrderStatus string

const (
	OrderStatusPendingPayment OrderStatus = "pending_payment"
	OrderStatusProcessing     OrderStatus = "processing"
	OrderStatusShipping       OrderStatus = "shipping"
	OrderStatusCompleted      OrderStatus = "completed"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPendingPayment, OrderStatusProcessing, OrderStatusShipping, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no transition leaves this status
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if target == OrderStatusCancelled {
		return true
	}
	switch s {
	case OrderStatusPendingPayment:
		return target == OrderStatusProcessing
	case OrderStatusProcessing:
		return target == OrderStatusShipping
	case OrderStatusShipping:
		return target == OrderStatusCompleted
	}
	return false
}

// PaymentMethod is how the customer pays
type PaymentMethod string

const (
	PaymentMethodCOD     PaymentMethod = "cod"
	PaymentMethodBanking PaymentMethod = "banking"
	PaymentMethodWallet  PaymentMethod = "wallet"
)

// IsValid checks if the payment method is supported
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCOD, PaymentMethodBanking, PaymentMethodWallet:
		return true
	}
	return false
}

// InitialStatus is the status an order starts in for this payment method.
// Cash on delivery skips payment confirmation.
func (m PaymentMethod) InitialStatus() OrderStatus {
	if m == PaymentMethodCOD {
		return OrderStatusProcessing
	}
	return OrderStatusPendingPayment
}

// ShippingInfo is where the order is delivered
type ShippingInfo struct {
	RecipientName string
	Phone         string
	Address       string
	Note          string
}

// Validate checks the required shipping fields
func (s ShippingInfo) Validate() error {
	if strings.TrimSpace(s.RecipientName) == "" {
		return shared.NewValidationError("Recipient name is required")
	}
	if strings.TrimSpace(s.Phone) == "" {
		return shared.NewValidationError("Phone is required")
	}
	if strings.TrimSpace(s.Address) == "" {
		return shared.NewValidationError("Shipping address is required")
	}
	return nil
}

// OrderItem is a line of an order. Name and price are copied from the
// product at purchase time and never follow later product edits.
type OrderItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
	LineTotal   decimal.Decimal
}

// NewOrderItem snapshots a product line
func NewOrderItem(productID uuid.UUID, productName string, unitPrice decimal.Decimal, quantity int) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewValidationError("Product name cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewValidationError("Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewValidationError("Unit price cannot be negative")
	}
	return &OrderItem{
		ID:          uuid.New(),
		ProductID:   productID,
		ProductName: productName,
		UnitPrice:   unitPrice,
		Quantity:    quantity,
		LineTotal:   unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}, nil
}

// Order is the aggregate root for a customer order
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber     string
	CustomerID      *uuid.UUID
	Status          OrderStatus
	Subtotal        decimal.Decimal
	DiscountAmount  decimal.Decimal
	FinalAmount     decimal.Decimal
	CouponCode      *string
	PaymentMethod   PaymentMethod
	Shipping        ShippingInfo
	PaymentDeadline *time.Time
	PaidAt          *time.Time
	ShippedAt       *time.Time
	CompletedAt     *time.Time
	CancelledAt     *time.Time
	CancelReason    string
	Items           []OrderItem
}

// NewOrderParams holds everything checkout has resolved before the order exists.
type NewOrderParams struct {
	CustomerID    *uuid.UUID
	Items         []OrderItem
	Shipping      ShippingInfo
	PaymentMethod PaymentMethod
	CouponCode    *string
	Discount      decimal.Decimal
	PaymentWindow time.Duration
}

// NewOrder creates an order in the initial status for its payment method.
// Orders awaiting payment get a deadline PaymentWindow after now.
func NewOrder(p NewOrderParams, now time.Time) (*Order, error) {
	if len(p.Items) == 0 {
		return nil, shared.NewValidationError("Order must contain at least one item")
	}
	if !p.PaymentMethod.IsValid() {
		return nil, shared.NewValidationError("Unsupported payment method %q", p.PaymentMethod)
	}
	if err := p.Shipping.Validate(); err != nil {
		return nil, err
	}
	if p.Discount.IsNegative() {
		return nil, shared.NewValidationError("Discount cannot be negative")
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       NewOrderNumber(now),
		CustomerID:        p.CustomerID,
		Status:            p.PaymentMethod.InitialStatus(),
		PaymentMethod:     p.PaymentMethod,
		Shipping:          p.Shipping,
		CouponCode:        p.CouponCode,
		DiscountAmount:    p.Discount,
		Items:             make([]OrderItem, 0, len(p.Items)),
	}
	o.CreatedAt = now
	o.UpdatedAt = now

	for _, item := range p.Items {
		item.OrderID = o.ID
		o.Items = append(o.Items, item)
	}
	o.recalculateTotals()

	if o.Status == OrderStatusPendingPayment {
		deadline := now.Add(p.PaymentWindow)
		o.PaymentDeadline = &deadline
	}

	o.AddDomainEvent(NewOrderPlacedEvent(o))
	return o, nil
}

// NewOrderNumber builds a human readable order number from the date and the
// random tail of a ULID
func NewOrderNumber(now time.Time) string {
	id := ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String()
	return fmt.Sprintf("ORD-%s-%s", now.UTC().Format("20060102"), id[len(id)-10:])
}

// ConfirmPayment moves a pending order to processing. Confirming an order
// that is already processing is a no-op and reports changed=false.
func (o *Order) ConfirmPayment() (changed bool, err error) {
	if o.Status == OrderStatusProcessing {
		return false, nil
	}
	if !o.Status.CanTransitionTo(OrderStatusProcessing) {
		return false, o.invalidTransition("confirm payment for")
	}

	now := time.Now()
	o.Status = OrderStatusProcessing
	o.PaidAt = &now
	o.touch(now)

	o.AddDomainEvent(NewOrderStatusChangedEvent(EventTypeOrderPaymentConfirmed, o, OrderStatusPendingPayment))
	return true, nil
}

// Ship marks a processing order as handed to the carrier
func (o *Order) Ship() error {
	if !o.Status.CanTransitionTo(OrderStatusShipping) {
		return o.invalidTransition("ship")
	}

	now := time.Now()
	o.Status = OrderStatusShipping
	o.ShippedAt = &now
	o.touch(now)

	o.AddDomainEvent(NewOrderStatusChangedEvent(EventTypeOrderShipped, o, OrderStatusProcessing))
	return nil
}

// Complete marks a shipping order as delivered
func (o *Order) Complete() error {
	if !o.Status.CanTransitionTo(OrderStatusCompleted) {
		return o.invalidTransition("complete")
	}

	now := time.Now()
	o.Status = OrderStatusCompleted
	o.CompletedAt = &now
	o.touch(now)

	o.AddDomainEvent(NewOrderStatusChangedEvent(EventTypeOrderCompleted, o, OrderStatusShipping))
	return nil
}

// Cancel cancels a non-terminal order. Releasing the stock of its items is
// the caller's job and must happen in the same transaction.
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return o.invalidTransition("cancel")
	}
	if strings.TrimSpace(reason) == "" {
		return shared.NewValidationError("Cancel reason is required")
	}

	from := o.Status
	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.touch(now)

	o.AddDomainEvent(NewOrderStatusChangedEvent(EventTypeOrderCancelled, o, from))
	return nil
}

// IsPaymentExpired reports an order still awaiting payment past its deadline.
func (o *Order) IsPaymentExpired(now time.Time) bool {
	return o.Status == OrderStatusPendingPayment &&
		o.PaymentDeadline != nil &&
		now.After(*o.PaymentDeadline)
}

// TotalQuantity sums item quantities
func (o *Order) TotalQuantity() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

func (o *Order) touch(now time.Time) {
	o.UpdatedAt = now
	o.IncrementVersion()
}

func (o *Order) invalidTransition(action string) error {
	return shared.NewDomainError(shared.CodeInvalidState,
		fmt.Sprintf("Cannot %s order in %s status", action, o.Status)).
		WithDetails(map[string]any{"status": o.Status.String()})
}

func (o *Order) recalculateTotals() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.LineTotal)
	}
	o.Subtotal = subtotal
	o.FinalAmount = decimal.Max(decimal.Zero, subtotal.Sub(o.DiscountAmount))
}
