package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/trade"
)

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	AggregateModel
	OrderNumber       string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID        *uuid.UUID          `gorm:"type:uuid;index"`
	Status            trade.OrderStatus   `gorm:"type:varchar(20);not null;index:idx_orders_status_deadline,priority:1"`
	Subtotal          decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountAmount    decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	FinalAmount       decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	CouponCode        *string             `gorm:"type:varchar(50)"`
	PaymentMethod     trade.PaymentMethod `gorm:"type:varchar(20);not null"`
	RecipientName     string              `gorm:"type:varchar(100);not null"`
	Phone             string              `gorm:"type:varchar(20);not null"`
	ShippingAddress   string              `gorm:"type:varchar(500);not null"`
	ShippingNote      string              `gorm:"type:varchar(500)"`
	PaymentDeadline   *time.Time          `gorm:"index:idx_orders_status_deadline,priority:2"`
	PaidAt            *time.Time
	ShippedAt         *time.Time
	CompletedAt       *time.Time
	CancelledAt       *time.Time
	CancelReason      string           `gorm:"type:varchar(500)"`
	Items             []OrderItemModel `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order.
func (m *OrderModel) ToDomain() *trade.Order {
	order := &trade.Order{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		OrderNumber:       m.OrderNumber,
		CustomerID:        m.CustomerID,
		Status:            m.Status,
		Subtotal:          m.Subtotal,
		DiscountAmount:    m.DiscountAmount,
		FinalAmount:       m.FinalAmount,
		CouponCode:        m.CouponCode,
		PaymentMethod:     m.PaymentMethod,
		Shipping: trade.ShippingInfo{
			RecipientName: m.RecipientName,
			Phone:         m.Phone,
			Address:       m.ShippingAddress,
			Note:          m.ShippingNote,
		},
		PaymentDeadline: m.PaymentDeadline,
		PaidAt:          m.PaidAt,
		ShippedAt:       m.ShippedAt,
		CompletedAt:     m.CompletedAt,
		CancelledAt:     m.CancelledAt,
		CancelReason:    m.CancelReason,
		Items:           make([]trade.OrderItem, len(m.Items)),
	}
	for i, item := range m.Items {
		order.Items[i] = *item.ToDomain()
	}
	return order
}

// FromDomain populates the persistence model from a domain Order.
func (m *OrderModel) FromDomain(o *trade.Order) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.CustomerID = o.CustomerID
	m.Status = o.Status
	m.Subtotal = o.Subtotal
	m.DiscountAmount = o.DiscountAmount
	m.FinalAmount = o.FinalAmount
	m.CouponCode = o.CouponCode
	m.PaymentMethod = o.PaymentMethod
	m.RecipientName = o.Shipping.RecipientName
	m.Phone = o.Shipping.Phone
	m.ShippingAddress = o.Shipping.Address
	m.ShippingNote = o.Shipping.Note
	m.PaymentDeadline = o.PaymentDeadline
	m.PaidAt = o.PaidAt
	m.ShippedAt = o.ShippedAt
	m.CompletedAt = o.CompletedAt
	m.CancelledAt = o.CancelledAt
	m.CancelReason = o.CancelReason
	m.Items = make([]OrderItemModel, len(o.Items))
	for i := range o.Items {
		m.Items[i] = *OrderItemModelFromDomain(&o.Items[i])
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order.
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is the persistence model for order lines. ProductID is a
// weak reference; name and price are snapshots.
type OrderItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Quantity    int             `gorm:"not null"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem.
func (m *OrderItemModel) ToDomain() *trade.OrderItem {
	return &trade.OrderItem{
		ID:          m.ID,
		OrderID:     m.OrderID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		UnitPrice:   m.UnitPrice,
		Quantity:    m.Quantity,
		LineTotal:   m.LineTotal,
	}
}

// OrderItemModelFromDomain creates a persistence model from a domain OrderItem.
func OrderItemModelFromDomain(i *trade.OrderItem) *OrderItemModel {
	return &OrderItemModel{
		ID:          i.ID,
		OrderID:     i.OrderID,
		ProductID:   i.ProductID,
		ProductName: i.ProductName,
		UnitPrice:   i.UnitPrice,
		Quantity:    i.Quantity,
		LineTotal:   i.LineTotal,
	}
}
