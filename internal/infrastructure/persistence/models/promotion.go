package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/promotion"
)

// CouponModel is the persistence model for the Coupon aggregate root.
type CouponModel struct {
	AggregateModel
	Code          string                 `gorm:"type:varchar(50);not null;uniqueIndex"`
	DiscountType  promotion.DiscountType `gorm:"type:varchar(20);not null"`
	Value         decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	MaxDiscount   *decimal.Decimal       `gorm:"type:decimal(18,2)"`
	MinOrderValue decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	MaxUsage      int                    `gorm:"not null"`
	UsageCount    int                    `gorm:"not null;default:0"`
	StartsAt      time.Time              `gorm:"not null"`
	EndsAt        time.Time              `gorm:"not null"`
	IsActive      bool                   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CouponModel) TableName() string {
	return "coupons"
}

// ToDomain converts the persistence model to a domain Coupon.
func (m *CouponModel) ToDomain() *promotion.Coupon {
	return &promotion.Coupon{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Code:              m.Code,
		DiscountType:      m.DiscountType,
		Value:             m.Value,
		MaxDiscount:       m.MaxDiscount,
		MinOrderValue:     m.MinOrderValue,
		MaxUsage:          m.MaxUsage,
		UsageCount:        m.UsageCount,
		StartsAt:          m.StartsAt,
		EndsAt:            m.EndsAt,
		IsActive:          m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Coupon.
func (m *CouponModel) FromDomain(c *promotion.Coupon) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Code = c.Code
	m.DiscountType = c.DiscountType
	m.Value = c.Value
	m.MaxDiscount = c.MaxDiscount
	m.MinOrderValue = c.MinOrderValue
	m.MaxUsage = c.MaxUsage
	m.UsageCount = c.UsageCount
	m.StartsAt = c.StartsAt
	m.EndsAt = c.EndsAt
	m.IsActive = c.IsActive
}

// CouponModelFromDomain creates a new persistence model from a domain Coupon.
func CouponModelFromDomain(c *promotion.Coupon) *CouponModel {
	m := &CouponModel{}
	m.FromDomain(c)
	return m
}
