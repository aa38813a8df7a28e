package promotion

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/promotion"
)

// AppliedCoupon is the result of a successful coupon reservation
type AppliedCoupon struct {
	CouponID       uuid.UUID       `json:"coupon_id"`
	Code           string          `json:"code"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

// CouponQuote is what a coupon would take off a subtotal, without reserving it
type CouponQuote struct {
	CouponID       uuid.UUID       `json:"coupon_id"`
	Code           string          `json:"code"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	FinalAmount    decimal.Decimal `json:"final_amount"`
	Remaining      int             `json:"remaining_uses"`
}

// CreateCouponRequest is an admin request to create a coupon
type CreateCouponRequest struct {
	Code          string
	DiscountType  promotion.DiscountType
	Value         decimal.Decimal
	MaxDiscount   *decimal.Decimal
	MinOrderValue decimal.Decimal
	MaxUsage      int
	StartsAt      time.Time
	EndsAt        time.Time
}

// CouponResponse is a coupon as returned to clients
type CouponResponse struct {
	ID            uuid.UUID              `json:"id"`
	Code          string                 `json:"code"`
	DiscountType  promotion.DiscountType `json:"discount_type"`
	Value         decimal.Decimal        `json:"value"`
	MaxDiscount   *decimal.Decimal       `json:"max_discount,omitempty"`
	MinOrderValue decimal.Decimal        `json:"min_order_value"`
	MaxUsage      int                    `json:"max_usage"`
	UsageCount    int                    `json:"usage_count"`
	StartsAt      time.Time              `json:"starts_at"`
	EndsAt        time.Time              `json:"ends_at"`
	IsActive      bool                   `json:"is_active"`
}

// ToCouponResponse converts a domain coupon
func ToCouponResponse(c *promotion.Coupon) CouponResponse {
	return CouponResponse{
		ID:            c.ID,
		Code:          c.Code,
		DiscountType:  c.DiscountType,
		Value:         c.Value,
		MaxDiscount:   c.MaxDiscount,
		MinOrderValue: c.MinOrderValue,
		MaxUsage:      c.MaxUsage,
		UsageCount:    c.UsageCount,
		StartsAt:      c.StartsAt,
		EndsAt:        c.EndsAt,
		IsActive:      c.IsActive,
	}
}
