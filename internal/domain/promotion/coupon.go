// Package promotion holds coupons and the rules for applying them to an order.
package promotion

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DiscountType is how a coupon's value is interpreted
type DiscountType string

const (
	DiscountTypePercentage  DiscountType = "percentage"
	DiscountTypeFixedAmount DiscountType = "fixed_amount"
)

// IsValid checks if the discount type is a known value
func (t DiscountType) IsValid() bool {
	return t == DiscountTypePercentage || t == DiscountTypeFixedAmount
}

// Coupon errors
var (
	ErrCouponNotFound    = shared.NewDomainError("COUPON_NOT_FOUND", "Coupon not found")
	ErrCouponInactive    = shared.NewDomainError("COUPON_INACTIVE", "Coupon is not active")
	ErrCouponNotStarted  = shared.NewDomainError("COUPON_NOT_STARTED", "Coupon is not valid yet")
	ErrCouponExpired     = shared.NewDomainError("COUPON_EXPIRED", "Coupon has expired")
	ErrCouponExhausted   = shared.NewDomainError("COUPON_EXHAUSTED", "Coupon usage limit reached")
	ErrOrderBelowMinimum = shared.NewDomainError("ORDER_BELOW_MINIMUM", "Order total is below the coupon minimum")
)

var hundred = decimal.NewFromInt(100)

// Coupon is a discount code with a usage ceiling and a validity window.
type Coupon struct {
	shared.BaseAggregateRoot
	Code          string
	DiscountType  DiscountType
	Value         decimal.Decimal
	MaxDiscount   *decimal.Decimal
	MinOrderValue decimal.Decimal
	MaxUsage      int
	UsageCount    int
	StartsAt      time.Time
	EndsAt        time.Time
	IsActive      bool
}

// NormalizeCode trims and upper-cases a coupon code for lookup and storage.
func NormalizeCode(code string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(code))
}

// CouponParams holds the fields of a new coupon
type CouponParams struct {
	Code          string
	DiscountType  DiscountType
	Value         decimal.Decimal
	MaxDiscount   *decimal.Decimal
	MinOrderValue decimal.Decimal
	MaxUsage      int
	StartsAt      time.Time
	EndsAt        time.Time
}

// NewCoupon validates params and creates an active coupon with no usage.
func NewCoupon(p CouponParams) (*Coupon, error) {
	code := NormalizeCode(p.Code)
	if code == "" {
		return nil, shared.NewValidationError("Coupon code cannot be empty")
	}
	if !p.DiscountType.IsValid() {
		return nil, shared.NewValidationError("Unknown discount type %q", p.DiscountType)
	}
	if !p.Value.IsPositive() {
		return nil, shared.NewValidationError("Coupon value must be positive")
	}
	if p.DiscountType == DiscountTypePercentage && p.Value.GreaterThan(hundred) {
		return nil, shared.NewValidationError("Percentage coupon cannot exceed 100")
	}
	if p.MaxDiscount != nil {
		if p.DiscountType != DiscountTypePercentage {
			return nil, shared.NewValidationError("Maximum discount only applies to percentage coupons")
		}
		if !p.MaxDiscount.IsPositive() {
			return nil, shared.NewValidationError("Maximum discount must be positive")
		}
	}
	if p.MinOrderValue.IsNegative() {
		return nil, shared.NewValidationError("Minimum order value cannot be negative")
	}
	if p.MaxUsage <= 0 {
		return nil, shared.NewValidationError("Maximum usage must be positive")
	}
	if !p.EndsAt.After(p.StartsAt) {
		return nil, shared.NewValidationError("Coupon must end after it starts")
	}

	return &Coupon{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		DiscountType:      p.DiscountType,
		Value:             p.Value,
		MaxDiscount:       p.MaxDiscount,
		MinOrderValue:     p.MinOrderValue,
		MaxUsage:          p.MaxUsage,
		StartsAt:          p.StartsAt,
		EndsAt:            p.EndsAt,
		IsActive:          true,
	}, nil
}

// CheckApplicable runs the eligibility rules in order: active flag, time
// window, usage ceiling, then minimum order value.
func (c *Coupon) CheckApplicable(now time.Time, subtotal decimal.Decimal) error {
	if !c.IsActive {
		return ErrCouponInactive
	}
	if now.Before(c.StartsAt) {
		return ErrCouponNotStarted.WithDetails(map[string]any{"starts_at": c.StartsAt})
	}
	if now.After(c.EndsAt) {
		return ErrCouponExpired.WithDetails(map[string]any{"ended_at": c.EndsAt})
	}
	if c.IsExhausted() {
		return ErrCouponExhausted.WithDetails(map[string]any{"max_usage": c.MaxUsage})
	}
	if subtotal.LessThan(c.MinOrderValue) {
		return ErrOrderBelowMinimum.WithDetails(map[string]any{
			"min_order_value": c.MinOrderValue.StringFixed(2),
		})
	}
	return nil
}

// IsExhausted reports whether every use has been consumed
func (c *Coupon) IsExhausted() bool {
	return c.UsageCount >= c.MaxUsage
}

// Remaining is the number of uses left
func (c *Coupon) Remaining() int {
	if c.IsExhausted() {
		return 0
	}
	return c.MaxUsage - c.UsageCount
}

// Discount computes the discount for subtotal. It never exceeds subtotal.
func (c *Coupon) Discount(subtotal decimal.Decimal) decimal.Decimal {
	if !subtotal.IsPositive() {
		return decimal.Zero
	}
	var d decimal.Decimal
	switch c.DiscountType {
	case DiscountTypePercentage:
		d = subtotal.Mul(c.Value).Div(hundred)
		if c.MaxDiscount != nil {
			d = decimal.Min(d, *c.MaxDiscount)
		}
	case DiscountTypeFixedAmount:
		d = c.Value
	}
	return decimal.Min(d, subtotal).Round(2)
}

// Deactivate turns the coupon off
func (c *Coupon) Deactivate() {
	c.IsActive = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

