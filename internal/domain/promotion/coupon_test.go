package promotion

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	windowStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	windowEnd   = time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)
	midWindow   = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newHE2024(t *testing.T) *Coupon {
	t.Helper()
	maxDiscount := dec("50000")
	c, err := NewCoupon(CouponParams{
		Code:          "he2024",
		DiscountType:  DiscountTypePercentage,
		Value:         dec("15"),
		MaxDiscount:   &maxDiscount,
		MinOrderValue: dec("200000"),
		MaxUsage:      1000,
		StartsAt:      windowStart,
		EndsAt:        windowEnd,
	})
	require.NoError(t, err)
	c.UsageCount = 245
	return c
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "HE2024", NormalizeCode("  he2024 "))
	assert.Equal(t, "WELCOME50K", NormalizeCode("Welcome50k"))
	assert.Equal(t, "", NormalizeCode("   "))
}

func TestNewCoupon(t *testing.T) {
	base := CouponParams{
		Code:          "SAVE",
		DiscountType:  DiscountTypeFixedAmount,
		Value:         dec("10000"),
		MinOrderValue: decimal.Zero,
		MaxUsage:      10,
		StartsAt:      windowStart,
		EndsAt:        windowEnd,
	}

	t.Run("valid coupon is active with no usage", func(t *testing.T) {
		c, err := NewCoupon(base)
		require.NoError(t, err)
		assert.True(t, c.IsActive)
		assert.Zero(t, c.UsageCount)
		assert.Equal(t, 10, c.Remaining())
	})

	capValue := dec("5")
	tests := []struct {
		name   string
		modify func(p *CouponParams)
	}{
		{"empty code", func(p *CouponParams) { p.Code = " " }},
		{"unknown type", func(p *CouponParams) { p.DiscountType = "bogo" }},
		{"zero value", func(p *CouponParams) { p.Value = decimal.Zero }},
		{"percentage over 100", func(p *CouponParams) { p.DiscountType = DiscountTypePercentage; p.Value = dec("101") }},
		{"cap on fixed coupon", func(p *CouponParams) { p.MaxDiscount = &capValue }},
		{"zero max usage", func(p *CouponParams) { p.MaxUsage = 0 }},
		{"negative minimum", func(p *CouponParams) { p.MinOrderValue = dec("-1") }},
		{"inverted window", func(p *CouponParams) { p.EndsAt = p.StartsAt }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.modify(&p)
			_, err := NewCoupon(p)
			require.Error(t, err)
			var de *shared.DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, shared.CodeValidation, de.Code)
		})
	}
}

func TestCoupon_CheckApplicable(t *testing.T) {
	t.Run("HE2024 applies to 400000", func(t *testing.T) {
		c := newHE2024(t)
		require.NoError(t, c.CheckApplicable(midWindow, dec("400000")))
	})

	t.Run("WELCOME50K at ceiling is exhausted regardless of subtotal", func(t *testing.T) {
		c, err := NewCoupon(CouponParams{
			Code:          "WELCOME50K",
			DiscountType:  DiscountTypeFixedAmount,
			Value:         dec("50000"),
			MinOrderValue: decimal.Zero,
			MaxUsage:      500,
			StartsAt:      windowStart,
			EndsAt:        windowEnd,
		})
		require.NoError(t, err)
		c.UsageCount = 500

		for _, subtotal := range []string{"1", "100000", "99999999"} {
			assert.ErrorIs(t, c.CheckApplicable(midWindow, dec(subtotal)), ErrCouponExhausted)
		}
	})

	tests := []struct {
		name    string
		prepare func(c *Coupon)
		now     time.Time
		total   string
		want    error
	}{
		{"inactive", func(c *Coupon) { c.IsActive = false }, midWindow, "400000", ErrCouponInactive},
		{"not started", func(c *Coupon) {}, windowStart.Add(-time.Second), "400000", ErrCouponNotStarted},
		{"expired", func(c *Coupon) {}, windowEnd.Add(time.Second), "400000", ErrCouponExpired},
		{"below minimum", func(c *Coupon) {}, midWindow, "199999.99", ErrOrderBelowMinimum},
		{"inactive wins over exhausted", func(c *Coupon) { c.IsActive = false; c.UsageCount = c.MaxUsage }, midWindow, "400000", ErrCouponInactive},
		{"exhausted wins over minimum", func(c *Coupon) { c.UsageCount = c.MaxUsage }, midWindow, "1", ErrCouponExhausted},
		{"boundary start is valid", func(c *Coupon) {}, windowStart, "200000", nil},
		{"boundary end is valid", func(c *Coupon) {}, windowEnd, "200000", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newHE2024(t)
			tt.prepare(c)
			err := c.CheckApplicable(tt.now, dec(tt.total))
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCoupon_Discount(t *testing.T) {
	t.Run("HE2024 is capped at 50000", func(t *testing.T) {
		c := newHE2024(t)
		discount := c.Discount(dec("400000"))
		assert.Equal(t, "50000.00", discount.StringFixed(2))
		assert.Equal(t, "350000.00", dec("400000").Sub(discount).StringFixed(2))
	})

	t.Run("percentage below the cap", func(t *testing.T) {
		c := newHE2024(t)
		assert.Equal(t, "30000.00", c.Discount(dec("200000")).StringFixed(2))
	})

	t.Run("percentage without cap", func(t *testing.T) {
		c := newHE2024(t)
		c.MaxDiscount = nil
		assert.Equal(t, "60000.00", c.Discount(dec("400000")).StringFixed(2))
	})

	t.Run("fixed amount never exceeds subtotal", func(t *testing.T) {
		c := &Coupon{DiscountType: DiscountTypeFixedAmount, Value: dec("50000")}
		assert.Equal(t, "30000.00", c.Discount(dec("30000")).StringFixed(2))
		assert.Equal(t, "50000.00", c.Discount(dec("80000")).StringFixed(2))
	})

	t.Run("zero subtotal yields zero", func(t *testing.T) {
		c := newHE2024(t)
		assert.True(t, c.Discount(decimal.Zero).IsZero())
	})
}
