package promotion

import (
	"context"

	"github.com/google/uuid"
)

// CouponRepository defines the interface for coupon persistence
type CouponRepository interface {
	// FindByCode finds a coupon by its normalized code
	FindByCode(ctx context.Context, code string) (*Coupon, error)

	// FindByID finds a coupon by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Coupon, error)

	// Create inserts a new coupon
	Create(ctx context.Context, coupon *Coupon) error

	// ReserveUsage atomically increments usage_count when it is below
	// max_usage and the coupon is active. It returns ErrCouponExhausted
	// when no slot was taken.
	ReserveUsage(ctx context.Context, id uuid.UUID) error
}
