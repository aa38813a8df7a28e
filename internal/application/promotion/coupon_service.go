package promotion

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/application/uow"
	"github.com/storefront/backend/internal/domain/promotion"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// RedemptionMetrics records coupon reservation outcomes
type RedemptionMetrics interface {
	RecordCouponRedemption(ctx context.Context, code, outcome string)
}

// CouponService validates coupons and reserves their uses
type CouponService struct {
	scope   uow.TransactionScope
	clock   shared.Clock
	metrics RedemptionMetrics
	logger  *zap.Logger
}

// NewCouponService creates a new CouponService
func NewCouponService(scope uow.TransactionScope, clock shared.Clock, logger *zap.Logger) *CouponService {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CouponService{scope: scope, clock: clock, logger: logger}
}

// SetMetrics sets the metrics recorder
func (s *CouponService) SetMetrics(m RedemptionMetrics) {
	s.metrics = m
}

// Preview checks a coupon against subtotal and computes the discount without
// consuming a use.
func (s *CouponService) Preview(ctx context.Context, code string, subtotal decimal.Decimal) (*CouponQuote, error) {
	if subtotal.IsNegative() {
		return nil, shared.NewValidationError("Order total cannot be negative")
	}
	var quote *CouponQuote
	err := s.scope.Execute(ctx, func(repos uow.Repositories) error {
		coupon, err := s.load(ctx, repos, code)
		if err != nil {
			return err
		}
		if err := coupon.CheckApplicable(s.clock.Now(), subtotal); err != nil {
			return err
		}
		discount := coupon.Discount(subtotal)
		quote = &CouponQuote{
			CouponID:       coupon.ID,
			Code:           coupon.Code,
			Subtotal:       subtotal,
			DiscountAmount: discount,
			FinalAmount:    decimal.Max(decimal.Zero, subtotal.Sub(discount)),
			Remaining:      coupon.Remaining(),
		}
		return nil
	})
	return quote, err
}

// ApplyCoupon validates the coupon and reserves one use in its own
// transaction.
func (s *CouponService) ApplyCoupon(ctx context.Context, code string, subtotal decimal.Decimal) (*AppliedCoupon, error) {
	var applied *AppliedCoupon
	err := s.scope.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		applied, err = s.Reserve(ctx, repos, code, subtotal)
		return err
	})
	return applied, err
}

// Reserve validates the coupon and takes one use inside a caller-owned unit
// of work. The usage increment is a conditional update on the coupon row, so
// when the last slot is contended exactly one caller gets it and the others
// see ErrCouponExhausted.
func (s *CouponService) Reserve(ctx context.Context, repos uow.Repositories, code string, subtotal decimal.Decimal) (*AppliedCoupon, error) {
	normalized := promotion.NormalizeCode(code)
	applied, err := s.reserve(ctx, repos, normalized, subtotal)
	s.record(ctx, normalized, err)
	return applied, err
}

func (s *CouponService) reserve(ctx context.Context, repos uow.Repositories, code string, subtotal decimal.Decimal) (*AppliedCoupon, error) {
	coupon, err := s.load(ctx, repos, code)
	if err != nil {
		return nil, err
	}
	if err := coupon.CheckApplicable(s.clock.Now(), subtotal); err != nil {
		return nil, err
	}
	if err := repos.Coupons().ReserveUsage(ctx, coupon.ID); err != nil {
		return nil, err
	}
	return &AppliedCoupon{
		CouponID:       coupon.ID,
		Code:           coupon.Code,
		DiscountAmount: coupon.Discount(subtotal),
	}, nil
}

// Create creates a new coupon
func (s *CouponService) Create(ctx context.Context, req CreateCouponRequest) (*CouponResponse, error) {
	coupon, err := promotion.NewCoupon(promotion.CouponParams{
		Code:          req.Code,
		DiscountType:  req.DiscountType,
		Value:         req.Value,
		MaxDiscount:   req.MaxDiscount,
		MinOrderValue: req.MinOrderValue,
		MaxUsage:      req.MaxUsage,
		StartsAt:      req.StartsAt,
		EndsAt:        req.EndsAt,
	})
	if err != nil {
		return nil, err
	}
	err = s.scope.Execute(ctx, func(repos uow.Repositories) error {
		return repos.Coupons().Create(ctx, coupon)
	})
	if err != nil {
		return nil, err
	}
	resp := ToCouponResponse(coupon)
	return &resp, nil
}

// GetByID returns a coupon
func (s *CouponService) GetByID(ctx context.Context, id uuid.UUID) (*CouponResponse, error) {
	var resp CouponResponse
	err := s.scope.Execute(ctx, func(repos uow.Repositories) error {
		coupon, err := repos.Coupons().FindByID(ctx, id)
		if err != nil {
			return err
		}
		resp = ToCouponResponse(coupon)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *CouponService) load(ctx context.Context, repos uow.Repositories, code string) (*promotion.Coupon, error) {
	normalized := promotion.NormalizeCode(code)
	if normalized == "" {
		return nil, shared.NewValidationError("Coupon code is required")
	}
	coupon, err := repos.Coupons().FindByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, promotion.ErrCouponNotFound.WithDetails(map[string]any{"code": normalized})
		}
		return nil, err
	}
	return coupon, nil
}

func (s *CouponService) record(ctx context.Context, code string, err error) {
	outcome := "reserved"
	if err != nil {
		outcome = "rejected"
		var de *shared.DomainError
		if errors.As(err, &de) {
			outcome = de.Code
		}
		s.logger.Debug("Coupon reservation rejected", zap.String("code", code), zap.Error(err))
	}
	if s.metrics != nil {
		s.metrics.RecordCouponRedemption(ctx, code, outcome)
	}
}
