package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	promotionapp "github.com/storefront/backend/internal/application/promotion"
	"github.com/storefront/backend/internal/domain/promotion"
)

// CouponHandler handles coupon endpoints
type CouponHandler struct {
	BaseHandler
	couponService *promotionapp.CouponService
}

// NewCouponHandler creates a new CouponHandler
func NewCouponHandler(couponService *promotionapp.CouponService) *CouponHandler {
	return &CouponHandler{couponService: couponService}
}

// ApplyCouponRequest asks what a coupon takes off a subtotal
type ApplyCouponRequest struct {
	Code     string          `json:"code" binding:"required,max=50" example:"HE2024"`
	Subtotal decimal.Decimal `json:"subtotal" swaggertype:"string" example:"400000"`
}

// CreateCouponRequest is an admin request to create a coupon
type CreateCouponRequest struct {
	Code          string                 `json:"code" binding:"required,max=50"`
	DiscountType  promotion.DiscountType `json:"discount_type" binding:"required,oneof=percentage fixed_amount"`
	Value         decimal.Decimal        `json:"value" swaggertype:"string"`
	MaxDiscount   *decimal.Decimal       `json:"max_discount" swaggertype:"string"`
	MinOrderValue decimal.Decimal        `json:"min_order_value" swaggertype:"string"`
	MaxUsage      int                    `json:"max_usage" binding:"required,min=1"`
	StartsAt      time.Time              `json:"starts_at" binding:"required"`
	EndsAt        time.Time              `json:"ends_at" binding:"required"`
}

// Apply godoc
// @Summary      Preview a coupon
// @Description  Checks the coupon against the subtotal and returns the discount. No use is consumed; checkout reserves it.
// @Tags         coupons
// @Accept       json
// @Produce      json
// @Param        request body ApplyCouponRequest true "Coupon and subtotal"
// @Success      200 {object} dto.Response{data=promotionapp.CouponQuote}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /coupons/apply [post]
func (h *CouponHandler) Apply(c *gin.Context) {
	var req ApplyCouponRequest
	if !h.bindJSON(c, &req) {
		return
	}

	quote, err := h.couponService.Preview(c.Request.Context(), req.Code, req.Subtotal)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// Create godoc
// @Summary      Create a coupon
// @Tags         coupons
// @Accept       json
// @Produce      json
// @Param        request body CreateCouponRequest true "Coupon"
// @Success      201 {object} dto.Response{data=promotionapp.CouponResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /coupons [post]
func (h *CouponHandler) Create(c *gin.Context) {
	var req CreateCouponRequest
	if !h.bindJSON(c, &req) {
		return
	}

	coupon, err := h.couponService.Create(c.Request.Context(), promotionapp.CreateCouponRequest{
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
		h.HandleError(c, err)
		return
	}
	h.Created(c, coupon)
}

// GetByID godoc
// @Summary      Get a coupon
// @Tags         coupons
// @Produce      json
// @Param        id path string true "Coupon ID" format(uuid)
// @Success      200 {object} dto.Response{data=promotionapp.CouponResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /coupons/{id} [get]
func (h *CouponHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	coupon, err := h.couponService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, coupon)
}
