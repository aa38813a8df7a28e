package trade

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	inventoryapp "github.com/storefront/backend/internal/application/inventory"
	promotionapp "github.com/storefront/backend/internal/application/promotion"
	"github.com/storefront/backend/internal/application/uow"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/promotion"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// ErrCheckoutInProgress is returned when a request reuses the idempotency
// key of a checkout that has not finished yet.
var ErrCheckoutInProgress = shared.NewDomainError("CHECKOUT_IN_PROGRESS", "A checkout with this idempotency key is still in progress")

// ErrIdempotencyKeyReused is returned when a key comes back with a different
// cart, address or payment method than the request that first used it.
var ErrIdempotencyKeyReused = shared.NewDomainError("IDEMPOTENCY_KEY_REUSED", "Idempotency key was already used for a different request")

const (
	idempotencyPending = "pending"
	guestScope         = "guest"
)

// CouponReserver validates a coupon and takes one use inside a caller-owned
// unit of work
type CouponReserver interface {
	Reserve(ctx context.Context, repos uow.Repositories, code string, subtotal decimal.Decimal) (*promotionapp.AppliedCoupon, error)
}

// CheckoutConfig holds checkout settings
type CheckoutConfig struct {
	PaymentWindow  time.Duration
	IdempotencyTTL time.Duration
}

// DefaultCheckoutConfig returns the default checkout configuration
func DefaultCheckoutConfig() CheckoutConfig {
	return CheckoutConfig{
		PaymentWindow:  15 * time.Minute,
		IdempotencyTTL: shared.DefaultIdempotencyConfig().TTL,
	}
}

// CheckoutService turns a cart into an order. Pricing, the coupon
// reservation, the stock exports and the order insert share one transaction:
// the first failure rolls all of them back.
type CheckoutService struct {
	scope          uow.TransactionScope
	coupons        CouponReserver
	stock          StockRecorder
	clock          shared.Clock
	config         CheckoutConfig
	idempotency    shared.IdempotencyStore
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	scope uow.TransactionScope,
	coupons CouponReserver,
	stock StockRecorder,
	clock shared.Clock,
	config CheckoutConfig,
	logger *zap.Logger,
) *CheckoutService {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.PaymentWindow <= 0 {
		config.PaymentWindow = DefaultCheckoutConfig().PaymentWindow
	}
	if config.IdempotencyTTL <= 0 {
		config.IdempotencyTTL = DefaultCheckoutConfig().IdempotencyTTL
	}
	return &CheckoutService{
		scope:   scope,
		coupons: coupons,
		stock:   stock,
		clock:   clock,
		config:  config,
		logger:  logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *CheckoutService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetIdempotencyStore enables Idempotency-Key handling
func (s *CheckoutService) SetIdempotencyStore(store shared.IdempotencyStore) {
	s.idempotency = store
}

// PlaceOrder places an order. When idempotencyKey is set and an earlier
// request of the same customer with the same key and the same body
// succeeded, that order is returned instead of placing a new one. Keys are
// scoped per customer; guests share one scope.
func (s *CheckoutService) PlaceOrder(ctx context.Context, req PlaceOrderRequest, idempotencyKey string) (*PlaceOrderResult, error) {
	if err := validatePlaceOrder(req); err != nil {
		return nil, err
	}

	key := ""
	fingerprint := ""
	if idempotencyKey != "" && s.idempotency != nil {
		key = idempotencyStoreKey(req.CustomerID, idempotencyKey)
		fingerprint = requestFingerprint(req)
		claimed, existing, err := s.idempotency.Reserve(ctx, key, idempotencyValue(idempotencyPending, fingerprint), s.config.IdempotencyTTL)
		switch {
		case err != nil:
			// The store being down must not block sales.
			s.logger.Warn("Idempotency store unavailable, placing order without key",
				zap.String("idempotency_key", idempotencyKey),
				zap.Error(err),
			)
			key = ""
		case !claimed:
			return s.replay(ctx, existing, fingerprint)
		}
	}

	order, err := s.placeOrder(ctx, req)
	if key != "" {
		s.settleKey(ctx, key, fingerprint, order, err)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("status", order.Status.String()),
		zap.String("final_amount", order.FinalAmount.StringFixed(2)),
	)
	s.publish(ctx, order)
	return &PlaceOrderResult{Order: ToOrderResponse(order)}, nil
}

func (s *CheckoutService) placeOrder(ctx context.Context, req PlaceOrderRequest) (*trade.Order, error) {
	lines := mergeLines(req.Items)
	var order *trade.Order

	err := s.scope.Execute(ctx, func(repos uow.Repositories) error {
		// 1. price the cart from current product data
		items, subtotal, err := s.priceLines(ctx, repos, lines)
		if err != nil {
			return err
		}

		// 2. coupon
		discount := decimal.Zero
		var couponCode *string
		if req.CouponCode != nil && *req.CouponCode != "" {
			applied, err := s.coupons.Reserve(ctx, repos, *req.CouponCode, subtotal)
			if err != nil {
				return err
			}
			discount = applied.DiscountAmount
			code := applied.Code
			couponCode = &code
		}

		order, err = trade.NewOrder(trade.NewOrderParams{
			CustomerID: req.CustomerID,
			Items:      items,
			Shipping: trade.ShippingInfo{
				RecipientName: req.Shipping.RecipientName,
				Phone:         req.Shipping.Phone,
				Address:       req.Shipping.Address,
				Note:          req.Shipping.Note,
			},
			PaymentMethod: req.PaymentMethod,
			CouponCode:    couponCode,
			Discount:      discount,
			PaymentWindow: s.config.PaymentWindow,
		}, s.clock.Now())
		if err != nil {
			return err
		}

		// 3. stock, all lines or nothing
		for _, line := range lines {
			_, err := s.stock.Record(ctx, repos, inventoryapp.RecordMovementInput{
				ProductID:   line.ProductID,
				Direction:   inventory.DirectionExport,
				Quantity:    line.Quantity,
				Note:        "Order " + order.OrderNumber,
				ActorID:     req.CustomerID,
				ReferenceID: &order.ID,
			})
			if err != nil {
				return err
			}
		}

		// 4. order and item snapshots
		return repos.Orders().Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// priceLines snapshots name and effective price of every line.
func (s *CheckoutService) priceLines(ctx context.Context, repos uow.Repositories, lines []OrderItemInput) ([]trade.OrderItem, decimal.Decimal, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	products, err := repos.Products().FindByIDs(ctx, ids)
	if err != nil {
		return nil, decimal.Zero, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	items := make([]trade.OrderItem, 0, len(lines))
	subtotal := decimal.Zero
	for _, line := range lines {
		product, ok := byID[line.ProductID]
		if !ok {
			return nil, decimal.Zero, shared.ErrNotFound.WithDetails(map[string]any{
				"resource": "product",
				"id":       line.ProductID.String(),
			})
		}
		if !product.IsPurchasable() {
			return nil, decimal.Zero, shared.NewValidationError("Product %q is not available for sale", product.Name).
				WithDetails(map[string]any{"product_id": product.ID.String()})
		}
		item, err := trade.NewOrderItem(product.ID, product.Name, product.EffectivePrice(), line.Quantity)
		if err != nil {
			return nil, decimal.Zero, err
		}
		items = append(items, *item)
		subtotal = subtotal.Add(item.LineTotal)
	}
	return items, subtotal, nil
}

func (s *CheckoutService) replay(ctx context.Context, existing, fingerprint string) (*PlaceOrderResult, error) {
	state, stored, _ := strings.Cut(existing, ":")
	if stored != fingerprint {
		return nil, ErrIdempotencyKeyReused
	}
	if state == idempotencyPending {
		return nil, ErrCheckoutInProgress
	}
	orderID, err := uuid.Parse(state)
	if err != nil {
		return nil, fmt.Errorf("corrupt idempotency record %q: %w", existing, err)
	}
	var order *trade.Order
	err = s.scope.Execute(ctx, func(repos uow.Repositories) error {
		order, err = repos.Orders().FindByID(ctx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &PlaceOrderResult{Order: ToOrderResponse(order), Replayed: true}, nil
}

// settleKey records the created order under key, or frees the key when the
// checkout failed so the client can retry with it.
func (s *CheckoutService) settleKey(ctx context.Context, key, fingerprint string, order *trade.Order, placeErr error) {
	var err error
	if placeErr != nil {
		err = s.idempotency.Release(ctx, key)
	} else {
		err = s.idempotency.Set(ctx, key, idempotencyValue(order.ID.String(), fingerprint), s.config.IdempotencyTTL)
	}
	if err != nil {
		s.logger.Warn("Failed to settle idempotency key", zap.String("key", key), zap.Error(err))
	}
}

func (s *CheckoutService) publish(ctx context.Context, order *trade.Order) {
	events := order.GetDomainEvents()
	order.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish order events",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}
}

func idempotencyStoreKey(customerID *uuid.UUID, key string) string {
	scope := guestScope
	if customerID != nil {
		scope = "customer:" + customerID.String()
	}
	return "checkout:" + scope + ":" + key
}

// idempotencyValue is "<pending|order id>:<request fingerprint>"
func idempotencyValue(state, fingerprint string) string {
	return state + ":" + fingerprint
}

// requestFingerprint hashes everything that decides what the order becomes.
// Lines are merged and sorted first, so reordering a cart is not a new request.
func requestFingerprint(req PlaceOrderRequest) string {
	coupon := ""
	if req.CouponCode != nil {
		coupon = promotion.NormalizeCode(*req.CouponCode)
	}
	payload, _ := json.Marshal(struct {
		CustomerID    *uuid.UUID          `json:"customer_id"`
		Items         []OrderItemInput    `json:"items"`
		CouponCode    string              `json:"coupon_code"`
		Shipping      ShippingInput       `json:"shipping"`
		PaymentMethod trade.PaymentMethod `json:"payment_method"`
	}{req.CustomerID, mergeLines(req.Items), coupon, req.Shipping, req.PaymentMethod})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func validatePlaceOrder(req PlaceOrderRequest) error {
	if len(req.Items) == 0 {
		return shared.NewValidationError("Order must contain at least one item")
	}
	for _, item := range req.Items {
		if item.ProductID == uuid.Nil {
			return shared.NewValidationError("Product ID is required")
		}
		if item.Quantity <= 0 {
			return shared.NewValidationError("Quantity must be positive")
		}
	}
	if !req.PaymentMethod.IsValid() {
		return shared.NewValidationError("Unsupported payment method %q", req.PaymentMethod)
	}
	shipping := trade.ShippingInfo{
		RecipientName: req.Shipping.RecipientName,
		Phone:         req.Shipping.Phone,
		Address:       req.Shipping.Address,
	}
	return shipping.Validate()
}

// mergeLines folds repeated products into one line and sorts lines by
// product id, so concurrent checkouts lock product rows in the same order.
func mergeLines(items []OrderItemInput) []OrderItemInput {
	index := make(map[uuid.UUID]int, len(items))
	lines := make([]OrderItemInput, 0, len(items))
	for _, item := range items {
		if i, ok := index[item.ProductID]; ok {
			lines[i].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(lines)
		lines = append(lines, item)
	}
	sort.Slice(lines, func(i, j int) bool {
		return bytes.Compare(lines[i].ProductID[:], lines[j].ProductID[:]) < 0
	})
	return lines
}
