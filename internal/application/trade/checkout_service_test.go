package trade

import (
	"context"
	"errors"
	"testing"
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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var checkoutNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type checkoutFixture struct {
	svc      *CheckoutService
	products *MockProductRepository
	orders   *MockOrderRepository
	coupons  *MockCouponReserver
	stock    *MockStockRecorder
	kettle   catalog.Product
	mug      catalog.Product
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	products := new(MockProductRepository)
	orders := new(MockOrderRepository)
	coupons := new(MockCouponReserver)
	stock := new(MockStockRecorder)

	scope := uow.NewNoOpTransactionScope(&uow.RepositorySet{
		ProductRepo: products,
		OrderRepo:   orders,
	})
	svc := NewCheckoutService(scope, coupons, stock, &shared.FixedClock{T: checkoutNow}, DefaultCheckoutConfig(), zap.NewNop())

	kettle, err := catalog.NewProduct("Kettle", decimal.NewFromInt(450000))
	require.NoError(t, err)
	mug, err := catalog.NewProduct("Mug", decimal.NewFromInt(120000))
	require.NoError(t, err)
	mug.DiscountPercent = 10

	return &checkoutFixture{
		svc:      svc,
		products: products,
		orders:   orders,
		coupons:  coupons,
		stock:    stock,
		kettle:   *kettle,
		mug:      *mug,
	}
}

func (f *checkoutFixture) request(method trade.PaymentMethod) PlaceOrderRequest {
	return PlaceOrderRequest{
		Items: []OrderItemInput{
			{ProductID: f.kettle.ID, Quantity: 1},
			{ProductID: f.mug.ID, Quantity: 2},
		},
		Shipping: ShippingInput{
			RecipientName: "Linh Tran",
			Phone:         "0901234567",
			Address:       "12 Hang Bac, Hanoi",
		},
		PaymentMethod: method,
	}
}

func (f *checkoutFixture) expectStock() {
	f.stock.On("Record", mock.Anything, mock.Anything, mock.Anything).
		Return(func(_ context.Context, _ uow.Repositories, in inventoryapp.RecordMovementInput) (*inventory.StockMovement, error) {
			return movementFor(in, 5), nil
		})
}

func TestCheckoutService_PlaceOrder(t *testing.T) {
	t.Run("banking order awaits payment", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{f.kettle, f.mug}, nil)
		f.expectStock()
		f.orders.On("Create", mock.Anything, mock.AnythingOfType("*trade.Order")).Return(nil)

		result, err := f.svc.PlaceOrder(context.Background(), f.request(trade.PaymentMethodBanking), "")
		require.NoError(t, err)

		order := result.Order
		assert.False(t, result.Replayed)
		assert.Equal(t, trade.OrderStatusPendingPayment, order.Status)
		require.NotNil(t, order.PaymentDeadline)
		assert.Equal(t, checkoutNow.Add(15*time.Minute), *order.PaymentDeadline)
		// 450000 + 2 * 108000
		assert.True(t, order.Subtotal.Equal(decimal.NewFromInt(666000)), order.Subtotal.String())
		assert.True(t, order.FinalAmount.Equal(order.Subtotal))
		assert.Len(t, order.Items, 2)
		assert.Regexp(t, `^ORD-20260314-[0-9A-Z]{10}$`, order.OrderNumber)

		f.stock.AssertNumberOfCalls(t, "Record", 2)
		f.stock.AssertCalled(t, "Record", mock.Anything, mock.Anything, mock.MatchedBy(func(in inventoryapp.RecordMovementInput) bool {
			return in.ProductID == f.mug.ID && in.Direction == inventory.DirectionExport && in.Quantity == 2 &&
				in.ReferenceID != nil && *in.ReferenceID == order.ID
		}))
		f.coupons.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cash on delivery starts processing", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{f.kettle, f.mug}, nil)
		f.expectStock()
		f.orders.On("Create", mock.Anything, mock.Anything).Return(nil)

		result, err := f.svc.PlaceOrder(context.Background(), f.request(trade.PaymentMethodCOD), "")
		require.NoError(t, err)
		assert.Equal(t, trade.OrderStatusProcessing, result.Order.Status)
		assert.Nil(t, result.Order.PaymentDeadline)
	})

	t.Run("coupon discount is applied", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{f.kettle, f.mug}, nil)
		f.coupons.On("Reserve", mock.Anything, mock.Anything, "spring10", mock.Anything).
			Return(&promotionapp.AppliedCoupon{Code: "SPRING10", DiscountAmount: decimal.NewFromInt(66600)}, nil)
		f.expectStock()
		f.orders.On("Create", mock.Anything, mock.Anything).Return(nil)

		req := f.request(trade.PaymentMethodWallet)
		code := "spring10"
		req.CouponCode = &code

		result, err := f.svc.PlaceOrder(context.Background(), req, "")
		require.NoError(t, err)
		require.NotNil(t, result.Order.CouponCode)
		assert.Equal(t, "SPRING10", *result.Order.CouponCode)
		assert.True(t, result.Order.DiscountAmount.Equal(decimal.NewFromInt(66600)))
		assert.True(t, result.Order.FinalAmount.Equal(decimal.NewFromInt(599400)), result.Order.FinalAmount.String())
	})

	t.Run("exhausted coupon stops checkout before stock moves", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{f.kettle, f.mug}, nil)
		f.coupons.On("Reserve", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, promotion.ErrCouponExhausted)

		req := f.request(trade.PaymentMethodBanking)
		code := "GONE"
		req.CouponCode = &code

		_, err := f.svc.PlaceOrder(context.Background(), req, "")
		assert.ErrorIs(t, err, promotion.ErrCouponExhausted)
		f.stock.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything)
		f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("insufficient stock aborts the order", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{f.kettle, f.mug}, nil)
		f.stock.On("Record", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, shared.NewInsufficientStockError(f.kettle.ID, 1, 0))

		_, err := f.svc.PlaceOrder(context.Background(), f.request(trade.PaymentMethodBanking), "")
		assert.True(t, shared.IsDomainErrorCode(err, shared.CodeInsufficientStock))
		f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{f.kettle}, nil)

		_, err := f.svc.PlaceOrder(context.Background(), f.request(trade.PaymentMethodBanking), "")
		assert.ErrorIs(t, err, shared.ErrNotFound)
		f.stock.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("inactive product cannot be bought", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.mug.Status = catalog.ProductStatusInactive
		f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{f.kettle, f.mug}, nil)

		_, err := f.svc.PlaceOrder(context.Background(), f.request(trade.PaymentMethodBanking), "")
		assert.True(t, shared.IsDomainErrorCode(err, shared.CodeValidation))
	})
}

func TestCheckoutService_PlaceOrder_Validation(t *testing.T) {
	f := newCheckoutFixture(t)

	tests := []struct {
		name   string
		mutate func(*PlaceOrderRequest)
	}{
		{"no items", func(r *PlaceOrderRequest) { r.Items = nil }},
		{"zero quantity", func(r *PlaceOrderRequest) { r.Items[0].Quantity = 0 }},
		{"nil product", func(r *PlaceOrderRequest) { r.Items[0].ProductID = uuid.Nil }},
		{"unknown payment method", func(r *PlaceOrderRequest) { r.PaymentMethod = "crypto" }},
		{"missing recipient", func(r *PlaceOrderRequest) { r.Shipping.RecipientName = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.request(trade.PaymentMethodBanking)
			tt.mutate(&req)
			_, err := f.svc.PlaceOrder(context.Background(), req, "")
			assert.True(t, shared.IsDomainErrorCode(err, shared.CodeValidation), "got %v", err)
		})
	}
	f.products.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
}

func TestCheckoutService_Idempotency(t *testing.T) {
	ttl := DefaultCheckoutConfig().IdempotencyTTL

	t.Run("first request claims and settles the key", func(t *testing.T) {
		f := newCheckoutFixture(t)
		store := new(MockIdempotencyStore)
		f.svc.SetIdempotencyStore(store)

		f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{f.kettle, f.mug}, nil)
		f.expectStock()
		f.orders.On("Create", mock.Anything, mock.Anything).Return(nil)
		req := f.request(trade.PaymentMethodBanking)
		fp := requestFingerprint(req)
		store.On("Reserve", mock.Anything, "checkout:guest:abc", "pending:"+fp, ttl).Return(true, "", nil)
		store.On("Set", mock.Anything, "checkout:guest:abc", mock.Anything, ttl).Return(nil)

		result, err := f.svc.PlaceOrder(context.Background(), req, "abc")
		require.NoError(t, err)
		store.AssertCalled(t, "Set", mock.Anything, "checkout:guest:abc", result.Order.ID.String()+":"+fp, ttl)
	})

	t.Run("repeated key replays the stored order", func(t *testing.T) {
		f := newCheckoutFixture(t)
		store := new(MockIdempotencyStore)
		f.svc.SetIdempotencyStore(store)

		existing, err := trade.NewOrder(trade.NewOrderParams{
			Items:         []trade.OrderItem{{ID: uuid.New(), ProductID: f.kettle.ID, ProductName: "Kettle", UnitPrice: f.kettle.Price, Quantity: 1, LineTotal: f.kettle.Price}},
			Shipping:      trade.ShippingInfo{RecipientName: "Linh Tran", Phone: "0901234567", Address: "12 Hang Bac, Hanoi"},
			PaymentMethod: trade.PaymentMethodBanking,
			PaymentWindow: 15 * time.Minute,
		}, checkoutNow)
		require.NoError(t, err)

		req := f.request(trade.PaymentMethodBanking)
		fp := requestFingerprint(req)
		store.On("Reserve", mock.Anything, "checkout:guest:abc", "pending:"+fp, ttl).Return(false, existing.ID.String()+":"+fp, nil)
		f.orders.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)

		result, err := f.svc.PlaceOrder(context.Background(), req, "abc")
		require.NoError(t, err)
		assert.True(t, result.Replayed)
		assert.Equal(t, existing.ID, result.Order.ID)
		f.products.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
		f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("key of a running checkout", func(t *testing.T) {
		f := newCheckoutFixture(t)
		store := new(MockIdempotencyStore)
		f.svc.SetIdempotencyStore(store)
		req := f.request(trade.PaymentMethodBanking)
		store.On("Reserve", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(false, "pending:"+requestFingerprint(req), nil)

		_, err := f.svc.PlaceOrder(context.Background(), req, "abc")
		assert.ErrorIs(t, err, ErrCheckoutInProgress)
	})

	t.Run("key reused with a different cart", func(t *testing.T) {
		f := newCheckoutFixture(t)
		store := new(MockIdempotencyStore)
		f.svc.SetIdempotencyStore(store)

		first := f.request(trade.PaymentMethodCOD)
		store.On("Reserve", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(false, uuid.New().String()+":"+requestFingerprint(first), nil)

		second := f.request(trade.PaymentMethodBanking)
		second.Items[0].Quantity = 5
		_, err := f.svc.PlaceOrder(context.Background(), second, "abc")
		assert.ErrorIs(t, err, ErrIdempotencyKeyReused)
		f.orders.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		f.products.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
	})

	t.Run("failed checkout releases the key", func(t *testing.T) {
		f := newCheckoutFixture(t)
		store := new(MockIdempotencyStore)
		f.svc.SetIdempotencyStore(store)

		f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{f.kettle, f.mug}, nil)
		f.stock.On("Record", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, shared.NewInsufficientStockError(f.kettle.ID, 1, 0))
		store.On("Reserve", mock.Anything, "checkout:guest:abc", mock.Anything, ttl).Return(true, "", nil)
		store.On("Release", mock.Anything, "checkout:guest:abc").Return(nil)

		_, err := f.svc.PlaceOrder(context.Background(), f.request(trade.PaymentMethodBanking), "abc")
		require.Error(t, err)
		store.AssertExpectations(t)
		store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unavailable store does not block checkout", func(t *testing.T) {
		f := newCheckoutFixture(t)
		store := new(MockIdempotencyStore)
		f.svc.SetIdempotencyStore(store)

		f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{f.kettle, f.mug}, nil)
		f.expectStock()
		f.orders.On("Create", mock.Anything, mock.Anything).Return(nil)
		store.On("Reserve", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, "", errors.New("connection refused"))

		_, err := f.svc.PlaceOrder(context.Background(), f.request(trade.PaymentMethodBanking), "abc")
		require.NoError(t, err)
		store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
	})
}

func TestCheckoutService_PublishesOrderPlaced(t *testing.T) {
	f := newCheckoutFixture(t)
	publisher := new(MockEventPublisher)
	f.svc.SetEventPublisher(publisher)

	f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{f.kettle, f.mug}, nil)
	f.expectStock()
	f.orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
		return len(events) == 1 && events[0].EventType() == trade.EventTypeOrderPlaced
	})).Return(nil)

	_, err := f.svc.PlaceOrder(context.Background(), f.request(trade.PaymentMethodBanking), "")
	require.NoError(t, err)
	publisher.AssertExpectations(t)
}

func TestIdempotencyStoreKey(t *testing.T) {
	alice := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	bob := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	assert.Equal(t, "checkout:guest:k1", idempotencyStoreKey(nil, "k1"))
	assert.Equal(t, "checkout:customer:"+alice.String()+":k1", idempotencyStoreKey(&alice, "k1"))
	assert.NotEqual(t, idempotencyStoreKey(&alice, "k1"), idempotencyStoreKey(&bob, "k1"))
}

func TestRequestFingerprint(t *testing.T) {
	f := newCheckoutFixture(t)
	base := f.request(trade.PaymentMethodCOD)

	reordered := f.request(trade.PaymentMethodCOD)
	reordered.Items = []OrderItemInput{reordered.Items[1], reordered.Items[0]}
	assert.Equal(t, requestFingerprint(base), requestFingerprint(reordered))

	code := " save10 "
	upper := "SAVE10"
	withCoupon := f.request(trade.PaymentMethodCOD)
	withCoupon.CouponCode = &code
	sameCoupon := f.request(trade.PaymentMethodCOD)
	sameCoupon.CouponCode = &upper
	assert.Equal(t, requestFingerprint(withCoupon), requestFingerprint(sameCoupon))

	tests := []struct {
		name   string
		change func(*PlaceOrderRequest)
	}{
		{"quantity", func(r *PlaceOrderRequest) { r.Items[0].Quantity++ }},
		{"payment method", func(r *PlaceOrderRequest) { r.PaymentMethod = trade.PaymentMethodWallet }},
		{"address", func(r *PlaceOrderRequest) { r.Shipping.Address = "1 Le Loi, Hue" }},
		{"coupon", func(r *PlaceOrderRequest) { r.CouponCode = &upper }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.request(trade.PaymentMethodCOD)
			tt.change(&req)
			assert.NotEqual(t, requestFingerprint(base), requestFingerprint(req))
		})
	}
}

func TestMergeLines(t *testing.T) {
	a := uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	b := uuid.MustParse("00000000-0000-0000-0000-00000000000b")

	lines := mergeLines([]OrderItemInput{
		{ProductID: b, Quantity: 1},
		{ProductID: a, Quantity: 2},
		{ProductID: b, Quantity: 3},
	})

	require.Len(t, lines, 2)
	assert.Equal(t, OrderItemInput{ProductID: a, Quantity: 2}, lines[0])
	assert.Equal(t, OrderItemInput{ProductID: b, Quantity: 4}, lines[1])
}
