package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	inventoryapp "github.com/storefront/backend/internal/application/inventory"
	promotionapp "github.com/storefront/backend/internal/application/promotion"
	tradeapp "github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/promotion"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// storefront wires the application services over one test database
type storefront struct {
	db       *TestDB
	clock    *shared.FixedClock
	products *catalogapp.ProductService
	ledger   *inventoryapp.StockLedgerService
	auditor  *inventoryapp.StockAuditService
	coupons  *promotionapp.CouponService
	orders   *tradeapp.OrderService
	checkout *tradeapp.CheckoutService
	reaper   *tradeapp.PendingOrderReaper
}

func newStorefront(t *testing.T) *storefront {
	t.Helper()

	db := NewTestDB(t)
	log := zap.NewNop()
	scope := persistence.NewGormTransactionScope(db.DB)
	clock := &shared.FixedClock{T: time.Now().UTC()}

	ledger := inventoryapp.NewStockLedgerService(scope, 5, log)
	coupons := promotionapp.NewCouponService(scope, clock, log)
	orders := tradeapp.NewOrderService(scope, ledger, clock, log)
	checkout := tradeapp.NewCheckoutService(scope, coupons, ledger, clock, tradeapp.DefaultCheckoutConfig(), log)

	return &storefront{
		db:       db,
		clock:    clock,
		products: catalogapp.NewProductService(scope, 5, log),
		ledger:   ledger,
		auditor:  inventoryapp.NewStockAuditService(scope, true, log),
		coupons:  coupons,
		orders:   orders,
		checkout: checkout,
		reaper:   tradeapp.NewPendingOrderReaper(scope, orders, clock, 50, log),
	}
}

func (s *storefront) seedProduct(t *testing.T, name, price string, stock int) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	p := mustDecimal(price)
	created, err := s.products.Create(ctx, catalogapp.CreateProductRequest{Name: name, Price: &p}, catalogapp.Actor{})
	require.NoError(t, err)

	if stock > 0 {
		_, err = s.ledger.RecordMovement(ctx, inventoryapp.RecordMovementInput{
			ProductID: created.ID,
			Direction: inventory.DirectionImport,
			Quantity:  stock,
			Note:      "opening stock",
		})
		require.NoError(t, err)
	}
	return created.ID
}

func (s *storefront) seedCoupon(t *testing.T, code string, maxUsage int) {
	t.Helper()
	_, err := s.coupons.Create(context.Background(), promotionapp.CreateCouponRequest{
		Code:          code,
		DiscountType:  promotion.DiscountTypePercentage,
		Value:         decimal.NewFromInt(10),
		MinOrderValue: decimal.Zero,
		MaxUsage:      maxUsage,
		StartsAt:      s.clock.Now().Add(-time.Hour),
		EndsAt:        s.clock.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
}

func (s *storefront) stock(t *testing.T, productID uuid.UUID) *inventoryapp.StockReport {
	t.Helper()
	report, err := s.ledger.Report(context.Background(), productID)
	require.NoError(t, err)
	return report
}

func cart(productID uuid.UUID, quantity int, method trade.PaymentMethod) tradeapp.PlaceOrderRequest {
	return tradeapp.PlaceOrderRequest{
		Items: []tradeapp.OrderItemInput{{ProductID: productID, Quantity: quantity}},
		Shipping: tradeapp.ShippingInput{
			RecipientName: "Lan Nguyen",
			Phone:         "0900000000",
			Address:       "12 Nguyen Hue, District 1",
		},
		PaymentMethod: method,
	}
}

func (s *storefront) countRows(t *testing.T, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, s.db.DB.Table(table).Count(&n).Error)
	return n
}

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
