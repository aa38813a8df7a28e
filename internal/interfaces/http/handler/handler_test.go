package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	identityapp "github.com/storefront/backend/internal/application/identity"
	inventoryapp "github.com/storefront/backend/internal/application/inventory"
	promotionapp "github.com/storefront/backend/internal/application/promotion"
	tradeapp "github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/tests/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	testActorHeader = "X-Test-Actor"
	testRoleHeader  = "X-Test-Role"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := middleware.SetupValidator(); err != nil {
		panic(err)
	}
}

// testEnv runs the real services against an in-memory sqlite database
type testEnv struct {
	db     *gorm.DB
	engine *gin.Engine
	system *SystemHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewSQLiteDB(t)
	scope := persistence.NewGormTransactionScope(db)
	log := zap.NewNop()
	clock := shared.SystemClock{}

	productSvc := catalogapp.NewProductService(scope, 5, log)
	stockSvc := inventoryapp.NewStockLedgerService(scope, 5, log)
	couponSvc := promotionapp.NewCouponService(scope, clock, log)
	orderSvc := tradeapp.NewOrderService(scope, stockSvc, clock, log)
	checkoutSvc := tradeapp.NewCheckoutService(scope, couponSvc, stockSvc, clock, tradeapp.DefaultCheckoutConfig(), log)
	userSvc := identityapp.NewUserService(scope, log)

	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })
	checkoutSvc.SetIdempotencyStore(store)
	orderSvc.SetIdempotencyStore(store, time.Hour)

	products := NewProductHandler(productSvc, stockSvc)
	stock := NewStockHandler(stockSvc)
	coupons := NewCouponHandler(couponSvc)
	orders := NewOrderHandler(checkoutSvc, orderSvc)
	payments := NewPaymentHandler(orderSvc)
	users := NewUserHandler(userSvc)
	system := NewSystemHandler("storefront-test", "test")

	engine := gin.New()
	engine.Use(middleware.RequestID(), testActor())

	api := engine.Group("/api/v1")
	api.POST("/products", products.Create)
	api.GET("/products", products.List)
	api.GET("/products/:id", products.GetByID)
	api.PATCH("/products/:id", products.Update)
	api.DELETE("/products/:id", products.Delete)
	api.GET("/products/:id/history", products.ListHistory)
	api.GET("/products/:id/stock", products.StockReport)
	api.GET("/products/:id/movements", products.ListMovements)
	api.POST("/product-history/:entryId/restore", products.Restore)
	api.POST("/stock/update", stock.Update)
	api.POST("/coupons", coupons.Create)
	api.POST("/coupons/apply", coupons.Apply)
	api.GET("/coupons/:id", coupons.GetByID)
	api.POST("/orders", orders.Place)
	api.GET("/orders/:id", orders.GetByID)
	api.GET("/orders/:id/status", orders.GetStatus)
	api.POST("/orders/:id/confirm-payment", orders.ConfirmPayment)
	api.POST("/orders/:id/ship", orders.Ship)
	api.POST("/orders/:id/complete", orders.Complete)
	api.POST("/orders/:id/cancel", orders.Cancel)
	api.POST("/payments/webhook", payments.Webhook)
	api.GET("/users/:id", users.GetByID)
	api.PATCH("/users/:id", users.UpdateAccess)
	api.GET("/health", system.Health)
	api.GET("/system/info", system.GetSystemInfo)

	return &testEnv{db: db, engine: engine, system: system}
}

// testActor stands in for the JWT middleware: it copies the actor from test
// headers into the context keys the handlers read.
func testActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := c.GetHeader(testActorHeader); raw != "" {
			c.Set(middleware.JWTUserIDKey, uuid.MustParse(raw))
			c.Set(middleware.JWTRoleKey, identity.Role(c.GetHeader(testRoleHeader)))
		}
		c.Next()
	}
}

// as returns the headers that authenticate a request as id with role
func as(id uuid.UUID, role identity.Role) map[string]string {
	return map[string]string{
		testActorHeader: id.String(),
		testRoleHeader:  string(role),
	}
}

var admin = as(uuid.MustParse("00000000-0000-0000-0000-0000000000ad"), identity.RoleAdmin)

func (e *testEnv) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	return testutil.DoJSON(t, e.engine, method, "/api/v1"+path, body, headers)
}

// createProduct creates a product through the API and stocks it
func (e *testEnv) createProduct(t *testing.T, name, price string, stock int) catalogapp.ProductResponse {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/products", map[string]any{"name": name, "price": price}, admin)
	testutil.RequireStatus(t, rec, http.StatusCreated)
	product := testutil.DecodeEnvelope[catalogapp.ProductResponse](t, rec).Data

	if stock > 0 {
		rec = e.do(t, http.MethodPost, "/stock/update", map[string]any{
			"product_id": product.ID,
			"direction":  "import",
			"quantity":   stock,
		}, admin)
		testutil.RequireStatus(t, rec, http.StatusOK)
		product.Stock = stock
	}
	return product
}
