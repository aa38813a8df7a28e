package router

import (
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers are the HTTP handlers the storefront API is built from
type Handlers struct {
	Products *handler.ProductHandler
	Stock    *handler.StockHandler
	Coupons  *handler.CouponHandler
	Orders   *handler.OrderHandler
	Payments *handler.PaymentHandler
	Users    *handler.UserHandler
	System   *handler.SystemHandler
}

// RouteConfig holds route-level guards
type RouteConfig struct {
	WebhookSecret string
	Logger        *zap.Logger
}

// StorefrontGroups returns the domain groups of the API. Browsing, checkout
// and order polling are open to guests; catalog, stock and order administration
// need a back-office role and user administration needs admin.
func StorefrontGroups(h Handlers, cfg RouteConfig) []*DomainGroup {
	permCfg := middleware.PermissionConfig{Logger: cfg.Logger}
	backOffice := middleware.RequireRoleWithConfig(permCfg, middleware.BackOffice...)
	adminOnly := middleware.RequireRoleWithConfig(permCfg, identity.RoleAdmin)

	products := NewDomainGroup("catalog", "/products").
		GET("", h.Products.List).
		GET("/:id", h.Products.GetByID).
		POST("", backOffice, h.Products.Create).
		PATCH("/:id", backOffice, h.Products.Update).
		DELETE("/:id", backOffice, h.Products.Delete).
		GET("/:id/history", backOffice, h.Products.ListHistory).
		GET("/:id/stock", backOffice, h.Products.StockReport).
		GET("/:id/movements", backOffice, h.Products.ListMovements)

	history := NewDomainGroup("catalog-history", "/product-history").
		Use(backOffice).
		POST("/:entryId/restore", h.Products.Restore)

	stock := NewDomainGroup("inventory", "/stock").
		Use(backOffice).
		POST("/update", h.Stock.Update)

	coupons := NewDomainGroup("promotion", "/coupons").
		POST("/apply", h.Coupons.Apply).
		POST("", backOffice, h.Coupons.Create).
		GET("/:id", backOffice, h.Coupons.GetByID)

	orders := NewDomainGroup("trade", "/orders").
		POST("", h.Orders.Place).
		GET("/:id", h.Orders.GetByID).
		GET("/:id/status", h.Orders.GetStatus).
		POST("/:id/confirm-payment", backOffice, h.Orders.ConfirmPayment).
		POST("/:id/ship", backOffice, h.Orders.Ship).
		POST("/:id/complete", backOffice, h.Orders.Complete).
		POST("/:id/cancel", backOffice, h.Orders.Cancel)

	payments := NewDomainGroup("payments", "/payments").
		POST("/webhook", middleware.RequireWebhookSecret(cfg.WebhookSecret), h.Payments.Webhook)

	users := NewDomainGroup("identity", "/users").
		Use(adminOnly).
		GET("/:id", h.Users.GetByID).
		PATCH("/:id", h.Users.UpdateAccess)

	system := NewDomainGroup("system", "").
		GET("/health", h.System.Health).
		GET("/system/info", h.System.GetSystemInfo)

	return []*DomainGroup{products, history, stock, coupons, orders, payments, users, system}
}

// RegisterStorefront registers every storefront group on r
func RegisterStorefront(r *Router, h Handlers, cfg RouteConfig) []*DomainGroup {
	groups := StorefrontGroups(h, cfg)
	for _, g := range groups {
		r.Register(g)
	}
	return groups
}

var _ RouteRegistrar = (*DomainGroup)(nil)
