// Package uow defines the transaction boundary used by application services
// that must change several aggregates atomically.
package uow

import (
	"context"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/promotion"
	"github.com/storefront/backend/internal/domain/trade"
)

// TransactionScope runs a unit of work in a single database transaction.
// If fn returns an error the transaction is rolled back, otherwise it commits.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// Repositories gives access to repositories that share one transaction.
type Repositories interface {
	Products() catalog.ProductRepository
	History() catalog.HistoryRepository
	Stock() inventory.StockRepository
	Movements() inventory.MovementRepository
	Coupons() promotion.CouponRepository
	Orders() trade.OrderRepository
	Users() identity.UserRepository
}

// RepositorySet is a plain Repositories value. It is what NoOpTransactionScope
// hands out, and what tests use to plug in mocks.
type RepositorySet struct {
	ProductRepo  catalog.ProductRepository
	HistoryRepo  catalog.HistoryRepository
	StockRepo    inventory.StockRepository
	MovementRepo inventory.MovementRepository
	CouponRepo   promotion.CouponRepository
	OrderRepo    trade.OrderRepository
	UserRepo     identity.UserRepository
}

func (s *RepositorySet) Products() catalog.ProductRepository { return s.ProductRepo }
func (s *RepositorySet) History() catalog.HistoryRepository { return s.HistoryRepo }
func (s *RepositorySet) Stock() inventory.StockRepository { return s.StockRepo }
func (s *RepositorySet) Movements() inventory.MovementRepository { return s.MovementRepo }
func (s *RepositorySet) Coupons() promotion.CouponRepository { return s.CouponRepo }
func (s *RepositorySet) Orders() trade.OrderRepository { return s.OrderRepo }
func (s *RepositorySet) Users() identity.UserRepository { return s.UserRepo }

// NoOpTransactionScope runs fn directly against a fixed repository set,
// without a real transaction. Used in tests.
type NoOpTransactionScope struct {
	repos *RepositorySet
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(repos *RepositorySet) *NoOpTransactionScope {
	return &NoOpTransactionScope{repos: repos}
}

// Execute runs fn without a transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos Repositories) error) error {
	return fn(s.repos)
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ Repositories = (*RepositorySet)(nil)
