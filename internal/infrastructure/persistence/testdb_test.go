package persistence

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"github.com/storefront/backend/tests/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.NewSQLiteDB(t)
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price int64, stock int) *catalog.Product {
	t.Helper()

	p, err := catalog.NewProduct(name, decimal.NewFromInt(price))
	require.NoError(t, err)
	p.Stock = stock
	p.ClearDomainEvents()
	require.NoError(t, db.Create(models.ProductModelFromDomain(p)).Error)
	return p
}
