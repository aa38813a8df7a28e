package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	inventoryapp "github.com/storefront/backend/internal/application/inventory"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduct_ConcurrentEditsWithSameVersion(t *testing.T) {
	s := newStorefront(t)
	ctx := context.Background()
	productID := s.seedProduct(t, "Widget", "1000", 0)

	got := outcomes(8, func(i int) error {
		name := fmt.Sprintf("Widget v%d", i)
		_, err := s.products.Update(ctx, productID, catalogapp.UpdateProductRequest{Version: 1, Name: &name}, catalogapp.Actor{})
		return err
	})
	assert.Equal(t, map[string]int{"": 1, shared.CodeConcurrencyConflict: 7}, got)

	product, err := s.products.GetByID(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 2, product.Version)

	// Only the winning edit reaches the history.
	history, err := s.products.ListHistory(ctx, productID, shared.Filter{Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, product.Name, history[0].NewValues["name"])
}

func TestProduct_RestoreAfterConcurrentStockMovements(t *testing.T) {
	s := newStorefront(t)
	ctx := context.Background()
	productID := s.seedProduct(t, "Widget", "1000", 10)

	price := mustDecimal("1200")
	_, err := s.products.Update(ctx, productID, catalogapp.UpdateProductRequest{Version: 1, Price: &price}, catalogapp.Actor{})
	require.NoError(t, err)
	price = mustDecimal("1500")
	_, err = s.products.Update(ctx, productID, catalogapp.UpdateProductRequest{Version: 2, Price: &price}, catalogapp.Actor{})
	require.NoError(t, err)

	_, err = s.ledger.RecordMovement(ctx, inventoryapp.RecordMovementInput{
		ProductID: productID, Direction: inventory.DirectionExport, Quantity: 4,
	})
	require.NoError(t, err)

	history, err := s.products.ListHistory(ctx, productID, shared.Filter{Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Len(t, history, 3)
	firstEdit := history[1]

	restored, err := s.products.Restore(ctx, firstEdit.ID, catalogapp.RestoreRequest{}, catalogapp.Actor{})
	require.NoError(t, err)
	assert.Equal(t, "1200", restored.Product.Price.String())
	assert.Equal(t, 6, restored.Product.Stock, "restoring a price leaves stock alone")
}

func TestLedger_ConcurrentMovementsStayInSync(t *testing.T) {
	s := newStorefront(t)
	productID := s.seedProduct(t, "Widget", "1000", 20)

	got := outcomes(30, func(i int) error {
		direction := inventory.DirectionExport
		if i%3 == 0 {
			direction = inventory.DirectionImport
		}
		_, err := s.ledger.RecordMovement(context.Background(), inventoryapp.RecordMovementInput{
			ProductID: productID,
			Direction: direction,
			Quantity:  2,
		})
		return err
	})

	// 10 imports always succeed; exports succeed while stock lasts.
	exported := got[""] - 10
	assert.Equal(t, 20-got[shared.CodeInsufficientStock], exported)

	report := s.stock(t, productID)
	assert.Equal(t, 20+10*2-exported*2, report.Stored)
	assert.True(t, report.InSync)
	assert.GreaterOrEqual(t, report.Stored, 0)

	movements, err := s.ledger.ListMovements(context.Background(), productID)
	require.NoError(t, err)
	require.Len(t, movements, 1+got[""])
	for i := 1; i < len(movements); i++ {
		delta := movements[i].Quantity
		if movements[i].Direction == inventory.DirectionExport {
			delta = -delta
		}
		assert.Equal(t, movements[i-1].BalanceAfter+delta, movements[i].BalanceAfter, "movement %d", i)
	}
}

func TestStockAudit_RepairsDrift(t *testing.T) {
	s := newStorefront(t)
	ctx := context.Background()
	inSync := s.seedProduct(t, "Widget", "1000", 5)
	drifted := s.seedProduct(t, "Gadget", "1000", 7)

	// Simulate a write that bypassed the ledger.
	require.NoError(t, persistence.NewGormStockRepository(s.db.DB).Reset(ctx, drifted, 42))
	assert.False(t, s.stock(t, drifted).InSync)

	stats, err := s.auditor.Audit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Checked)
	assert.Equal(t, 1, stats.Drifted)
	assert.Equal(t, 1, stats.Repaired)
	assert.Zero(t, stats.Failed)

	assert.Equal(t, 7, s.stock(t, drifted).Stored)
	assert.Equal(t, 5, s.stock(t, inSync).Stored)
}

func TestRedisRevocationList(t *testing.T) {
	client := NewTestRedis(t)
	ctx := context.Background()
	list := auth.NewRedisRevocationList(client, "")
	userID := uuid.New()

	revoked, err := list.IsRevoked(ctx, userID, time.Now())
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, list.RevokeUserTokens(ctx, userID, time.Hour))

	revoked, err = list.IsRevoked(ctx, userID, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.True(t, revoked, "tokens issued before the revocation are rejected")

	revoked, err = list.IsRevoked(ctx, userID, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, revoked, "tokens issued afterwards are accepted")

	ttl, err := client.TTL(ctx, "storefront:revoked:user:"+userID.String()).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
