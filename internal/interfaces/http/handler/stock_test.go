package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	inventoryapp "github.com/storefront/backend/internal/application/inventory"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
)

func TestStockHandler_Update(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "Widget", "10", 0)

	rec := env.do(t, http.MethodPost, "/stock/update", map[string]any{
		"product_id": product.ID, "direction": "import", "quantity": 10, "note": "<i>Supplier</i> delivery",
	}, admin)
	testutil.RequireStatus(t, rec, http.StatusOK)
	snapshot := testutil.DecodeEnvelope[inventoryapp.StockSnapshot](t, rec).Data
	assert.Equal(t, 10, snapshot.Stock)
	assert.Equal(t, inventory.StockStatusInStock, snapshot.StockStatus)
	assert.Equal(t, inventory.DirectionImport, snapshot.Direction)

	t.Run("export beyond stock is rejected", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/stock/update", map[string]any{
			"product_id": product.ID, "direction": "export", "quantity": 15,
		}, admin)
		testutil.RequireErrorCode(t, rec, http.StatusConflict, "INSUFFICIENT_STOCK")
	})

	rec = env.do(t, http.MethodPost, "/stock/update", map[string]any{
		"product_id": product.ID, "direction": "export", "quantity": 7,
	}, admin)
	testutil.RequireStatus(t, rec, http.StatusOK)
	snapshot = testutil.DecodeEnvelope[inventoryapp.StockSnapshot](t, rec).Data
	assert.Equal(t, 3, snapshot.Stock)
	assert.Equal(t, inventory.StockStatusLowStock, snapshot.StockStatus)

	rec = env.do(t, http.MethodGet, "/products/"+product.ID.String()+"/movements", nil, admin)
	testutil.RequireStatus(t, rec, http.StatusOK)
	movements := testutil.DecodeEnvelope[[]inventoryapp.MovementResponse](t, rec).Data
	notes := make([]string, 0, len(movements))
	for _, m := range movements {
		notes = append(notes, m.Note)
	}
	assert.Contains(t, notes, "Supplier delivery")
}

func TestStockHandler_Update_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		body  map[string]any
		field string
	}{
		{"unknown direction", map[string]any{"product_id": uuid.New(), "direction": "sideways", "quantity": 1}, "direction"},
		{"zero quantity", map[string]any{"product_id": uuid.New(), "direction": "import", "quantity": 0}, "quantity"},
		{"missing product", map[string]any{"direction": "import", "quantity": 1}, "product_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/stock/update", tt.body, admin)
			resp := testutil.RequireErrorCode(t, rec, http.StatusUnprocessableEntity, "VALIDATION_ERROR")
			assert.Contains(t, resp.Error.Details, tt.field)
		})
	}

	t.Run("unknown product", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/stock/update", map[string]any{
			"product_id": uuid.New(), "direction": "import", "quantity": 1,
		}, admin)
		testutil.RequireErrorCode(t, rec, http.StatusNotFound, "NOT_FOUND")
	})
}
