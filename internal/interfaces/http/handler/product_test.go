package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	inventoryapp "github.com/storefront/backend/internal/application/inventory"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductHandler_Lifecycle(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/products", map[string]any{
		"name":             "  <b>Widget</b>  ",
		"price":            "100",
		"discount_percent": 10,
	}, admin)
	testutil.RequireStatus(t, rec, http.StatusCreated)
	created := testutil.DecodeEnvelope[catalogapp.ProductResponse](t, rec)
	require.True(t, created.Success)
	product := created.Data
	assert.Equal(t, "Widget", product.Name)
	assert.Equal(t, "90", product.EffectivePrice.String())
	assert.Equal(t, 1, product.Version)
	assert.Equal(t, inventory.StockStatusOutOfStock, product.StockStatus)
	require.NotNil(t, created.Meta)
	assert.NotEmpty(t, created.Meta.RequestID)

	path := "/products/" + product.ID.String()

	rec = env.do(t, http.MethodGet, path, nil, nil)
	testutil.RequireStatus(t, rec, http.StatusOK)
	assert.Equal(t, product.ID, testutil.DecodeEnvelope[catalogapp.ProductResponse](t, rec).Data.ID)

	rec = env.do(t, http.MethodPatch, path, map[string]any{"version": 1, "name": "Gadget"}, admin)
	testutil.RequireStatus(t, rec, http.StatusOK)
	updated := testutil.DecodeEnvelope[catalogapp.ProductResponse](t, rec).Data
	assert.Equal(t, "Gadget", updated.Name)
	assert.Equal(t, 2, updated.Version)

	t.Run("stale version is rejected", func(t *testing.T) {
		rec := env.do(t, http.MethodPatch, path, map[string]any{"version": 1, "name": "Other"}, admin)
		testutil.RequireErrorCode(t, rec, http.StatusConflict, "CONCURRENCY_CONFLICT")
	})

	t.Run("delete requires the version", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, path, nil, admin)
		env := testutil.RequireErrorCode(t, rec, http.StatusUnprocessableEntity, "VALIDATION_ERROR")
		assert.Contains(t, env.Error.Details, "version")
	})

	rec = env.do(t, http.MethodDelete, path+"?version=2", nil, admin)
	testutil.RequireStatus(t, rec, http.StatusNoContent)

	rec = env.do(t, http.MethodGet, path, nil, nil)
	testutil.RequireErrorCode(t, rec, http.StatusNotFound, "NOT_FOUND")
}

func TestProductHandler_Create_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		body  map[string]any
		field string
	}{
		{"missing price", map[string]any{"name": "Widget"}, "price"},
		{"missing name", map[string]any{"price": "10"}, "name"},
		{"discount above 100", map[string]any{"name": "Widget", "price": "10", "discount_percent": 101}, "discount_percent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/products", tt.body, admin)
			resp := testutil.RequireErrorCode(t, rec, http.StatusUnprocessableEntity, "VALIDATION_ERROR")
			assert.Contains(t, resp.Error.Details, tt.field)
		})
	}

	t.Run("negative price is a domain validation error", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/products", map[string]any{"name": "Widget", "price": "-1"}, admin)
		testutil.RequireErrorCode(t, rec, http.StatusUnprocessableEntity, "VALIDATION_ERROR")
	})
}

func TestProductHandler_InvalidID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/products/not-a-uuid", nil, nil)
	testutil.RequireErrorCode(t, rec, http.StatusBadRequest, "BAD_REQUEST")
}

func TestProductHandler_List(t *testing.T) {
	env := newTestEnv(t)
	for _, name := range []string{"A", "B", "C"} {
		env.createProduct(t, name, "10", 0)
	}

	rec := env.do(t, http.MethodGet, "/products?page=1&page_size=2", nil, nil)
	testutil.RequireStatus(t, rec, http.StatusOK)
	resp := testutil.DecodeEnvelope[[]catalogapp.ProductResponse](t, rec)
	assert.Len(t, resp.Data, 2)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 1, resp.Meta.Page)
	assert.Equal(t, 2, resp.Meta.PageSize)

	rec = env.do(t, http.MethodGet, "/products?page_size=500", nil, nil)
	testutil.RequireErrorCode(t, rec, http.StatusUnprocessableEntity, "VALIDATION_ERROR")
}

func TestProductHandler_HistoryAndRestore(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "Widget", "100", 0)
	path := "/products/" + product.ID.String()

	rec := env.do(t, http.MethodPatch, path, map[string]any{"version": 1, "name": "Gadget"}, admin)
	testutil.RequireStatus(t, rec, http.StatusOK)
	rec = env.do(t, http.MethodPatch, path, map[string]any{"version": 2, "name": "Gizmo"}, admin)
	testutil.RequireStatus(t, rec, http.StatusOK)

	rec = env.do(t, http.MethodGet, path+"/history", nil, admin)
	testutil.RequireStatus(t, rec, http.StatusOK)
	entries := testutil.DecodeEnvelope[[]catalogapp.HistoryEntryResponse](t, rec).Data
	require.Len(t, entries, 3)

	var createdEntry, gadgetEntry uuid.UUID
	for _, e := range entries {
		switch {
		case e.Action == catalog.HistoryActionCreated:
			createdEntry = e.ID
		case e.Action == catalog.HistoryActionUpdated && e.NewValues["name"] == "Gadget":
			gadgetEntry = e.ID
			assert.Equal(t, "Widget", e.OldValues["name"])
			assert.Equal(t, []string{"name"}, e.ChangedFields)
		}
	}
	require.NotEqual(t, uuid.Nil, createdEntry)
	require.NotEqual(t, uuid.Nil, gadgetEntry)

	t.Run("restore with a stale version conflicts", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/product-history/"+gadgetEntry.String()+"/restore",
			map[string]any{"version": 1}, admin)
		testutil.RequireErrorCode(t, rec, http.StatusConflict, "CONCURRENCY_CONFLICT")
	})

	t.Run("created entries cannot be restored", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/product-history/"+createdEntry.String()+"/restore", nil, admin)
		testutil.RequireErrorCode(t, rec, http.StatusUnprocessableEntity, "UNSUPPORTED_RESTORE")
	})

	rec = env.do(t, http.MethodPost, "/product-history/"+gadgetEntry.String()+"/restore", nil, admin)
	testutil.RequireStatus(t, rec, http.StatusOK)
	restored := testutil.DecodeEnvelope[catalogapp.RestoreResponse](t, rec).Data
	assert.Equal(t, "Gadget", restored.Product.Name)
	assert.Equal(t, 4, restored.Product.Version)
	assert.Equal(t, catalog.HistoryActionRestored, restored.Entry.Action)
	require.NotNil(t, restored.Entry.SourceEntryID)
	assert.Equal(t, gadgetEntry, *restored.Entry.SourceEntryID)
}

func TestProductHandler_HistoryAfterDelete(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "Widget", "100", 0)
	path := "/products/" + product.ID.String()

	rec := env.do(t, http.MethodPatch, path, map[string]any{"version": 1, "name": "Gadget"}, admin)
	testutil.RequireStatus(t, rec, http.StatusOK)
	rec = env.do(t, http.MethodDelete, path+"?version=2", nil, admin)
	testutil.RequireStatus(t, rec, http.StatusNoContent)

	rec = env.do(t, http.MethodGet, path, nil, admin)
	testutil.RequireErrorCode(t, rec, http.StatusNotFound, "NOT_FOUND")

	rec = env.do(t, http.MethodGet, path+"/history", nil, admin)
	testutil.RequireStatus(t, rec, http.StatusOK)
	entries := testutil.DecodeEnvelope[[]catalogapp.HistoryEntryResponse](t, rec).Data
	require.Len(t, entries, 3)

	var updated uuid.UUID
	actions := make([]catalog.HistoryAction, 0, len(entries))
	for _, e := range entries {
		actions = append(actions, e.Action)
		if e.Action == catalog.HistoryActionUpdated {
			updated = e.ID
		}
	}
	assert.Contains(t, actions, catalog.HistoryActionDeleted)
	require.NotEqual(t, uuid.Nil, updated)

	rec = env.do(t, http.MethodPost, "/product-history/"+updated.String()+"/restore", nil, admin)
	testutil.RequireErrorCode(t, rec, http.StatusConflict, "INVALID_STATE")

	rec = env.do(t, http.MethodGet, path+"/history", nil, admin)
	testutil.RequireStatus(t, rec, http.StatusOK)
	assert.Len(t, testutil.DecodeEnvelope[[]catalogapp.HistoryEntryResponse](t, rec).Data, 3)
}

func TestProductHandler_StockReport(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "Widget", "10", 10)

	rec := env.do(t, http.MethodPost, "/stock/update", map[string]any{
		"product_id": product.ID, "direction": "export", "quantity": 4,
	}, admin)
	testutil.RequireStatus(t, rec, http.StatusOK)

	rec = env.do(t, http.MethodGet, "/products/"+product.ID.String()+"/stock", nil, admin)
	testutil.RequireStatus(t, rec, http.StatusOK)
	report := testutil.DecodeEnvelope[inventoryapp.StockReport](t, rec).Data
	assert.Equal(t, 6, report.Stored)
	assert.Equal(t, 6, report.Replayed)
	assert.True(t, report.InSync)
	assert.Equal(t, 2, report.Movements)

	rec = env.do(t, http.MethodGet, "/products/"+product.ID.String()+"/movements", nil, admin)
	testutil.RequireStatus(t, rec, http.StatusOK)
	movements := testutil.DecodeEnvelope[[]inventoryapp.MovementResponse](t, rec).Data
	require.Len(t, movements, 2)
}
