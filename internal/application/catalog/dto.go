package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/inventory"
)

// Actor identifies who performed a mutation and from where
type Actor struct {
	UserID   *uuid.UUID
	ClientIP string
}

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name              string           `json:"name" binding:"required,min=1,max=200"`
	Price             *decimal.Decimal `json:"price" binding:"required"`
	DiscountPercent   int              `json:"discount_percent" binding:"min=0,max=100"`
	LowStockThreshold *int             `json:"low_stock_threshold" binding:"omitempty,min=0"`
	CategoryID        *uuid.UUID       `json:"category_id"`
	BrandID           *uuid.UUID       `json:"brand_id"`
}

// UpdateProductRequest is a partial edit guarded by the version the client
// last read
type UpdateProductRequest struct {
	Version           int                    `json:"version" binding:"required,min=1"`
	Name              *string                `json:"name" binding:"omitempty,min=1,max=200"`
	Price             *decimal.Decimal       `json:"price"`
	DiscountPercent   *int                   `json:"discount_percent" binding:"omitempty,min=0,max=100"`
	LowStockThreshold *int                   `json:"low_stock_threshold" binding:"omitempty,min=0"`
	ClearThreshold    bool                   `json:"clear_low_stock_threshold"`
	CategoryID        *uuid.UUID             `json:"category_id"`
	BrandID           *uuid.UUID             `json:"brand_id"`
	Status            *catalog.ProductStatus `json:"status" binding:"omitempty,oneof=active inactive"`
}

// Changes converts the request into a domain edit
func (r UpdateProductRequest) Changes() catalog.ProductChanges {
	return catalog.ProductChanges{
		Name:              r.Name,
		Price:             r.Price,
		DiscountPercent:   r.DiscountPercent,
		LowStockThreshold: r.LowStockThreshold,
		ClearThreshold:    r.ClearThreshold,
		CategoryID:        r.CategoryID,
		BrandID:           r.BrandID,
		Status:            r.Status,
	}
}

// RestoreRequest optionally pins the product version the restore applies to
type RestoreRequest struct {
	Version *int `json:"version" binding:"omitempty,min=1"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID                uuid.UUID             `json:"id"`
	Name              string                `json:"name"`
	Price             decimal.Decimal       `json:"price"`
	DiscountPercent   int                   `json:"discount_percent"`
	EffectivePrice    decimal.Decimal       `json:"effective_price"`
	Stock             int                   `json:"stock"`
	StockStatus       inventory.StockStatus `json:"stock_status"`
	LowStockThreshold *int                  `json:"low_stock_threshold,omitempty"`
	CategoryID        *uuid.UUID            `json:"category_id,omitempty"`
	BrandID           *uuid.UUID            `json:"brand_id,omitempty"`
	Status            string                `json:"status"`
	Version           int                   `json:"version"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

// ToProductResponse converts a domain product
func ToProductResponse(p *catalog.Product, defaultThreshold int) ProductResponse {
	return ProductResponse{
		ID:                p.ID,
		Name:              p.Name,
		Price:             p.Price,
		DiscountPercent:   p.DiscountPercent,
		EffectivePrice:    p.EffectivePrice(),
		Stock:             p.Stock,
		StockStatus:       inventory.DeriveStatus(p.Stock, p.LowStockThreshold, defaultThreshold),
		LowStockThreshold: p.LowStockThreshold,
		CategoryID:        p.CategoryID,
		BrandID:           p.BrandID,
		Status:            p.Status.String(),
		Version:           p.Version,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// HistoryEntryResponse represents a product history entry in API responses
type HistoryEntryResponse struct {
	ID            uuid.UUID             `json:"id"`
	ProductID     uuid.UUID             `json:"product_id"`
	Action        catalog.HistoryAction `json:"action"`
	ActorID       *uuid.UUID            `json:"actor_id,omitempty"`
	ChangedFields []string              `json:"changed_fields"`
	OldValues     map[string]any        `json:"old_values"`
	NewValues     map[string]any        `json:"new_values"`
	Description   string                `json:"description"`
	ClientIP      string                `json:"client_ip,omitempty"`
	SourceEntryID *uuid.UUID            `json:"source_entry_id,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
}

// ToHistoryEntryResponse converts a domain history entry
func ToHistoryEntryResponse(e *catalog.HistoryEntry) HistoryEntryResponse {
	return HistoryEntryResponse{
		ID:            e.ID,
		ProductID:     e.ProductID,
		Action:        e.Action,
		ActorID:       e.ActorID,
		ChangedFields: e.ChangedFields,
		OldValues:     e.OldValues,
		NewValues:     e.NewValues,
		Description:   e.Description,
		ClientIP:      e.ClientIP,
		SourceEntryID: e.SourceEntryID,
		CreatedAt:     e.CreatedAt,
	}
}

// RestoreResponse is the product after a restore and the entry it produced
type RestoreResponse struct {
	Product ProductResponse      `json:"product"`
	Entry   HistoryEntryResponse `json:"entry"`
}
