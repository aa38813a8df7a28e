package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormStockRepository writes the stock column of products with conditional
// single-statement updates, so concurrent exports can never drive stock
// below zero.
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a new GormStockRepository
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

// Get returns the current stored stock level
func (r *GormStockRepository) Get(ctx context.Context, productID uuid.UUID) (*inventory.StockLevel, error) {
	var row struct {
		Stock             int
		LowStockThreshold *int
	}
	result := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Select("stock", "low_stock_threshold").
		Where("id = ?", productID).
		Take(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, result.Error
	}
	return &inventory.StockLevel{
		ProductID:         productID,
		Stock:             row.Stock,
		LowStockThreshold: row.LowStockThreshold,
	}, nil
}

// Increase adds quantity and returns the new stock
func (r *GormStockRepository) Increase(ctx context.Context, productID uuid.UUID, quantity int) (int, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, shared.ErrNotFound
	}
	return r.currentStock(ctx, productID)
}

// Decrease subtracts quantity only while stock >= quantity. When no row
// matches, the product is re-read to tell a missing product from a short one.
func (r *GormStockRepository) Decrease(ctx context.Context, productID uuid.UUID, quantity int) (int, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		available, err := r.currentStock(ctx, productID)
		if err != nil {
			return 0, err
		}
		return 0, shared.NewInsufficientStockError(productID, quantity, available)
	}
	return r.currentStock(ctx, productID)
}

// Reset overwrites the stored stock
func (r *GormStockRepository) Reset(ctx context.Context, productID uuid.UUID, stock int) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("id = ?", productID).
		UpdateColumn("stock", stock)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormStockRepository) currentStock(ctx context.Context, productID uuid.UUID) (int, error) {
	var stocks []int
	if err := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("id = ?", productID).
		Pluck("stock", &stocks).Error; err != nil {
		return 0, err
	}
	if len(stocks) == 0 {
		return 0, shared.ErrNotFound
	}
	return stocks[0], nil
}

var _ inventory.StockRepository = (*GormStockRepository)(nil)
