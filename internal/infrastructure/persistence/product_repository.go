package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID. Soft-deleted products are not found.
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return r.find(ctx, r.db.WithContext(ctx).Where("id = ? AND status <> ?", id, catalog.ProductStatusDeleted))
}

// FindByIDIncludingDeleted finds a product by its ID whatever its status
func (r *GormProductRepository) FindByIDIncludingDeleted(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return r.find(ctx, r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *GormProductRepository) find(_ context.Context, query *gorm.DB) (*catalog.Product, error) {
	var model models.ProductModel
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds the products with the given IDs, including deleted ones
// so that callers can report them as unavailable
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products, nil
}

// FindAll lists products that are not deleted, newest first
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var rows []models.ProductModel
	query := r.db.WithContext(ctx).
		Where("status <> ?", catalog.ProductStatusDeleted).
		Order("created_at DESC").
		Order("id DESC")
	query = applyPagination(query, filter)

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products, nil
}

// Create inserts a new product
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Create(models.ProductModelFromDomain(product)).Error
}

// SaveWithLock writes the editable columns guarded by the previous version.
// Stock is owned by the stock ledger and is never written here.
func (r *GormProductRepository) SaveWithLock(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	result := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("id = ? AND version = ?", product.ID, product.Version-1).
		Updates(map[string]any{
			"name":                model.Name,
			"price":               model.Price,
			"discount_percent":    model.DiscountPercent,
			"low_stock_threshold": model.LowStockThreshold,
			"category_id":         model.CategoryID,
			"brand_id":            model.BrandID,
			"status":              model.Status,
			"version":             model.Version,
			"updated_at":          model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return versionConflict(ctx, r.db, &models.ProductModel{}, "product", product.ID)
	}
	return nil
}

// versionConflict builds the conflict for a guarded update that matched no
// row, carrying the version currently stored. A row that is gone, or a failed
// re-read, still reports a bare conflict.
func versionConflict(ctx context.Context, db *gorm.DB, model any, resource string, id uuid.UUID) error {
	var versions []int
	err := db.WithContext(ctx).Model(model).Where("id = ?", id).Pluck("version", &versions).Error
	if err != nil || len(versions) == 0 {
		return shared.ErrConcurrencyConflict
	}
	return shared.NewConflictError(resource, id, versions[0])
}

// applyPagination applies page and page size from a filter
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize).Offset(filter.Offset())
	}
	return query
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
