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

// GormHistoryRepository stores product history entries. Entries are only
// ever inserted.
type GormHistoryRepository struct {
	db *gorm.DB
}

// NewGormHistoryRepository creates a new GormHistoryRepository
func NewGormHistoryRepository(db *gorm.DB) *GormHistoryRepository {
	return &GormHistoryRepository{db: db}
}

// Append stores a new entry
func (r *GormHistoryRepository) Append(ctx context.Context, entry *catalog.HistoryEntry) error {
	model, err := models.ProductHistoryModelFromDomain(entry)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds an entry by its ID
func (r *GormHistoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.HistoryEntry, error) {
	var model models.ProductHistoryModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// ListByProduct lists entries for a product, newest first. Entries written
// in the same instant are ordered by ID for a stable page boundary.
func (r *GormHistoryRepository) ListByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]catalog.HistoryEntry, error) {
	var rows []models.ProductHistoryModel
	query := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Order("id DESC")
	query = applyPagination(query, filter)

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	entries := make([]catalog.HistoryEntry, 0, len(rows))
	for i := range rows {
		entry, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

var _ catalog.HistoryRepository = (*GormHistoryRepository)(nil)
