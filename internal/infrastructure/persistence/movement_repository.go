package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormMovementRepository stores stock movements
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// Append stores a new movement as the next entry of its product's ledger and
// sets movement.Sequence. The caller must hold the product's stock row lock,
// which serializes appends per product; the unique (product_id, seq) index
// rejects any append that races without it.
func (r *GormMovementRepository) Append(ctx context.Context, movement *inventory.StockMovement) error {
	var last int64
	if err := r.db.WithContext(ctx).
		Model(&models.StockMovementModel{}).
		Where("product_id = ?", movement.ProductID).
		Select("COALESCE(MAX(seq), 0)").
		Scan(&last).Error; err != nil {
		return err
	}

	model := models.StockMovementModelFromDomain(movement)
	model.Seq = last + 1
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	movement.Sequence = model.Seq
	return nil
}

// ListByProduct returns all movements of a product in replay order
func (r *GormMovementRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]inventory.StockMovement, error) {
	return r.list(r.db.WithContext(ctx).Where("product_id = ?", productID).Order("seq ASC"))
}

// ListByReference returns movements linked to a document
func (r *GormMovementRepository) ListByReference(ctx context.Context, referenceID uuid.UUID) ([]inventory.StockMovement, error) {
	return r.list(r.db.WithContext(ctx).
		Where("reference_id = ?", referenceID).
		Order("created_at ASC").
		Order("product_id ASC").
		Order("seq ASC"))
}

// ProductIDs returns the distinct products that have movements
func (r *GormMovementRepository) ProductIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.StockMovementModel{}).
		Distinct("product_id").
		Order("product_id").
		Pluck("product_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *GormMovementRepository) list(query *gorm.DB) ([]inventory.StockMovement, error) {
	var rows []models.StockMovementModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	movements := make([]inventory.StockMovement, len(rows))
	for i := range rows {
		movements[i] = *rows[i].ToDomain()
	}
	return movements, nil
}

var _ inventory.MovementRepository = (*GormMovementRepository)(nil)
