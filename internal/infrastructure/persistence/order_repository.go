package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// preloadItems keeps lines in the order checkout wrote them (by product ID)
func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Order("product_id ASC")
}

// FindByID finds an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items", preloadItems).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Create inserts the order and its items
func (r *GormOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	return r.db.WithContext(ctx).Create(models.OrderModelFromDomain(order)).Error
}

// SaveWithLock persists the lifecycle columns guarded by the previous version.
// Lines and amounts are immutable after checkout and are never rewritten.
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, order *trade.Order) error {
	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ? AND version = ?", order.ID, order.Version-1).
		Updates(map[string]any{
			"status":        order.Status,
			"paid_at":       order.PaidAt,
			"shipped_at":    order.ShippedAt,
			"completed_at":  order.CompletedAt,
			"cancelled_at":  order.CancelledAt,
			"cancel_reason": order.CancelReason,
			"version":       order.Version,
			"updated_at":    order.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return versionConflict(ctx, r.db, &models.OrderModel{}, "order", order.ID)
	}
	return nil
}

// FindExpiredPending lists orders awaiting payment past their deadline,
// oldest deadline first
func (r *GormOrderRepository) FindExpiredPending(ctx context.Context, now time.Time, limit int) ([]trade.Order, error) {
	var rows []models.OrderModel
	query := r.db.WithContext(ctx).
		Preload("Items", preloadItems).
		Where("status = ? AND payment_deadline < ?", trade.OrderStatusPendingPayment, now).
		Order("payment_deadline ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	orders := make([]trade.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, nil
}

var _ trade.OrderRepository = (*GormOrderRepository)(nil)
