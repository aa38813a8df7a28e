package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/inventory"
)

// StockMovementModel is the persistence model for stock movements.
// Rows are append-only.
type StockMovementModel struct {
	ID           uuid.UUID           `gorm:"type:uuid;primary_key"`
	ProductID    uuid.UUID           `gorm:"type:uuid;not null;index:idx_stock_movements_product_created,priority:1;uniqueIndex:idx_stock_movements_product_seq,priority:1"`
	Seq          int64               `gorm:"not null;uniqueIndex:idx_stock_movements_product_seq,priority:2"`
	Direction    inventory.Direction `gorm:"type:varchar(10);not null"`
	Quantity     int                 `gorm:"not null"`
	Note         string              `gorm:"type:varchar(500)"`
	ActorID      *uuid.UUID          `gorm:"type:uuid"`
	ReferenceID  *uuid.UUID          `gorm:"type:uuid;index"`
	BalanceAfter int                 `gorm:"not null"`
	CreatedAt    time.Time           `gorm:"not null;index:idx_stock_movements_product_created,priority:2"`
}

// TableName returns the table name for GORM
func (StockMovementModel) TableName() string {
	return "stock_movements"
}

// ToDomain converts the persistence model to a domain StockMovement.
func (m *StockMovementModel) ToDomain() *inventory.StockMovement {
	return &inventory.StockMovement{
		ID:           m.ID,
		ProductID:    m.ProductID,
		Sequence:     m.Seq,
		Direction:    m.Direction,
		Quantity:     m.Quantity,
		Note:         m.Note,
		ActorID:      m.ActorID,
		ReferenceID:  m.ReferenceID,
		BalanceAfter: m.BalanceAfter,
		CreatedAt:    m.CreatedAt,
	}
}

// StockMovementModelFromDomain creates a persistence model from a StockMovement.
func StockMovementModelFromDomain(s *inventory.StockMovement) *StockMovementModel {
	return &StockMovementModel{
		ID:           s.ID,
		ProductID:    s.ProductID,
		Seq:          s.Sequence,
		Direction:    s.Direction,
		Quantity:     s.Quantity,
		Note:         s.Note,
		ActorID:      s.ActorID,
		ReferenceID:  s.ReferenceID,
		BalanceAfter: s.BalanceAfter,
		CreatedAt:    s.CreatedAt,
	}
}
