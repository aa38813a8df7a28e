package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	AggregateModel
	Name              string                `gorm:"type:varchar(200);not null"`
	Price             decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountPercent   int                   `gorm:"not null;default:0"`
	Stock             int                   `gorm:"not null;default:0"`
	LowStockThreshold *int                  `gorm:""`
	CategoryID        *uuid.UUID            `gorm:"type:uuid;index"`
	BrandID           *uuid.UUID            `gorm:"type:uuid;index"`
	Status            catalog.ProductStatus `gorm:"type:varchar(20);not null;default:'active';index"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Price:             m.Price,
		DiscountPercent:   m.DiscountPercent,
		Stock:             m.Stock,
		LowStockThreshold: m.LowStockThreshold,
		CategoryID:        m.CategoryID,
		BrandID:           m.BrandID,
		Status:            m.Status,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Name = p.Name
	m.Price = p.Price
	m.DiscountPercent = p.DiscountPercent
	m.Stock = p.Stock
	m.LowStockThreshold = p.LowStockThreshold
	m.CategoryID = p.CategoryID
	m.BrandID = p.BrandID
	m.Status = p.Status
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// ProductHistoryModel is the persistence model for product history entries.
// Entries are append-only and never modified after creation.
type ProductHistoryModel struct {
	ID                uuid.UUID             `gorm:"type:uuid;primary_key"`
	ProductID         uuid.UUID             `gorm:"type:uuid;not null;index:idx_product_history_product_created,priority:1"`
	Action            catalog.HistoryAction `gorm:"type:varchar(20);not null"`
	ActorID           *uuid.UUID            `gorm:"type:uuid;index"`
	ChangedFieldsJSON string                `gorm:"column:changed_fields;type:jsonb;not null;default:'[]'"`
	OldValuesJSON     string                `gorm:"column:old_values;type:jsonb"`
	NewValuesJSON     string                `gorm:"column:new_values;type:jsonb"`
	Description       string                `gorm:"type:varchar(500)"`
	ClientIP          string                `gorm:"type:varchar(45)"`
	SourceEntryID     *uuid.UUID            `gorm:"type:uuid"`
	CreatedAt         time.Time             `gorm:"not null;index:idx_product_history_product_created,priority:2"`
}

// TableName returns the table name for GORM
func (ProductHistoryModel) TableName() string {
	return "product_history"
}

// ToDomain converts the persistence model to a domain HistoryEntry.
func (m *ProductHistoryModel) ToDomain() (*catalog.HistoryEntry, error) {
	entry := &catalog.HistoryEntry{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Action:        m.Action,
		ActorID:       m.ActorID,
		Description:   m.Description,
		ClientIP:      m.ClientIP,
		SourceEntryID: m.SourceEntryID,
		CreatedAt:     m.CreatedAt,
	}
	if err := decodeJSON(m.ChangedFieldsJSON, &entry.ChangedFields); err != nil {
		return nil, fmt.Errorf("history %s changed_fields: %w", m.ID, err)
	}
	if err := decodeJSON(m.OldValuesJSON, &entry.OldValues); err != nil {
		return nil, fmt.Errorf("history %s old_values: %w", m.ID, err)
	}
	if err := decodeJSON(m.NewValuesJSON, &entry.NewValues); err != nil {
		return nil, fmt.Errorf("history %s new_values: %w", m.ID, err)
	}
	if entry.ChangedFields == nil {
		entry.ChangedFields = []string{}
	}
	return entry, nil
}

// ProductHistoryModelFromDomain creates a persistence model from a HistoryEntry.
func ProductHistoryModelFromDomain(e *catalog.HistoryEntry) (*ProductHistoryModel, error) {
	m := &ProductHistoryModel{
		ID:            e.ID,
		ProductID:     e.ProductID,
		Action:        e.Action,
		ActorID:       e.ActorID,
		Description:   e.Description,
		ClientIP:      e.ClientIP,
		SourceEntryID: e.SourceEntryID,
		CreatedAt:     e.CreatedAt,
	}
	var err error
	if m.ChangedFieldsJSON, err = encodeJSON(e.ChangedFields, "[]"); err != nil {
		return nil, err
	}
	if m.OldValuesJSON, err = encodeJSON(e.OldValues, "null"); err != nil {
		return nil, err
	}
	if m.NewValuesJSON, err = encodeJSON(e.NewValues, "null"); err != nil {
		return nil, err
	}
	return m, nil
}

func encodeJSON[T any](v T, empty string) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(b) == "null" {
		return empty, nil
	}
	return string(b), nil
}

func decodeJSON(raw string, dst any) error {
	if raw == "" || raw == "null" {
		return nil
	}
	return json.Unmarshal([]byte(raw), dst)
}
