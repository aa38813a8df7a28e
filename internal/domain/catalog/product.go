package catalog

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// ProductStatus represents the lifecycle status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
	ProductStatusDeleted  ProductStatus = "deleted"
)

// IsValid checks if the status is a known value
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusActive, ProductStatusInactive, ProductStatusDeleted:
		return true
	}
	return false
}

// String returns the string representation
func (s ProductStatus) String() string {
	return string(s)
}

const aggregateTypeProduct = "Product"

// Product is the catalog aggregate root.
// Stock is a denormalized projection of the product's stock movements and is
// only changed by the stock ledger, never by catalog edits.
type Product struct {
	shared.BaseAggregateRoot
	Name              string
	Price             decimal.Decimal
	DiscountPercent   int
	Stock             int
	LowStockThreshold *int
	CategoryID        *uuid.UUID
	BrandID           *uuid.UUID
	Status            ProductStatus
}

// NewProduct creates a new active product with zero stock.
func NewProduct(name string, price decimal.Decimal) (*Product, error) {
	p := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Status:            ProductStatusActive,
	}
	if err := p.setName(name); err != nil {
		return nil, err
	}
	if err := p.setPrice(price); err != nil {
		return nil, err
	}

	p.AddDomainEvent(NewProductChangedEvent(EventTypeProductCreated, p))
	return p, nil
}

// ProductChanges carries a partial edit; nil fields are left unchanged.
type ProductChanges struct {
	Name              *string
	Price             *decimal.Decimal
	DiscountPercent   *int
	LowStockThreshold *int
	ClearThreshold    bool
	CategoryID        *uuid.UUID
	BrandID           *uuid.UUID
	Status            *ProductStatus
}

// IsEmpty reports whether the edit changes nothing.
func (c ProductChanges) IsEmpty() bool {
	return c.Name == nil && c.Price == nil && c.DiscountPercent == nil &&
		c.LowStockThreshold == nil && !c.ClearThreshold && c.CategoryID == nil &&
		c.BrandID == nil && c.Status == nil
}

// Apply validates and applies an edit, advancing the version.
func (p *Product) Apply(c ProductChanges) error {
	if p.IsDeleted() {
		return shared.NewDomainError(shared.CodeInvalidState, "Cannot edit a deleted product")
	}
	if c.IsEmpty() {
		return shared.NewValidationError("No product fields to update")
	}
	if c.Name != nil {
		if err := p.setName(*c.Name); err != nil {
			return err
		}
	}
	if c.Price != nil {
		if err := p.setPrice(*c.Price); err != nil {
			return err
		}
	}
	if c.DiscountPercent != nil {
		if *c.DiscountPercent < 0 || *c.DiscountPercent > 100 {
			return shared.NewValidationError("Discount percent must be between 0 and 100")
		}
		p.DiscountPercent = *c.DiscountPercent
	}
	if c.ClearThreshold {
		p.LowStockThreshold = nil
	} else if c.LowStockThreshold != nil {
		if *c.LowStockThreshold < 0 {
			return shared.NewValidationError("Low stock threshold cannot be negative")
		}
		v := *c.LowStockThreshold
		p.LowStockThreshold = &v
	}
	if c.CategoryID != nil {
		id := *c.CategoryID
		p.CategoryID = &id
	}
	if c.BrandID != nil {
		id := *c.BrandID
		p.BrandID = &id
	}
	if c.Status != nil {
		if *c.Status != ProductStatusActive && *c.Status != ProductStatusInactive {
			return shared.NewValidationError("Status must be active or inactive")
		}
		p.Status = *c.Status
	}

	p.markChanged(EventTypeProductUpdated)
	return nil
}

// SoftDelete marks the product deleted. Order items keep referencing it.
func (p *Product) SoftDelete() error {
	if p.IsDeleted() {
		return shared.NewDomainError(shared.CodeInvalidState, "Product is already deleted")
	}
	p.Status = ProductStatusDeleted
	p.markChanged(EventTypeProductDeleted)
	return nil
}

// IsDeleted reports whether the product was soft deleted
func (p *Product) IsDeleted() bool {
	return p.Status == ProductStatusDeleted
}

// IsPurchasable reports whether the product can be put in an order
func (p *Product) IsPurchasable() bool {
	return p.Status == ProductStatusActive
}

// EffectivePrice is the unit price after the product's own discount.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPercent == 0 {
		return p.Price
	}
	factor := decimal.NewFromInt(int64(100 - p.DiscountPercent)).Div(decimal.NewFromInt(100))
	return p.Price.Mul(factor).Round(2)
}

func (p *Product) markChanged(eventType string) {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	p.AddDomainEvent(NewProductChangedEvent(eventType, p))
}

func (p *Product) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("Product name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 200 {
		return shared.NewValidationError("Product name cannot exceed 200 characters")
	}
	p.Name = name
	return nil
}

func (p *Product) setPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewValidationError("Price cannot be negative")
	}
	p.Price = price.Round(2)
	return nil
}
