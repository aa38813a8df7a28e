package catalog

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Event type constants
const (
	EventTypeProductCreated  = "ProductCreated"
	EventTypeProductUpdated  = "ProductUpdated"
	EventTypeProductDeleted  = "ProductDeleted"
	EventTypeProductRestored = "ProductRestored"
)

// ProductChangedEvent is published after a product mutation commits
type ProductChangedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID     `json:"product_id"`
	Name      string        `json:"name"`
	Status    ProductStatus `json:"status"`
	Version   int           `json:"version"`
}

// NewProductChangedEvent creates a ProductChangedEvent of the given type
func NewProductChangedEvent(eventType string, p *Product) *ProductChangedEvent {
	return &ProductChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, aggregateTypeProduct, p.ID),
		ProductID:       p.ID,
		Name:            p.Name,
		Status:          p.Status,
		Version:         p.Version,
	}
}
