package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/inventory"
)

// RecordMovementInput is a request to move stock in or out
type RecordMovementInput struct {
	ProductID   uuid.UUID
	Direction   inventory.Direction
	Quantity    int
	Note        string
	ActorID     *uuid.UUID
	ReferenceID *uuid.UUID
}

// StockSnapshot is the stock of a product right after a movement
type StockSnapshot struct {
	ProductID   uuid.UUID             `json:"product_id"`
	Stock       int                   `json:"stock"`
	StockStatus inventory.StockStatus `json:"stock_status"`
	MovementID  uuid.UUID             `json:"movement_id"`
	Direction   inventory.Direction   `json:"direction"`
	Quantity    int                   `json:"quantity"`
	RecordedAt  time.Time             `json:"recorded_at"`
}

// StockReport compares the stored stock with the replayed movements
type StockReport struct {
	ProductID   uuid.UUID             `json:"product_id"`
	Stored      int                   `json:"stored"`
	Replayed    int                   `json:"replayed"`
	InSync      bool                  `json:"in_sync"`
	StockStatus inventory.StockStatus `json:"stock_status"`
	Movements   int                   `json:"movements"`
}

// MovementResponse is a stock movement as returned to clients
type MovementResponse struct {
	ID           uuid.UUID           `json:"id"`
	ProductID    uuid.UUID           `json:"product_id"`
	Direction    inventory.Direction `json:"direction"`
	Quantity     int                 `json:"quantity"`
	Note         string              `json:"note,omitempty"`
	ActorID      *uuid.UUID          `json:"actor_id,omitempty"`
	ReferenceID  *uuid.UUID          `json:"reference_id,omitempty"`
	BalanceAfter int                 `json:"balance_after"`
	CreatedAt    time.Time           `json:"created_at"`
}

// ToMovementResponse converts a domain movement
func ToMovementResponse(m *inventory.StockMovement) MovementResponse {
	return MovementResponse{
		ID:           m.ID,
		ProductID:    m.ProductID,
		Direction:    m.Direction,
		Quantity:     m.Quantity,
		Note:         m.Note,
		ActorID:      m.ActorID,
		ReferenceID:  m.ReferenceID,
		BalanceAfter: m.BalanceAfter,
		CreatedAt:    m.CreatedAt,
	}
}
