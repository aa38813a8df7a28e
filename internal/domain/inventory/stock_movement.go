package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Direction is the sign of a stock movement
type Direction string

const (
	// DirectionImport adds stock (purchase receiving, cancellation release)
	DirectionImport Direction = "import"
	// DirectionExport removes stock (sale, manual write-off)
	DirectionExport Direction = "export"
)

// String returns the string representation of Direction
func (d Direction) String() string {
	return string(d)
}

// IsValid returns true if the direction is import or export
func (d Direction) IsValid() bool {
	return d == DirectionImport || d == DirectionExport
}

// StockMovement is one immutable import or export against a product.
// Sequence is the movement's position in its product's ledger, starting at 1.
// It is assigned on append and is what replay orders by.
type StockMovement struct {
	ID           uuid.UUID
	ProductID    uuid.UUID
	Sequence     int64
	Direction    Direction
	Quantity     int
	Note         string
	ActorID      *uuid.UUID
	ReferenceID  *uuid.UUID
	BalanceAfter int
	CreatedAt    time.Time
}

// NewStockMovement validates and creates a movement. BalanceAfter and
// CreatedAt are stamped by the ledger once the stock row is updated.
func NewStockMovement(productID uuid.UUID, direction Direction, quantity int, note string, actorID *uuid.UUID) (*StockMovement, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Product ID is required")
	}
	if !direction.IsValid() {
		return nil, shared.NewValidationError("Direction must be import or export, got %q", direction)
	}
	if quantity <= 0 {
		return nil, shared.NewValidationError("Quantity must be a positive integer")
	}
	return &StockMovement{
		ID:        uuid.New(),
		ProductID: productID,
		Direction: direction,
		Quantity:  quantity,
		Note:      note,
		ActorID:   actorID,
		CreatedAt: time.Now(),
	}, nil
}

// WithReference links the movement to the document that caused it.
func (m *StockMovement) WithReference(id uuid.UUID) *StockMovement {
	m.ReferenceID = &id
	return m
}

// Delta is the signed change this movement applies to stock.
func (m *StockMovement) Delta() int {
	if m.Direction == DirectionExport {
		return -m.Quantity
	}
	return m.Quantity
}

// Replay folds movements, in order, into a stock level. It fails if any
// prefix of the sequence would take stock below zero.
func Replay(movements []StockMovement) (int, error) {
	stock := 0
	for i := range movements {
		stock += movements[i].Delta()
		if stock < 0 {
			return 0, shared.NewDomainError(shared.CodeInvalidState, "Stock movement sequence goes negative").
				WithDetails(map[string]any{
					"movement_id": movements[i].ID.String(),
					"position":    i,
				})
		}
	}
	return stock, nil
}
