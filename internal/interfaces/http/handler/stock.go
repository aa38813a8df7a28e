package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	inventoryapp "github.com/storefront/backend/internal/application/inventory"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// StockHandler handles manual stock movements
type StockHandler struct {
	BaseHandler
	stockService *inventoryapp.StockLedgerService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *inventoryapp.StockLedgerService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// UpdateStockRequest is a manual import or export
type UpdateStockRequest struct {
	ProductID uuid.UUID           `json:"product_id" binding:"required"`
	Direction inventory.Direction `json:"direction" binding:"required,oneof=import export" example:"import"`
	Quantity  int                 `json:"quantity" binding:"required,min=1" example:"10"`
	Note      string              `json:"note" binding:"max=500" example:"Supplier delivery"`
}

// Update godoc
// @Summary      Record a stock movement
// @Description  Exports that would take stock below zero answer 409 INSUFFICIENT_STOCK
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        request body UpdateStockRequest true "Movement"
// @Success      200 {object} dto.Response{data=inventoryapp.StockSnapshot}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /stock/update [post]
func (h *StockHandler) Update(c *gin.Context) {
	var req UpdateStockRequest
	if !h.bindJSON(c, &req) {
		return
	}

	snapshot, err := h.stockService.RecordMovement(c.Request.Context(), inventoryapp.RecordMovementInput{
		ProductID: req.ProductID,
		Direction: req.Direction,
		Quantity:  req.Quantity,
		Note:      sanitizeText(req.Note),
		ActorID:   middleware.GetActorID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, snapshot)
}
