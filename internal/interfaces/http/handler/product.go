package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	inventoryapp "github.com/storefront/backend/internal/application/inventory"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// ProductHandler handles product, history and stock report endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
	stockService   *inventoryapp.StockLedgerService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService, stockService *inventoryapp.StockLedgerService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		stockService:   stockService,
	}
}

func actorFrom(c *gin.Context) catalogapp.Actor {
	return catalogapp.Actor{
		UserID:   middleware.GetActorID(c),
		ClientIP: c.ClientIP(),
	}
}

// Create godoc
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProductRequest true "Product"
// @Success      201 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.Name = sanitizeText(req.Name)

	product, err := h.productService.Create(c.Request.Context(), req, actorFrom(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// GetByID godoc
// @Summary      Get a product
// @Description  The response carries the version to send back with edits
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// List godoc
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        page query int false "Page" minimum(1)
// @Param        page_size query int false "Page size" minimum(1) maximum(100)
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductResponse}
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	filter, ok := h.pageFilter(c)
	if !ok {
		return
	}

	products, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, products, len(products), filter)
}

// Update godoc
// @Summary      Edit a product
// @Description  Partial edit guarded by version. A stale version answers 409 with the current version in details.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.UpdateProductRequest true "Changes"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id} [patch]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.Name = sanitizeTextPtr(req.Name)

	product, err := h.productService.Update(c.Request.Context(), id, req, actorFrom(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete godoc
// @Summary      Delete a product
// @Tags         products
// @Param        id path string true "Product ID" format(uuid)
// @Param        version query int true "Version last read"
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var q dto.VersionQuery
	if !h.bindQuery(c, &q) {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id, q.Version, actorFrom(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListHistory godoc
// @Summary      Product change history
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        page query int false "Page" minimum(1)
// @Param        page_size query int false "Page size" minimum(1) maximum(100)
// @Success      200 {object} dto.Response{data=[]catalogapp.HistoryEntryResponse}
// @Security     BearerAuth
// @Router       /products/{id}/history [get]
func (h *ProductHandler) ListHistory(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	filter, ok := h.pageFilter(c)
	if !ok {
		return
	}

	entries, err := h.productService.ListHistory(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, entries, len(entries), filter)
}

// Restore godoc
// @Summary      Restore a product from a history entry
// @Description  Re-applies the old values of an "updated" entry. Other entry kinds answer 422.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        entryId path string true "History entry ID" format(uuid)
// @Param        request body catalogapp.RestoreRequest false "Optional version pin"
// @Success      200 {object} dto.Response{data=catalogapp.RestoreResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /product-history/{entryId}/restore [post]
func (h *ProductHandler) Restore(c *gin.Context) {
	entryID, ok := h.parseID(c, "entryId")
	if !ok {
		return
	}
	var req catalogapp.RestoreRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}

	result, err := h.productService.Restore(c.Request.Context(), entryID, req, actorFrom(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// StockReport godoc
// @Summary      Stock of a product
// @Description  Stored stock next to the value replayed from the movement ledger
// @Tags         stock
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=inventoryapp.StockReport}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id}/stock [get]
func (h *ProductHandler) StockReport(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	report, err := h.stockService.Report(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// ListMovements godoc
// @Summary      Stock movements of a product
// @Tags         stock
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]inventoryapp.MovementResponse}
// @Security     BearerAuth
// @Router       /products/{id}/movements [get]
func (h *ProductHandler) ListMovements(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	movements, err := h.stockService.ListMovements(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, movements)
}
