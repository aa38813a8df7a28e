package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	tradeapp "github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// Idempotency headers of POST /orders
const (
	IdempotencyKeyHeader     = "Idempotency-Key"
	IdempotentReplayedHeader = "Idempotent-Replayed"
	maxIdempotencyKeyLength  = 255
)

// OrderHandler handles checkout and order lifecycle endpoints
type OrderHandler struct {
	BaseHandler
	checkoutService *tradeapp.CheckoutService
	orderService    *tradeapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(checkoutService *tradeapp.CheckoutService, orderService *tradeapp.OrderService) *OrderHandler {
	return &OrderHandler{
		checkoutService: checkoutService,
		orderService:    orderService,
	}
}

// Place godoc
// @Summary      Place an order
// @Description  Prices the cart, reserves the coupon and exports stock in one transaction.
// @Description  Repeating a request with the same Idempotency-Key returns the first order.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Client-chosen retry key"
// @Param        request body tradeapp.PlaceOrderRequest true "Cart"
// @Success      201 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders [post]
func (h *OrderHandler) Place(c *gin.Context) {
	key := c.GetHeader(IdempotencyKeyHeader)
	if len(key) > maxIdempotencyKeyLength {
		h.BadRequest(c, "Idempotency-Key is too long")
		return
	}

	var req tradeapp.PlaceOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	// Customers always order for themselves; back office may order on behalf of anyone
	if actorID := middleware.GetActorID(c); actorID != nil && middleware.GetActorRole(c) == identity.RoleCustomer {
		req.CustomerID = actorID
	}
	req.Shipping.RecipientName = sanitizeText(req.Shipping.RecipientName)
	req.Shipping.Phone = sanitizeText(req.Shipping.Phone)
	req.Shipping.Address = sanitizeText(req.Shipping.Address)
	req.Shipping.Note = sanitizeText(req.Shipping.Note)

	result, err := h.checkoutService.PlaceOrder(c.Request.Context(), req, key)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.Replayed {
		if !canSee(c, result.Order.CustomerID) {
			h.HandleError(c, shared.ErrNotFound)
			return
		}
		c.Header(IdempotentReplayedHeader, "true")
	}
	h.Created(c, result.Order)
}

// GetByID godoc
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !canSee(c, order.CustomerID) {
		h.HandleError(c, shared.ErrNotFound)
		return
	}
	h.Success(c, order)
}

// GetStatus godoc
// @Summary      Poll an order's status
// @Description  expired is true once a pending order is past its payment deadline
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.OrderStatusResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{id}/status [get]
func (h *OrderHandler) GetStatus(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	status, err := h.orderService.GetStatus(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, status)
}

// ConfirmPayment godoc
// @Summary      Confirm payment of an order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/confirm-payment [post]
func (h *OrderHandler) ConfirmPayment(c *gin.Context) {
	h.transition(c, h.orderService.ConfirmPayment)
}

// Ship godoc
// @Summary      Mark an order as shipped
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/ship [post]
func (h *OrderHandler) Ship(c *gin.Context) {
	h.transition(c, h.orderService.Ship)
}

// Complete godoc
// @Summary      Mark an order as delivered
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/complete [post]
func (h *OrderHandler) Complete(c *gin.Context) {
	h.transition(c, h.orderService.Complete)
}

// Cancel godoc
// @Summary      Cancel an order
// @Description  Allowed until the order ships. Exported stock is imported back.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body tradeapp.CancelOrderRequest true "Reason"
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.CancelOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.Reason = sanitizeText(req.Reason)

	order, err := h.orderService.Cancel(c.Request.Context(), id, req, middleware.GetActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

func (h *OrderHandler) transition(c *gin.Context, apply func(ctx context.Context, id uuid.UUID) (*tradeapp.OrderResponse, error)) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	order, err := apply(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// canSee hides other customers' orders from a customer actor. Guests and
// back office see any order they know the id of.
func canSee(c *gin.Context, owner *uuid.UUID) bool {
	if middleware.GetActorRole(c) != identity.RoleCustomer {
		return true
	}
	actorID := middleware.GetActorID(c)
	return owner != nil && actorID != nil && *owner == *actorID
}

// PaymentHandler receives payment provider callbacks
type PaymentHandler struct {
	BaseHandler
	orderService *tradeapp.OrderService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(orderService *tradeapp.OrderService) *PaymentHandler {
	return &PaymentHandler{orderService: orderService}
}

// Webhook godoc
// @Summary      Payment provider callback
// @Description  Confirms payment of the named order. A redelivered event_id is acknowledged with duplicate=true.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        X-Webhook-Secret header string false "Shared secret"
// @Param        request body tradeapp.PaymentWebhookRequest true "Event"
// @Success      200 {object} dto.Response{data=tradeapp.PaymentWebhookResult}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /payments/webhook [post]
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var req tradeapp.PaymentWebhookRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.orderService.HandlePaymentWebhook(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
