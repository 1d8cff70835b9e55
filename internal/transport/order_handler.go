package transport

import (
	"errors"
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// CustomerPayload represents the customer block of an order request
type CustomerPayload struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	Zip     string `json:"zip" validate:"required"`
}

// OrderItemPayload represents a requested order line. The price is
// deliberately absent; it is snapshotted server-side from the catalog.
type OrderItemPayload struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// CreateOrderRequest represents the order placement payload
type CreateOrderRequest struct {
	Customer CustomerPayload    `json:"customer" validate:"required"`
	Items    []OrderItemPayload `json:"items" validate:"required,min=1,dive"`
}

// UpdateOrderStatusRequest represents the status update payload
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing shipped delivered"`
}

// OrderHandler handles HTTP requests for order operations
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// RegisterRoutes registers all order routes. Placement is public;
// listing, retrieval, and status updates are administrative.
func (h *OrderHandler) RegisterRoutes(r chi.Router, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Post("/", h.CreateOrder)

		r.Group(func(r chi.Router) {
			r.Use(adminMiddleware)
			r.Get("/", h.ListOrders)
			r.Get("/{id}", h.GetOrder)
			r.Patch("/{id}/status", h.UpdateStatus)
		})
	})
}

// CreateOrder handles order placement
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Order validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := lo.Map(req.Items, func(item OrderItemPayload, _ int) service.OrderItemRequest {
		// uuid format already checked by the validator tag
		id, _ := uuid.Parse(item.ProductID)
		return service.OrderItemRequest{ProductID: id, Quantity: item.Quantity}
	})

	customer := domain.Customer{
		Name:    req.Customer.Name,
		Email:   req.Customer.Email,
		Address: req.Customer.Address,
		City:    req.Customer.City,
		Zip:     req.Customer.Zip,
	}

	order, err := h.orderService.PlaceOrder(r.Context(), customer, items)
	if err != nil {
		h.respondOrderError(w, err)
		return
	}

	h.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.Float64("total", order.Total),
		zap.Int("items", len(order.Items)),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, order)
}

// ListOrders handles listing all orders, newest first
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.ListOrders(r.Context())
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// GetOrder handles fetching a single order
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	order, err := h.orderService.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
			return
		}

		h.logger.Error("Failed to get order", zap.Error(err), zap.String("order_id", id.String()))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get order")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// UpdateStatus handles order status updates
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	var req UpdateOrderStatusRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Status update validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orderService.UpdateStatus(r.Context(), id, domain.OrderStatus(req.Status))
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
			return
		}

		h.logger.Error("Failed to update order status", zap.Error(err), zap.String("order_id", id.String()))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update order status")
		return
	}

	h.logger.Info("Order status updated",
		zap.String("order_id", order.ID.String()),
		zap.String("status", string(order.Status)),
	)
	middleware.RespondWithJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) respondOrderError(w http.ResponseWriter, err error) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		middleware.RespondWithValidationErrors(w, []middleware.ValidationError{
			{Field: validationErr.Field, Message: validationErr.Message},
		})
		return
	}

	if errors.Is(err, repository.ErrProductNotFound) {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var stockErr *repository.StockError
	if errors.As(err, &stockErr) && errors.Is(err, repository.ErrInsufficientStock) {
		h.logger.Warn("Order rejected on stock",
			zap.String("product_id", stockErr.ProductID.String()),
		)
		middleware.RespondWithError(w, http.StatusConflict, stockErr.Error())
		return
	}

	h.logger.Error("Order placement failed", zap.Error(err))
	middleware.RespondWithError(w, http.StatusInternalServerError, "failed to place order")
}
