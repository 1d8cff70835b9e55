package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// OrderItemRequest is a proposed order line: which product and how
// many. The price is never client-supplied; it is snapshotted from the
// catalog at placement time.
type OrderItemRequest struct {
	ProductID uuid.UUID
	Quantity  int
}

// OrderService defines the interface for order business logic
type OrderService interface {
	PlaceOrder(ctx context.Context, customer domain.Customer, items []OrderItemRequest) (*domain.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

// PlaceOrder turns a proposed set of order lines plus customer details
// into a persisted order. All referenced products are checked before
// anything is written; the catalog price is frozen onto each line at
// lookup time; persistence and stock decrements happen atomically in
// the repository, so a failed decrement leaves no order behind.
func (s *orderService) PlaceOrder(ctx context.Context, customer domain.Customer, items []OrderItemRequest) (*domain.Order, error) {
	if err := validateCustomer(customer); err != nil {
		return nil, err
	}
	if err := validateItems(items); err != nil {
		return nil, err
	}

	ids := lo.Uniq(lo.Map(items, func(item OrderItemRequest, _ int) uuid.UUID {
		return item.ProductID
	}))

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to look up products: %w", err)
	}

	byID := lo.SliceToMap(products, func(p *domain.Product) (uuid.UUID, *domain.Product) {
		return p.ID, p
	})

	// Every reference must resolve before any write happens
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, &ProductNotFoundError{ProductID: id}
		}
	}

	orderItems := lo.Map(items, func(item OrderItemRequest, _ int) domain.OrderItem {
		return domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     byID[item.ProductID].Price,
		}
	})

	order := &domain.Order{
		ID:        uuid.New(),
		Customer:  customer,
		Items:     orderItems,
		Status:    domain.OrderStatusPending,
		CreatedAt: time.Now(),
	}
	order.Total = order.ComputeTotal()

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	s.resolveProducts([]*domain.Order{order}, byID)

	return order, nil
}

// GetOrder retrieves an order with its line items resolved to product
// summaries
func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.attachProducts(ctx, []*domain.Order{order}); err != nil {
		return nil, err
	}

	return order, nil
}

// ListOrders retrieves all orders, newest first, with line items
// resolved to product summaries
func (s *orderService) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.attachProducts(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// UpdateStatus sets the status of an order and returns the updated
// order. Any status may follow any other.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	if _, err := domain.ToOrderStatus(string(status)); err != nil {
		return nil, &ValidationError{Field: "status", Message: "must be one of pending, processing, shipped, delivered"}
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	return s.GetOrder(ctx, id)
}

// attachProducts performs the read-side join from line items to
// product summaries with a single batched catalog lookup. Products
// deleted since placement simply resolve to no summary.
func (s *orderService) attachProducts(ctx context.Context, orders []*domain.Order) error {
	ids := lo.Uniq(lo.FlatMap(orders, func(order *domain.Order, _ int) []uuid.UUID {
		return lo.Map(order.Items, func(item domain.OrderItem, _ int) uuid.UUID {
			return item.ProductID
		})
	}))

	if len(ids) == 0 {
		return nil
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to resolve order products: %w", err)
	}

	byID := lo.SliceToMap(products, func(p *domain.Product) (uuid.UUID, *domain.Product) {
		return p.ID, p
	})

	s.resolveProducts(orders, byID)
	return nil
}

func (s *orderService) resolveProducts(orders []*domain.Order, byID map[uuid.UUID]*domain.Product) {
	for _, order := range orders {
		for i := range order.Items {
			if product, ok := byID[order.Items[i].ProductID]; ok {
				order.Items[i].Product = product.Summary()
			}
		}
	}
}

func validateCustomer(customer domain.Customer) error {
	fields := []struct {
		name  string
		value string
	}{
		{"name", customer.Name},
		{"email", customer.Email},
		{"address", customer.Address},
		{"city", customer.City},
		{"zip", customer.Zip},
	}

	for _, field := range fields {
		if strings.TrimSpace(field.value) == "" {
			return &ValidationError{Field: field.name, Message: "is required"}
		}
	}

	return nil
}

func validateItems(items []OrderItemRequest) error {
	if len(items) == 0 {
		return &ValidationError{Field: "items", Message: "at least one item is required"}
	}

	for _, item := range items {
		if item.ProductID == uuid.Nil {
			return &ValidationError{Field: "items.product_id", Message: "is required"}
		}
		if item.Quantity < 1 {
			return &ValidationError{Field: "items.quantity", Message: "must be at least 1"}
		}
	}

	return nil
}
