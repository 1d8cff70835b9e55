package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

// StockError reports the line item that blocked an order insert.
// It unwraps to ErrInsufficientStock or ErrProductNotFound.
type StockError struct {
	ProductID uuid.UUID
	Err       error
}

func (e *StockError) Error() string {
	return fmt.Sprintf("product %s: %v", e.ProductID, e.Err)
}

func (e *StockError) Unwrap() error {
	return e.Err
}

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create persists the order, its line items, and the matching stock
// decrements in one transaction. A decrement is conditional on the
// product still having enough stock; when it affects no rows the whole
// transaction rolls back with a StockError, so stock never goes
// negative and no partial order is ever left behind. Concurrent
// placements against the same product serialize on the row lock taken
// by the UPDATE.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		insertOrder := `
			INSERT INTO orders (id, customer_name, customer_email, customer_address, customer_city, customer_zip, total, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`

		_, err := tx.ExecContext(
			ctx,
			insertOrder,
			order.ID,
			order.Customer.Name,
			order.Customer.Email,
			order.Customer.Address,
			order.Customer.City,
			order.Customer.Zip,
			order.Total,
			order.Status,
			order.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		insertItem := `
			INSERT INTO order_items (order_id, position, product_id, quantity, price)
			VALUES ($1, $2, $3, $4, $5)
		`

		for i, item := range order.Items {
			if _, err := tx.ExecContext(ctx, insertItem, order.ID, i, item.ProductID, item.Quantity, item.Price); err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
		}

		decrement := `
			UPDATE products
			SET stock = stock - $2, updated_at = $3
			WHERE id = $1 AND stock >= $2
		`

		for _, item := range order.Items {
			result, err := tx.ExecContext(ctx, decrement, item.ProductID, item.Quantity, time.Now())
			if err != nil {
				return fmt.Errorf("failed to adjust stock: %w", err)
			}

			rowsAffected, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to get rows affected: %w", err)
			}

			if rowsAffected == 0 {
				var exists bool
				err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, item.ProductID).Scan(&exists)
				if err != nil {
					return fmt.Errorf("failed to check product existence: %w", err)
				}

				if !exists {
					return &StockError{ProductID: item.ProductID, Err: ErrProductNotFound}
				}
				return &StockError{ProductID: item.ProductID, Err: ErrInsufficientStock}
			}
		}

		return nil
	})
}

// FindByID retrieves an order and its line items by ID
func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `
		SELECT id, customer_name, customer_email, customer_address, customer_city, customer_zip, total, status, created_at
		FROM orders
		WHERE id = $1
	`

	order := &domain.Order{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.Customer.Name,
		&order.Customer.Email,
		&order.Customer.Address,
		&order.Customer.City,
		&order.Customer.Zip,
		&order.Total,
		&order.Status,
		&order.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	items, err := r.loadItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

// List retrieves all orders with their line items, newest first
func (r *orderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	query := `
		SELECT id, customer_name, customer_email, customer_address, customer_city, customer_zip, total, status, created_at
		FROM orders
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order := &domain.Order{}
		err := rows.Scan(
			&order.ID,
			&order.Customer.Name,
			&order.Customer.Email,
			&order.Customer.Address,
			&order.Customer.City,
			&order.Customer.Zip,
			&order.Total,
			&order.Status,
			&order.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	for _, order := range orders {
		items, err := r.loadItems(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
	}

	return orders, nil
}

// UpdateStatus sets the status of an order. Any status may replace any
// other; no transition rules are enforced.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	query := `UPDATE orders SET status = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// loadItems fetches the line items of an order in placement order
func (r *orderRepository) loadItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	query := `
		SELECT product_id, quantity, price
		FROM order_items
		WHERE order_id = $1
		ORDER BY position ASC
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	items := []domain.OrderItem{}
	for rows.Next() {
		item := domain.OrderItem{}
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}
