package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the fulfillment state of an order. Any status may
// follow any other; there are no forbidden transitions.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
)

var validOrderStatuses = map[OrderStatus]struct{}{
	OrderStatusPending:    {},
	OrderStatusProcessing: {},
	OrderStatusShipped:    {},
	OrderStatusDelivered:  {},
}

// ToOrderStatus parses an order status string
func ToOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if _, ok := validOrderStatuses[status]; ok {
		return status, nil
	}

	return "", errors.New("invalid order status")
}

// OrderStatuses returns all valid order statuses
func OrderStatuses() []OrderStatus {
	result := make([]OrderStatus, 0, len(validOrderStatuses))
	for status := range validOrderStatuses {
		result = append(result, status)
	}
	return result
}

// Customer holds the shipping details captured with an order
type Customer struct {
	Name    string `json:"name" db:"customer_name"`
	Email   string `json:"email" db:"customer_email"`
	Address string `json:"address" db:"customer_address"`
	City    string `json:"city" db:"customer_city"`
	Zip     string `json:"zip" db:"customer_zip"`
}

// OrderItem is a single line of an order. Price is the catalog price
// snapshotted at placement time and never re-read afterwards. Product
// is resolved on the read side and is nil when the catalog entry has
// since been deleted.
type OrderItem struct {
	ProductID uuid.UUID       `json:"product_id" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	Price     float64         `json:"price" db:"price"`
	Product   *ProductSummary `json:"product,omitempty" db:"-"`
}

// Order is a placed order. Everything except Status is immutable once
// the order has been persisted.
type Order struct {
	ID        uuid.UUID   `json:"id" db:"id"`
	Customer  Customer    `json:"customer"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total" db:"total"`
	Status    OrderStatus `json:"status" db:"status"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
}

// ComputeTotal sums price times quantity over all line items
func (o *Order) ComputeTotal() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}
