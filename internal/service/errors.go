package service

import (
	"fmt"

	"storefront/internal/repository"

	"github.com/google/uuid"
)

// ValidationError reports a missing or malformed input field. It is
// always raised before any side effect.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ProductNotFoundError reports an order line referencing a product
// that does not exist. It unwraps to repository.ErrProductNotFound so
// callers can match either form.
type ProductNotFoundError struct {
	ProductID uuid.UUID
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

func (e *ProductNotFoundError) Unwrap() error {
	return repository.ErrProductNotFound
}
