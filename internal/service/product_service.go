package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

const (
	minNameLength        = 2
	maxNameLength        = 100
	maxDescriptionLength = 1000
)

// CreateProductInput carries the fields for a new catalog entry
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	ImageURL    string
	Category    string
	Stock       int
	Featured    bool
}

// UpdateProductInput carries a partial product update; nil fields are
// left untouched
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	ImageURL    *string
	Category    *string
	Stock       *int
	Featured    *bool
}

// ProductService defines the interface for catalog business logic
type ProductService interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ListProducts(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error)
}

type productService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

// CreateProduct validates and persists a new catalog entry
func (s *productService) CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	category, err := domain.ToCategory(input.Category)
	if err != nil {
		return nil, &ValidationError{Field: "category", Message: "must be one of electronics, clothing, books, home, other"}
	}

	product := &domain.Product{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		ImageURL:    input.ImageURL,
		Category:    category,
		Stock:       input.Stock,
		Featured:    input.Featured,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// UpdateProduct applies the provided fields onto an existing product
// and bumps its last-modified time
func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}
	if input.Category != nil {
		category, err := domain.ToCategory(*input.Category)
		if err != nil {
			return nil, &ValidationError{Field: "category", Message: "must be one of electronics, clothing, books, home, other"}
		}
		product.Category = category
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.Featured != nil {
		product.Featured = *input.Featured
	}
	product.UpdatedAt = time.Now()

	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// DeleteProduct removes a catalog entry
func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

// GetProduct retrieves a catalog entry by ID
func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// ListProducts retrieves catalog entries matching the filter, newest
// first
func (s *productService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
	return s.productRepo.List(ctx, filter)
}

func validateProduct(product *domain.Product) error {
	if len(product.Name) < minNameLength || len(product.Name) > maxNameLength {
		return &ValidationError{Field: "name", Message: fmt.Sprintf("must be between %d and %d characters", minNameLength, maxNameLength)}
	}

	if len(product.Description) > maxDescriptionLength {
		return &ValidationError{Field: "description", Message: fmt.Sprintf("cannot exceed %d characters", maxDescriptionLength)}
	}

	if product.Price <= 0 {
		return &ValidationError{Field: "price", Message: "must be greater than 0"}
	}

	if product.Stock < 0 {
		return &ValidationError{Field: "stock", Message: "must be greater than or equal to 0"}
	}

	if product.ImageURL != "" &&
		!strings.HasPrefix(product.ImageURL, "http://") &&
		!strings.HasPrefix(product.ImageURL, "https://") {
		return &ValidationError{Field: "image_url", Message: "must start with http:// or https://"}
	}

	return nil
}
