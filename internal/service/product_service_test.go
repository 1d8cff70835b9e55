package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"storefront/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func newTestProductService() (ProductService, *mockProductRepository) {
	catalog := newMockProductRepository()
	return NewProductService(catalog), catalog
}

func validProductInput() CreateProductInput {
	return CreateProductInput{
		Name:     "Mechanical Keyboard",
		Price:    79.99,
		Category: "electronics",
		Stock:    12,
	}
}

func TestCreateProduct_Defaults(t *testing.T) {
	svc, _ := newTestProductService()
	ctx := context.Background()

	input := validProductInput()
	input.Category = ""

	product, err := svc.CreateProduct(ctx, input)
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	if product.Category != domain.CategoryOther {
		t.Errorf("empty category must default to other, got %s", product.Category)
	}
	if product.Featured {
		t.Error("featured must default to false")
	}
	if product.CreatedAt.IsZero() || product.UpdatedAt.IsZero() {
		t.Error("timestamps must be set on creation")
	}
}

func TestCreateProduct_Validation(t *testing.T) {
	svc, _ := newTestProductService()
	ctx := context.Background()

	tests := []struct {
		name   string
		field  string
		mutate func(i *CreateProductInput)
	}{
		{"name too short", "name", func(i *CreateProductInput) { i.Name = "x" }},
		{"name too long", "name", func(i *CreateProductInput) { i.Name = strings.Repeat("a", 101) }},
		{"description too long", "description", func(i *CreateProductInput) { i.Description = strings.Repeat("a", 1001) }},
		{"zero price", "price", func(i *CreateProductInput) { i.Price = 0 }},
		{"negative price", "price", func(i *CreateProductInput) { i.Price = -1 }},
		{"negative stock", "stock", func(i *CreateProductInput) { i.Stock = -1 }},
		{"bad category", "category", func(i *CreateProductInput) { i.Category = "groceries" }},
		{"bad image url", "image_url", func(i *CreateProductInput) { i.ImageURL = "ftp://example.com/img.png" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validProductInput()
			tt.mutate(&input)

			_, err := svc.CreateProduct(ctx, input)

			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if validationErr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, validationErr.Field)
			}
		})
	}
}

func TestUpdateProduct_PartialUpdate(t *testing.T) {
	svc, _ := newTestProductService()
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, validProductInput())
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	newPrice := 59.99
	updated, err := svc.UpdateProduct(ctx, product.ID, UpdateProductInput{Price: &newPrice})
	if err != nil {
		t.Fatalf("UpdateProduct failed: %v", err)
	}

	if updated.Price != newPrice {
		t.Errorf("expected price %v, got %v", newPrice, updated.Price)
	}
	if updated.Name != product.Name {
		t.Error("untouched fields must be preserved")
	}
	if !updated.UpdatedAt.After(product.UpdatedAt) && !updated.UpdatedAt.Equal(product.UpdatedAt) {
		t.Error("updated_at must be bumped on mutation")
	}
}

func TestProperty_ProductNameLengthEnforced(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("names outside 2-100 characters are rejected", prop.ForAll(
		func(name string) bool {
			svc, _ := newTestProductService()
			ctx := context.Background()

			input := validProductInput()
			input.Name = name

			_, err := svc.CreateProduct(ctx, input)

			trimmed := strings.TrimSpace(name)
			valid := len(trimmed) >= 2 && len(trimmed) <= 100
			if valid {
				return err == nil
			}

			var validationErr *ValidationError
			return errors.As(err, &validationErr)
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
