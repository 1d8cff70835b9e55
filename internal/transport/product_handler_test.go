package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type fakeProductService struct {
	createProduct func(ctx context.Context, input service.CreateProductInput) (*domain.Product, error)
	updateProduct func(ctx context.Context, id uuid.UUID, input service.UpdateProductInput) (*domain.Product, error)
	deleteProduct func(ctx context.Context, id uuid.UUID) error
	getProduct    func(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	listProducts  func(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error)
}

func (f *fakeProductService) CreateProduct(ctx context.Context, input service.CreateProductInput) (*domain.Product, error) {
	return f.createProduct(ctx, input)
}

func (f *fakeProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input service.UpdateProductInput) (*domain.Product, error) {
	return f.updateProduct(ctx, id, input)
}

func (f *fakeProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return f.deleteProduct(ctx, id)
}

func (f *fakeProductService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return f.getProduct(ctx, id)
}

func (f *fakeProductService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
	return f.listProducts(ctx, filter)
}

func newProductRouter(svc service.ProductService) chi.Router {
	router := chi.NewRouter()
	handler := NewProductHandler(svc, zap.NewNop())
	handler.RegisterRoutes(router, passthrough)
	return router
}

func TestCreateProduct_Success(t *testing.T) {
	svc := &fakeProductService{
		createProduct: func(ctx context.Context, input service.CreateProductInput) (*domain.Product, error) {
			return &domain.Product{
				ID:        uuid.New(),
				Name:      input.Name,
				Price:     input.Price,
				Category:  domain.CategoryBooks,
				Stock:     input.Stock,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}, nil
		},
	}

	body, _ := json.Marshal(map[string]interface{}{
		"name":     "The Go Programming Language",
		"price":    39.99,
		"category": "books",
		"stock":    10,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	newProductRouter(svc).ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var created domain.Product
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if created.Name != "The Go Programming Language" {
		t.Errorf("unexpected name: %q", created.Name)
	}
	if created.Category != domain.CategoryBooks {
		t.Errorf("unexpected category: %q", created.Category)
	}
}

func TestCreateProduct_InvalidPayload(t *testing.T) {
	svc := &fakeProductService{
		createProduct: func(ctx context.Context, input service.CreateProductInput) (*domain.Product, error) {
			t.Fatal("service should not be reached for invalid payloads")
			return nil, nil
		},
	}

	tests := []struct {
		name    string
		payload map[string]interface{}
	}{
		{
			name:    "missing name",
			payload: map[string]interface{}{"price": 10.0},
		},
		{
			name:    "name too short",
			payload: map[string]interface{}{"name": "x", "price": 10.0},
		},
		{
			name:    "negative price",
			payload: map[string]interface{}{"name": "Widget", "price": -1.0},
		},
		{
			name:    "unknown category",
			payload: map[string]interface{}{"name": "Widget", "price": 10.0, "category": "gadgets"},
		},
		{
			name:    "negative stock",
			payload: map[string]interface{}{"name": "Widget", "price": 10.0, "stock": -3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.payload)
			req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			newProductRouter(svc).ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	svc := &fakeProductService{
		getProduct: func(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
			return nil, repository.ErrProductNotFound
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/products/"+uuid.New().String(), nil)
	w := httptest.NewRecorder()
	newProductRouter(svc).ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestGetProduct_InvalidID(t *testing.T) {
	svc := &fakeProductService{}

	req := httptest.NewRequest(http.MethodGet, "/api/products/not-a-uuid", nil)
	w := httptest.NewRecorder()
	newProductRouter(svc).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestListProducts_Filters(t *testing.T) {
	var captured repository.ProductFilter
	svc := &fakeProductService{
		listProducts: func(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
			captured = filter
			return []*domain.Product{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/products?category=electronics&featured=true&q=phone", nil)
	w := httptest.NewRecorder()
	newProductRouter(svc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if captured.Category == nil || *captured.Category != domain.CategoryElectronics {
		t.Error("expected category filter to be electronics")
	}
	if captured.Featured == nil || !*captured.Featured {
		t.Error("expected featured filter to be true")
	}
	if captured.Query != "phone" {
		t.Errorf("unexpected query filter: %q", captured.Query)
	}
}

func TestListProducts_InvalidCategory(t *testing.T) {
	svc := &fakeProductService{}

	req := httptest.NewRequest(http.MethodGet, "/api/products?category=gadgets", nil)
	w := httptest.NewRecorder()
	newProductRouter(svc).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestUpdateProduct_Partial(t *testing.T) {
	id := uuid.New()
	svc := &fakeProductService{
		updateProduct: func(ctx context.Context, gotID uuid.UUID, input service.UpdateProductInput) (*domain.Product, error) {
			if gotID != id {
				t.Errorf("expected id %s, got %s", id, gotID)
			}
			if input.Price == nil || *input.Price != 25.0 {
				t.Error("expected price update of 25.0")
			}
			if input.Name != nil {
				t.Error("expected name to be left alone")
			}
			return &domain.Product{ID: id, Name: "Widget", Price: 25.0}, nil
		},
	}

	body, _ := json.Marshal(map[string]interface{}{"price": 25.0})
	req := httptest.NewRequest(http.MethodPut, "/api/products/"+id.String(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	newProductRouter(svc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDeleteProduct(t *testing.T) {
	svc := &fakeProductService{
		deleteProduct: func(ctx context.Context, id uuid.UUID) error {
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/products/"+uuid.New().String(), nil)
	w := httptest.NewRecorder()
	newProductRouter(svc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}

func TestDeleteProduct_NotFound(t *testing.T) {
	svc := &fakeProductService{
		deleteProduct: func(ctx context.Context, id uuid.UUID) error {
			return repository.ErrProductNotFound
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/products/"+uuid.New().String(), nil)
	w := httptest.NewRecorder()
	newProductRouter(svc).ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}
