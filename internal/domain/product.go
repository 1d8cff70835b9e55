package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Category classifies a product in the catalog
type Category string

const (
	CategoryElectronics Category = "electronics"
	CategoryClothing    Category = "clothing"
	CategoryBooks       Category = "books"
	CategoryHome        Category = "home"
	CategoryOther       Category = "other"
)

var validCategories = map[Category]struct{}{
	CategoryElectronics: {},
	CategoryClothing:    {},
	CategoryBooks:       {},
	CategoryHome:        {},
	CategoryOther:       {},
}

// ToCategory parses a category string. An empty string maps to the
// default category "other".
func ToCategory(s string) (Category, error) {
	if s == "" {
		return CategoryOther, nil
	}

	category := Category(s)
	if _, ok := validCategories[category]; ok {
		return category, nil
	}

	return "", errors.New("invalid category")
}

// Categories returns all valid product categories
func Categories() []Category {
	result := make([]Category, 0, len(validCategories))
	for category := range validCategories {
		result = append(result, category)
	}
	return result
}

// Product represents a product in the catalog
type Product struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	ImageURL    string    `json:"image_url" db:"image_url"`
	Category    Category  `json:"category" db:"category"`
	Stock       int       `json:"stock" db:"stock"`
	Featured    bool      `json:"featured" db:"featured"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ProductSummary is the read-side projection of a product attached to
// order items when orders are fetched
type ProductSummary struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	ImageURL string    `json:"image_url"`
	Category Category  `json:"category"`
}

// Summary returns the read-side projection of the product
func (p *Product) Summary() *ProductSummary {
	return &ProductSummary{
		ID:       p.ID,
		Name:     p.Name,
		ImageURL: p.ImageURL,
		Category: p.Category,
	}
}
