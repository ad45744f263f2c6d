package domain

import (
	"context"
	"errors"
)

type SpecInput struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type CreateProductRequest struct {
	Name        string
	Price       float64
	Specs       []SpecInput
	Image       string
	Description string
}

type UpdateProductRequest struct {
	ID          string
	Name        string
	Price       float64
	Specs       []SpecInput
	Image       string
	Description string
}

type Service interface {
	Create(ctx context.Context, req CreateProductRequest) (Product, error)
	Update(ctx context.Context, req UpdateProductRequest) (Product, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) []Product
	Get(ctx context.Context, id string) (Product, error)

	// FindByName resolves a product by exact, case-sensitive name.
	FindByName(ctx context.Context, name string) (Product, bool)

	// Replace overwrites the whole catalog; used by backup import.
	Replace(ctx context.Context, products []Product) error
}

var (
	ErrNotFound     = errors.New("product_not_found")
	ErrInvalidName  = errors.New("invalid_product_name")
	ErrInvalidPrice = errors.New("invalid_product_price")
)
