package domain

import "context"

// Repository persists the whole catalog as one document. Load degrades to an
// empty slice when the stored blob is corrupt.
type Repository interface {
	Load(ctx context.Context) ([]Product, error)
	Save(ctx context.Context, products []Product) error
}
