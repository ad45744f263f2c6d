package domain

import "context"

type Repository interface {
	Load(ctx context.Context) ([]Customer, error)
	Save(ctx context.Context, customers []Customer) error
}
