package repository

import (
	"context"
	"encoding/json"

	"github.com/smallbiznis/jielong/internal/catalog/domain"
	"github.com/smallbiznis/jielong/internal/state"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Store state.Store
	Log   *zap.Logger
}

type repo struct {
	store state.Store
	log   *zap.Logger
}

func Provide(p Params) domain.Repository {
	return &repo{
		store: p.Store,
		log:   p.Log.Named("catalog.repository"),
	}
}

func (r *repo) Load(ctx context.Context) ([]domain.Product, error) {
	raw, ok, err := r.store.Get(ctx, state.KeyProducts)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []domain.Product{}, nil
	}

	var products []domain.Product
	if err := json.Unmarshal([]byte(raw), &products); err != nil {
		// Corrupt blob: reset this store, keep the process alive.
		r.log.Warn("stored catalog unreadable, starting empty", zap.Error(err))
		return []domain.Product{}, nil
	}
	return domain.Normalize(products), nil
}

func (r *repo) Save(ctx context.Context, products []domain.Product) error {
	if products == nil {
		products = []domain.Product{}
	}
	raw, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, state.KeyProducts, string(raw))
}
