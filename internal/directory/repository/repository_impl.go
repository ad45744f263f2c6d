package repository

import (
	"context"
	"encoding/json"

	"github.com/smallbiznis/jielong/internal/directory/domain"
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
		log:   p.Log.Named("directory.repository"),
	}
}

func (r *repo) Load(ctx context.Context) ([]domain.Customer, error) {
	raw, ok, err := r.store.Get(ctx, state.KeyCustomers)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []domain.Customer{}, nil
	}

	var customers []domain.Customer
	if err := json.Unmarshal([]byte(raw), &customers); err != nil {
		r.log.Warn("stored directory unreadable, starting empty", zap.Error(err))
		return []domain.Customer{}, nil
	}
	return domain.Normalize(customers), nil
}

func (r *repo) Save(ctx context.Context, customers []domain.Customer) error {
	if customers == nil {
		customers = []domain.Customer{}
	}
	raw, err := json.Marshal(customers)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, state.KeyCustomers, string(raw))
}
