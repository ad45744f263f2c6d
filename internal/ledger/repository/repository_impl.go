package repository

import (
	"context"
	"encoding/json"

	"github.com/smallbiznis/jielong/internal/ledger/domain"
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
		log:   p.Log.Named("ledger.repository"),
	}
}

func (r *repo) Load(ctx context.Context) ([]domain.Order, error) {
	raw, ok, err := r.store.Get(ctx, state.KeyOrders)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []domain.Order{}, nil
	}

	var orders []domain.Order
	if err := json.Unmarshal([]byte(raw), &orders); err != nil {
		r.log.Warn("stored ledger unreadable, starting empty", zap.Error(err))
		return []domain.Order{}, nil
	}
	return domain.Normalize(orders), nil
}

func (r *repo) Save(ctx context.Context, orders []domain.Order) error {
	if orders == nil {
		orders = []domain.Order{}
	}
	raw, err := json.Marshal(orders)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, state.KeyOrders, string(raw))
}
