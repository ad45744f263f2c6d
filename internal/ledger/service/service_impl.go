package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/smallbiznis/jielong/internal/actionlog"
	"github.com/smallbiznis/jielong/internal/ledger/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Repo     domain.Repository
	Recorder *actionlog.Recorder
}

// Service owns the order ledger. Orders append at the end; status moves
// forward through Advance, and only SetStatus may move it anywhere else.
type Service struct {
	mu       sync.Mutex
	log      *zap.Logger
	repo     domain.Repository
	recorder *actionlog.Recorder
	orders   []domain.Order
}

func New(p Params) (domain.Service, error) {
	orders, err := p.Repo.Load(context.Background())
	if err != nil {
		return nil, err
	}
	return &Service{
		log:      p.Log.Named("ledger.service"),
		repo:     p.Repo,
		recorder: p.Recorder,
		orders:   orders,
	}, nil
}

func (s *Service) Append(ctx context.Context, order domain.Order) (domain.Order, error) {
	if !order.Status.Valid() {
		return domain.Order{}, domain.ErrInvalidStatus
	}
	order = domain.Clone(order)
	order.TotalAmount = domain.Total(order.Items)

	s.mu.Lock()
	s.orders = append(s.orders, order)
	s.persistLocked(ctx)
	s.mu.Unlock()

	return domain.Clone(order), nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return domain.Order{}, domain.ErrNotFound
	}
	return domain.Clone(s.orders[idx]), nil
}

func (s *Service) List(ctx context.Context) []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, domain.Clone(o))
	}
	return out
}

func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return domain.ErrNotFound
	}
	s.orders = append(s.orders[:idx], s.orders[idx+1:]...)
	s.persistLocked(ctx)
	return nil
}

func (s *Service) Advance(ctx context.Context, id string, target domain.Status) (domain.Order, error) {
	if !target.Valid() {
		return domain.Order{}, domain.ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return domain.Order{}, domain.ErrNotFound
	}

	current := s.orders[idx].Status
	switch {
	case target.Rank() == current.Rank():
		// Repeat transition, nothing to do.
	case target.Rank() < current.Rank():
		s.recorder.Warning(fmt.Sprintf(
			"refused to move order %s backward from %s to %s; use the manual override to correct",
			id, current, target))
	default:
		s.orders[idx].Status = target
		s.persistLocked(ctx)
	}
	return domain.Clone(s.orders[idx]), nil
}

func (s *Service) SetStatus(ctx context.Context, id string, target domain.Status) (domain.Order, error) {
	if !target.Valid() {
		return domain.Order{}, domain.ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return domain.Order{}, domain.ErrNotFound
	}

	previous := s.orders[idx].Status
	s.orders[idx].Status = target
	s.persistLocked(ctx)
	s.recorder.Warning(fmt.Sprintf(
		"manual status override on order %s: %s -> %s", id, previous, target))
	return domain.Clone(s.orders[idx]), nil
}

func (s *Service) UpdateItems(ctx context.Context, id string, items []domain.OrderItem, note *string) (domain.Order, error) {
	for _, item := range items {
		if item.Quantity <= 0 {
			return domain.Order{}, domain.ErrInvalidQuantity
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return domain.Order{}, domain.ErrNotFound
	}

	replacement := make([]domain.OrderItem, len(items))
	copy(replacement, items)
	s.orders[idx].Items = replacement
	s.orders[idx].TotalAmount = domain.Total(replacement)
	if note != nil {
		s.orders[idx].Note = *note
	}
	s.persistLocked(ctx)
	return domain.Clone(s.orders[idx]), nil
}

func (s *Service) Replace(ctx context.Context, orders []domain.Order) error {
	normalized := domain.Normalize(orders)
	s.mu.Lock()
	s.orders = normalized
	s.persistLocked(ctx)
	s.mu.Unlock()
	return nil
}

func (s *Service) indexLocked(id string) int {
	for i := range s.orders {
		if s.orders[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) persistLocked(ctx context.Context) {
	snapshot := make([]domain.Order, len(s.orders))
	copy(snapshot, s.orders)
	if err := s.repo.Save(ctx, snapshot); err != nil {
		s.log.Warn("ledger persist failed", zap.Error(err))
	}
}
