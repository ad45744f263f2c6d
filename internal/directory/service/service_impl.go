package service

import (
	"context"
	"strings"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/jielong/internal/directory/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

// Service holds the customer directory in memory behind one mutex. New
// customers append at the end, so stored order doubles as creation order.
type Service struct {
	mu        sync.Mutex
	log       *zap.Logger
	genID     *snowflake.Node
	repo      domain.Repository
	customers []domain.Customer
}

func New(p Params) (domain.Service, error) {
	customers, err := p.Repo.Load(context.Background())
	if err != nil {
		return nil, err
	}
	return &Service{
		log:       p.Log.Named("directory.service"),
		genID:     p.GenID,
		repo:      p.Repo,
		customers: customers,
	}, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateCustomerRequest) (domain.Customer, error) {
	nickname := strings.TrimSpace(req.WechatNickname)
	if nickname == "" {
		return domain.Customer{}, domain.ErrInvalidNickname
	}

	customer := domain.Customer{
		ID:             s.genID.Generate().String(),
		WechatNickname: nickname,
		RealName:       strings.TrimSpace(req.RealName),
		Phone:          strings.TrimSpace(req.Phone),
		Address:        strings.TrimSpace(req.Address),
	}

	s.mu.Lock()
	s.customers = append(s.customers, customer)
	s.persistLocked(ctx)
	s.mu.Unlock()

	return customer, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateCustomerRequest) (domain.Customer, error) {
	nickname := strings.TrimSpace(req.WechatNickname)
	if nickname == "" {
		return domain.Customer{}, domain.ErrInvalidNickname
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.customers {
		if s.customers[i].ID != req.ID {
			continue
		}
		s.customers[i].WechatNickname = nickname
		s.customers[i].RealName = strings.TrimSpace(req.RealName)
		s.customers[i].Phone = strings.TrimSpace(req.Phone)
		s.customers[i].Address = strings.TrimSpace(req.Address)
		updated := s.customers[i]
		s.persistLocked(ctx)
		return updated, nil
	}
	return domain.Customer{}, domain.ErrNotFound
}

func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.customers {
		if s.customers[i].ID == id {
			s.customers = append(s.customers[:i], s.customers[i+1:]...)
			s.persistLocked(ctx)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *Service) List(ctx context.Context) []domain.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Customer, len(s.customers))
	copy(out, s.customers)
	return out
}

func (s *Service) Get(ctx context.Context, id string) (domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Customer{}, domain.ErrNotFound
}

func (s *Service) FindByNickname(ctx context.Context, nickname string) []domain.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matches []domain.Customer
	for _, c := range s.customers {
		if c.WechatNickname == nickname {
			matches = append(matches, c)
		}
	}
	return matches
}

func (s *Service) Replace(ctx context.Context, customers []domain.Customer) error {
	normalized := domain.Normalize(customers)
	s.mu.Lock()
	s.customers = normalized
	s.persistLocked(ctx)
	s.mu.Unlock()
	return nil
}

func (s *Service) persistLocked(ctx context.Context) {
	snapshot := make([]domain.Customer, len(s.customers))
	copy(snapshot, s.customers)
	if err := s.repo.Save(ctx, snapshot); err != nil {
		s.log.Warn("directory persist failed", zap.Error(err))
	}
}
