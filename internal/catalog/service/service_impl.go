package service

import (
	"context"
	"strings"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/jielong/internal/catalog/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

// Service holds the catalog in memory, serialized behind one mutex, and
// writes through to the repository after every mutation. A write-through
// failure is logged and otherwise ignored: durability is best-effort, the
// in-memory state stays authoritative for the session.
type Service struct {
	mu       sync.Mutex
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	products []domain.Product
}

func New(p Params) (domain.Service, error) {
	products, err := p.Repo.Load(context.Background())
	if err != nil {
		return nil, err
	}
	return &Service{
		log:      p.Log.Named("catalog.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		products: products,
	}, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateProductRequest) (domain.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Product{}, domain.ErrInvalidName
	}
	if req.Price < 0 {
		return domain.Product{}, domain.ErrInvalidPrice
	}

	product := domain.Product{
		ID:          s.genID.Generate().String(),
		Name:        name,
		Price:       req.Price,
		Specs:       s.buildSpecs(req.Specs),
		Image:       req.Image,
		Description: strings.TrimSpace(req.Description),
	}

	s.mu.Lock()
	s.products = append(s.products, product)
	s.persistLocked(ctx)
	s.mu.Unlock()

	return product, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateProductRequest) (domain.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Product{}, domain.ErrInvalidName
	}
	if req.Price < 0 {
		return domain.Product{}, domain.ErrInvalidPrice
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID != req.ID {
			continue
		}
		s.products[i].Name = name
		s.products[i].Price = req.Price
		s.products[i].Specs = s.buildSpecs(req.Specs)
		s.products[i].Image = req.Image
		s.products[i].Description = strings.TrimSpace(req.Description)
		updated := s.products[i]
		s.persistLocked(ctx)
		return updated, nil
	}
	return domain.Product{}, domain.ErrNotFound
}

func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			s.persistLocked(ctx)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *Service) List(ctx context.Context) []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneProducts(s.products)
}

func (s *Service) Get(ctx context.Context, id string) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			return cloneProduct(s.products[i]), nil
		}
	}
	return domain.Product{}, domain.ErrNotFound
}

func (s *Service) FindByName(ctx context.Context, name string) (domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].Name == name {
			return cloneProduct(s.products[i]), true
		}
	}
	return domain.Product{}, false
}

func (s *Service) Replace(ctx context.Context, products []domain.Product) error {
	normalized := domain.Normalize(products)
	s.mu.Lock()
	s.products = normalized
	s.persistLocked(ctx)
	s.mu.Unlock()
	return nil
}

// buildSpecs assigns ids to new specs and keeps ids the caller already has,
// so spec ids stay stable across edits.
func (s *Service) buildSpecs(inputs []domain.SpecInput) []domain.ProductSpec {
	specs := make([]domain.ProductSpec, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))
	for _, in := range inputs {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			continue
		}
		price := in.Price
		if price < 0 {
			price = 0
		}
		id := in.ID
		if id == "" {
			id = s.genID.Generate().String()
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		specs = append(specs, domain.ProductSpec{ID: id, Name: name, Price: price})
	}
	return specs
}

func (s *Service) persistLocked(ctx context.Context) {
	if err := s.repo.Save(ctx, cloneProducts(s.products)); err != nil {
		s.log.Warn("catalog persist failed", zap.Error(err))
	}
}

func cloneProduct(p domain.Product) domain.Product {
	p.Specs = append([]domain.ProductSpec(nil), p.Specs...)
	if p.Specs == nil {
		p.Specs = []domain.ProductSpec{}
	}
	return p
}

func cloneProducts(products []domain.Product) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		out = append(out, cloneProduct(p))
	}
	return out
}
