package catalog

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"
)

// Service implements create, get and partial update over a Store. Each
// mutation loads the full catalog, changes it and saves it back.
type Service struct {
	store Store
	log   *zap.Logger

	// mu serialises load-modify-save cycles within this process.
	mu sync.Mutex
}

func NewService(store Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log}
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Create validates fields and stores a new product under the next id.
func (s *Service) Create(ctx context.Context, fields map[string]any) (Product, error) {
	f, err := ValidateCreate(fields)
	if err != nil {
		return Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.store.Load(ctx)
	if err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}

	id := c.NextID()
	if _, taken := c[id]; taken {
		s.log.Warn("next id already in use, replacing existing product",
			zap.Int("id", id), zap.Int("catalog_size", len(c)))
	}

	p := f.Apply(Product{ID: id})
	c[id] = p

	if err := s.store.Save(ctx, c); err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}

	s.log.Debug("product created", zap.Int("id", id))
	return p, nil
}

func (s *Service) Get(ctx context.Context, id int) (Product, error) {
	c, err := s.store.Load(ctx)
	if err != nil {
		return Product{}, fmt.Errorf("get product %d: %w", id, err)
	}

	p, ok := c[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

// Update merges the fields present in the request into an existing product.
// An unknown id is reported before the payload is validated.
func (s *Service) Update(ctx context.Context, id int, fields map[string]any) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.store.Load(ctx)
	if err != nil {
		return Product{}, fmt.Errorf("update product %d: %w", id, err)
	}

	p, ok := c[id]
	if !ok {
		return Product{}, ErrNotFound
	}

	f, err := ValidateUpdate(fields)
	if err != nil {
		return Product{}, err
	}

	p = f.Apply(p)
	c[id] = p

	if err := s.store.Save(ctx, c); err != nil {
		return Product{}, fmt.Errorf("update product %d: %w", id, err)
	}

	s.log.Debug("product updated", zap.Int("id", id))
	return p, nil
}

// ParseID converts a path id. Ids are matched against their canonical
// decimal form, so "01" and "+1" do not name product 1. Anything else is
// reported as ErrNotFound.
func ParseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 || strconv.Itoa(id) != raw {
		return 0, ErrNotFound
	}
	return id, nil
}
