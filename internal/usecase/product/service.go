package product

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/prodex/internal/domain"
	domprod "github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/product/patch"
)

// Service handles product CRUD. Timestamps and generated IDs are owned here.
type Service struct {
	repo  Repository
	newID func() string
	now   func() time.Time
}

// New creates a product service with UUIDv4 identifiers.
func New(repo Repository) *Service {
	return &Service{repo: repo, newID: uuid.NewString, now: time.Now}
}

// WithClock overrides the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// WithIDGenerator overrides identifier generation.
func (s *Service) WithIDGenerator(gen func() string) *Service {
	if gen != nil {
		s.newID = gen
	}
	return s
}

// Create validates f and stores a new product under a generated ID.
func (s *Service) Create(ctx context.Context, f domprod.Fields) (domprod.Product, error) {
	p, err := domprod.New(s.newID(), f, s.now())
	if err != nil {
		return domprod.Product{}, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return domprod.Product{}, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

// Get retrieves a product by ID.
func (s *Service) Get(ctx context.Context, id string) (domprod.Product, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return domprod.Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Update applies a partial update and returns the stored result.
func (s *Service) Update(ctx context.Context, id string, pt patch.Patch) (domprod.Product, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return domprod.Product{}, fmt.Errorf("get product: %w", err)
	}

	updated, err := current.Apply(pt, s.now())
	if err != nil {
		return domprod.Product{}, err
	}

	if err := s.repo.Update(ctx, updated); err != nil {
		return domprod.Product{}, fmt.Errorf("update product: %w", err)
	}
	return updated, nil
}

// Delete removes a product.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// Upsert stores f under id, creating the product when it does not exist and
// replacing its fields otherwise. The creation time of an existing product is
// kept. An empty id behaves like Create. Returns true if the product was created.
func (s *Service) Upsert(ctx context.Context, id string, f domprod.Fields) (domprod.Product, bool, error) {
	if id == "" {
		p, err := s.Create(ctx, f)
		return p, err == nil, err
	}

	now := s.now()
	p, err := domprod.New(id, f, now)
	if err != nil {
		return domprod.Product{}, false, err
	}

	current, err := s.repo.Get(ctx, id)
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		if err := s.repo.Create(ctx, p); err != nil {
			return domprod.Product{}, false, fmt.Errorf("create product: %w", err)
		}
		return p, true, nil
	case err != nil:
		return domprod.Product{}, false, fmt.Errorf("get product: %w", err)
	}

	p = p.WithTimestamps(current.CreatedAt(), p.UpdatedAt())
	if err := s.repo.Update(ctx, p); err != nil {
		return domprod.Product{}, false, fmt.Errorf("update product: %w", err)
	}
	return p, false, nil
}
