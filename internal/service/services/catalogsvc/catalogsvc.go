package catalogsvc

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/freshfold/orderdesk/internal/dal/interfaces/iproductrepo"
	"github.com/freshfold/orderdesk/internal/service/models/actor"
	"github.com/freshfold/orderdesk/internal/service/models/apperr"
	"github.com/freshfold/orderdesk/internal/service/models/product"
)

// CatalogService exposes the product directory. Reads are open to every
// authenticated user; mutations are admin only.
type CatalogService struct {
	productRepo iproductrepo.IProductRepository
}

type option func(*CatalogService)

// MustNewCatalogService creates a new CatalogService.
func MustNewCatalogService(opts ...option) *CatalogService {
	s := &CatalogService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.productRepo == nil {
		panic("catalogsvc: no product repository configured")
	}

	return s
}

// WithProductRepository sets the product repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithProductRepository(repo iproductrepo.IProductRepository) option {
	return func(s *CatalogService) {
		s.productRepo = repo
	}
}

// List returns the catalog sorted by category then name.
func (s *CatalogService) List(ctx context.Context) ([]product.Product, error) {
	return s.productRepo.List(ctx)
}

// Create adds a product to the catalog.
func (s *CatalogService) Create(ctx context.Context, act actor.Actor, p product.Product) (product.Product, error) {
	if !act.IsAdmin() {
		return product.Product{}, apperr.ErrForbidden
	}

	p.Name = strings.TrimSpace(p.Name)
	p.NameEs = strings.TrimSpace(p.NameEs)
	p.Category = strings.TrimSpace(p.Category)
	if err := p.Validate(); err != nil {
		return product.Product{}, err
	}

	p.ID = uuid.New()
	p.CreatedAt = time.Now()

	return s.productRepo.Insert(ctx, p)
}

// Update replaces a product's fields. Orders that already reference the
// product keep their snapshotted name and price.
func (s *CatalogService) Update(ctx context.Context, act actor.Actor, id uuid.UUID, p product.Product) (product.Product, error) {
	if !act.IsAdmin() {
		return product.Product{}, apperr.ErrForbidden
	}

	p.Name = strings.TrimSpace(p.Name)
	p.NameEs = strings.TrimSpace(p.NameEs)
	p.Category = strings.TrimSpace(p.Category)
	if err := p.Validate(); err != nil {
		return product.Product{}, err
	}

	p.ID = id

	return s.productRepo.Update(ctx, p)
}

// Delete removes a product from the catalog.
func (s *CatalogService) Delete(ctx context.Context, act actor.Actor, id uuid.UUID) error {
	if !act.IsAdmin() {
		return apperr.ErrForbidden
	}

	return s.productRepo.Delete(ctx, id)
}
