package iproductrepo

import (
	"context"

	"github.com/google/uuid"

	"github.com/freshfold/orderdesk/internal/service/models/product"
)

// IProductRepository is the persistence contract for catalog products.
type IProductRepository interface {
	Insert(ctx context.Context, p product.Product) (product.Product, error)
	Update(ctx context.Context, p product.Product) (product.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (product.Product, error)
	// GetByIDs returns the products that exist; absent ids are simply missing
	// from the map, callers decide whether that is an error.
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]product.Product, error)
	List(ctx context.Context) ([]product.Product, error)
}
