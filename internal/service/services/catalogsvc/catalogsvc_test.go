package catalogsvc

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshfold/orderdesk/internal/service/models/actor"
	"github.com/freshfold/orderdesk/internal/service/models/apperr"
	"github.com/freshfold/orderdesk/internal/service/models/product"
)

type fakeProductRepo struct {
	products map[uuid.UUID]product.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]product.Product)}
}

func (r *fakeProductRepo) Insert(_ context.Context, p product.Product) (product.Product, error) {
	r.products[p.ID] = p
	return p, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p product.Product) (product.Product, error) {
	if _, ok := r.products[p.ID]; !ok {
		return product.Product{}, apperr.ErrNotFound
	}
	r.products[p.ID] = p
	return p, nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.products[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id uuid.UUID) (product.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return product.Product{}, apperr.ErrNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) GetByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]product.Product, error) {
	found := make(map[uuid.UUID]product.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			found[id] = p
		}
	}
	return found, nil
}

func (r *fakeProductRepo) List(_ context.Context) ([]product.Product, error) {
	list := make([]product.Product, 0, len(r.products))
	for _, p := range r.products {
		list = append(list, p)
	}
	return list, nil
}

func adminActor() actor.Actor {
	return actor.Actor{ID: uuid.New(), Role: actor.RoleAdmin}
}

func memberActor() actor.Actor {
	return actor.Actor{ID: uuid.New(), Role: actor.RoleMember}
}

func valid() product.Product {
	return product.Product{
		Name:     "Towel",
		NameEs:   "Toalla",
		Price:    decimal.RequireFromString("10.00"),
		Category: "bath",
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("member is forbidden", func(t *testing.T) {
		svc := MustNewCatalogService(WithProductRepository(newFakeProductRepo()))
		_, err := svc.Create(ctx, memberActor(), valid())
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})

	t.Run("admin creates with trimmed fields and a fresh id", func(t *testing.T) {
		repo := newFakeProductRepo()
		svc := MustNewCatalogService(WithProductRepository(repo))

		p := valid()
		p.Name = "  Towel "
		p.Category = " bath "

		created, err := svc.Create(ctx, adminActor(), p)
		require.NoError(t, err)
		assert.Equal(t, "Towel", created.Name)
		assert.Equal(t, "bath", created.Category)
		assert.NotEqual(t, uuid.Nil, created.ID)
		assert.Len(t, repo.products, 1)
	})

	t.Run("invalid products are rejected", func(t *testing.T) {
		svc := MustNewCatalogService(WithProductRepository(newFakeProductRepo()))

		cases := map[string]func(*product.Product){
			"blank name":      func(p *product.Product) { p.Name = "  " },
			"blank localized": func(p *product.Product) { p.NameEs = "" },
			"negative price":  func(p *product.Product) { p.Price = decimal.RequireFromString("-1") },
			"blank category":  func(p *product.Product) { p.Category = "" },
		}
		for name, mutate := range cases {
			t.Run(name, func(t *testing.T) {
				p := valid()
				mutate(&p)
				_, err := svc.Create(ctx, adminActor(), p)
				assert.ErrorIs(t, err, apperr.ErrValidation)
			})
		}
	})

	t.Run("zero price is allowed", func(t *testing.T) {
		svc := MustNewCatalogService(WithProductRepository(newFakeProductRepo()))
		p := valid()
		p.Price = decimal.Zero
		_, err := svc.Create(ctx, adminActor(), p)
		assert.NoError(t, err)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProductRepo()
	svc := MustNewCatalogService(WithProductRepository(repo))

	created, err := svc.Create(ctx, adminActor(), valid())
	require.NoError(t, err)

	t.Run("member is forbidden", func(t *testing.T) {
		_, err := svc.Update(ctx, memberActor(), created.ID, valid())
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})

	t.Run("admin replaces the fields in place", func(t *testing.T) {
		p := valid()
		p.Price = decimal.RequireFromString("15.00")

		updated, err := svc.Update(ctx, adminActor(), created.ID, p)
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)
		assert.True(t, decimal.RequireFromString("15.00").Equal(updated.Price))
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := svc.Update(ctx, adminActor(), uuid.New(), valid())
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProductRepo()
	svc := MustNewCatalogService(WithProductRepository(repo))

	created, err := svc.Create(ctx, adminActor(), valid())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, memberActor(), created.ID), apperr.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, adminActor(), created.ID))
	assert.Empty(t, repo.products)
}
