package products

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/freshfold/orderdesk/internal/service/models/actor"
	"github.com/freshfold/orderdesk/internal/service/models/apperr"
	"github.com/freshfold/orderdesk/internal/service/models/product"
	"github.com/freshfold/orderdesk/internal/transport/http/converters"
	"github.com/freshfold/orderdesk/internal/transport/http/middleware/auth"
	"github.com/freshfold/orderdesk/internal/transport/http/respond"
)

// service is an interface for the service layer.
type service interface {
	List(ctx context.Context) ([]product.Product, error)
	Create(ctx context.Context, act actor.Actor, p product.Product) (product.Product, error)
	Update(ctx context.Context, act actor.Actor, id uuid.UUID, p product.Product) (product.Product, error)
	Delete(ctx context.Context, act actor.Actor, id uuid.UUID) error
}

// request carries the admin-supplied product fields. Price arrives as a
// string to keep it exact.
type request struct {
	Name     string `json:"name"`
	NameEs   string `json:"nameEs"`
	Price    string `json:"price"`
	Category string `json:"category"`
}

func (req request) toModel() (product.Product, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return product.Product{}, apperr.Validationf("invalid price %q", req.Price)
	}

	return product.Product{
		Name:     req.Name,
		NameEs:   req.NameEs,
		Price:    price,
		Category: req.Category,
	}, nil
}

// List returns the whole catalog.
func List(w http.ResponseWriter, r *http.Request, svc service) {
	if _, ok := auth.MustActor(w, r); !ok {
		return
	}

	products, err := svc.List(r.Context())
	if err != nil {
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, converters.ProductsToResponse(products))
}

// Create adds a catalog product.
func Create(w http.ResponseWriter, r *http.Request, svc service) {
	act, ok := auth.MustActor(w, r)
	if !ok {
		return
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperr.Validationf("invalid request body"))

		return
	}

	p, err := req.toModel()
	if err != nil {
		respond.Error(w, err)

		return
	}

	created, err := svc.Create(r.Context(), act, p)
	if err != nil {
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusCreated, converters.ProductToResponse(created))
}

// Update replaces a catalog product's fields.
func Update(w http.ResponseWriter, r *http.Request, svc service) {
	act, ok := auth.MustActor(w, r)
	if !ok {
		return
	}

	id, err := productID(r)
	if err != nil {
		respond.Error(w, err)

		return
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperr.Validationf("invalid request body"))

		return
	}

	p, err := req.toModel()
	if err != nil {
		respond.Error(w, err)

		return
	}

	updated, err := svc.Update(r.Context(), act, id, p)
	if err != nil {
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, converters.ProductToResponse(updated))
}

// Delete removes a catalog product.
func Delete(w http.ResponseWriter, r *http.Request, svc service) {
	act, ok := auth.MustActor(w, r)
	if !ok {
		return
	}

	id, err := productID(r)
	if err != nil {
		respond.Error(w, err)

		return
	}

	if err := svc.Delete(r.Context(), act, id); err != nil {
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"message": "product deleted successfully"})
}

func productID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apperr.Validationf("invalid product id")
	}

	return id, nil
}
