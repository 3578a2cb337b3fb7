package orders

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/freshfold/orderdesk/internal/service/models/actor"
	"github.com/freshfold/orderdesk/internal/service/models/apperr"
	"github.com/freshfold/orderdesk/internal/service/models/export"
	"github.com/freshfold/orderdesk/internal/service/models/order"
	"github.com/freshfold/orderdesk/internal/service/services/ordersvc"
	"github.com/freshfold/orderdesk/internal/transport/http/converters"
	"github.com/freshfold/orderdesk/internal/transport/http/middleware/auth"
	"github.com/freshfold/orderdesk/internal/transport/http/respond"
)

// service is an interface for the service layer.
type service interface {
	Create(ctx context.Context, act actor.Actor, req ordersvc.CreateRequest) (order.Order, error)
	Get(ctx context.Context, act actor.Actor, id uuid.UUID) (order.Order, error)
	List(ctx context.Context, act actor.Actor, query order.Query) (order.PageResult, error)
	Update(ctx context.Context, act actor.Actor, id uuid.UUID, req ordersvc.UpdateRequest) (order.Order, error)
	Delete(ctx context.Context, act actor.Actor, id uuid.UUID) error
	Export(ctx context.Context, act actor.Actor, id uuid.UUID) (export.Document, error)
}

// Create handles order assembly requests.
func Create(w http.ResponseWriter, r *http.Request, svc service) {
	act, ok := auth.MustActor(w, r)
	if !ok {
		return
	}

	var req ordersvc.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperr.Validationf("invalid request body"))

		return
	}

	o, err := svc.Create(r.Context(), act, req)
	if err != nil {
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusCreated, converters.OrderToResponse(o))
}

// List handles paginated order listings with optional owner and date filters.
func List(w http.ResponseWriter, r *http.Request, svc service) {
	act, ok := auth.MustActor(w, r)
	if !ok {
		return
	}

	query, err := parseListQuery(r)
	if err != nil {
		respond.Error(w, err)

		return
	}

	page, err := svc.List(r.Context(), act, query)
	if err != nil {
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, converters.PageToResponse(page))
}

// Get handles single order reads.
func Get(w http.ResponseWriter, r *http.Request, svc service) {
	act, ok := auth.MustActor(w, r)
	if !ok {
		return
	}

	id, err := orderID(r)
	if err != nil {
		respond.Error(w, err)

		return
	}

	o, err := svc.Get(r.Context(), act, id)
	if err != nil {
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, converters.OrderToResponse(o))
}

// Update handles full line-set replacement updates.
func Update(w http.ResponseWriter, r *http.Request, svc service) {
	act, ok := auth.MustActor(w, r)
	if !ok {
		return
	}

	id, err := orderID(r)
	if err != nil {
		respond.Error(w, err)

		return
	}

	var req ordersvc.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperr.Validationf("invalid request body"))

		return
	}

	o, err := svc.Update(r.Context(), act, id, req)
	if err != nil {
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, converters.OrderToResponse(o))
}

// Delete handles order removal.
func Delete(w http.ResponseWriter, r *http.Request, svc service) {
	act, ok := auth.MustActor(w, r)
	if !ok {
		return
	}

	id, err := orderID(r)
	if err != nil {
		respond.Error(w, err)

		return
	}

	if err := svc.Delete(r.Context(), act, id); err != nil {
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"message": "order deleted successfully"})
}

// Export streams the order as a CSV document, lines grouped by category.
func Export(w http.ResponseWriter, r *http.Request, svc service) {
	act, ok := auth.MustActor(w, r)
	if !ok {
		return
	}

	id, err := orderID(r)
	if err != nil {
		respond.Error(w, err)

		return
	}

	doc, err := svc.Export(r.Context(), act, id)
	if err != nil {
		respond.Error(w, err)

		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=order-%s.csv", doc.OrderNumber))

	writer := csv.NewWriter(w)
	if err := writer.WriteAll(converters.ExportToRows(doc)); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}

func orderID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apperr.Validationf("invalid order id")
	}

	return id, nil
}

func parseListQuery(r *http.Request) (order.Query, error) {
	values := r.URL.Query()
	query := order.Query{}

	if s := values.Get("page"); s != "" {
		if page, err := strconv.Atoi(s); err == nil {
			query.Page = page
		}
	}
	if s := values.Get("limit"); s != "" {
		if limit, err := strconv.Atoi(s); err == nil {
			query.PageSize = limit
		}
	}
	if s := values.Get("userId"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return order.Query{}, apperr.Validationf("invalid userId filter")
		}
		query.UserID = &id
	}
	if s := values.Get("startDate"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			return order.Query{}, apperr.Validationf("invalid startDate filter")
		}
		query.StartDate = &t
	}
	if s := values.Get("endDate"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			return order.Query{}, apperr.Validationf("invalid endDate filter")
		}
		query.EndDate = &t
	}

	return query, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	return time.Parse("2006-01-02", s)
}
