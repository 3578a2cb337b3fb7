package ordersvc

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"

	"github.com/freshfold/orderdesk/internal/dal/interfaces/iorderrepo"
	"github.com/freshfold/orderdesk/internal/dal/interfaces/ioutboxrepo"
	"github.com/freshfold/orderdesk/internal/dal/interfaces/iproductrepo"
	"github.com/freshfold/orderdesk/internal/dal/postgres"
	"github.com/freshfold/orderdesk/internal/dal/uow"
	"github.com/freshfold/orderdesk/internal/policy"
	"github.com/freshfold/orderdesk/internal/service/models/actor"
	"github.com/freshfold/orderdesk/internal/service/models/apperr"
	"github.com/freshfold/orderdesk/internal/service/models/export"
	"github.com/freshfold/orderdesk/internal/service/models/order"
	"github.com/freshfold/orderdesk/internal/service/models/orderevent"
	"github.com/freshfold/orderdesk/internal/service/models/outbox"
)

// OrderService owns order assembly, repricing and the access rules around
// them. All monetary state is snapshotted from the catalog at assembly time.
type OrderService struct {
	pgClient *postgres.Client
	newUOW   func() unitOfWork
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	OrderRepository() iorderrepo.IOrderRepository
	ProductRepository() iproductrepo.IProductRepository
	OutboxRepository() ioutboxrepo.IOutboxRepository
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.newUOW == nil {
		if s.pgClient == nil {
			panic("ordersvc: no postgres client and no unit-of-work factory configured")
		}
		s.newUOW = func() unitOfWork { return uow.NewUnitOfWork(s.pgClient) }
	}

	return s
}

// WithPostgresClient sets the Postgres client for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.pgClient = pgClient
	}
}

// WithUnitOfWorkFactory overrides how units of work are created, used by
// tests to substitute fakes.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(factory func() unitOfWork) option {
	return func(s *OrderService) {
		s.newUOW = factory
	}
}

// ItemRequest is one requested (product, quantity) pair.
type ItemRequest struct {
	ProductID uuid.UUID `json:"product"`
	Quantity  int       `json:"quantity"`
}

// CreateRequest carries the data needed to assemble an order.
type CreateRequest struct {
	Name  string        `json:"name"`
	Items []ItemRequest `json:"items"`
}

// UpdateRequest is a full line-set replacement: lines absent from Items are
// dropped, every present line is re-resolved against the catalog. An empty
// Name leaves the stored name untouched.
type UpdateRequest struct {
	Name  string        `json:"name"`
	Items []ItemRequest `json:"items"`
}

// Create assembles and persists a new order for the actor. Every item is
// resolved against the catalog and its current name and price are copied into
// the line; an unresolvable product aborts the whole operation.
func (s *OrderService) Create(ctx context.Context, act actor.Actor, req CreateRequest) (order.Order, error) {
	items := dropEmpty(req.Items)
	if err := validateItems(items); err != nil {
		return order.Order{}, err
	}
	if len(items) == 0 {
		return order.Order{}, apperr.Validationf("order must contain at least one item")
	}

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return order.Order{}, err
	}
	defer func() { _ = work.Rollback() }()

	lines, err := resolveLines(ctx, work.ProductRepository(), items)
	if err != nil {
		return order.Order{}, err
	}

	now := time.Now()
	o := order.Order{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		OrderNumber: newOrderNumber(),
		UserID:      act.ID,
		CreatedBy:   act.DisplayName(),
		Lines:       lines,
		CreatedAt:   now,
	}
	o.Recompute()

	o, err = work.OrderRepository().Insert(ctx, o)
	if err != nil {
		return order.Order{}, err
	}

	if err := enqueueEvent(ctx, work.OutboxRepository(), orderevent.TypeCreated, o, act, now); err != nil {
		return order.Order{}, err
	}

	if err := work.Commit(); err != nil {
		return order.Order{}, err
	}

	return o, nil
}

// Get returns a single order if the actor may view it.
func (s *OrderService) Get(ctx context.Context, act actor.Actor, id uuid.UUID) (order.Order, error) {
	work := s.newUOW()

	o, err := work.OrderRepository().GetByID(ctx, id)
	if err != nil {
		return order.Order{}, err
	}
	if !policy.CanView(act, o) {
		return order.Order{}, apperr.ErrForbidden
	}

	return o, nil
}

// List returns one page of orders. The owner filter in the query is narrowed
// by the access policy: members only ever see their own orders.
func (s *OrderService) List(ctx context.Context, act actor.Actor, query order.Query) (order.PageResult, error) {
	query.UserID = policy.ListScope(act, query.UserID)
	query.Normalize()

	work := s.newUOW()

	total, err := work.OrderRepository().Count(ctx, &query)
	if err != nil {
		return order.PageResult{}, err
	}

	orders, err := work.OrderRepository().Query(ctx, &query)
	if err != nil {
		return order.PageResult{}, err
	}

	return order.PageResult{
		Orders:  orders,
		Total:   total,
		Page:    query.Page,
		Pages:   int(math.Ceil(float64(total) / float64(query.PageSize))),
		HasMore: int64(query.Offset()+len(orders)) < total,
	}, nil
}

// Update reprices an order: every requested line is re-resolved against the
// catalog (including previously existing ones), the total is recomputed and
// the modification audit fields are set. Lines absent from the request are
// dropped.
func (s *OrderService) Update(ctx context.Context, act actor.Actor, id uuid.UUID, req UpdateRequest) (order.Order, error) {
	items := dropEmpty(req.Items)
	if err := validateItems(items); err != nil {
		return order.Order{}, err
	}

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return order.Order{}, err
	}
	defer func() { _ = work.Rollback() }()

	o, err := work.OrderRepository().GetByID(ctx, id)
	if err != nil {
		return order.Order{}, err
	}
	if !policy.CanEdit(act, o) {
		return order.Order{}, apperr.ErrForbidden
	}

	lines, err := resolveLines(ctx, work.ProductRepository(), items)
	if err != nil {
		return order.Order{}, err
	}

	now := time.Now()
	if name := strings.TrimSpace(req.Name); name != "" {
		o.Name = name
	}
	o.Lines = lines
	o.Recompute()
	o.LastModifiedBy = act.DisplayName()
	o.LastModifiedAt = &now

	o, err = work.OrderRepository().Update(ctx, o)
	if err != nil {
		return order.Order{}, err
	}

	if err := enqueueEvent(ctx, work.OutboxRepository(), orderevent.TypeUpdated, o, act, now); err != nil {
		return order.Order{}, err
	}

	if err := work.Commit(); err != nil {
		return order.Order{}, err
	}

	return o, nil
}

// Delete removes an order permanently.
func (s *OrderService) Delete(ctx context.Context, act actor.Actor, id uuid.UUID) error {
	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return err
	}
	defer func() { _ = work.Rollback() }()

	o, err := work.OrderRepository().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanDelete(act, o) {
		return apperr.ErrForbidden
	}

	if err := work.OrderRepository().Delete(ctx, id); err != nil {
		return err
	}

	if err := enqueueEvent(ctx, work.OutboxRepository(), orderevent.TypeDeleted, o, act, time.Now()); err != nil {
		return err
	}

	return work.Commit()
}

// Export resolves an order into the renderer shape: lines grouped by product
// category in stable order. Lines whose product has since been deleted fall
// into the uncategorized group; their snapshot data is untouched.
func (s *OrderService) Export(ctx context.Context, act actor.Actor, id uuid.UUID) (export.Document, error) {
	work := s.newUOW()

	o, err := work.OrderRepository().GetByID(ctx, id)
	if err != nil {
		return export.Document{}, err
	}
	if !policy.CanExport(act, o) {
		return export.Document{}, apperr.ErrForbidden
	}

	ids := make([]uuid.UUID, 0, len(o.Lines))
	for _, line := range o.Lines {
		ids = append(ids, line.ProductID)
	}

	products, err := work.ProductRepository().GetByIDs(ctx, ids)
	if err != nil {
		return export.Document{}, err
	}

	categories := make(map[uuid.UUID]string, len(products))
	for pid, p := range products {
		categories[pid] = p.Category
	}

	return export.Build(o, categories), nil
}

// resolveLines maps requested items to order lines, snapshotting the current
// catalog name and price. Any unresolvable product fails the whole call.
func resolveLines(ctx context.Context, products iproductrepo.IProductRepository, items []ItemRequest) ([]order.Line, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	found, err := products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	lines := make([]order.Line, 0, len(items))
	for _, item := range items {
		p, ok := found[item.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", apperr.ErrProductNotFound, item.ProductID)
		}
		lines = append(lines, order.Line{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  item.Quantity,
		})
	}

	return lines, nil
}

// dropEmpty removes items requested with quantity zero or below. A zero
// quantity means "no line", not a degenerate line.
func dropEmpty(items []ItemRequest) []ItemRequest {
	kept := make([]ItemRequest, 0, len(items))
	for _, item := range items {
		if item.Quantity > 0 {
			kept = append(kept, item)
		}
	}

	return kept
}

func validateItems(items []ItemRequest) error {
	for _, item := range items {
		if item.ProductID == uuid.Nil {
			return apperr.Validationf("item product id is required")
		}
	}

	return nil
}

// newOrderNumber derives a unique token from the wall clock plus a random
// suffix, so concurrent writers cannot collide. The unique index on
// order_number backs this up.
func newOrderNumber() string {
	return fmt.Sprintf("ORD%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

func enqueueEvent(
	ctx context.Context,
	repo ioutboxrepo.IOutboxRepository,
	eventType string,
	o order.Order,
	act actor.Actor,
	at time.Time,
) error {
	payload, err := orderevent.New(eventType, o, act.DisplayName(), at).Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	maxRetries := viper.GetInt("rabbitmq.outbox.max_retries")
	if maxRetries == 0 {
		maxRetries = 5
	}

	return repo.Insert(ctx, outbox.Message{
		QueueName:    viper.GetString("rabbitmq.orders.queue"),
		ExchangeName: viper.GetString("rabbitmq.orders.exchange"),
		RoutingKey:   viper.GetString("rabbitmq.orders.routing_key"),
		Payload:      payload,
		ContentType:  "application/json",
		MaxRetries:   maxRetries,
		CreatedAt:    at,
		UpdatedAt:    at,
		NextRetryAt:  at,
	})
}
