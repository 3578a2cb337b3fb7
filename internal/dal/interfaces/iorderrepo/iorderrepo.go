package iorderrepo

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/freshfold/orderdesk/internal/service/models/order"
)

// IOrderRepository is the persistence contract for orders and their lines.
type IOrderRepository interface {
	Insert(ctx context.Context, o order.Order) (order.Order, error)
	Update(ctx context.Context, o order.Order) (order.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (order.Order, error)
	Query(ctx context.Context, filter *order.Query) ([]order.Order, error)
	Count(ctx context.Context, filter *order.Query) (int64, error)
	Totals(ctx context.Context) (count int64, revenue decimal.Decimal, err error)
}
