package uow

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/freshfold/orderdesk/internal/dal/interfaces/iorderrepo"
	"github.com/freshfold/orderdesk/internal/dal/interfaces/ioutboxrepo"
	"github.com/freshfold/orderdesk/internal/dal/interfaces/iproductrepo"
	"github.com/freshfold/orderdesk/internal/dal/postgres"
	orderrepo "github.com/freshfold/orderdesk/internal/dal/repositories/order/postgres"
	outboxrepo "github.com/freshfold/orderdesk/internal/dal/repositories/outbox/postgres"
	productrepo "github.com/freshfold/orderdesk/internal/dal/repositories/product/postgres"
)

// unitOfWork scopes the order, product and outbox repositories to one
// transaction so an order mutation and its event land atomically.
type unitOfWork struct {
	db          *sqlx.DB
	tx          *sqlx.Tx
	orderRepo   iorderrepo.IOrderRepository
	productRepo iproductrepo.IProductRepository
	outboxRepo  ioutboxrepo.IOutboxRepository
}

func (u *unitOfWork) OrderRepository() iorderrepo.IOrderRepository {
	return u.orderRepo
}

func (u *unitOfWork) ProductRepository() iproductrepo.IProductRepository {
	return u.productRepo
}

func (u *unitOfWork) OutboxRepository() ioutboxrepo.IOutboxRepository {
	return u.outboxRepo
}

func NewUnitOfWork(client *postgres.Client) *unitOfWork {
	return &unitOfWork{
		db:          client.DB(),
		orderRepo:   orderrepo.NewPostgresOrderRepository(client.DB()),
		productRepo: productrepo.NewPostgresProductRepository(client.DB()),
		outboxRepo:  outboxrepo.NewPostgresOutboxRepository(client.DB()),
	}
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	tx, err := u.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	u.tx = tx
	u.orderRepo = orderrepo.NewPostgresOrderRepository(tx)
	u.productRepo = productrepo.NewPostgresProductRepository(tx)
	u.outboxRepo = outboxrepo.NewPostgresOutboxRepository(tx)

	return nil
}

func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return nil
	}

	return u.tx.Commit()
}

func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	return u.tx.Rollback()
}
