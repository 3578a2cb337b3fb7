package postgresrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/freshfold/orderdesk/internal/service/models/apperr"
	"github.com/freshfold/orderdesk/internal/service/models/order"
)

// OrderDal represents the order data access layer model.
type OrderDal struct {
	Id             uuid.UUID       `db:"id"`
	Name           sql.NullString  `db:"name"`
	OrderNumber    string          `db:"order_number"`
	UserId         uuid.UUID       `db:"user_id"`
	CreatedBy      string          `db:"created_by"`
	Total          decimal.Decimal `db:"total"`
	CreatedAt      time.Time       `db:"created_at"`
	LastModifiedBy sql.NullString  `db:"last_modified_by"`
	LastModifiedAt sql.NullTime    `db:"last_modified_at"`
}

// ToModel converts OrderDal to the service layer Order model.
func (o *OrderDal) ToModel() order.Order {
	m := order.Order{
		ID:          o.Id,
		Name:        o.Name.String,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserId,
		CreatedBy:   o.CreatedBy,
		Total:       o.Total,
		CreatedAt:   o.CreatedAt,
		Lines:       []order.Line{},
	}
	if o.LastModifiedBy.Valid {
		m.LastModifiedBy = o.LastModifiedBy.String
	}
	if o.LastModifiedAt.Valid {
		t := o.LastModifiedAt.Time
		m.LastModifiedAt = &t
	}

	return m
}

// OrderDalFromModel converts the service layer Order model to OrderDal.
func OrderDalFromModel(o *order.Order) *OrderDal {
	dal := &OrderDal{
		Id:          o.ID,
		OrderNumber: o.OrderNumber,
		UserId:      o.UserID,
		CreatedBy:   o.CreatedBy,
		Total:       o.Total,
		CreatedAt:   o.CreatedAt,
	}
	if o.Name != "" {
		dal.Name = sql.NullString{String: o.Name, Valid: true}
	}
	if o.LastModifiedBy != "" {
		dal.LastModifiedBy = sql.NullString{String: o.LastModifiedBy, Valid: true}
	}
	if o.LastModifiedAt != nil {
		dal.LastModifiedAt = sql.NullTime{Time: *o.LastModifiedAt, Valid: true}
	}

	return dal
}

// OrderLineDal represents one order line row. Position keeps insertion order
// for display.
type OrderLineDal struct {
	OrderId   uuid.UUID       `db:"order_id"`
	ProductId uuid.UUID       `db:"product_id"`
	Name      string          `db:"name"`
	Price     decimal.Decimal `db:"price"`
	Quantity  int             `db:"quantity"`
	Position  int             `db:"position"`
}

type PostgresOrderRepository struct {
	conn sqlx.ExtContext
}

func NewPostgresOrderRepository(conn sqlx.ExtContext) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
	}
}

// Insert persists a new order together with its lines.
func (r *PostgresOrderRepository) Insert(ctx context.Context, o order.Order) (order.Order, error) {
	dal := OrderDalFromModel(&o)

	query, args, err := sq.Insert("orders").
		Columns(
			"id",
			"name",
			"order_number",
			"user_id",
			"created_by",
			"total",
			"created_at",
		).
		Values(
			dal.Id,
			dal.Name,
			dal.OrderNumber,
			dal.UserId,
			dal.CreatedBy,
			dal.Total,
			dal.CreatedAt,
		).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return order.Order{}, apperr.Conflictf("order number %s already exists", o.OrderNumber)
		}

		return order.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	if err := r.insertLines(ctx, o.ID, o.Lines); err != nil {
		return order.Order{}, err
	}

	return o, nil
}

// Update replaces the order row and its full line set.
func (r *PostgresOrderRepository) Update(ctx context.Context, o order.Order) (order.Order, error) {
	dal := OrderDalFromModel(&o)

	query, args, err := sq.Update("orders").
		Set("name", dal.Name).
		Set("total", dal.Total).
		Set("last_modified_by", dal.LastModifiedBy).
		Set("last_modified_at", dal.LastModifiedAt).
		Where(sq.Eq{"id": dal.Id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build update query: %w", err)
	}

	res, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to update order: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return order.Order{}, apperr.ErrNotFound
	}

	if _, err := r.conn.ExecContext(ctx, "DELETE FROM order_lines WHERE order_id = $1", o.ID); err != nil {
		return order.Order{}, fmt.Errorf("failed to delete order lines: %w", err)
	}

	if err := r.insertLines(ctx, o.ID, o.Lines); err != nil {
		return order.Order{}, err
	}

	return o, nil
}

// Delete removes an order; lines go with it via ON DELETE CASCADE.
func (r *PostgresOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.conn.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperr.ErrNotFound
	}

	return nil
}

// GetByID retrieves a single order with its lines.
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (order.Order, error) {
	var dal OrderDal
	err := sqlx.GetContext(ctx, r.conn, &dal, `
		SELECT id, name, order_number, user_id, created_by, total, created_at,
			last_modified_by, last_modified_at
		FROM orders
		WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return order.Order{}, apperr.ErrNotFound
		}

		return order.Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	model := dal.ToModel()

	lines, err := r.queryLines(ctx, []uuid.UUID{id})
	if err != nil {
		return order.Order{}, err
	}
	model.Lines = lines[id]
	if model.Lines == nil {
		model.Lines = []order.Line{}
	}

	return model, nil
}

// Query retrieves orders based on filter criteria, newest first.
func (r *PostgresOrderRepository) Query(ctx context.Context, filter *order.Query) ([]order.Order, error) {
	builder := applyFilter(
		sq.Select(
			"id",
			"name",
			"order_number",
			"user_id",
			"created_by",
			"total",
			"created_at",
			"last_modified_by",
			"last_modified_at",
		).From("orders"),
		filter,
	).OrderBy("created_at DESC")

	if filter.PageSize > 0 {
		builder = builder.Limit(uint64(filter.PageSize)).Offset(uint64(filter.Offset()))
	}

	query, args, err := builder.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var dals []OrderDal
	if err := sqlx.SelectContext(ctx, r.conn, &dals, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	if len(dals) == 0 {
		return []order.Order{}, nil
	}

	ids := make([]uuid.UUID, len(dals))
	for i, dal := range dals {
		ids[i] = dal.Id
	}

	lines, err := r.queryLines(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]order.Order, 0, len(dals))
	for i := range dals {
		model := dals[i].ToModel()
		if l, ok := lines[model.ID]; ok {
			model.Lines = l
		}
		result = append(result, model)
	}

	return result, nil
}

// Count returns how many orders match the filter, ignoring pagination.
func (r *PostgresOrderRepository) Count(ctx context.Context, filter *order.Query) (int64, error) {
	query, args, err := applyFilter(sq.Select("COUNT(*)").From("orders"), filter).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int64
	if err := sqlx.GetContext(ctx, r.conn, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}

	return count, nil
}

// Totals returns the order count and the exact revenue sum over all orders.
func (r *PostgresOrderRepository) Totals(ctx context.Context) (int64, decimal.Decimal, error) {
	row := r.conn.QueryRowxContext(ctx, "SELECT COUNT(*), COALESCE(SUM(total), 0) FROM orders")

	var count int64
	var revenue decimal.Decimal
	if err := row.Scan(&count, &revenue); err != nil {
		return 0, decimal.Zero, fmt.Errorf("failed to aggregate orders: %w", err)
	}

	return count, revenue, nil
}

// insertLines bulk-inserts the order's lines through unnest.
func (r *PostgresOrderRepository) insertLines(ctx context.Context, orderID uuid.UUID, lines []order.Line) error {
	if len(lines) == 0 {
		return nil
	}

	productIds := make([]uuid.UUID, len(lines))
	names := make([]string, len(lines))
	prices := make([]string, len(lines))
	quantities := make([]int64, len(lines))
	positions := make([]int64, len(lines))

	for i, l := range lines {
		productIds[i] = l.ProductID
		names[i] = l.Name
		prices[i] = l.Price.String()
		quantities[i] = int64(l.Quantity)
		positions[i] = int64(i)
	}

	query := `
		INSERT INTO order_lines (order_id, product_id, name, price, quantity, position)
		SELECT $1, product_id, name, price, quantity, position
		FROM unnest($2::uuid[], $3::text[], $4::numeric[], $5::int[], $6::int[])
		AS t(product_id, name, price, quantity, position)
	`

	_, err := r.conn.ExecContext(ctx, query,
		orderID,
		pq.Array(productIds),
		pq.Array(names),
		pq.Array(prices),
		pq.Array(quantities),
		pq.Array(positions))
	if err != nil {
		return fmt.Errorf("failed to bulk insert order lines: %w", err)
	}

	return nil
}

// queryLines loads lines for the given orders, keyed by order id and sorted
// by insertion position.
func (r *PostgresOrderRepository) queryLines(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]order.Line, error) {
	var dals []OrderLineDal
	err := sqlx.SelectContext(ctx, r.conn, &dals, `
		SELECT order_id, product_id, name, price, quantity, position
		FROM order_lines
		WHERE order_id = ANY($1)
		ORDER BY order_id, position
	`, pq.Array(orderIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}

	result := make(map[uuid.UUID][]order.Line, len(orderIDs))
	for _, dal := range dals {
		result[dal.OrderId] = append(result[dal.OrderId], order.Line{
			ProductID: dal.ProductId,
			Name:      dal.Name,
			Price:     dal.Price,
			Quantity:  dal.Quantity,
		})
	}

	return result, nil
}

// applyFilter adds the owner and creation-date conditions shared by Query and
// Count, so both always agree on the matching set.
func applyFilter(builder sq.SelectBuilder, filter *order.Query) sq.SelectBuilder {
	if filter.UserID != nil {
		builder = builder.Where(sq.Eq{"user_id": *filter.UserID})
	}
	if filter.StartDate != nil {
		builder = builder.Where(sq.GtOrEq{"created_at": *filter.StartDate})
	}
	if filter.EndDate != nil {
		builder = builder.Where(sq.LtOrEq{"created_at": *filter.EndDate})
	}

	return builder
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
