package postgresrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/freshfold/orderdesk/internal/service/models/apperr"
	"github.com/freshfold/orderdesk/internal/service/models/product"
)

// ProductDal represents the product data access layer model.
type ProductDal struct {
	Id        uuid.UUID       `db:"id"`
	Name      string          `db:"name"`
	NameEs    string          `db:"name_es"`
	Price     decimal.Decimal `db:"price"`
	Category  string          `db:"category"`
	CreatedAt time.Time       `db:"created_at"`
}

// ToModel converts ProductDal to the service layer Product model.
func (p *ProductDal) ToModel() product.Product {
	return product.Product{
		ID:        p.Id,
		Name:      p.Name,
		NameEs:    p.NameEs,
		Price:     p.Price,
		Category:  p.Category,
		CreatedAt: p.CreatedAt,
	}
}

type PostgresProductRepository struct {
	conn sqlx.ExtContext
}

func NewPostgresProductRepository(conn sqlx.ExtContext) *PostgresProductRepository {
	return &PostgresProductRepository{
		conn: conn,
	}
}

// Insert persists a new catalog product.
func (r *PostgresProductRepository) Insert(ctx context.Context, p product.Product) (product.Product, error) {
	query, args, err := sq.Insert("products").
		Columns("id", "name", "name_es", "price", "category", "created_at").
		Values(p.ID, p.Name, p.NameEs, p.Price, p.Category, p.CreatedAt).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return product.Product{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return product.Product{}, fmt.Errorf("failed to insert product: %w", err)
	}

	return p, nil
}

// Update replaces the mutable product fields.
func (r *PostgresProductRepository) Update(ctx context.Context, p product.Product) (product.Product, error) {
	query, args, err := sq.Update("products").
		Set("name", p.Name).
		Set("name_es", p.NameEs).
		Set("price", p.Price).
		Set("category", p.Category).
		Where(sq.Eq{"id": p.ID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return product.Product{}, fmt.Errorf("failed to build update query: %w", err)
	}

	res, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return product.Product{}, fmt.Errorf("failed to update product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return product.Product{}, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return product.Product{}, apperr.ErrNotFound
	}

	return p, nil
}

// Delete removes a product from the catalog. Existing order lines keep their
// snapshot, so nothing cascades.
func (r *PostgresProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.conn.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
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

// GetByID retrieves a single product.
func (r *PostgresProductRepository) GetByID(ctx context.Context, id uuid.UUID) (product.Product, error) {
	var dal ProductDal
	err := sqlx.GetContext(ctx, r.conn, &dal, `
		SELECT id, name, name_es, price, category, created_at
		FROM products
		WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return product.Product{}, apperr.ErrNotFound
		}

		return product.Product{}, fmt.Errorf("failed to get product: %w", err)
	}

	return dal.ToModel(), nil
}

// GetByIDs returns the products that exist among the given ids.
func (r *PostgresProductRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]product.Product, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]product.Product{}, nil
	}

	var dals []ProductDal
	err := sqlx.SelectContext(ctx, r.conn, &dals, `
		SELECT id, name, name_es, price, category, created_at
		FROM products
		WHERE id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	result := make(map[uuid.UUID]product.Product, len(dals))
	for i := range dals {
		result[dals[i].Id] = dals[i].ToModel()
	}

	return result, nil
}

// List returns the whole catalog sorted by category then name.
func (r *PostgresProductRepository) List(ctx context.Context) ([]product.Product, error) {
	var dals []ProductDal
	err := sqlx.SelectContext(ctx, r.conn, &dals, `
		SELECT id, name, name_es, price, category, created_at
		FROM products
		ORDER BY category, name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	result := make([]product.Product, 0, len(dals))
	for i := range dals {
		result = append(result, dals[i].ToModel())
	}

	return result, nil
}
