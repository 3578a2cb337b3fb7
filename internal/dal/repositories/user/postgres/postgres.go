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

	"github.com/freshfold/orderdesk/internal/service/models/actor"
	"github.com/freshfold/orderdesk/internal/service/models/apperr"
	"github.com/freshfold/orderdesk/internal/service/models/user"
)

// UserDal represents the user data access layer model.
type UserDal struct {
	Id           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
}

// ToModel converts UserDal to the service layer User model.
func (u *UserDal) ToModel() (user.User, error) {
	role, ok := actor.ParseRole(u.Role)
	if !ok {
		return user.User{}, fmt.Errorf("invalid role %q for user %s", u.Role, u.Id)
	}

	return user.User{
		ID:           u.Id,
		Email:        u.Email,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         role,
		CreatedAt:    u.CreatedAt,
	}, nil
}

type PostgresUserRepository struct {
	conn sqlx.ExtContext
}

func NewPostgresUserRepository(conn sqlx.ExtContext) *PostgresUserRepository {
	return &PostgresUserRepository{
		conn: conn,
	}
}

// Insert persists a new account. Unique indexes on lower(email) and
// lower(username) surface duplicates as conflicts.
func (r *PostgresUserRepository) Insert(ctx context.Context, u user.User) (user.User, error) {
	query, args, err := sq.Insert("users").
		Columns("id", "email", "username", "password_hash", "role", "created_at").
		Values(u.ID, u.Email, u.Username, u.PasswordHash, string(u.Role), u.CreatedAt).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return user.User{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return user.User{}, apperr.Conflictf("email or username already taken")
		}

		return user.User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	return u, nil
}

// Delete removes an account. An account that still owns orders is protected
// by the orders foreign key and surfaces as a conflict.
func (r *PostgresUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.conn.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperr.Conflictf("user still has orders")
		}

		return fmt.Errorf("failed to delete user: %w", err)
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

// GetByID retrieves a single account.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	var dal UserDal
	err := sqlx.GetContext(ctx, r.conn, &dal, `
		SELECT id, email, username, password_hash, role, created_at
		FROM users
		WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, apperr.ErrNotFound
		}

		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	return dal.ToModel()
}

// GetByUsername retrieves an account by username, case-insensitively.
func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (user.User, error) {
	var dal UserDal
	err := sqlx.GetContext(ctx, r.conn, &dal, `
		SELECT id, email, username, password_hash, role, created_at
		FROM users
		WHERE lower(username) = lower($1)
	`, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, apperr.ErrNotFound
		}

		return user.User{}, fmt.Errorf("failed to get user by username: %w", err)
	}

	return dal.ToModel()
}

// List returns all accounts, newest first.
func (r *PostgresUserRepository) List(ctx context.Context) ([]user.User, error) {
	var dals []UserDal
	err := sqlx.SelectContext(ctx, r.conn, &dals, `
		SELECT id, email, username, password_hash, role, created_at
		FROM users
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	result := make([]user.User, 0, len(dals))
	for i := range dals {
		model, err := dals[i].ToModel()
		if err != nil {
			return nil, err
		}
		result = append(result, model)
	}

	return result, nil
}

// Count returns the number of registered accounts.
func (r *PostgresUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := sqlx.GetContext(ctx, r.conn, &count, "SELECT COUNT(*) FROM users"); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
