package postgres

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/spf13/viper"
)

// Client represents a Postgres client.
type Client struct {
	pool *pgxpool.Pool
	db   *sqlx.DB
}

// DB returns the sqlx handle over the pgx pool.
func (c *Client) DB() *sqlx.DB {
	return c.db
}

// Pool returns the underlying connection pool.
func (c *Client) Pool() *pgxpool.Pool {
	return c.pool
}

// Close closes the database connection for graceful shutdown.
func (c *Client) Close() error {
	err := c.db.Close()
	c.pool.Close()

	return err
}

// MustNewClient creates a new Postgres client and runs pending migrations.
func MustNewClient() *Client {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		os.Getenv("ORDERDESK_PG_HOST"),
		os.Getenv("ORDERDESK_PG_PORT"),
		os.Getenv("ORDERDESK_PG_USER"),
		os.Getenv("ORDERDESK_PG_PASSWORD"),
		os.Getenv("ORDERDESK_PG_DB"),
	)

	config, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		panic(err)
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		panic(err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		panic(err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		panic(err)
	}

	db := stdlib.OpenDBFromPool(pool)
	if err := goose.Up(db, viper.GetString("postgres.migrations_path")); err != nil {
		panic(err)
	}

	return &Client{
		pool: pool,
		db:   sqlx.NewDb(db, "pgx"),
	}
}
